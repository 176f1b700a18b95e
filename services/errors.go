package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAlreadyReviewed     = errors.New("request has already been reviewed")
	ErrUnsupportedBanner   = errors.New("unsupported banner image type")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	ErrBannerStorageDisabled = errors.New("banner storage is not configured")
)
