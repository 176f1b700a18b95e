package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/repositories"
	"github.com/Dosada05/arena-admin/session"
	"github.com/Dosada05/arena-admin/utils"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.AuthPayload, error)
	Login(ctx context.Context, input models.Credentials) (*models.AuthPayload, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input models.RegisterInput) (*models.AuthPayload, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	switch {
	case input.Name == "":
		return nil, ErrNameRequired
	case !utils.IsValidEmail(input.Email):
		return nil, ErrInvalidEmail
	case input.Phone != "" && !utils.IsValidPhone(input.Phone):
		return nil, ErrInvalidPhone
	case len(input.Password) < minPasswordLength:
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RolePlayer
	}
	if role != models.RoleAdmin && role != models.RolePlayer {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         role,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if mapped := handleRepositoryError(err); errors.Is(mapped, ErrUserEmailConflict) {
			return nil, mapped
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return s.authPayload(user)
}

func (s *authService) Login(ctx context.Context, input models.Credentials) (*models.AuthPayload, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authPayload(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) authPayload(user *models.User) (*models.AuthPayload, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &models.AuthPayload{Token: token, User: user}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		session.ClaimUserID: user.ID,
		session.ClaimRole:   string(user.Role),
		session.ClaimName:   user.Name,
		"exp":               now.Add(s.tokenTTL).Unix(),
		"iat":               now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
