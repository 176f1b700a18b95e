package utils

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// 10 digit mobile number, optionally with a +91 or 0 prefix
	phoneRe = regexp.MustCompile(`^(?:\+91|0)?[6-9][0-9]{9}$`)
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// IsValidPhone accepts spaces and dashes between digits.
func IsValidPhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	return phoneRe.MatchString(cleaned)
}
