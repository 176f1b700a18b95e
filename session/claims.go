package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/arena-admin/models"
)

// Claim names shared with the backend token issuer.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimName   = "name"
)

var ErrTokenExpired = errors.New("session token has expired")

// Claims is what the console needs to know about the signed-in admin.
type Claims struct {
	UserID    string
	Role      models.UserRole
	Name      string
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect reads the claims without verifying the signature. The console
// never holds the signing key; the server verifies on every request.
func Inspect(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse session token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims type")
	}

	var c Claims
	switch id := mc[ClaimUserID].(type) {
	case string:
		c.UserID = id
	case float64:
		c.UserID = fmt.Sprintf("%.0f", id)
	}
	if role, ok := mc[ClaimRole].(string); ok {
		c.Role = models.UserRole(role)
	}
	if name, ok := mc[ClaimName].(string); ok {
		c.Name = name
	}
	if exp, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return c, nil
}

// Current returns the claims of token. An expired token
// yields ErrTokenExpired together with the claims.
func Current(token string, now time.Time) (Claims, error) {
	c, err := Inspect(token)
	if err != nil {
		return Claims{}, err
	}
	if c.Expired(now) {
		return c, ErrTokenExpired
	}
	return c, nil
}
