// Package console implements the admin workflows the CLI exposes on top of
// the gateway and the list store.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/session"
	"github.com/Dosada05/arena-admin/utils"
)

var (
	// ErrLoginRequired means the admin has to sign in (again) before continuing.
	ErrLoginRequired = errors.New("please login")
	ErrInvalidInput  = errors.New("invalid input")
)

type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) gateway.Result[models.AuthPayload]
	Register(ctx context.Context, in models.RegisterInput) gateway.Result[models.AuthPayload]
	Me(ctx context.Context) gateway.Result[*models.User]
	Logout(ctx context.Context) error
}

type Session struct {
	api    AuthAPI
	tokens session.TokenStore
	now    func() time.Time
	logger *slog.Logger
}

func NewSession(api AuthAPI, tokens session.TokenStore, logger *slog.Logger) *Session {
	return &Session{api: api, tokens: tokens, now: time.Now, logger: logger}
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: email %q is malformed", ErrInvalidInput, email)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	res := s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err := res.Err(); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", slog.String("email", email))
	return res.Data.User, nil
}

func (s *Session) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !utils.IsValidEmail(in.Email):
		return nil, fmt.Errorf("%w: email %q is malformed", ErrInvalidInput, in.Email)
	case in.Phone != "" && !utils.IsValidPhone(in.Phone):
		return nil, fmt.Errorf("%w: phone %q is malformed", ErrInvalidInput, in.Phone)
	case len(in.Password) < 6:
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}

	res := s.api.Register(ctx, in)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Data.User, nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// WhoAmI reports the signed-in admin from the stored token without a network
// call. A missing, unreadable or expired token yields ErrLoginRequired.
func (s *Session) WhoAmI(ctx context.Context) (session.Claims, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoToken) {
			s.logger.Warn("failed to read session token", slog.Any("error", err))
		}
		return session.Claims{}, fmt.Errorf("%w: %v", ErrLoginRequired, err)
	}
	claims, err := session.Current(token, s.now())
	if err != nil {
		return claims, fmt.Errorf("%w: %v", ErrLoginRequired, err)
	}
	return claims, nil
}

// Me asks the backend who the token belongs to.
func (s *Session) Me(ctx context.Context) (*models.User, error) {
	res := s.api.Me(ctx)
	if res.AuthExpired {
		return nil, fmt.Errorf("%w: %s", ErrLoginRequired, res.Message)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Data, nil
}
