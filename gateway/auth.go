package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/arena-admin/models"
)

func decodeAuth(env *models.Envelope) (models.AuthPayload, error) {
	if env.Token == "" {
		return models.AuthPayload{}, errors.New("missing token")
	}
	return models.AuthPayload{Token: env.Token, User: env.User}, nil
}

// Login signs in and stores the returned token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) Result[models.AuthPayload] {
	res := call(ctx, c, request{method: http.MethodPost, path: "/api/auth/login", body: creds, credentials: true}, decodeAuth)
	return c.keepToken(ctx, res)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, in models.RegisterInput) Result[models.AuthPayload] {
	res := call(ctx, c, request{method: http.MethodPost, path: "/api/auth/register", body: in, credentials: true}, decodeAuth)
	return c.keepToken(ctx, res)
}

func (c *Client) keepToken(ctx context.Context, res Result[models.AuthPayload]) Result[models.AuthPayload] {
	if !res.Success {
		return res
	}
	if err := c.tokens.Save(ctx, res.Data.Token); err != nil {
		c.logger.Error("failed to store session token", slog.Any("error", err))
		return failed[models.AuthPayload](&Error{
			Status:  res.Status,
			Message: fmt.Sprintf("could not store session, please login again: %v", err),
		})
	}
	return res
}

func (c *Client) Me(ctx context.Context) Result[*models.User] {
	return call(ctx, c, request{method: http.MethodGet, path: "/api/auth/me"}, func(env *models.Envelope) (*models.User, error) {
		if env.User != nil {
			return env.User, nil
		}
		return dataAs[*models.User](env)
	})
}

// Logout forgets the stored token. There is no server-side session to end.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}
