package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/handlers"
	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/realtime"
	"github.com/Dosada05/arena-admin/services"
	"github.com/Dosada05/arena-admin/session"
)

const testSecret = "routes-secret"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// authStub signs real tokens so the whole login round trip goes through the
// authentication middleware.
type authStub struct {
	user *models.User
}

func (a authStub) token() (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": a.user.ID,
		"role":    string(a.user.Role),
		"name":    a.user.Name,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}).SignedString([]byte(testSecret))
}

func (a authStub) Register(context.Context, models.RegisterInput) (*models.AuthPayload, error) {
	return nil, services.ErrUserEmailConflict
}

func (a authStub) Login(_ context.Context, creds models.Credentials) (*models.AuthPayload, error) {
	if creds.Password != "secret1" {
		return nil, services.ErrInvalidCredentials
	}
	tok, err := a.token()
	if err != nil {
		return nil, err
	}
	return &models.AuthPayload{Token: tok, User: a.user}, nil
}

func (a authStub) Me(_ context.Context, userID string) (*models.User, error) {
	if userID != a.user.ID {
		return nil, services.ErrUserNotFound
	}
	return a.user, nil
}

func newServer(t *testing.T, limit *middleware.IPRateLimiter) *httptest.Server {
	t.Helper()
	hub := realtime.NewHub(discard)
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := chi.NewRouter()
	SetupRoutes(router,
		Config{
			JWTSecret:   testSecret,
			CORSOrigins: []string{"*"},
			LoginLimit:  limit,
			Registry:    prometheus.NewRegistry(),
		},
		handlers.NewAuthHandler(authStub{user: &models.User{ID: "admin-1", Name: "Asha", Email: "asha@arena.gg", Role: models.RoleAdmin}}),
		// Event and wallet services are never reached in these tests.
		handlers.NewEventHandler(nil),
		handlers.NewWalletHandler(nil),
		handlers.NewWebSocketHandler(hub, []string{"*"}, discard),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `arena_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newServer(t, nil)

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/matches"},
		{http.MethodPut, "/api/matches/e-1"},
		{http.MethodDelete, "/matches/e-1"},
		{http.MethodPost, "/api/matches/e-1/banner"},
		{http.MethodGet, "/api/wallet/balance"},
		{http.MethodPost, "/api/wallet/credit"},
		{http.MethodGet, "/api/deposits/admin/pending"},
		{http.MethodPost, "/api/withdrawals/admin/approve/w-1"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader("{}"))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGatewayLoginRoundTrip(t *testing.T) {
	srv := newServer(t, nil)
	tokens := session.NewMemoryStore("")
	client := gateway.New(gateway.Options{BaseURL: srv.URL}, tokens, discard)
	ctx := context.Background()

	bad := client.Login(ctx, models.Credentials{Email: "asha@arena.gg", Password: "wrong"})
	assert.False(t, bad.Success)
	assert.False(t, bad.AuthExpired)
	assert.Equal(t, http.StatusBadRequest, bad.Status)
	assert.Equal(t, services.ErrInvalidCredentials.Error(), bad.Message)

	ok := client.Login(ctx, models.Credentials{Email: "asha@arena.gg", Password: "secret1"})
	require.True(t, ok.Success, ok.Message)

	stored, err := tokens.Token(ctx)
	require.NoError(t, err)
	claims, err := session.Current(stored, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	me := client.Me(ctx)
	require.True(t, me.Success, me.Message)
	assert.Equal(t, "asha@arena.gg", me.Data.Email)

	reg := client.Register(ctx, models.RegisterInput{Name: "B", Email: "asha@arena.gg", Password: "secret1"})
	assert.False(t, reg.Success)
	assert.Equal(t, http.StatusConflict, reg.Status)
}

func TestGatewaySeesExpiredSession(t *testing.T) {
	srv := newServer(t, nil)
	client := gateway.New(gateway.Options{BaseURL: srv.URL}, session.NewMemoryStore("not-a-jwt"), discard)

	res := client.DeleteEvent(context.Background(), "e-1")

	assert.False(t, res.Success)
	assert.True(t, res.AuthExpired)
	assert.ErrorIs(t, res.Err(), gateway.ErrAuthExpired)
}

func TestLoginIsRateLimited(t *testing.T) {
	srv := newServer(t, middleware.NewIPRateLimiter(0.001, 1))
	login := func() int {
		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
			strings.NewReader(`{"email":"asha@arena.gg","password":"wrong"}`))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}
