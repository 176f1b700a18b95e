package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) (*Client, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tokens := session.NewMemoryStore(token)
	return New(Options{BaseURL: srv.URL}, tokens, nil), tokens
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListEvents_MapsRecordsAndFilters(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/matches", r.URL.Path)
		assert.Equal(t, "tournament", r.URL.Query().Get("match_type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{{
				"id":                   "e1",
				"title":                "Cup",
				"entry_fee":            50,
				"max_participants":     100,
				"current_participants": 40,
				"roomId":               "R1",
				"start_time":           "2026-11-01T10:00:00Z",
			}},
		})
	}, "tok")

	res := c.ListEvents(context.Background(), EventFilter{MatchType: models.MatchTypeTournament})

	require.True(t, res.Success, res.Message)
	require.Len(t, res.Data, 1)
	e := res.Data[0]
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, 50, e.EntryFee)
	assert.Equal(t, 60, e.SpotsLeft)
	assert.Equal(t, "R1", e.RoomID)
	assert.True(t, e.EndTime.Equal(time.Date(2026, 11, 1, 14, 0, 0, 0, time.UTC)))
}

func TestCall_WithoutTokenIsUnauthenticated(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}, "")

	res := c.ListEvents(context.Background(), EventFilter{})

	assert.True(t, res.Success)
	assert.Empty(t, res.Data)
}

func TestCall_BusinessErrorMessageVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Room code already used"})
	}, "tok")

	res := c.CreateEvent(context.Background(), models.BackendRecord{"title": "x"})

	assert.False(t, res.Success)
	assert.Equal(t, "Room code already used", res.Message)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.False(t, res.AuthExpired)
}

func TestCall_SuccessFalseWith200(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"success": false, "message": "nope"})
	}, "tok")

	res := c.DeleteEvent(context.Background(), "e1")

	assert.False(t, res.Success)
	assert.Equal(t, "nope", res.Message)
}

func TestCall_UnauthorizedSetsAuthExpired(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "token invalid"})
	}, "stale")

	res := c.Me(context.Background())

	assert.False(t, res.Success)
	assert.True(t, res.AuthExpired)
	assert.Equal(t, MsgSessionExpired, res.Message)
	assert.ErrorIs(t, res.Err(), ErrAuthExpired)
}

func TestAuthCalls_UnauthorizedKeepsServerMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"envelope", `{"success":false,"message":"invalid email or password"}`, "invalid email or password"},
		{"empty message", `{"success":false}`, "request failed: unauthorized"},
		{"plain text", "nope", "request failed: unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, tc.body)
			}, "previous")
			ctx := context.Background()

			login := c.Login(ctx, models.Credentials{Email: "admin@arena.gg", Password: "bad"})
			register := c.Register(ctx, models.RegisterInput{Name: "A", Email: "admin@arena.gg", Password: "bad"})

			for _, res := range []Result[models.AuthPayload]{login, register} {
				assert.False(t, res.Success)
				assert.False(t, res.AuthExpired)
				assert.Equal(t, http.StatusUnauthorized, res.Status)
				assert.Equal(t, tc.want, res.Message)
				assert.NotErrorIs(t, res.Err(), ErrAuthExpired)
			}
			tok, err := tokens.Token(ctx)
			require.NoError(t, err)
			assert.Equal(t, "previous", tok)
		})
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, New(Options{BaseURL: "http://arena.test"}, nil, nil).timeout)
	assert.Equal(t, DefaultTimeout, New(Options{BaseURL: "http://arena.test", Timeout: -time.Second}, nil, nil).timeout)
	assert.Equal(t, 3*time.Second, New(Options{BaseURL: "http://arena.test", Timeout: 3 * time.Second}, nil, nil).timeout)
}

func TestCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, nil)

	res := c.ListEvents(context.Background(), EventFilter{})

	assert.False(t, res.Success)
	assert.Equal(t, MsgTimeout, res.Message)
	assert.Zero(t, res.Status)
}

func TestCall_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(Options{BaseURL: url}, nil, nil)

	res := c.GetEvent(context.Background(), "e1")

	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Message, "network error"), res.Message)
}

func TestCall_NonJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}, "")

	res := c.ListEvents(context.Background(), EventFilter{})

	assert.False(t, res.Success)
	assert.Equal(t, "request failed: bad gateway", res.Message)
}

func TestUpdateEvent_UsesPutAndEscapesID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/matches/a%2Fb", r.URL.EscapedPath())
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "approved", body["approval_status"])
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": body})
	}, "tok")

	res := c.UpdateEvent(context.Background(), "a/b", models.BackendRecord{"approval_status": "approved"})

	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Data)
	assert.Equal(t, models.ApprovalApproved, res.Data.ApprovalStatus)
}

func TestCreateEvent_NoEchoedRecord(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, map[string]any{"success": true})
	}, "tok")

	res := c.CreateEvent(context.Background(), models.BackendRecord{"title": "x"})

	assert.True(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestEventsPath_Override(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/e1", r.URL.Path)
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL + "/", EventsPath: "matches/"}, nil, nil)

	assert.True(t, c.DeleteEvent(context.Background(), "e1").Success)
}

func TestLogin_StoresToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@arena.gg", creds.Email)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   "fresh",
			"user":    map[string]any{"id": "u1", "email": "admin@arena.gg", "role": "admin"},
		})
	}, "")

	res := c.Login(context.Background(), models.Credentials{Email: "admin@arena.gg", Password: "pw"})

	require.True(t, res.Success, res.Message)
	assert.Equal(t, models.RoleAdmin, res.Data.User.Role)
	tok, err := tokens.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)

	require.NoError(t, c.Logout(context.Background()))
	_, err = tokens.Token(context.Background())
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestAdminCalls_RequireTokenLocally(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, "")
	ctx := context.Background()

	results := []error{
		c.Credit(ctx, "u1", 100).Err(),
		c.PendingDeposits(ctx).Err(),
		c.ApproveDeposit(ctx, "d1", "ok").Err(),
		c.RejectDeposit(ctx, "d1", "no").Err(),
		c.PendingWithdrawals(ctx).Err(),
		c.ApproveWithdrawal(ctx, "w1", "paid", "tx").Err(),
		c.RejectWithdrawal(ctx, "w1", "no").Err(),
	}

	for _, err := range results {
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Equal(t, MsgPleaseLogin, err.Error())
	}
	assert.Zero(t, hits.Load())
}

func TestWallet(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/wallet/balance":
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "balance": 250})
		case "/api/wallet/credit":
			var in models.CreditInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, models.CreditInput{UserID: "u1", Amount: 100}, in)
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "new_balance": 350})
		default:
			http.NotFound(w, r)
		}
	}, "tok")
	ctx := context.Background()

	bal := c.Balance(ctx)
	require.True(t, bal.Success, bal.Message)
	assert.Equal(t, 250, bal.Data)

	credit := c.Credit(ctx, "u1", 100)
	require.True(t, credit.Success, credit.Message)
	assert.Equal(t, 350, credit.Data)
}

func TestDepositDecisions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/deposits/admin/pending":
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
				{"id": "d1", "userId": "u1", "amount": 100, "status": "pending"},
			}})
		case "/api/deposits/admin/approve/d1":
			var d models.DepositDecision
			require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
			assert.Equal(t, "verified", d.AdminNote)
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
				"id": "d1", "status": "approved", "adminNote": "verified",
			}})
		default:
			http.NotFound(w, r)
		}
	}, "tok")
	ctx := context.Background()

	pending := c.PendingDeposits(ctx)
	require.True(t, pending.Success, pending.Message)
	require.Len(t, pending.Data, 1)
	assert.Equal(t, 100, pending.Data[0].Amount)

	approved := c.ApproveDeposit(ctx, "d1", "verified")
	require.True(t, approved.Success, approved.Message)
	assert.Equal(t, models.RequestApproved, approved.Data.Status)
}

func TestWithdrawalDecisions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/withdrawals/admin/approve/w1", r.URL.Path)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "paid via upi", raw["admin_notes"])
		assert.Equal(t, "TX9", raw["transactionId"])
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"id": "w1", "status": "approved", "transactionId": "TX9",
		}})
	}, "tok")

	res := c.ApproveWithdrawal(context.Background(), "w1", "paid via upi", "TX9")

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "TX9", res.Data.TransactionID)
}

func TestUploadBanner(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/matches/e1/banner", r.URL.Path)
		file, hdr, err := r.FormFile(BannerField)
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(data))
		assert.Equal(t, "cup.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"id": "e1", "banner_url": "https://cdn/e1.png",
		}})
	}, "tok")

	res := c.UploadBanner(context.Background(), "e1", "/tmp/cup.png", "image/png", strings.NewReader("png-bytes"))

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "https://cdn/e1.png", res.Data.BannerURL)
}
