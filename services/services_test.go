package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arena-admin/lifecycle"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/realtime"
	"github.com/Dosada05/arena-admin/repositories"
	"github.com/Dosada05/arena-admin/session"
	"github.com/Dosada05/arena-admin/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fakes ---

type fakeEventRepo struct {
	mu   sync.Mutex
	rows map[string]models.EventRow
}

func newFakeEventRepo(rows ...models.EventRow) *fakeEventRepo {
	r := &fakeEventRepo{rows: make(map[string]models.EventRow)}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.EventRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*models.EventRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return &row, nil
}

func (r *fakeEventRepo) List(_ context.Context, filter repositories.ListEventsFilter) ([]models.EventRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EventRow
	for _, row := range r.rows {
		if filter.MatchType != nil && row.MatchType != *filter.MatchType {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.EventRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[e.ID]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.CurrentParticipants = current.CurrentParticipants
	e.BannerKey = current.BannerKey
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id string, status models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	row.Status = status
	r.rows[id] = row
	return nil
}

func (r *fakeEventRepo) UpdateBannerKey(_ context.Context, id string, key *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	row.BannerKey = key
	r.rows[id] = row
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeEventRepo) ListForAutoStatusUpdate(_ context.Context, now time.Time) ([]models.EventRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EventRow
	for _, row := range r.rows {
		if row.ApprovalStatus != models.ApprovalApproved {
			continue
		}
		if (row.Status == models.StatusUpcoming && !row.StartTime.After(now)) ||
			(row.Status == models.StatusLive && !row.EndTime.After(now)) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeUploader struct {
	objects map[string][]byte
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type recordingNotifier struct {
	messages []realtime.Message
}

func (n *recordingNotifier) Publish(msg realtime.Message) {
	n.messages = append(n.messages, msg)
}

func newEventServiceForTest(repo *fakeEventRepo, uploader storage.FileUploader, notifier EventNotifier) *eventService {
	return NewEventService(repo, uploader, notifier, lifecycle.DefaultPolicy(), discardLogger()).(*eventService)
}

func createRecord(start time.Time) models.BackendRecord {
	return models.BackendRecord{
		"title":                "Friday Clash",
		"game":                 "bgmi",
		"entry_fee":            "20",
		"total_prize":          500,
		"max_participants":     100,
		"current_participants": 57,
		"start_time":           start.Format(time.RFC3339),
		"match_type":           "tournament",
	}
}

// --- event service ---

func TestEventService_Create(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := newEventServiceForTest(repo, nil, notifier)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	rec, err := svc.Create(context.Background(), "admin-1", createRecord(start))
	require.NoError(t, err)

	id, _ := rec["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, 0, rec["current_participants"])
	assert.Equal(t, "upcoming", rec["status"])
	assert.Equal(t, "approved", rec["approval_status"])
	assert.Equal(t, "admin-1", rec["created_by"])
	assert.Equal(t, start.Add(4*time.Hour).Format(time.RFC3339Nano), rec["end_time"])

	stored := repo.rows[id]
	assert.Equal(t, 20, stored.EntryFee)
	assert.Equal(t, 0, stored.CurrentParticipants)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, realtime.TypeEventCreated, notifier.messages[0].Type)
	assert.Equal(t, "tournament", notifier.messages[0].Topic)
}

func TestEventService_CreateMatchStartsPending(t *testing.T) {
	svc := newEventServiceForTest(newFakeEventRepo(), nil, nil)
	rec := createRecord(time.Now().Add(time.Hour))
	rec["match_type"] = "match"

	out, err := svc.Create(context.Background(), "admin-1", rec)
	require.NoError(t, err)
	assert.Equal(t, "pending", out["status"])
	assert.Equal(t, "pending", out["approval_status"])
}

func TestEventService_CreateValidation(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventServiceForTest(repo, nil, nil)
	rec := createRecord(time.Now().Add(-time.Hour))
	rec["game"] = "chess"

	_, err := svc.Create(context.Background(), "admin-1", rec)
	require.ErrorIs(t, err, ErrValidationFailed)

	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "game")
	assert.Contains(t, verr.Fields, "scheduleTime")
	assert.Empty(t, repo.rows)
}

func storedRow(id string) models.EventRow {
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	return models.EventRow{
		ID:                  id,
		Title:               "Stored",
		Game:                models.GameLudo,
		MaxParticipants:     10,
		CurrentParticipants: 6,
		StartTime:           start,
		EndTime:             start.Add(2 * time.Hour),
		Status:              models.StatusPending,
		ApprovalStatus:      models.ApprovalPending,
		MatchType:           models.MatchTypeMatch,
		CreatedBy:           "creator",
		CreatedAt:           time.Now().Add(-time.Hour),
	}
}

func TestEventService_UpdateKeepsServerOwnedFields(t *testing.T) {
	repo := newFakeEventRepo(storedRow("e1"))
	svc := newEventServiceForTest(repo, nil, nil)

	out, err := svc.Update(context.Background(), "e1", models.BackendRecord{
		"title":                "Renamed",
		"game":                 "ludo",
		"max_participants":     12,
		"current_participants": 0,
		"created_by":           "someone-else",
		"status":               "upcoming",
		"approval_status":      "approved",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", out["title"])
	assert.Equal(t, 6, out["current_participants"])
	assert.Equal(t, "creator", out["created_by"])
	assert.Equal(t, "approved", out["approval_status"])
	// schedule kept from the stored row
	assert.NotNil(t, out["start_time"])
	assert.Equal(t, models.StatusUpcoming, repo.rows["e1"].Status)
}

func TestEventService_UpdateRejectsCapacityBelowParticipants(t *testing.T) {
	repo := newFakeEventRepo(storedRow("e1"))
	svc := newEventServiceForTest(repo, nil, nil)

	_, err := svc.Update(context.Background(), "e1", models.BackendRecord{
		"title":            "Stored",
		"game":             "ludo",
		"max_participants": 3,
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 10, repo.rows["e1"].MaxParticipants)
}

func TestEventService_UpdateRejectsLiveWhilePending(t *testing.T) {
	repo := newFakeEventRepo(storedRow("e1"))
	svc := newEventServiceForTest(repo, nil, nil)

	_, err := svc.Update(context.Background(), "e1", models.BackendRecord{
		"title":            "Stored",
		"max_participants": 10,
		"status":           "live",
	})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}

func TestEventService_UpdateMissing(t *testing.T) {
	svc := newEventServiceForTest(newFakeEventRepo(), nil, nil)
	_, err := svc.Update(context.Background(), "nope", models.BackendRecord{"title": "x"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_DeleteRemovesBanner(t *testing.T) {
	row := storedRow("e1")
	key := "banners/e1/1.png"
	row.BannerKey = &key
	repo := newFakeEventRepo(row)
	uploader := newFakeUploader()
	notifier := &recordingNotifier{}
	svc := newEventServiceForTest(repo, uploader, notifier)

	require.NoError(t, svc.Delete(context.Background(), "e1"))

	assert.Empty(t, repo.rows)
	assert.Equal(t, []string{key}, uploader.deleted)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, realtime.TypeEventDeleted, notifier.messages[0].Type)

	assert.ErrorIs(t, svc.Delete(context.Background(), "e1"), ErrEventNotFound)
}

func TestEventService_UploadBanner(t *testing.T) {
	repo := newFakeEventRepo(storedRow("e1"))
	uploader := newFakeUploader()
	svc := newEventServiceForTest(repo, uploader, nil)
	svc.now = func() time.Time { return time.Unix(1790000000, 0) }

	out, err := svc.UploadBanner(context.Background(), "e1", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/banners/e1/1790000000.png", out["banner_url"])
	assert.Equal(t, []byte("png"), uploader.objects["banners/e1/1790000000.png"])
	require.NotNil(t, repo.rows["e1"].BannerKey)
}

func TestEventService_UploadBannerErrors(t *testing.T) {
	repo := newFakeEventRepo(storedRow("e1"))

	_, err := newEventServiceForTest(repo, nil, nil).UploadBanner(context.Background(), "e1", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrBannerStorageDisabled)

	svc := newEventServiceForTest(repo, newFakeUploader(), nil)
	_, err = svc.UploadBanner(context.Background(), "e1", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedBanner)

	_, err = svc.UploadBanner(context.Background(), "missing", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_AdvanceStatuses(t *testing.T) {
	now := time.Now().UTC()
	started := storedRow("started")
	started.ApprovalStatus = models.ApprovalApproved
	started.Status = models.StatusUpcoming
	started.StartTime = now.Add(-time.Minute)
	started.EndTime = now.Add(time.Hour)

	finished := storedRow("finished")
	finished.ApprovalStatus = models.ApprovalApproved
	finished.Status = models.StatusLive
	finished.StartTime = now.Add(-3 * time.Hour)
	finished.EndTime = now.Add(-time.Minute)

	waiting := storedRow("waiting")
	waiting.StartTime = now.Add(-time.Minute)

	repo := newFakeEventRepo(started, finished, waiting)
	notifier := &recordingNotifier{}
	svc := newEventServiceForTest(repo, nil, notifier)

	changed, err := svc.AdvanceStatuses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, changed)
	assert.Equal(t, models.StatusLive, repo.rows["started"].Status)
	assert.Equal(t, models.StatusCompleted, repo.rows["finished"].Status)
	assert.Equal(t, models.StatusPending, repo.rows["waiting"].Status)
	assert.Len(t, notifier.messages, 2)
}

func TestLifecycleScheduler_RunOnce(t *testing.T) {
	row := storedRow("e1")
	row.ApprovalStatus = models.ApprovalApproved
	row.Status = models.StatusUpcoming
	row.StartTime = time.Now().Add(-time.Second)
	repo := newFakeEventRepo(row)

	sched, err := NewLifecycleScheduler(newEventServiceForTest(repo, nil, nil), time.Hour, discardLogger())
	require.NoError(t, err)
	defer func() { _ = sched.Shutdown() }()

	sched.runOnce()
	assert.Equal(t, models.StatusLive, repo.rows["e1"].Status)
}

// --- auth service ---

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	reg, err := svc.Register(context.Background(), models.RegisterInput{
		Name:     "Asha",
		Email:    "Asha@Arena.gg",
		Password: "hunter22",
		Phone:    "+91 98765 43210",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Empty(t, reg.User.PasswordHash)
	assert.Equal(t, "asha@arena.gg", reg.User.Email)

	claims, err := session.Inspect(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, models.UserRole("admin"), claims.Role)
	assert.Equal(t, "Asha", claims.Name)

	login, err := svc.Login(context.Background(), models.Credentials{Email: "asha@arena.gg", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(context.Background(), models.Credentials{Email: "asha@arena.gg", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), models.Credentials{Email: "nobody@arena.gg", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.Me(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "secret", time.Hour)
	ctx := context.Background()

	cases := []struct {
		input models.RegisterInput
		want  error
	}{
		{models.RegisterInput{Email: "a@b.co", Password: "secret1"}, ErrNameRequired},
		{models.RegisterInput{Name: "A", Email: "nope", Password: "secret1"}, ErrInvalidEmail},
		{models.RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1", Phone: "12"}, ErrInvalidPhone},
		{models.RegisterInput{Name: "A", Email: "a@b.co", Password: "abc"}, ErrPasswordTooShort},
		{models.RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1", Role: "root"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.input)
		assert.ErrorIs(t, err, tc.want)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "secret", time.Hour)
	in := models.RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1"}

	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

// --- wallet service ---

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeWalletRepo struct {
	balances map[string]int
}

func (r *fakeWalletRepo) Balance(_ context.Context, userID string) (int, error) {
	return r.balances[userID], nil
}

func (r *fakeWalletRepo) Adjust(_ context.Context, _ repositories.SQLExecutor, userID string, delta int) (int, error) {
	next := r.balances[userID] + delta
	if next < 0 {
		return 0, repositories.ErrInsufficientBalance
	}
	r.balances[userID] = next
	return next, nil
}

type fakeDepositRepo struct {
	deposits map[string]*models.Deposit
}

func (r *fakeDepositRepo) Create(_ context.Context, d *models.Deposit) error {
	cp := *d
	r.deposits[d.ID] = &cp
	return nil
}

func (r *fakeDepositRepo) GetForUpdate(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Deposit, error) {
	d, ok := r.deposits[id]
	if !ok {
		return nil, repositories.ErrDepositNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDepositRepo) ListByStatus(_ context.Context, status models.RequestStatus) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, d := range r.deposits {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDepositRepo) Review(_ context.Context, _ repositories.SQLExecutor, id string, status models.RequestStatus, note string, at time.Time) error {
	d, ok := r.deposits[id]
	if !ok {
		return repositories.ErrDepositNotFound
	}
	d.Status = status
	d.AdminNote = note
	d.ReviewedAt = &at
	return nil
}

type fakeWithdrawalRepo struct {
	withdrawals map[string]*models.Withdrawal
}

func (r *fakeWithdrawalRepo) Create(_ context.Context, w *models.Withdrawal) error {
	cp := *w
	r.withdrawals[w.ID] = &cp
	return nil
}

func (r *fakeWithdrawalRepo) GetForUpdate(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Withdrawal, error) {
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, repositories.ErrWithdrawalNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWithdrawalRepo) ListByStatus(_ context.Context, status models.RequestStatus) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, w := range r.withdrawals {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) Review(_ context.Context, _ repositories.SQLExecutor, w *models.Withdrawal) error {
	if _, ok := r.withdrawals[w.ID]; !ok {
		return repositories.ErrWithdrawalNotFound
	}
	cp := *w
	r.withdrawals[w.ID] = &cp
	return nil
}

type walletFixture struct {
	svc         WalletService
	wallets     *fakeWalletRepo
	deposits    *fakeDepositRepo
	withdrawals *fakeWithdrawalRepo
}

func newWalletFixture() walletFixture {
	f := walletFixture{
		wallets:     &fakeWalletRepo{balances: map[string]int{}},
		deposits:    &fakeDepositRepo{deposits: map[string]*models.Deposit{}},
		withdrawals: &fakeWithdrawalRepo{withdrawals: map[string]*models.Withdrawal{}},
	}
	f.svc = NewWalletService(fakeTransactor{}, f.wallets, f.deposits, f.withdrawals, discardLogger())
	return f
}

func TestWalletService_Credit(t *testing.T) {
	f := newWalletFixture()

	balance, err := f.svc.Credit(context.Background(), models.CreditInput{UserID: "u1", Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, 150, balance)

	_, err = f.svc.Credit(context.Background(), models.CreditInput{UserID: "u1", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.Credit(context.Background(), models.CreditInput{Amount: 10})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWalletService_DepositApproval(t *testing.T) {
	f := newWalletFixture()
	ctx := context.Background()

	d, err := f.svc.RequestDeposit(ctx, "u1", models.DepositInput{Amount: 300, TransactionID: " UTR123 "})
	require.NoError(t, err)
	assert.Equal(t, "UTR123", d.TransactionID)

	pending, err := f.svc.PendingDeposits(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := f.svc.ApproveDeposit(ctx, d.ID, models.DepositDecision{AdminNote: "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, 300, f.wallets.balances["u1"])

	_, err = f.svc.ApproveDeposit(ctx, d.ID, models.DepositDecision{})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Equal(t, 300, f.wallets.balances["u1"])

	_, err = f.svc.RejectDeposit(ctx, "missing", models.DepositDecision{})
	assert.ErrorIs(t, err, ErrDepositNotFound)
}

func TestWalletService_DepositRejectionLeavesBalance(t *testing.T) {
	f := newWalletFixture()
	ctx := context.Background()

	d, err := f.svc.RequestDeposit(ctx, "u1", models.DepositInput{Amount: 300})
	require.NoError(t, err)
	rejected, err := f.svc.RejectDeposit(ctx, d.ID, models.DepositDecision{AdminNote: "no proof"})
	require.NoError(t, err)

	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.Equal(t, "no proof", rejected.AdminNote)
	assert.Zero(t, f.wallets.balances["u1"])
}

func TestWalletService_WithdrawalApproval(t *testing.T) {
	f := newWalletFixture()
	ctx := context.Background()
	f.wallets.balances["u1"] = 500

	_, err := f.svc.RequestWithdrawal(ctx, "u1", models.WithdrawalInput{Amount: 900})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	w, err := f.svc.RequestWithdrawal(ctx, "u1", models.WithdrawalInput{Amount: 200, Method: "upi", AccountRef: "asha@upi"})
	require.NoError(t, err)

	approved, err := f.svc.ApproveWithdrawal(ctx, w.ID, models.WithdrawalDecision{AdminNotes: "paid", TransactionID: "TX9"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.Equal(t, "TX9", approved.TransactionID)
	assert.Equal(t, 300, f.wallets.balances["u1"])
}

func TestWalletService_WithdrawalApprovalFailsWhenBalanceDropped(t *testing.T) {
	f := newWalletFixture()
	ctx := context.Background()
	f.wallets.balances["u1"] = 200

	w, err := f.svc.RequestWithdrawal(ctx, "u1", models.WithdrawalInput{Amount: 200})
	require.NoError(t, err)
	f.wallets.balances["u1"] = 50

	_, err = f.svc.ApproveWithdrawal(ctx, w.ID, models.WithdrawalDecision{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, 50, f.wallets.balances["u1"])
}
