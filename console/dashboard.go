package console

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/models"
)

type AdminAPI interface {
	ListEvents(ctx context.Context, filter gateway.EventFilter) gateway.Result[[]models.Event]
	Balance(ctx context.Context) gateway.Result[int]
	PendingDeposits(ctx context.Context) gateway.Result[[]models.Deposit]
	ApproveDeposit(ctx context.Context, id, adminNote string) gateway.Result[*models.Deposit]
	RejectDeposit(ctx context.Context, id, adminNote string) gateway.Result[*models.Deposit]
	PendingWithdrawals(ctx context.Context) gateway.Result[[]models.Withdrawal]
	ApproveWithdrawal(ctx context.Context, id, adminNotes, transactionID string) gateway.Result[*models.Withdrawal]
	RejectWithdrawal(ctx context.Context, id, adminNotes string) gateway.Result[*models.Withdrawal]
	Credit(ctx context.Context, userID string, amount int) gateway.Result[int]
}

// Summary is the admin home screen in numbers.
type Summary struct {
	Events                 int `json:"events"`
	PendingApprovals       int `json:"pending_approvals"`
	LiveEvents             int `json:"live_events"`
	UpcomingEvents         int `json:"upcoming_events"`
	PendingDeposits        int `json:"pending_deposits"`
	PendingDepositTotal    int `json:"pending_deposit_total"`
	PendingWithdrawals     int `json:"pending_withdrawals"`
	PendingWithdrawalTotal int `json:"pending_withdrawal_total"`
	Balance                int `json:"balance"`
}

type Admin struct {
	api    AdminAPI
	logger *slog.Logger
}

func NewAdmin(api AdminAPI, logger *slog.Logger) *Admin {
	return &Admin{api: api, logger: logger}
}

// Dashboard loads events, pending deposits, pending withdrawals and the
// wallet balance in parallel. The first failure cancels the rest.
func (a *Admin) Dashboard(ctx context.Context) (Summary, error) {
	var (
		events      []models.Event
		deposits    []models.Deposit
		withdrawals []models.Withdrawal
		balance     int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := a.api.ListEvents(ctx, gateway.EventFilter{})
		events = res.Data
		return res.Err()
	})
	g.Go(func() error {
		res := a.api.PendingDeposits(ctx)
		deposits = res.Data
		return res.Err()
	})
	g.Go(func() error {
		res := a.api.PendingWithdrawals(ctx)
		withdrawals = res.Data
		return res.Err()
	})
	g.Go(func() error {
		res := a.api.Balance(ctx)
		balance = res.Data
		return res.Err()
	})
	if err := g.Wait(); err != nil {
		a.logger.Warn("dashboard load failed", slog.Any("error", err))
		return Summary{}, err
	}

	sum := Summary{
		Events:             len(events),
		PendingDeposits:    len(deposits),
		PendingWithdrawals: len(withdrawals),
		Balance:            balance,
	}
	for _, e := range events {
		if e.ApprovalStatus == models.ApprovalPending {
			sum.PendingApprovals++
		}
		switch e.Status {
		case models.StatusLive:
			sum.LiveEvents++
		case models.StatusUpcoming:
			sum.UpcomingEvents++
		}
	}
	for _, d := range deposits {
		sum.PendingDepositTotal += d.Amount
	}
	for _, w := range withdrawals {
		sum.PendingWithdrawalTotal += w.Amount
	}
	return sum, nil
}

func (a *Admin) PendingDeposits(ctx context.Context) ([]models.Deposit, error) {
	res := a.api.PendingDeposits(ctx)
	return res.Data, res.Err()
}

func (a *Admin) ApproveDeposit(ctx context.Context, id, note string) (*models.Deposit, error) {
	res := a.api.ApproveDeposit(ctx, id, note)
	return res.Data, res.Err()
}

func (a *Admin) RejectDeposit(ctx context.Context, id, note string) (*models.Deposit, error) {
	res := a.api.RejectDeposit(ctx, id, note)
	return res.Data, res.Err()
}

func (a *Admin) PendingWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	res := a.api.PendingWithdrawals(ctx)
	return res.Data, res.Err()
}

func (a *Admin) ApproveWithdrawal(ctx context.Context, id, notes, transactionID string) (*models.Withdrawal, error) {
	res := a.api.ApproveWithdrawal(ctx, id, notes, transactionID)
	return res.Data, res.Err()
}

func (a *Admin) RejectWithdrawal(ctx context.Context, id, notes string) (*models.Withdrawal, error) {
	res := a.api.RejectWithdrawal(ctx, id, notes)
	return res.Data, res.Err()
}

func (a *Admin) Credit(ctx context.Context, userID string, amount int) (int, error) {
	if userID == "" || amount <= 0 {
		return 0, fmt.Errorf("%w: a user id and a positive amount are required", ErrInvalidInput)
	}
	res := a.api.Credit(ctx, userID, amount)
	return res.Data, res.Err()
}
