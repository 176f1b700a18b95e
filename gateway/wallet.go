package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Dosada05/arena-admin/models"
)

func (c *Client) Balance(ctx context.Context) Result[int] {
	return call(ctx, c, request{method: http.MethodGet, path: "/api/wallet/balance"}, func(env *models.Envelope) (int, error) {
		if env.Balance == nil {
			return 0, errors.New("missing balance")
		}
		return *env.Balance, nil
	})
}

// Credit adds amount to a user's wallet and returns the new balance.
func (c *Client) Credit(ctx context.Context, userID string, amount int) Result[int] {
	req := request{
		method:      http.MethodPost,
		path:        "/api/wallet/credit",
		body:        models.CreditInput{UserID: userID, Amount: amount},
		requireAuth: true,
	}
	return call(ctx, c, req, func(env *models.Envelope) (int, error) {
		if env.NewBalance == nil {
			return 0, errors.New("missing new_balance")
		}
		return *env.NewBalance, nil
	})
}

func (c *Client) PendingDeposits(ctx context.Context) Result[[]models.Deposit] {
	req := request{method: http.MethodGet, path: "/api/deposits/admin/pending", requireAuth: true}
	return call(ctx, c, req, dataAs[[]models.Deposit])
}

func (c *Client) ApproveDeposit(ctx context.Context, id, adminNote string) Result[*models.Deposit] {
	return c.decideDeposit(ctx, "approve", id, adminNote)
}

func (c *Client) RejectDeposit(ctx context.Context, id, adminNote string) Result[*models.Deposit] {
	return c.decideDeposit(ctx, "reject", id, adminNote)
}

func (c *Client) decideDeposit(ctx context.Context, action, id, note string) Result[*models.Deposit] {
	req := request{
		method:      http.MethodPost,
		path:        "/api/deposits/admin/" + action + "/" + url.PathEscape(id),
		body:        models.DepositDecision{AdminNote: note},
		requireAuth: true,
	}
	return call(ctx, c, req, dataAs[*models.Deposit])
}

func (c *Client) PendingWithdrawals(ctx context.Context) Result[[]models.Withdrawal] {
	req := request{method: http.MethodGet, path: "/api/withdrawals/admin/pending", requireAuth: true}
	return call(ctx, c, req, dataAs[[]models.Withdrawal])
}

func (c *Client) ApproveWithdrawal(ctx context.Context, id, adminNotes, transactionID string) Result[*models.Withdrawal] {
	return c.decideWithdrawal(ctx, "approve", id, models.WithdrawalDecision{AdminNotes: adminNotes, TransactionID: transactionID})
}

func (c *Client) RejectWithdrawal(ctx context.Context, id, adminNotes string) Result[*models.Withdrawal] {
	return c.decideWithdrawal(ctx, "reject", id, models.WithdrawalDecision{AdminNotes: adminNotes})
}

func (c *Client) decideWithdrawal(ctx context.Context, action, id string, d models.WithdrawalDecision) Result[*models.Withdrawal] {
	req := request{
		method:      http.MethodPost,
		path:        "/api/withdrawals/admin/" + action + "/" + url.PathEscape(id),
		body:        d,
		requireAuth: true,
	}
	return call(ctx, c, req, dataAs[*models.Withdrawal])
}
