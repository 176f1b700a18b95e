package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository interface {
	Balance(ctx context.Context, userID string) (int, error)
	// Adjust adds delta (which may be negative) to the balance and returns the
	// new value. A balance that would drop below zero is refused.
	Adjust(ctx context.Context, exec SQLExecutor, userID string, delta int) (int, error)
}

type postgresWalletRepository struct {
	db *sql.DB
}

func NewPostgresWalletRepository(db *sql.DB) WalletRepository {
	return &postgresWalletRepository{db: db}
}

func (r *postgresWalletRepository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.db.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *postgresWalletRepository) Adjust(ctx context.Context, exec SQLExecutor, userID string, delta int) (int, error) {
	query := `
		INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
			SET balance = wallets.balance + EXCLUDED.balance, updated_at = now()
		RETURNING balance`

	var balance int
	err := pick(exec, r.db).QueryRowContext(ctx, query, userID, delta).Scan(&balance)
	if err != nil {
		switch code, _ := pgCode(err); code {
		case codeCheckViolation:
			return 0, ErrInsufficientBalance
		case codeForeignKey:
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to adjust wallet balance: %w", err)
	}
	return balance, nil
}
