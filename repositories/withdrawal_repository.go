package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/arena-admin/models"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) error
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Withdrawal, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Withdrawal, error)
	Review(ctx context.Context, exec SQLExecutor, w *models.Withdrawal) error
}

type postgresWithdrawalRepository struct {
	db *sql.DB
}

func NewPostgresWithdrawalRepository(db *sql.DB) WithdrawalRepository {
	return &postgresWithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, amount, method, account_ref, status, admin_notes, transaction_id, created_at, reviewed_at`

func scanWithdrawal(row interface{ Scan(dest ...any) error }, w *models.Withdrawal) error {
	return row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Method, &w.AccountRef, &w.Status,
		&w.AdminNotes, &w.TransactionID, &w.CreatedAt, &w.ReviewedAt)
}

func (r *postgresWithdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, user_id, amount, method, account_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, w.ID, w.UserID, w.Amount, w.Method, w.AccountRef, w.Status).Scan(&w.CreatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKey {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *postgresWithdrawalRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`
	var w models.Withdrawal
	if err := scanWithdrawal(pick(exec, r.db).QueryRowContext(ctx, query, id), &w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *postgresWithdrawalRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE status = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := make([]models.Withdrawal, 0)
	for rows.Next() {
		var w models.Withdrawal
		if err := scanWithdrawal(rows, &w); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// Review stores the decision fields of w (status, notes, transaction id, reviewed_at).
func (r *postgresWithdrawalRepository) Review(ctx context.Context, exec SQLExecutor, w *models.Withdrawal) error {
	if w.ReviewedAt == nil {
		now := time.Now().UTC()
		w.ReviewedAt = &now
	}
	query := `UPDATE withdrawals SET status = $1, admin_notes = $2, transaction_id = $3, reviewed_at = $4 WHERE id = $5`
	result, err := pick(exec, r.db).ExecContext(ctx, query, w.Status, w.AdminNotes, w.TransactionID, *w.ReviewedAt, w.ID)
	if err != nil {
		return fmt.Errorf("failed to review withdrawal: %w", err)
	}
	return checkAffectedRows(result, ErrWithdrawalNotFound)
}
