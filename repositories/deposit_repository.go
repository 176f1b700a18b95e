package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/arena-admin/models"
)

var ErrDepositNotFound = errors.New("deposit not found")

type DepositRepository interface {
	Create(ctx context.Context, d *models.Deposit) error
	// GetForUpdate locks the row until exec's transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Deposit, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Deposit, error)
	Review(ctx context.Context, exec SQLExecutor, id string, status models.RequestStatus, note string, at time.Time) error
}

type postgresDepositRepository struct {
	db *sql.DB
}

func NewPostgresDepositRepository(db *sql.DB) DepositRepository {
	return &postgresDepositRepository{db: db}
}

const depositColumns = `id, user_id, amount, transaction_id, status, admin_note, created_at, reviewed_at`

func scanDeposit(row interface{ Scan(dest ...any) error }, d *models.Deposit) error {
	return row.Scan(&d.ID, &d.UserID, &d.Amount, &d.TransactionID, &d.Status, &d.AdminNote, &d.CreatedAt, &d.ReviewedAt)
}

func (r *postgresDepositRepository) Create(ctx context.Context, d *models.Deposit) error {
	query := `
		INSERT INTO deposits (id, user_id, amount, transaction_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, d.ID, d.UserID, d.Amount, d.TransactionID, d.Status).Scan(&d.CreatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKey {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *postgresDepositRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1 FOR UPDATE`
	var d models.Deposit
	if err := scanDeposit(pick(exec, r.db).QueryRowContext(ctx, query, id), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresDepositRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE status = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deposits := make([]models.Deposit, 0)
	for rows.Next() {
		var d models.Deposit
		if err := scanDeposit(rows, &d); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

func (r *postgresDepositRepository) Review(ctx context.Context, exec SQLExecutor, id string, status models.RequestStatus, note string, at time.Time) error {
	query := `UPDATE deposits SET status = $1, admin_note = $2, reviewed_at = $3 WHERE id = $4`
	result, err := pick(exec, r.db).ExecContext(ctx, query, status, note, at, id)
	if err != nil {
		return fmt.Errorf("failed to review deposit: %w", err)
	}
	return checkAffectedRows(result, ErrDepositNotFound)
}
