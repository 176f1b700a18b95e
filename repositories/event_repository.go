package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/arena-admin/models"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventConstraint = errors.New("event violates a table constraint")
)

type ListEventsFilter struct {
	MatchType      *models.MatchType
	Status         *models.EventStatus
	ApprovalStatus *models.ApprovalStatus
	Game           *models.Game
}

type EventRepository interface {
	Create(ctx context.Context, e *models.EventRow) error
	GetByID(ctx context.Context, id string) (*models.EventRow, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.EventRow, error)
	Update(ctx context.Context, e *models.EventRow) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.EventStatus) error
	UpdateBannerKey(ctx context.Context, id string, key *string) error
	Delete(ctx context.Context, id string) error
	ListForAutoStatusUpdate(ctx context.Context, now time.Time) ([]models.EventRow, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `
	id, title, game, type, map, description, rules,
	entry_fee, total_prize, per_kill, max_participants, current_participants,
	room_code, room_password, start_time, end_time,
	status, approval_status, match_type, created_by, banner_key, created_at, updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }, e *models.EventRow) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Game, &e.Type, &e.Map, &e.Description, &e.Rules,
		&e.EntryFee, &e.TotalPrize, &e.PerKill, &e.MaxParticipants, &e.CurrentParticipants,
		&e.RoomCode, &e.RoomPassword, &e.StartTime, &e.EndTime,
		&e.Status, &e.ApprovalStatus, &e.MatchType, &e.CreatedBy, &e.BannerKey, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.EventRow) error {
	query := `
		INSERT INTO events (
			id, title, game, type, map, description, rules,
			entry_fee, total_prize, per_kill, max_participants, current_participants,
			room_code, room_password, start_time, end_time,
			status, approval_status, match_type, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Game, e.Type, e.Map, e.Description, e.Rules,
		e.EntryFee, e.TotalPrize, e.PerKill, e.MaxParticipants, e.CurrentParticipants,
		e.RoomCode, e.RoomPassword, e.StartTime, e.EndTime,
		e.Status, e.ApprovalStatus, e.MatchType, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id string) (*models.EventRow, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e models.EventRow
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.EventRow, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.MatchType != nil {
		query += fmt.Sprintf(" AND match_type = $%d", argID)
		args = append(args, *filter.MatchType)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.ApprovalStatus != nil {
		query += fmt.Sprintf(" AND approval_status = $%d", argID)
		args = append(args, *filter.ApprovalStatus)
		argID++
	}
	if filter.Game != nil {
		query += fmt.Sprintf(" AND game = $%d", argID)
		args = append(args, *filter.Game)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.EventRow, 0)
	for rows.Next() {
		var e models.EventRow
		if scanErr := scanEvent(rows, &e); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Update writes every admin-editable column. current_participants and
// banner_key have their own writers.
func (r *postgresEventRepository) Update(ctx context.Context, e *models.EventRow) error {
	query := `
		UPDATE events SET
			title = $1, game = $2, type = $3, map = $4, description = $5, rules = $6,
			entry_fee = $7, total_prize = $8, per_kill = $9, max_participants = $10,
			room_code = $11, room_password = $12, start_time = $13, end_time = $14,
			status = $15, approval_status = $16, match_type = $17,
			updated_at = now()
		WHERE id = $18
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.Game, e.Type, e.Map, e.Description, e.Rules,
		e.EntryFee, e.TotalPrize, e.PerKill, e.MaxParticipants,
		e.RoomCode, e.RoomPassword, e.StartTime, e.EndTime,
		e.Status, e.ApprovalStatus, e.MatchType,
		e.ID,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	return r.handleEventError(err)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.EventStatus) error {
	query := `UPDATE events SET status = $1, updated_at = now() WHERE id = $2`
	result, err := pick(exec, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateBannerKey(ctx context.Context, id string, key *string) error {
	query := `UPDATE events SET banner_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to update event banner key: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// ListForAutoStatusUpdate returns approved events whose status is due to move
// on at now.
func (r *postgresEventRepository) ListForAutoStatusUpdate(ctx context.Context, now time.Time) ([]models.EventRow, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE approval_status = $1
		AND (
			(status = $2 AND start_time <= $4) OR
			(status = $3 AND end_time <= $4)
		)`

	rows, err := r.db.QueryContext(ctx, query,
		models.ApprovalApproved, models.StatusUpcoming, models.StatusLive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for auto status update: %w", err)
	}
	defer rows.Close()

	var events []models.EventRow
	for rows.Next() {
		var e models.EventRow
		if scanErr := scanEvent(rows, &e); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event for auto status update: %w", scanErr)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during event rows iteration: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint := pgCode(err); code == codeCheckViolation {
		return fmt.Errorf("%w: %s", ErrEventConstraint, constraint)
	}
	return err
}
