package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/arena-admin/mapper"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/repositories"
	"github.com/Dosada05/arena-admin/storage"
)

// handleRepositoryError translates repository sentinels into service ones.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrDepositNotFound):
		return ErrDepositNotFound
	case errors.Is(err, repositories.ErrWithdrawalNotFound):
		return ErrWithdrawalNotFound
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return ErrInsufficientBalance
	case errors.Is(err, repositories.ErrEventConstraint):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return err
}

// validationFailed keeps the field details of a lifecycle error reachable.
func validationFailed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

func rowToEvent(row models.EventRow, uploader storage.FileUploader) models.Event {
	e := models.Event{
		ID:                  row.ID,
		Title:               row.Title,
		Game:                row.Game,
		Type:                row.Type,
		Map:                 row.Map,
		Description:         row.Description,
		Rules:               row.Rules,
		EntryFee:            row.EntryFee,
		PrizePool:           row.TotalPrize,
		PerKill:             row.PerKill,
		MaxPlayers:          row.MaxParticipants,
		CurrentParticipants: row.CurrentParticipants,
		RoomID:              row.RoomCode,
		Password:            row.RoomPassword,
		ScheduleTime:        row.StartTime.UTC(),
		EndTime:             row.EndTime.UTC(),
		Status:              row.Status,
		ApprovalStatus:      row.ApprovalStatus,
		MatchType:           row.MatchType,
		CreatedBy:           row.CreatedBy,
		BannerURL:           row.BannerURL,
	}
	if row.BannerKey != nil && uploader != nil {
		e.BannerURL = uploader.GetPublicURL(*row.BannerKey)
	}
	e.SpotsLeft = mapper.SpotsLeft(e.MaxPlayers, e.CurrentParticipants)
	return e
}

func eventToRow(e models.Event) models.EventRow {
	return models.EventRow{
		ID:                  e.ID,
		Title:               strings.TrimSpace(e.Title),
		Game:                e.Game,
		Type:                e.Type,
		Map:                 e.Map,
		Description:         e.Description,
		Rules:               e.Rules,
		EntryFee:            e.EntryFee,
		TotalPrize:          e.PrizePool,
		PerKill:             e.PerKill,
		MaxParticipants:     e.MaxPlayers,
		CurrentParticipants: e.CurrentParticipants,
		RoomCode:            e.RoomID,
		RoomPassword:        e.Password,
		StartTime:           e.ScheduleTime.UTC(),
		EndTime:             mapper.EndTimeOrDefault(e.ScheduleTime, e.EndTime).UTC(),
		Status:              e.Status,
		ApprovalStatus:      e.ApprovalStatus,
		MatchType:           e.MatchType,
		CreatedBy:           e.CreatedBy,
	}
}

// eventRecord is the wire form of a stored event: the mapper's backend shape
// plus the server-owned columns.
func eventRecord(row models.EventRow, uploader storage.FileUploader) models.BackendRecord {
	rec := mapper.ToBackend(rowToEvent(row, uploader))
	rec["current_participants"] = row.CurrentParticipants
	if !row.CreatedAt.IsZero() {
		rec["created_at"] = row.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !row.UpdatedAt.IsZero() {
		rec["updated_at"] = row.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return rec
}
