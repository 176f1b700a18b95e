package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/arena-admin/lifecycle"
	"github.com/Dosada05/arena-admin/mapper"
	"github.com/Dosada05/arena-admin/models"
	"github.com/Dosada05/arena-admin/realtime"
	"github.com/Dosada05/arena-admin/repositories"
	"github.com/Dosada05/arena-admin/storage"
)

// EventNotifier receives every stored change. *realtime.Hub implements it.
type EventNotifier interface {
	Publish(msg realtime.Message)
}

type EventService interface {
	List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.BackendRecord, error)
	Get(ctx context.Context, id string) (models.BackendRecord, error)
	Create(ctx context.Context, creatorID string, rec models.BackendRecord) (models.BackendRecord, error)
	Update(ctx context.Context, id string, rec models.BackendRecord) (models.BackendRecord, error)
	Delete(ctx context.Context, id string) error
	UploadBanner(ctx context.Context, id, contentType string, r io.Reader) (models.BackendRecord, error)
	// AdvanceStatuses moves approved events along by the clock and returns
	// how many changed.
	AdvanceStatuses(ctx context.Context) (int, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	uploader  storage.FileUploader
	notifier  EventNotifier
	policy    lifecycle.Policy
	logger    *slog.Logger
	now       func() time.Time
}

// NewEventService wires the event service. uploader and notifier may be nil:
// banner uploads are then refused and changes are not broadcast.
func NewEventService(
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
	notifier EventNotifier,
	policy lifecycle.Policy,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		uploader:  uploader,
		notifier:  notifier,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *eventService) List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.BackendRecord, error) {
	rows, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	recs := make([]models.BackendRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, eventRecord(row, s.uploader))
	}
	return recs, nil
}

func (s *eventService) Get(ctx context.Context, id string) (models.BackendRecord, error) {
	row, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return eventRecord(*row, s.uploader), nil
}

func (s *eventService) Create(ctx context.Context, creatorID string, rec models.BackendRecord) (models.BackendRecord, error) {
	e := mapper.FromBackend(rec)
	e.ID = uuid.NewString()
	// Participants join through the player app, never through an admin write.
	e.CurrentParticipants = 0
	if e.CreatedBy == "" {
		e.CreatedBy = creatorID
	}
	if e.MatchType == "" {
		e.MatchType = models.MatchTypeTournament
	}
	if e.Status == "" || e.ApprovalStatus == "" {
		e.Status, e.ApprovalStatus = lifecycle.InitialState(e.MatchType, s.policy)
	}
	e.EndTime = mapper.EndTimeOrDefault(e.ScheduleTime, e.EndTime)

	if err := lifecycle.ValidateNew(e, s.now()); err != nil {
		return nil, validationFailed(err)
	}

	row := eventToRow(e)
	if err := s.eventRepo.Create(ctx, &row); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("event created",
		slog.String("event_id", row.ID),
		slog.String("match_type", string(row.MatchType)),
		slog.String("approval_status", string(row.ApprovalStatus)))

	out := eventRecord(row, s.uploader)
	s.publish(realtime.TypeEventCreated, row.MatchType, out)
	return out, nil
}

// Update replaces the editable fields of an event. The participant count,
// creator and banner stay as stored.
func (s *eventService) Update(ctx context.Context, id string, rec models.BackendRecord) (models.BackendRecord, error) {
	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	e := mapper.FromBackend(rec)
	e.ID = id
	e.CurrentParticipants = current.CurrentParticipants
	e.CreatedBy = current.CreatedBy
	if e.Status == "" {
		e.Status = current.Status
	}
	if e.ApprovalStatus == "" {
		e.ApprovalStatus = current.ApprovalStatus
	}
	if e.MatchType == "" {
		e.MatchType = current.MatchType
	}
	if e.ScheduleTime.IsZero() {
		e.ScheduleTime = current.StartTime
		if e.EndTime.IsZero() {
			e.EndTime = current.EndTime
		}
	}
	e.EndTime = mapper.EndTimeOrDefault(e.ScheduleTime, e.EndTime)
	e.SpotsLeft = mapper.SpotsLeft(e.MaxPlayers, e.CurrentParticipants)

	if err := lifecycle.Validate(e); err != nil {
		return nil, validationFailed(err)
	}

	row := eventToRow(e)
	row.BannerKey = current.BannerKey
	row.CreatedAt = current.CreatedAt
	if err := s.eventRepo.Update(ctx, &row); err != nil {
		return nil, handleRepositoryError(err)
	}

	if current.ApprovalStatus != row.ApprovalStatus {
		s.logger.Info("event approval changed",
			slog.String("event_id", id),
			slog.String("from", string(current.ApprovalStatus)),
			slog.String("to", string(row.ApprovalStatus)))
	}

	out := eventRecord(row, s.uploader)
	s.publish(realtime.TypeEventUpdated, row.MatchType, out)
	return out, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err)
	}
	if current.BannerKey != nil {
		s.deleteBanner(ctx, *current.BannerKey)
	}

	s.logger.Info("event deleted", slog.String("event_id", id))
	s.publish(realtime.TypeEventDeleted, current.MatchType, map[string]string{"id": id})
	return nil
}

func (s *eventService) UploadBanner(ctx context.Context, id, contentType string, r io.Reader) (models.BackendRecord, error) {
	if s.uploader == nil {
		return nil, ErrBannerStorageDisabled
	}
	ext, err := storage.BannerExtension(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBanner, err)
	}

	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	key := storage.BannerKey(id, ext, s.now())
	if _, err := s.uploader.Upload(ctx, key, contentType, r); err != nil {
		return nil, fmt.Errorf("failed to upload banner: %w", err)
	}
	if err := s.eventRepo.UpdateBannerKey(ctx, id, &key); err != nil {
		s.deleteBanner(ctx, key)
		return nil, handleRepositoryError(err)
	}
	if current.BannerKey != nil && *current.BannerKey != key {
		s.deleteBanner(ctx, *current.BannerKey)
	}

	current.BannerKey = &key
	out := eventRecord(*current, s.uploader)
	s.publish(realtime.TypeEventUpdated, current.MatchType, out)
	return out, nil
}

func (s *eventService) AdvanceStatuses(ctx context.Context) (int, error) {
	now := s.now()
	rows, err := s.eventRepo.ListForAutoStatusUpdate(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load events for status update: %w", err)
	}

	changed := 0
	for _, row := range rows {
		next, ok := lifecycle.Advance(rowToEvent(row, s.uploader), now)
		if !ok {
			continue
		}
		if err := s.eventRepo.UpdateStatus(ctx, nil, row.ID, next.Status); err != nil {
			s.logger.Error("failed to advance event status",
				slog.String("event_id", row.ID),
				slog.String("to", string(next.Status)),
				slog.Any("error", err))
			continue
		}
		row.Status = next.Status
		changed++
		s.publish(realtime.TypeEventUpdated, row.MatchType, eventRecord(row, s.uploader))
	}
	return changed, nil
}

func (s *eventService) deleteBanner(ctx context.Context, key string) {
	if s.uploader == nil {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete banner object", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *eventService) publish(msgType string, matchType models.MatchType, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(realtime.Message{Type: msgType, Topic: string(matchType), Payload: payload})
}
