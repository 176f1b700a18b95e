// Package store holds the admin's in-memory list of events for one screen
// session and keeps it in step with the backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/arena-admin/gateway"
	"github.com/Dosada05/arena-admin/lifecycle"
	"github.com/Dosada05/arena-admin/mapper"
	"github.com/Dosada05/arena-admin/models"
)

var (
	ErrNotFound = errors.New("event not found in list")
	// ErrDetached is returned once Detach was called.
	ErrDetached = errors.New("store is detached")
)

// EventsAPI is the part of the gateway the store talks to.
type EventsAPI interface {
	ListEvents(ctx context.Context, filter gateway.EventFilter) gateway.Result[[]models.Event]
	GetEvent(ctx context.Context, id string) gateway.Result[*models.Event]
	CreateEvent(ctx context.Context, rec models.BackendRecord) gateway.Result[*models.Event]
	UpdateEvent(ctx context.Context, id string, rec models.BackendRecord) gateway.Result[*models.Event]
	DeleteEvent(ctx context.Context, id string) gateway.Result[struct{}]
}

// TournamentStore is the list cache behind the tournament and match screens.
type TournamentStore interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, form models.EventForm) (models.Event, error)
	Update(ctx context.Context, id string, patch models.EventPatch) (models.Event, error)
	Approve(ctx context.Context, id string) (models.Event, error)
	Reject(ctx context.Context, id string) (models.Event, error)
	Delete(ctx context.Context, id string) error
	Events() []models.Event
	Get(id string) (models.Event, bool)
	ErrorMessage() string
	Detach()
}

type Options struct {
	// MatchType scopes the store to tournaments or matches; empty lists both.
	MatchType models.MatchType
	Policy    lifecycle.Policy
	// RefreshAfterMutation reloads the whole list after every successful
	// create, update or delete instead of patching it in place.
	RefreshAfterMutation bool
	Now                  func() time.Time
}

type Store struct {
	api    EventsAPI
	opts   Options
	logger *slog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	events   []models.Event
	errMsg   string
	detached bool
	// writes counts confirmed mutations. A list response requested before
	// the latest write is stale and is dropped.
	writes uint64
}

var _ TournamentStore = (*Store)(nil)

func New(api EventsAPI, opts Options, logger *slog.Logger) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		api:    api,
		opts:   opts,
		logger: logger.With(slog.String("component", "store"), slog.String("match_type", string(opts.MatchType))),
	}
}

// Refresh replaces the list with the server's. On failure the list is
// emptied and the message kept for ErrorMessage; stale rows are never shown.
// Concurrent calls share one request.
func (s *Store) Refresh(ctx context.Context) error {
	if s.isDetached() {
		return ErrDetached
	}
	_, err, shared := s.group.Do("refresh", func() (any, error) {
		return nil, s.refresh(ctx)
	})
	if shared {
		s.logger.Debug("refresh coalesced")
	}
	return err
}

// refreshAfterWrite starts a new list request instead of joining one that
// was sent before the write was confirmed.
func (s *Store) refreshAfterWrite(ctx context.Context) error {
	s.group.Forget("refresh")
	return s.Refresh(ctx)
}

func (s *Store) refresh(ctx context.Context) error {
	s.mu.RLock()
	writes := s.writes
	s.mu.RUnlock()

	res := s.api.ListEvents(ctx, gateway.EventFilter{MatchType: s.opts.MatchType})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	if s.writes != writes {
		s.logger.Debug("dropping list requested before a write")
		return nil
	}
	if !res.Success {
		s.events = nil
		s.errMsg = res.Message
		s.logger.Warn("refresh failed", slog.String("message", res.Message))
		return res.Err()
	}
	events := make([]models.Event, 0, len(res.Data))
	for _, e := range res.Data {
		if s.opts.MatchType != "" && e.MatchType != "" && e.MatchType != s.opts.MatchType {
			continue
		}
		events = append(events, e)
	}
	s.events = events
	s.errMsg = ""
	return nil
}

// Create validates the form locally, posts it, and adds the confirmed record
// at the front of the list.
func (s *Store) Create(ctx context.Context, form models.EventForm) (models.Event, error) {
	if s.isDetached() {
		return models.Event{}, ErrDetached
	}
	if form.MatchType == "" {
		form.MatchType = s.opts.MatchType
	}
	e := mapper.FormToEvent(form)
	if e.MatchType == "" {
		e.MatchType = models.MatchTypeTournament
	}
	e.Status, e.ApprovalStatus = lifecycle.InitialState(e.MatchType, s.opts.Policy)
	if !e.ScheduleTime.IsZero() {
		e.EndTime = mapper.EndTimeOrDefault(e.ScheduleTime, e.EndTime)
	}
	if err := lifecycle.ValidateNew(e, s.opts.Now()); err != nil {
		return models.Event{}, err
	}

	payload := mapper.ToBackend(e)
	payload["current_participants"] = 0

	res := s.api.CreateEvent(ctx, payload)
	if !res.Success {
		s.logger.Warn("create failed", slog.String("message", res.Message))
		return models.Event{}, res.Err()
	}

	if res.Data == nil || s.opts.RefreshAfterMutation {
		s.confirmWrite()
		if err := s.refreshAfterWrite(ctx); err != nil {
			return e, fmt.Errorf("created, but reloading the list failed: %w", err)
		}
		if res.Data != nil {
			return *res.Data, nil
		}
		return e, nil
	}

	created := *res.Data
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return created, nil
	}
	s.writes++
	s.events = append([]models.Event{mapper.CloneExtra(created)}, s.events...)
	return created, nil
}

// Update applies patch to the cached record and writes the full result back.
func (s *Store) Update(ctx context.Context, id string, patch models.EventPatch) (models.Event, error) {
	current, ok := s.Get(id)
	if !ok {
		return models.Event{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	next := mapper.ApplyPatch(current, patch)
	if !next.ScheduleTime.Equal(current.ScheduleTime) && patch.EndTime == nil {
		// keep the default duration relative to the new start
		next.EndTime = mapper.EndTimeOrDefault(next.ScheduleTime, nil)
	}
	if err := lifecycle.Validate(next); err != nil {
		return models.Event{}, err
	}
	return s.write(ctx, next)
}

// Approve moves a pending record to approved. A record that is no longer
// pending is returned unchanged and nothing is sent.
func (s *Store) Approve(ctx context.Context, id string) (models.Event, error) {
	return s.review(ctx, id, lifecycle.Approve)
}

// Reject is the counterpart of Approve.
func (s *Store) Reject(ctx context.Context, id string) (models.Event, error) {
	return s.review(ctx, id, lifecycle.Reject)
}

func (s *Store) review(ctx context.Context, id string, transition func(models.Event) (models.Event, bool)) (models.Event, error) {
	current, ok := s.Get(id)
	if !ok {
		return models.Event{}, fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	next, changed := transition(current)
	if !changed {
		s.logger.Debug("review is a no-op",
			slog.String("id", id), slog.String("approval_status", string(current.ApprovalStatus)))
		return current, nil
	}
	return s.write(ctx, next)
}

func (s *Store) write(ctx context.Context, e models.Event) (models.Event, error) {
	if s.isDetached() {
		return models.Event{}, ErrDetached
	}
	res := s.api.UpdateEvent(ctx, e.ID, mapper.ToBackend(e))
	if !res.Success {
		s.logger.Warn("update failed", slog.String("id", e.ID), slog.String("message", res.Message))
		return models.Event{}, res.Err()
	}
	saved := e
	if res.Data != nil {
		saved = *res.Data
		if saved.ID == "" {
			saved.ID = e.ID
		}
	}

	if s.opts.RefreshAfterMutation {
		s.confirmWrite()
		if err := s.refreshAfterWrite(ctx); err != nil {
			return saved, fmt.Errorf("saved, but reloading the list failed: %w", err)
		}
		return saved, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return saved, nil
	}
	s.writes++
	for i := range s.events {
		if s.events[i].ID == saved.ID {
			s.events[i] = mapper.CloneExtra(saved)
			break
		}
	}
	return saved, nil
}

// Delete removes the event on the server and then from the list.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.isDetached() {
		return ErrDetached
	}
	res := s.api.DeleteEvent(ctx, id)
	if !res.Success {
		s.logger.Warn("delete failed", slog.String("id", id), slog.String("message", res.Message))
		return res.Err()
	}
	if s.opts.RefreshAfterMutation {
		s.confirmWrite()
		return s.refreshAfterWrite(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil
	}
	s.writes++
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i:i], s.events[i+1:]...)
			break
		}
	}
	return nil
}

// Events returns a copy of the cached list in display order.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	for i, e := range s.events {
		out[i] = mapper.CloneExtra(e)
	}
	return out
}

func (s *Store) Get(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return mapper.CloneExtra(e), true
		}
	}
	return models.Event{}, false
}

// ErrorMessage is the message of the last failed refresh, or "".
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Detach marks the store as abandoned. Responses that arrive afterwards are
// dropped and further calls fail with ErrDetached.
func (s *Store) Detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
}

func (s *Store) confirmWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *Store) isDetached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detached
}
