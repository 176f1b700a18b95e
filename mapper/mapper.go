// Package mapper translates events between the admin view model (camelCase)
// and the backend persistence shape (snake_case) and computes the fields that
// are derived rather than stored.
package mapper

import (
	"strings"

	"github.com/Dosada05/arena-admin/models"
)

// ToBackend renames every mapped field to its canonical backend key. Server
// owned and derived fields are left out, end_time is defaulted when missing,
// and keys the mapper does not know pass through from Extra unchanged.
func ToBackend(e models.Event) models.BackendRecord {
	out := make(models.BackendRecord, len(fields)+len(e.Extra))
	for k, v := range e.Extra {
		out[k] = v
	}
	for _, f := range fields {
		if f.serverOnly {
			continue
		}
		if v := f.get(&e); v != nil {
			out[f.backend()] = v
		}
	}
	return out
}

// FromBackend reads a backend record into the view model. For each field the
// known key spellings are tried in order and the first non-empty value wins.
func FromBackend(rec models.BackendRecord) models.Event {
	var e models.Event
	for _, f := range fields {
		if v, ok := lookup(rec, f.keys); ok {
			f.set(&e, v)
		}
	}
	if !e.ScheduleTime.IsZero() && e.EndTime.IsZero() {
		e.EndTime = EndTimeOrDefault(e.ScheduleTime, nil)
	}
	e.SpotsLeft = SpotsLeft(e.MaxPlayers, e.CurrentParticipants)

	for k, v := range rec {
		if _, known := knownKeys[k]; known {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[k] = v
	}
	return e
}

// FromBackendList maps a list response, preserving order.
func FromBackendList(recs []models.BackendRecord) []models.Event {
	events := make([]models.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, FromBackend(rec))
	}
	return events
}

// lookup returns the first non-nil value among keys. A blank string yields to
// a later key holding a non-blank value and is otherwise returned as stored.
func lookup(rec models.BackendRecord, keys []string) (any, bool) {
	var blank any
	found := false
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			if !found {
				blank, found = v, true
			}
			continue
		}
		return v, true
	}
	return blank, found
}

// FormToEvent turns raw form input into a view-model event. Numeric inputs
// that do not parse become 0.
func FormToEvent(f models.EventForm) models.Event {
	e := models.Event{
		Title:       strings.TrimSpace(f.Title),
		Game:        models.Game(strings.ToLower(strings.TrimSpace(f.Game))),
		Type:        f.Type,
		Map:         f.Map,
		Description: f.Description,
		Rules:       f.Rules,
		EntryFee:    Coerce(f.EntryFee),
		PrizePool:   Coerce(f.PrizePool),
		PerKill:     Coerce(f.PerKill),
		MaxPlayers:  Coerce(f.MaxPlayers),
		RoomID:      f.RoomID,
		Password:    f.Password,
		MatchType:   f.MatchType,
		CreatedBy:   f.CreatedBy,
		BannerURL:   f.BannerURL,
	}
	if t, ok := ParseTime(f.ScheduleTime); ok {
		e.ScheduleTime = t
	}
	if t, ok := ParseTime(f.EndTime); ok {
		e.EndTime = t
	}
	e.SpotsLeft = SpotsLeft(e.MaxPlayers, e.CurrentParticipants)
	return e
}

// FormToBackend is FormToEvent followed by ToBackend.
func FormToBackend(f models.EventForm) models.BackendRecord {
	return ToBackend(FormToEvent(f))
}

// ApplyPatch returns e with every non-nil patch field applied and the derived
// fields recomputed.
func ApplyPatch(e models.Event, p models.EventPatch) models.Event {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Game != nil {
		e.Game = *p.Game
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Map != nil {
		e.Map = *p.Map
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Rules != nil {
		e.Rules = *p.Rules
	}
	if p.EntryFee != nil {
		e.EntryFee = *p.EntryFee
	}
	if p.PrizePool != nil {
		e.PrizePool = *p.PrizePool
	}
	if p.PerKill != nil {
		e.PerKill = *p.PerKill
	}
	if p.MaxPlayers != nil {
		e.MaxPlayers = *p.MaxPlayers
	}
	if p.RoomID != nil {
		e.RoomID = *p.RoomID
	}
	if p.Password != nil {
		e.Password = *p.Password
	}
	if p.ScheduleTime != nil {
		e.ScheduleTime = *p.ScheduleTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.BannerURL != nil {
		e.BannerURL = *p.BannerURL
	}
	e.SpotsLeft = SpotsLeft(e.MaxPlayers, e.CurrentParticipants)
	return e
}

// CloneExtra copies the passthrough map so cached events never share it.
func CloneExtra(e models.Event) models.Event {
	if e.Extra == nil {
		return e
	}
	extra := make(map[string]any, len(e.Extra))
	for k, v := range e.Extra {
		extra[k] = v
	}
	e.Extra = extra
	return e
}
