package mapper

import (
	"time"

	"github.com/Dosada05/arena-admin/models"
)

// field describes one mapped attribute. Backend keys are tried in order on
// read; the first one is the canonical key written on ToBackend.
type field struct {
	ui         string
	keys       []string
	serverOnly bool
	get        func(e *models.Event) any
	set        func(e *models.Event, v any)
}

func (f field) backend() string { return f.keys[0] }

var fields = []field{
	{
		ui:   "id",
		keys: []string{"id", "_id"},
		get: func(e *models.Event) any {
			if e.ID == "" {
				return nil
			}
			return e.ID
		},
		set: func(e *models.Event, v any) { e.ID = coerceString(v) },
	},
	stringField("title", []string{"title"}, func(e *models.Event) *string { return &e.Title }),
	{
		ui:   "game",
		keys: []string{"game"},
		get:  func(e *models.Event) any { return omitEmpty(string(e.Game)) },
		set:  func(e *models.Event, v any) { e.Game = models.Game(coerceString(v)) },
	},
	stringField("type", []string{"type"}, func(e *models.Event) *string { return &e.Type }),
	stringField("map", []string{"map"}, func(e *models.Event) *string { return &e.Map }),
	stringField("description", []string{"description"}, func(e *models.Event) *string { return &e.Description }),
	stringField("rules", []string{"rules"}, func(e *models.Event) *string { return &e.Rules }),
	intField("entryFee", []string{"entry_fee", "entryFee"}, func(e *models.Event) *int { return &e.EntryFee }),
	intField("prizePool", []string{"total_prize", "prize_pool", "prizePool"}, func(e *models.Event) *int { return &e.PrizePool }),
	// perKill keeps its camelCase name on the backend too.
	intField("perKill", []string{"perKill", "per_kill"}, func(e *models.Event) *int { return &e.PerKill }),
	intField("maxPlayers", []string{"max_participants", "maxPlayers", "max_players"}, func(e *models.Event) *int { return &e.MaxPlayers }),
	{
		ui:         "currentParticipants",
		keys:       []string{"current_participants", "currentParticipants", "joined"},
		serverOnly: true,
		get:        func(e *models.Event) any { return e.CurrentParticipants },
		set:        func(e *models.Event, v any) { e.CurrentParticipants = Coerce(v) },
	},
	stringField("roomId", []string{"room_code", "roomId", "room_id"}, func(e *models.Event) *string { return &e.RoomID }),
	stringField("password", []string{"room_password", "roomPassword", "password"}, func(e *models.Event) *string { return &e.Password }),
	timeField("scheduleTime", []string{"start_time", "scheduleTime", "schedule_time"}, func(e *models.Event) *time.Time { return &e.ScheduleTime }),
	{
		ui:   "endTime",
		keys: []string{"end_time", "endTime"},
		get: func(e *models.Event) any {
			if e.ScheduleTime.IsZero() && e.EndTime.IsZero() {
				return nil
			}
			return formatTime(EndTimeOrDefault(e.ScheduleTime, e.EndTime))
		},
		set: func(e *models.Event, v any) {
			if t, ok := ParseTime(v); ok {
				e.EndTime = t
			}
		},
	},
	{
		ui:   "status",
		keys: []string{"status"},
		get:  func(e *models.Event) any { return omitEmpty(string(e.Status)) },
		set:  func(e *models.Event, v any) { e.Status = models.EventStatus(coerceString(v)) },
	},
	{
		ui:   "approvalStatus",
		keys: []string{"approval_status", "approvalStatus"},
		get:  func(e *models.Event) any { return omitEmpty(string(e.ApprovalStatus)) },
		set:  func(e *models.Event, v any) { e.ApprovalStatus = models.ApprovalStatus(coerceString(v)) },
	},
	{
		ui:   "matchType",
		keys: []string{"match_type", "matchType", "type_of_event"},
		get:  func(e *models.Event) any { return omitEmpty(string(e.MatchType)) },
		set:  func(e *models.Event, v any) { e.MatchType = models.MatchType(coerceString(v)) },
	},
	stringField("createdBy", []string{"created_by", "createdBy"}, func(e *models.Event) *string { return &e.CreatedBy }),
	stringField("bannerUrl", []string{"banner_url", "bannerUrl", "image"}, func(e *models.Event) *string { return &e.BannerURL }),
}

// derivedKeys are never read from the backend; the values are recomputed.
var derivedKeys = []string{"spotsLeft", "spots_left"}

var knownKeys = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, f := range fields {
		for _, k := range f.keys {
			m[k] = struct{}{}
		}
	}
	for _, k := range derivedKeys {
		m[k] = struct{}{}
	}
	return m
}()

func omitEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringField(ui string, keys []string, ptr func(e *models.Event) *string) field {
	return field{
		ui:   ui,
		keys: keys,
		get:  func(e *models.Event) any { return *ptr(e) },
		set:  func(e *models.Event, v any) { *ptr(e) = coerceString(v) },
	}
}

func intField(ui string, keys []string, ptr func(e *models.Event) *int) field {
	return field{
		ui:   ui,
		keys: keys,
		get:  func(e *models.Event) any { return *ptr(e) },
		set:  func(e *models.Event, v any) { *ptr(e) = Coerce(v) },
	}
}

func timeField(ui string, keys []string, ptr func(e *models.Event) *time.Time) field {
	return field{
		ui:   ui,
		keys: keys,
		get: func(e *models.Event) any {
			t := *ptr(e)
			if t.IsZero() {
				return nil
			}
			return formatTime(t)
		},
		set: func(e *models.Event, v any) {
			if t, ok := ParseTime(v); ok {
				*ptr(e) = t
			}
		},
	}
}

// BackendKey returns the canonical backend key for a view-model key.
func BackendKey(ui string) (string, bool) {
	for _, f := range fields {
		if f.ui == ui {
			return f.backend(), true
		}
	}
	return "", false
}

// FallbackKeys returns the ordered list of backend keys read for a view-model key.
func FallbackKeys(ui string) []string {
	for _, f := range fields {
		if f.ui == ui {
			return append([]string(nil), f.keys...)
		}
	}
	return nil
}
