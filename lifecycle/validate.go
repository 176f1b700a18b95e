package lifecycle

import (
	"strings"
	"time"

	"github.com/Dosada05/arena-admin/models"
)

// Validate checks the invariants every stored event must hold.
func Validate(e models.Event) error {
	errs := fieldErrors{}
	checkInvariants(e, errs)
	return errs.err()
}

// ValidateNew runs Validate plus the checks that only apply at creation.
func ValidateNew(e models.Event, now time.Time) error {
	errs := fieldErrors{}
	if strings.TrimSpace(e.Title) == "" {
		errs.add("title", "is required")
	}
	if e.Game == "" {
		errs.add("game", "is required")
	} else if !models.IsKnownGame(e.Game) {
		errs.add("game", "is not in the game catalog")
	}
	if e.ScheduleTime.IsZero() {
		errs.add("scheduleTime", "is required")
	} else if !e.ScheduleTime.After(now) {
		errs.add("scheduleTime", "must be in the future")
	}
	if e.MaxPlayers <= 0 {
		errs.add("maxPlayers", "must be greater than zero")
	}
	checkInvariants(e, errs)
	return errs.err()
}

func checkInvariants(e models.Event, errs fieldErrors) {
	if e.EntryFee < 0 {
		errs.add("entryFee", "must not be negative")
	}
	if e.PrizePool < 0 {
		errs.add("prizePool", "must not be negative")
	}
	if e.PerKill < 0 {
		errs.add("perKill", "must not be negative")
	}
	if e.MaxPlayers < 0 {
		errs.add("maxPlayers", "must not be negative")
	}
	if e.CurrentParticipants < 0 {
		errs.add("currentParticipants", "must not be negative")
	} else if e.CurrentParticipants > e.MaxPlayers {
		errs.add("currentParticipants", "exceeds maxPlayers")
	}

	if e.Status != "" && !models.IsValidStatus(e.Status) {
		errs.add("status", "unknown status")
	}
	if e.ApprovalStatus != "" && !models.IsValidApproval(e.ApprovalStatus) {
		errs.add("approvalStatus", "unknown approval status")
	}
	if e.MatchType != "" && !models.IsValidMatchType(e.MatchType) {
		errs.add("matchType", "unknown match type")
	}

	switch e.ApprovalStatus {
	case models.ApprovalRejected:
		if e.Status != models.StatusRejected && e.Status != models.StatusCancelled {
			errs.add("status", "a rejected event must be rejected or cancelled")
		}
	case models.ApprovalPending:
		if e.Status == models.StatusLive || e.Status == models.StatusCompleted {
			errs.add("status", "an event awaiting approval cannot be live or completed")
		}
	}

	if !e.ScheduleTime.IsZero() && !e.EndTime.IsZero() && !e.EndTime.After(e.ScheduleTime) {
		errs.add("endTime", "must be after scheduleTime")
	}
}
