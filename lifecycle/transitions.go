// Package lifecycle owns the status/approval state machine of events and the
// record invariants checked before an event is sent or stored.
package lifecycle

import (
	"time"

	"github.com/Dosada05/arena-admin/models"
)

// CanReview reports whether an admin decision is still pending for e.
func CanReview(e models.Event) bool {
	return e.ApprovalStatus == models.ApprovalPending
}

// Approve moves a pending event to approved/upcoming. Any other event is
// returned as is with changed == false; a second approve is not an error.
func Approve(e models.Event) (models.Event, bool) {
	if !CanReview(e) {
		return e, false
	}
	e.ApprovalStatus = models.ApprovalApproved
	e.Status = models.StatusUpcoming
	return e, true
}

// Reject moves a pending event to rejected/rejected, with the same no-op rule as Approve.
func Reject(e models.Event) (models.Event, bool) {
	if !CanReview(e) {
		return e, false
	}
	e.ApprovalStatus = models.ApprovalRejected
	e.Status = models.StatusRejected
	return e, true
}

// IsVisible reports whether players can see and join e.
func IsVisible(e models.Event) bool {
	if e.ApprovalStatus != models.ApprovalApproved {
		return false
	}
	return e.Status != models.StatusRejected && e.Status != models.StatusCancelled
}

// Advance applies the time-driven part of the lifecycle: an approved upcoming
// event goes live at its start and completes at its end.
func Advance(e models.Event, now time.Time) (models.Event, bool) {
	if e.ApprovalStatus != models.ApprovalApproved {
		return e, false
	}
	next := e.Status
	switch e.Status {
	case models.StatusUpcoming:
		if !e.ScheduleTime.IsZero() && !now.Before(e.ScheduleTime) {
			next = models.StatusLive
		}
		if !e.EndTime.IsZero() && !now.Before(e.EndTime) {
			next = models.StatusCompleted
		}
	case models.StatusLive:
		if !e.EndTime.IsZero() && !now.Before(e.EndTime) {
			next = models.StatusCompleted
		}
	}
	if next == e.Status {
		return e, false
	}
	e.Status = next
	return e, true
}
