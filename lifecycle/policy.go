package lifecycle

import "github.com/Dosada05/arena-admin/models"

// Policy decides the approval state of newly created events.
type Policy struct {
	TournamentAutoApprove bool
	MatchAutoApprove      bool
}

// DefaultPolicy auto-approves tournaments and queues matches for review,
// which is how the platform has behaved so far.
func DefaultPolicy() Policy {
	return Policy{TournamentAutoApprove: true, MatchAutoApprove: false}
}

func (p Policy) autoApprove(t models.MatchType) bool {
	if t == models.MatchTypeTournament {
		return p.TournamentAutoApprove
	}
	return p.MatchAutoApprove
}

// InitialState returns the status pair a new event of type t is created with.
func InitialState(t models.MatchType, p Policy) (models.EventStatus, models.ApprovalStatus) {
	if p.autoApprove(t) {
		return models.StatusUpcoming, models.ApprovalApproved
	}
	return models.StatusPending, models.ApprovalPending
}
