package lunch

import "time"

const (
	// PhaseOpen accepts submissions and votes.
	PhaseOpen = "open"
	// PhasePending is the window after the deadline but before the
	// authoritative close has been applied; mutations are refused and
	// the UI reports results pending.
	PhasePending = "pending"
	// PhaseClosed shows final tallies and the winner.
	PhaseClosed = "closed"
)

// Phase maps a round and the current time onto the state machine the UI
// renders. Pending and closed are equally non-mutable; only open before
// the deadline accepts writes.
func Phase(round *RoundState, now time.Time) string {
	if round == nil {
		return ""
	}
	if round.Status == StatusClosed {
		return PhaseClosed
	}
	if PastDeadline(now, round.Deadline) {
		return PhasePending
	}
	return PhaseOpen
}

// Mutable reports whether the round accepts submissions and votes.
func Mutable(round *RoundState, now time.Time) bool {
	return Phase(round, now) == PhaseOpen
}
