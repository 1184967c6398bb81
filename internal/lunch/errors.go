package lunch

import "errors"

var (
	// ErrRoundNotOpen covers both the closed state and the window after
	// the deadline where the close has not yet been applied.
	ErrRoundNotOpen = errors.New("round is not accepting entries")

	// ErrDuplicateRecommendation preserves the one-per-user-per-round
	// constraint; the HTTP layer turns it into an explanatory message.
	ErrDuplicateRecommendation = errors.New("recommendation already submitted for this round")

	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrSettingsLocked refuses deadline/timezone edits once today's
	// round has already closed.
	ErrSettingsLocked = errors.New("lunch settings are locked for today")
)
