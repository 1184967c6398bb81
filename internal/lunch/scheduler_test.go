package lunch

import (
	"testing"
	"time"

	"anisbee/internal/config"
)

func TestSchedulerCatchUpClosesOverdueRound(t *testing.T) {
	now := testOpenTime
	engine := New(nil, config.Default())
	engine.SetClock(func() time.Time { return now })
	round := engine.TodayRound()
	if round.Status != StatusOpen {
		t.Fatalf("expected open round, got %s", round.Status)
	}

	// Simulate a restart discovering the deadline already passed.
	now = testClosedTime
	scheduler := NewScheduler(engine)
	scheduler.Start()
	defer scheduler.Stop()

	if round.Status != StatusClosed {
		t.Fatalf("expected catch-up to close the overdue round, got %s", round.Status)
	}
	tomorrow := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	if next := engine.NextDeadline(); !next.Equal(tomorrow) {
		t.Fatalf("expected the timer to re-arm for %s, got %s", tomorrow, next.UTC())
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	engine := New(nil, config.Default())
	scheduler := NewScheduler(engine)
	scheduler.Start()
	scheduler.Stop()
	scheduler.Stop()
}
