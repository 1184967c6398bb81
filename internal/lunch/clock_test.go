package lunch

import (
	"testing"
	"time"
)

func TestDayKeyUsesConfiguredZone(t *testing.T) {
	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)

	if got := DayKey(now, Location("Asia/Seoul")); got != "2024-01-16" {
		t.Fatalf("expected 2024-01-16 in Seoul, got %s", got)
	}
	if got := DayKey(now, Location("America/Los_Angeles")); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15 in Los Angeles, got %s", got)
	}
}

func TestDeadlineComputation(t *testing.T) {
	loc := Location("America/Los_Angeles")
	now := time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)

	date := DayKey(now, loc)
	if date != "2024-01-15" {
		t.Fatalf("expected round date 2024-01-15, got %s", date)
	}

	deadline := DeadlineAt(date, 12, loc)
	want := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	if !deadline.Equal(want) {
		t.Fatalf("expected deadline %s, got %s", want, deadline.UTC())
	}
	if PastDeadline(now, deadline) {
		t.Fatalf("expected 19:30Z to be before the noon PST deadline")
	}
}

func TestClampHour(t *testing.T) {
	if got := ClampHour(-3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampHour(27); got != 23 {
		t.Fatalf("expected clamp to 23, got %d", got)
	}
	if got := ClampHour(11); got != 11 {
		t.Fatalf("expected 11 unchanged, got %d", got)
	}
}

func TestLocationFallback(t *testing.T) {
	loc := Location("Not/AZone")
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected fallback to %s, got %s", DefaultTimezone, loc)
	}
	if got := Location(""); got.String() != DefaultTimezone {
		t.Fatalf("expected empty zone to fall back, got %s", got)
	}
}

func TestPastDeadlineBoundary(t *testing.T) {
	deadline := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	if !PastDeadline(deadline, deadline) {
		t.Fatalf("expected the deadline instant itself to count as past")
	}
	if PastDeadline(deadline.Add(-time.Second), deadline) {
		t.Fatalf("expected one second before the deadline to be open")
	}
}
