package lunch

import (
	"testing"
	"time"

	"anisbee/internal/config"
)

// Default config pins the round to Asia/Seoul with an 11:00 deadline, so
// 2024-03-10 11:00 KST is 2024-03-10 02:00 UTC.
var (
	testOpenTime   = time.Date(2024, 3, 10, 0, 30, 0, 0, time.UTC)
	testClosedTime = time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)
)

func newTestEngine(at time.Time) (*Engine, *time.Time) {
	now := at
	engine := New(nil, config.Default())
	engine.SetClock(func() time.Time { return now })
	return engine, &now
}

func TestTodayRoundCreatesOpenRound(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)

	round := engine.TodayRound()
	if round == nil {
		t.Fatalf("expected a round, got nil")
	}
	if round.Date != "2024-03-10" {
		t.Fatalf("expected round date 2024-03-10, got %s", round.Date)
	}
	if round.Status != StatusOpen {
		t.Fatalf("expected open status, got %s", round.Status)
	}
	want := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	if !round.Deadline.Equal(want) {
		t.Fatalf("expected deadline %s, got %s", want, round.Deadline.UTC())
	}

	again := engine.TodayRound()
	if again != round {
		t.Fatalf("expected get-or-create to return the same round")
	}
}

func TestCloseRoundIdempotent(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	round := engine.TodayRound()
	if _, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"}); err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}

	*now = testClosedTime
	closed, err := engine.CloseRoundIfNeeded(round.Date)
	if err != nil || !closed {
		t.Fatalf("expected first close to apply, got closed=%v err=%v", closed, err)
	}
	winner := round.WinnerID
	if winner < 0 {
		t.Fatalf("expected a winner, got %d", winner)
	}

	closed, err = engine.CloseRoundIfNeeded(round.Date)
	if err != nil || closed {
		t.Fatalf("expected redundant close to no-op, got closed=%v err=%v", closed, err)
	}
	if round.Status != StatusClosed || round.WinnerID != winner {
		t.Fatalf("expected status and winner unchanged, got %s winner=%d", round.Status, round.WinnerID)
	}
}

func TestCloseBeforeDeadlineIsNoop(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)
	round := engine.TodayRound()

	closed, err := engine.CloseRoundIfNeeded(round.Date)
	if err != nil || closed {
		t.Fatalf("expected close before deadline to no-op, got closed=%v err=%v", closed, err)
	}
	if round.Status != StatusOpen {
		t.Fatalf("expected round still open, got %s", round.Status)
	}
}

func TestSubmitRejectedPastDeadline(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	round := engine.TodayRound()

	*now = testClosedTime
	if _, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Late Diner", OneLineReason: "too late"}); err != ErrRoundNotOpen {
		t.Fatalf("expected round-not-open, got %v", err)
	}
	if len(round.Recommendations) != 0 {
		t.Fatalf("expected no row created, got %d", len(round.Recommendations))
	}
	if round.Status != StatusClosed {
		t.Fatalf("expected the attempt to trigger the overdue close, got %s", round.Status)
	}
}

func TestSubmitRejectedWhenClosed(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	round := engine.TodayRound()
	*now = testClosedTime
	engine.CloseRoundIfNeeded(round.Date)
	*now = testOpenTime // a client with a lagging clock

	if _, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Late Diner", OneLineReason: "client clock lies"}); err != ErrRoundNotOpen {
		t.Fatalf("expected round-not-open even with an early local clock, got %v", err)
	}
}

func TestSubmitDuplicateTranslated(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)
	engine.TodayRound()

	if _, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"}); err != nil {
		t.Fatalf("expected first submission to succeed, got %v", err)
	}
	if _, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Second Place", OneLineReason: "greedy"}); err != ErrDuplicateRecommendation {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestVoteUpsertThroughEngine(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)
	engine.TodayRound()
	rec, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}

	if err := engine.SetVote(rec.ID, 2, VoteWant); err != nil {
		t.Fatalf("expected vote to succeed, got %v", err)
	}
	if err := engine.SetVote(rec.ID, 2, VoteWTF); err != nil {
		t.Fatalf("expected repeat vote to succeed, got %v", err)
	}

	round := engine.TodayRound()
	tally := TallyVotes(round.Recommendations[0].Votes)
	if tally.Want != 0 || tally.WTF != 1 {
		t.Fatalf("expected the vote to swap to wtf, got %+v", tally)
	}
	if len(round.Recommendations[0].Votes) != 1 {
		t.Fatalf("expected one vote row, got %d", len(round.Recommendations[0].Votes))
	}
}

func TestVoteRejectedOnPastRound(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	engine.TodayRound()
	rec, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}

	// The next day's round is live; yesterday's entry is still in the
	// store but its round no longer accepts votes.
	*now = now.Add(24 * time.Hour)
	today := engine.TodayRound()
	if today.Date != "2024-03-11" {
		t.Fatalf("expected a fresh round for 2024-03-11, got %s", today.Date)
	}

	if err := engine.SetVote(rec.ID, 2, VoteWant); err != ErrRoundNotOpen {
		t.Fatalf("expected round-not-open for yesterday's recommendation, got %v", err)
	}
	yesterday, _ := engine.store.GetRound("2024-03-10")
	if len(yesterday.Recommendations[0].Votes) != 0 {
		t.Fatalf("expected no vote recorded on the past round, got %d", len(yesterday.Recommendations[0].Votes))
	}
	if yesterday.Status != StatusClosed {
		t.Fatalf("expected the attempt to close the overdue round, got %s", yesterday.Status)
	}
}

func TestVoteRejectedPastDeadlineSameDay(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	engine.TodayRound()
	rec, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}

	*now = testClosedTime
	if err := engine.SetVote(rec.ID, 2, VoteWant); err != ErrRoundNotOpen {
		t.Fatalf("expected round-not-open past the deadline, got %v", err)
	}
}

func TestSelfVoteAllowed(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)
	engine.TodayRound()
	rec, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
	if err := engine.SetVote(rec.ID, 1, VoteWant); err != nil {
		t.Fatalf("expected submitter to vote on their own entry, got %v", err)
	}
}

func TestWinnerAssignedOnClose(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	engine.TodayRound()
	first, _ := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	second, _ := engine.Submit(2, "꿀벌02", SubmitInput{RestaurantName: "Sundae Alley", OneLineReason: "try it"})

	engine.SetVote(first.ID, 3, VoteWant)
	engine.SetVote(second.ID, 3, VoteWant)
	engine.SetVote(second.ID, 4, VoteWant)

	*now = testClosedTime
	round := engine.TodayRound()
	if round.Status != StatusClosed {
		t.Fatalf("expected overdue fetch to close the round, got %s", round.Status)
	}
	if round.WinnerID != second.ID {
		t.Fatalf("expected the higher score to win, got winner=%d", round.WinnerID)
	}
}

func TestMyRecommendations(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)
	engine.TodayRound()
	engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	engine.Submit(2, "꿀벌02", SubmitInput{RestaurantName: "Sundae Alley", OneLineReason: "try it"})

	mine := engine.MyRecommendations(2)
	if len(mine) != 1 || mine[0].RestaurantName != "Sundae Alley" {
		t.Fatalf("expected only the caller's entry, got %+v", mine)
	}
	if got := engine.MyRecommendations(9); len(got) != 0 {
		t.Fatalf("expected no entries for a non-submitter, got %+v", got)
	}
}

func TestHistoryDegradesWithoutStore(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)

	if got := engine.YesterdayWinner(); got != nil {
		t.Fatalf("expected nil yesterday winner, got %+v", got)
	}
	if got := engine.WinnerMenus(); len(got) != 0 {
		t.Fatalf("expected empty winner menus, got %+v", got)
	}
	if got := engine.HallOfFame(5); len(got) != 0 {
		t.Fatalf("expected empty hall of fame, got %+v", got)
	}
	if got := engine.WinCount(1); got != 0 {
		t.Fatalf("expected zero win count, got %d", got)
	}
}

func TestNextDeadlineRollsToTomorrow(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)

	next := engine.NextDeadline()
	today := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	if !next.Equal(today) {
		t.Fatalf("expected today's deadline %s, got %s", today, next.UTC())
	}

	*now = testClosedTime
	next = engine.NextDeadline()
	tomorrow := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	if !next.Equal(tomorrow) {
		t.Fatalf("expected tomorrow's deadline %s, got %s", tomorrow, next.UTC())
	}
}

func TestUpdateSettingsLockedAfterClose(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	engine.TodayRound()
	*now = testClosedTime
	engine.TodayRound()

	if err := engine.UpdateSettings("Asia/Seoul", 12); err != ErrSettingsLocked {
		t.Fatalf("expected settings locked, got %v", err)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	engine, _ := newTestEngine(testOpenTime)

	if err := engine.UpdateSettings("Not/AZone", 12); err == nil {
		t.Fatalf("expected invalid timezone to be rejected")
	}
	if err := engine.UpdateSettings("America/Los_Angeles", 30); err != nil {
		t.Fatalf("expected out-of-range hour to be clamped, got %v", err)
	}
	settings := engine.CurrentSettings()
	if settings.DeadlineHour != 23 {
		t.Fatalf("expected hour clamped to 23, got %d", settings.DeadlineHour)
	}
	if settings.Timezone != "America/Los_Angeles" {
		t.Fatalf("expected updated timezone, got %s", settings.Timezone)
	}
}

func TestPhaseStateMachine(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	round := engine.TodayRound()

	if got := Phase(round, *now); got != PhaseOpen {
		t.Fatalf("expected open phase, got %s", got)
	}
	if !Mutable(round, *now) {
		t.Fatalf("expected open round to be mutable")
	}

	// Past the deadline but before the authoritative close: pending.
	if got := Phase(round, testClosedTime); got != PhasePending {
		t.Fatalf("expected pending phase, got %s", got)
	}
	if Mutable(round, testClosedTime) {
		t.Fatalf("expected pending round to refuse mutations")
	}

	*now = testClosedTime
	engine.CloseRoundIfNeeded(round.Date)
	if got := Phase(round, *now); got != PhaseClosed {
		t.Fatalf("expected closed phase, got %s", got)
	}
	if got := Phase(nil, *now); got != "" {
		t.Fatalf("expected empty phase for a missing round, got %q", got)
	}
}

func TestOnChangeFires(t *testing.T) {
	engine, now := newTestEngine(testOpenTime)
	changes := 0
	engine.SetOnChange(func(round *RoundState) { changes++ })

	engine.TodayRound()
	rec, err := engine.Submit(1, "꿀벌01", SubmitInput{RestaurantName: "Kimbap Heaven", OneLineReason: "never misses"})
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
	engine.SetVote(rec.ID, 2, VoteWant)
	*now = testClosedTime
	engine.TodayRound()

	// submit + vote + close
	if changes != 3 {
		t.Fatalf("expected 3 change notifications, got %d", changes)
	}
}
