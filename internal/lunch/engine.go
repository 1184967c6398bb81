package lunch

import (
	"log"
	"time"

	"anisbee/internal/config"
	"anisbee/internal/db"

	"gorm.io/gorm"
)

// Engine drives the daily lunch round: get-or-create by calendar day,
// submission and voting, deadline-triggered closing, and history rollups.
type Engine struct {
	db       *gorm.DB
	cfg      config.Config
	store    *Store
	now      func() time.Time
	onChange func(round *RoundState)

	memSettings *Settings // nil-db fallback for admin updates
}

func New(conn *gorm.DB, cfg config.Config) *Engine {
	return &Engine{
		db:    conn,
		cfg:   cfg,
		store: NewStore(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the engine's wall clock. Tests use this to pin "now".
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Clock returns the engine's current time; view models use it so the
// page and the engine agree on "now".
func (e *Engine) Clock() time.Time {
	return e.now()
}

// SetOnChange registers a callback fired after any round mutation,
// including scheduled closes. The HTTP layer uses it to broadcast
// snapshots over websockets.
func (e *Engine) SetOnChange(fn func(round *RoundState)) {
	e.onChange = fn
}

// notifyChange hands listeners a deep copy so they can read it without
// holding the store lock.
func (e *Engine) notifyChange(round *RoundState) {
	if e.onChange == nil || round == nil {
		return
	}
	if clone, ok := e.store.CloneRound(round.Date); ok {
		e.onChange(clone)
	}
}

// CurrentSettings reads the site settings row, falling back to config
// defaults. Reading on every call means admin changes apply to the next
// day's round without a restart.
func (e *Engine) CurrentSettings() Settings {
	if e.db == nil {
		if e.memSettings != nil {
			return *e.memSettings
		}
		return Settings{Timezone: e.cfg.LunchTimezone, DeadlineHour: e.cfg.LunchDeadlineHour}
	}
	var record db.SiteSetting
	if err := e.db.First(&record).Error; err != nil {
		return Settings{Timezone: e.cfg.LunchTimezone, DeadlineHour: e.cfg.LunchDeadlineHour}
	}
	return Settings{Timezone: record.LunchTimezone, DeadlineHour: record.LunchDeadlineHour}
}

// UpdateSettings stores a new timezone and deadline hour. Changes are
// refused while today's round is already closed; a round's own deadline
// instant is never rewritten.
func (e *Engine) UpdateSettings(timezone string, deadlineHour int) error {
	if timezone == "" {
		timezone = e.cfg.LunchTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return err
	}
	deadlineHour = ClampHour(deadlineHour)

	current := e.CurrentSettings()
	loc := Location(current.Timezone)
	today := DayKey(e.now(), loc)
	if round, ok := e.store.GetRound(today); ok {
		if round.Status == StatusClosed {
			return ErrSettingsLocked
		}
	} else if restored := e.loadRound(today); restored != nil && restored.Status == StatusClosed {
		// Closed in the database but not yet adopted into memory.
		return ErrSettingsLocked
	}

	if e.db == nil {
		e.memSettings = &Settings{Timezone: timezone, DeadlineHour: deadlineHour}
		return nil
	}
	record := db.SiteSetting{ID: 1, LunchTimezone: timezone, LunchDeadlineHour: deadlineHour}
	if err := e.db.Save(&record).Error; err != nil {
		return err
	}
	e.persistEvent(nil, "lunch_settings_updated", EventPayload{
		Timezone:     timezone,
		DeadlineHour: deadlineHour,
	})
	return nil
}

// TodayRound resolves today's round in the configured timezone, creating
// it on first access and applying an overdue close before returning. A
// nil result means the round store is unavailable, not an error state.
func (e *Engine) TodayRound() *RoundState {
	settings := e.CurrentSettings()
	loc := Location(settings.Timezone)
	now := e.now()
	date := DayKey(now, loc)

	if round, ok := e.store.GetRound(date); ok {
		e.CloseRoundIfNeeded(date)
		return round
	}
	if restored := e.loadRound(date); restored != nil {
		e.store.AdoptRound(restored)
		e.CloseRoundIfNeeded(date)
		round, _ := e.store.GetRound(date)
		return round
	}

	deadline := DeadlineAt(date, ClampHour(settings.DeadlineHour), loc)
	round, created := e.store.GetOrCreateRound(date, deadline)
	if created {
		e.persistRound(round)
		e.persistEvent(round, "round_created", EventPayload{
			Date:     round.Date,
			Deadline: round.Deadline.UTC().Format(time.RFC3339),
		})
		log.Printf("lunch round created date=%s deadline=%s", round.Date, round.Deadline.UTC().Format(time.RFC3339))
	}
	e.CloseRoundIfNeeded(date)
	return round
}

// TodaySnapshot resolves today's round like TodayRound but returns a
// deep copy safe to read alongside concurrent mutations.
func (e *Engine) TodaySnapshot() *RoundState {
	round := e.TodayRound()
	if round == nil {
		return nil
	}
	clone, _ := e.store.CloneRound(round.Date)
	return clone
}

// CloseRoundIfNeeded flips an open round to closed once its deadline has
// passed, assigning the winner. Calling it on a closed round, or before
// the deadline, is a no-op; the winner reference never changes after the
// first close.
func (e *Engine) CloseRoundIfNeeded(date string) (bool, error) {
	now := e.now()
	closed := false
	round, err := e.store.UpdateRound(date, func(round *RoundState) error {
		if round.Status == StatusClosed {
			return nil
		}
		if !PastDeadline(now, round.Deadline) {
			return nil
		}
		round.Status = StatusClosed
		if idx := winnerIndex(round.Recommendations); idx >= 0 {
			round.WinnerID = round.Recommendations[idx].ID
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !closed {
		return false, nil
	}
	e.persistRoundClose(round)
	e.persistEvent(round, "round_closed", EventPayload{
		Date:   round.Date,
		Reason: "deadline",
	})
	log.Printf("lunch round closed date=%s winner_id=%d entries=%d", round.Date, round.WinnerID, len(round.Recommendations))
	e.notifyChange(round)
	return true, nil
}

// Submit adds a recommendation to today's round. The round must be open
// and the deadline not yet reached; both checks are authoritative here
// regardless of what the submitting client believed.
func (e *Engine) Submit(userID uint, anonName string, in SubmitInput) (*RecommendationEntry, error) {
	round := e.TodayRound()
	if round == nil {
		return nil, ErrRoundNotOpen
	}
	now := e.now()
	if round.Status != StatusOpen || PastDeadline(now, round.Deadline) {
		return nil, ErrRoundNotOpen
	}
	entry := RecommendationEntry{
		UserID:         userID,
		AnonName:       anonName,
		RestaurantName: in.RestaurantName,
		Location:       in.Location,
		LinkURL:        in.LinkURL,
		OneLineReason:  in.OneLineReason,
		CreatedAt:      now,
	}
	_, created, err := e.store.AddRecommendation(round.Date, entry)
	if err != nil {
		return nil, err
	}
	if err := e.persistRecommendation(round, created); err != nil {
		if isUniqueViolation(err) {
			e.dropRecommendation(round.Date, created.ID)
			return nil, ErrDuplicateRecommendation
		}
		log.Printf("persist recommendation failed date=%s user_id=%d error=%v", round.Date, userID, err)
	}
	e.persistEvent(round, "recommendation_submitted", EventPayload{
		Date:           round.Date,
		UserID:         userID,
		RestaurantName: created.RestaurantName,
	})
	e.notifyChange(round)
	return created, nil
}

// dropRecommendation rolls an in-memory entry back out after the
// database rejected it.
func (e *Engine) dropRecommendation(date string, recID int) {
	_, _ = e.store.UpdateRound(date, func(round *RoundState) error {
		for i := range round.Recommendations {
			if round.Recommendations[i].ID == recID {
				round.Recommendations = append(round.Recommendations[:i], round.Recommendations[i+1:]...)
				break
			}
		}
		return nil
	})
}

// MyRecommendations returns the caller's own submissions to today's
// round in submission order.
func (e *Engine) MyRecommendations(userID uint) []RecommendationEntry {
	round := e.TodaySnapshot()
	if round == nil {
		return nil
	}
	var mine []RecommendationEntry
	for _, rec := range round.Recommendations {
		if rec.UserID == userID {
			mine = append(mine, rec)
		}
	}
	return mine
}

// SetVote upserts the voter's category on a recommendation. The gate
// runs against the round that owns the recommendation, not today's:
// an entry from an earlier round still sitting in memory must refuse
// votes once that round's own deadline has passed.
func (e *Engine) SetVote(recID int, userID uint, category string) error {
	target, _, ok := e.store.FindRecommendation(recID)
	if !ok {
		return ErrRecommendationNotFound
	}
	e.CloseRoundIfNeeded(target.Date)
	if !Mutable(target, e.now()) {
		return ErrRoundNotOpen
	}
	round, rec, err := e.store.SetVote(target.Date, recID, userID, category)
	if err != nil {
		return err
	}
	if err := e.persistVote(rec, userID, category); err != nil {
		log.Printf("persist vote failed rec_id=%d user_id=%d error=%v", recID, userID, err)
	}
	e.persistEvent(round, "vote_cast", EventPayload{
		Date:             round.Date,
		UserID:           userID,
		RecommendationID: rec.ID,
		Category:         category,
	})
	e.notifyChange(round)
	return nil
}

// CatchUp closes any round whose deadline passed while no process was
// watching: first the rounds already in memory, then overdue open rows
// left behind in the database.
func (e *Engine) CatchUp() {
	now := e.now()
	for _, date := range e.store.OverdueOpenRounds(now) {
		if _, err := e.CloseRoundIfNeeded(date); err != nil {
			log.Printf("catch-up close failed date=%s error=%v", date, err)
		}
	}
	for _, date := range e.overdueRoundDates(now) {
		if restored := e.loadRound(date); restored != nil {
			e.store.AdoptRound(restored)
		}
		if _, err := e.CloseRoundIfNeeded(date); err != nil {
			log.Printf("catch-up close failed date=%s error=%v", date, err)
		}
	}
}

// NextDeadline reports the instant the scheduler should fire next: the
// current day's deadline while it is still ahead, otherwise the
// following day's.
func (e *Engine) NextDeadline() time.Time {
	settings := e.CurrentSettings()
	loc := Location(settings.Timezone)
	now := e.now()
	hour := ClampHour(settings.DeadlineHour)
	deadline := DeadlineAt(DayKey(now, loc), hour, loc)
	if now.Before(deadline) {
		return deadline
	}
	return DeadlineAt(DayKey(now.AddDate(0, 0, 1), loc), hour, loc)
}
