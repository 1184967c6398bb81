package lunch

import (
	"encoding/json"
	"errors"
	"time"

	"anisbee/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// persistRound inserts the round row, treating a concurrent insert for
// the same date as a win for the other writer: on conflict the existing
// row's deadline and status are adopted into memory.
func (e *Engine) persistRound(round *RoundState) {
	if e.db == nil || round == nil {
		return
	}
	record := db.Round{
		RoundDate: round.Date,
		Deadline:  round.Deadline.UTC(),
		Status:    round.Status,
	}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round_date"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return
	}
	if record.ID != 0 {
		_, _ = e.store.UpdateRound(round.Date, func(r *RoundState) error {
			r.DBID = record.ID
			return nil
		})
		return
	}
	// Another process created the round first; mirror its row.
	var existing db.Round
	if err := e.db.Where("round_date = ?", round.Date).First(&existing).Error; err != nil {
		return
	}
	_, _ = e.store.UpdateRound(round.Date, func(r *RoundState) error {
		r.DBID = existing.ID
		r.Deadline = existing.Deadline
		r.Status = existing.Status
		return nil
	})
}

func (e *Engine) ensureRoundDBID(round *RoundState) {
	if e.db == nil || round == nil || round.DBID != 0 {
		return
	}
	var record db.Round
	if err := e.db.Where("round_date = ?", round.Date).First(&record).Error; err != nil {
		return
	}
	_, _ = e.store.UpdateRound(round.Date, func(r *RoundState) error {
		r.DBID = record.ID
		return nil
	})
}

// persistRoundClose writes the closed status and winner reference. The
// status guard in the WHERE clause keeps a redundant close from ever
// rewriting an earlier winner.
func (e *Engine) persistRoundClose(round *RoundState) {
	if e.db == nil || round == nil {
		return
	}
	e.ensureRoundDBID(round)
	if round.DBID == 0 {
		return
	}
	var winnerDBID *uint
	for i := range round.Recommendations {
		if round.Recommendations[i].ID == round.WinnerID && round.Recommendations[i].DBID != 0 {
			id := round.Recommendations[i].DBID
			winnerDBID = &id
			break
		}
	}
	updates := map[string]any{
		"status":                   StatusClosed,
		"winner_recommendation_id": winnerDBID,
	}
	_ = e.db.Model(&db.Round{}).
		Where("id = ? AND status = ?", round.DBID, StatusOpen).
		Updates(updates).Error
}

func (e *Engine) persistRecommendation(round *RoundState, entry *RecommendationEntry) error {
	if e.db == nil {
		return nil
	}
	e.ensureRoundDBID(round)
	if round.DBID == 0 {
		return errors.New("round not persisted")
	}
	record := db.Recommendation{
		RoundID:        round.DBID,
		UserID:         entry.UserID,
		RestaurantName: entry.RestaurantName,
		Location:       entry.Location,
		LinkURL:        entry.LinkURL,
		OneLineReason:  entry.OneLineReason,
	}
	if err := e.db.Create(&record).Error; err != nil {
		return err
	}
	_, _ = e.store.UpdateRound(round.Date, func(r *RoundState) error {
		for i := range r.Recommendations {
			if r.Recommendations[i].ID == entry.ID {
				r.Recommendations[i].DBID = record.ID
				break
			}
		}
		return nil
	})
	entry.DBID = record.ID
	return nil
}

// persistVote upserts on (recommendation_id, user_id): first vote
// inserts, a category change updates the existing row in place.
func (e *Engine) persistVote(rec *RecommendationEntry, userID uint, category string) error {
	if e.db == nil {
		return nil
	}
	if rec.DBID == 0 {
		return errors.New("recommendation not persisted")
	}
	record := db.Vote{
		RecommendationID: rec.DBID,
		UserID:           userID,
		Category:         category,
	}
	return e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recommendation_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "updated_at"}),
	}).Create(&record).Error
}

func (e *Engine) persistEvent(round *RoundState, eventType string, payload EventPayload) {
	if e.db == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := db.Event{
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if round != nil && round.DBID != 0 {
		id := round.DBID
		event.RoundID = &id
	}
	if payload.UserID != 0 {
		id := payload.UserID
		event.UserID = &id
	}
	_ = e.db.Create(&event).Error
}

// loadRound rehydrates a round with its recommendations, votes, and
// submitter display names from the database. Returns nil when the row
// does not exist or the store is unavailable.
func (e *Engine) loadRound(date string) *RoundState {
	if e.db == nil {
		return nil
	}
	var record db.Round
	if err := e.db.Where("round_date = ?", date).First(&record).Error; err != nil {
		return nil
	}
	var recs []db.Recommendation
	if err := e.db.Where("round_id = ?", record.ID).Order("created_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil
	}
	recIDs := make([]uint, 0, len(recs))
	userIDs := make([]uint, 0, len(recs))
	for _, rec := range recs {
		recIDs = append(recIDs, rec.ID)
		userIDs = append(userIDs, rec.UserID)
	}
	names := e.loadAnonNames(userIDs)
	votesByRec := e.loadVotes(recIDs)

	round := &RoundState{
		Date:     record.RoundDate,
		DBID:     record.ID,
		Deadline: record.Deadline,
		Status:   record.Status,
		WinnerID: -1,
	}
	if record.WinnerRecommendationID != nil {
		round.WinnerDBID = *record.WinnerRecommendationID
	}
	for _, rec := range recs {
		round.Recommendations = append(round.Recommendations, RecommendationEntry{
			DBID:           rec.ID,
			UserID:         rec.UserID,
			AnonName:       names[rec.UserID],
			RestaurantName: rec.RestaurantName,
			Location:       rec.Location,
			LinkURL:        rec.LinkURL,
			OneLineReason:  rec.OneLineReason,
			CreatedAt:      rec.CreatedAt,
			Votes:          votesByRec[rec.ID],
		})
	}
	return round
}

func (e *Engine) loadAnonNames(userIDs []uint) map[uint]string {
	names := make(map[uint]string)
	if e.db == nil || len(userIDs) == 0 {
		return names
	}
	var users []db.User
	if err := e.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return names
	}
	for _, user := range users {
		names[user.ID] = user.AnonName
	}
	return names
}

func (e *Engine) loadVotes(recIDs []uint) map[uint][]VoteEntry {
	votes := make(map[uint][]VoteEntry)
	if e.db == nil || len(recIDs) == 0 {
		return votes
	}
	var records []db.Vote
	if err := e.db.Where("recommendation_id IN ?", recIDs).Order("id ASC").Find(&records).Error; err != nil {
		return votes
	}
	for _, record := range records {
		votes[record.RecommendationID] = append(votes[record.RecommendationID], VoteEntry{
			UserID:   record.UserID,
			Category: record.Category,
			DBID:     record.ID,
		})
	}
	return votes
}

// overdueRoundDates lists open rounds in the database whose deadline has
// already passed; the scheduler's catch-up pass closes them.
func (e *Engine) overdueRoundDates(now time.Time) []string {
	if e.db == nil {
		return nil
	}
	var dates []string
	if err := e.db.Model(&db.Round{}).
		Where("status = ? AND deadline <= ?", StatusOpen, now).
		Order("round_date ASC").
		Pluck("round_date", &dates).Error; err != nil {
		return nil
	}
	return dates
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
