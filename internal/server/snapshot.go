package server

import (
	"time"

	"anisbee/internal/lunch"
)

// roundSnapshot builds the lunch view model the page and the websocket
// both consume. Recommendations keep submission order; the winner is
// flagged in place, never by reordering. A zero viewerID simply omits
// the viewer's own vote annotation.
func (s *Server) roundSnapshot(round *lunch.RoundState, viewerID uint) map[string]any {
	now := s.engine.Clock()
	if round == nil {
		return map[string]any{"ready": false}
	}
	phase := lunch.Phase(round, now)
	remaining := int(round.Deadline.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	recs := make([]map[string]any, 0, len(round.Recommendations))
	for _, rec := range round.Recommendations {
		tally := lunch.TallyVotes(rec.Votes)
		entry := map[string]any{
			"id":              rec.ID,
			"anon_name":       rec.AnonName,
			"restaurant_name": rec.RestaurantName,
			"location":        rec.Location,
			"link_url":        rec.LinkURL,
			"one_line_reason": rec.OneLineReason,
			"tally": map[string]int{
				"want":   tally.Want,
				"unsure": tally.Unsure,
				"wtf":    tally.WTF,
			},
			"score":     lunch.Score(tally),
			"is_winner": phase == lunch.PhaseClosed && rec.ID == round.WinnerID,
		}
		if viewerID != 0 {
			if vote := rec.VoteBy(viewerID); vote != "" {
				entry["my_vote"] = vote
			}
		}
		recs = append(recs, entry)
	}

	snapshot := map[string]any{
		"ready":             true,
		"date":              round.Date,
		"phase":             phase,
		"deadline":          round.Deadline.UTC().Format(time.RFC3339),
		"now":               now.UTC().Format(time.RFC3339),
		"seconds_remaining": remaining,
		"recommendations":   recs,
	}
	if phase == lunch.PhaseClosed && round.WinnerID >= 0 {
		snapshot["winner_id"] = round.WinnerID
	}
	return snapshot
}

func (s *Server) broadcastRound(round *lunch.RoundState) {
	s.hub.Broadcast(s.roundSnapshot(round, 0))
}
