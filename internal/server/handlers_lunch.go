package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"anisbee/internal/lunch"
)

type recommendationRequest struct {
	RestaurantName string `json:"restaurant_name"`
	Location       string `json:"location"`
	LinkURL        string `json:"link_url"`
	OneLineReason  string `json:"one_line_reason"`
}

type voteRequest struct {
	RecommendationID int    `json:"recommendation_id"`
	Category         string `json:"category"`
}

type lunchSettingsRequest struct {
	Timezone     string `json:"timezone"`
	DeadlineHour int    `json:"deadline_hour"`
}

func (s *Server) handleLunchToday(w http.ResponseWriter, r *http.Request) {
	viewer, _ := s.sessions.currentUser(w, r)
	round := s.engine.TodaySnapshot()
	writeJSON(w, http.StatusOK, s.roundSnapshot(round, viewer.UserID))
}

func (s *Server) handleSubmitRecommendation(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "claim an anonymous name first")
		return
	}
	var req recommendationRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, err := validateRestaurantName(req.RestaurantName)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "restaurant_name", err.Error())
		return
	}
	reason, err := validateReason(req.OneLineReason)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "one_line_reason", err.Error())
		return
	}
	location, err := validateLocation(req.Location)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "location", err.Error())
		return
	}
	link, err := validateLink(req.LinkURL)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "link_url", err.Error())
		return
	}

	rec, err := s.engine.Submit(user.UserID, user.AnonName, lunch.SubmitInput{
		RestaurantName: name,
		Location:       location,
		LinkURL:        link,
		OneLineReason:  reason,
	})
	switch {
	case errors.Is(err, lunch.ErrDuplicateRecommendation):
		writeError(w, http.StatusConflict, "you already recommended a place today; multiple recommendations per round aren't enabled yet")
		return
	case errors.Is(err, lunch.ErrRoundNotOpen):
		writeError(w, http.StatusConflict, "today's round is no longer accepting recommendations")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to submit recommendation")
		return
	}
	log.Printf("recommendation submitted user_id=%d restaurant=%q", user.UserID, rec.RestaurantName)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":              rec.ID,
		"restaurant_name": rec.RestaurantName,
	})
}

func (s *Server) handleMyRecommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": []any{}})
		return
	}
	mine := s.engine.MyRecommendations(user.UserID)
	entries := make([]map[string]any, 0, len(mine))
	for _, rec := range mine {
		entries = append(entries, map[string]any{
			"id":              rec.ID,
			"restaurant_name": rec.RestaurantName,
			"location":        rec.Location,
			"link_url":        rec.LinkURL,
			"one_line_reason": rec.OneLineReason,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": entries})
}

// handleLunchVote relies on the engine's phase gate, which checks the
// round owning the recommendation: past-deadline and closed are equally
// non-mutable even though the store primitive would accept the write.
func (s *Server) handleLunchVote(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "claim an anonymous name first")
		return
	}
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !lunch.ValidCategory(req.Category) {
		writeFieldError(w, http.StatusBadRequest, "category", "category must be want, unsure, or wtf")
		return
	}

	if err := s.engine.SetVote(req.RecommendationID, user.UserID, req.Category); err != nil {
		switch {
		case errors.Is(err, lunch.ErrRecommendationNotFound):
			writeError(w, http.StatusNotFound, "recommendation not found")
		case errors.Is(err, lunch.ErrRoundNotOpen):
			writeError(w, http.StatusConflict, "voting is closed for this round")
		default:
			writeError(w, http.StatusInternalServerError, "failed to record vote")
		}
		return
	}
	writeJSON(w, http.StatusOK, s.roundSnapshot(s.engine.TodaySnapshot(), user.UserID))
}

func (s *Server) handleYesterdayWinner(w http.ResponseWriter, r *http.Request) {
	winner := s.engine.YesterdayWinner()
	if winner == nil {
		writeJSON(w, http.StatusOK, map[string]any{"winner": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"winner": winner})
}

func (s *Server) handleWinnerMenus(w http.ResponseWriter, r *http.Request) {
	menus := s.engine.WinnerMenus()
	if menus == nil {
		menus = []lunch.WinnerMenu{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"winners": menus})
}

func (s *Server) handleHallOfFame(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	entries := s.engine.HallOfFame(limit)
	if entries == nil {
		entries = []lunch.FameEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hall_of_fame": entries})
}

func (s *Server) handleUpdateLunchSettings(w http.ResponseWriter, r *http.Request) {
	if !s.adminRequest(w, r) {
		writeError(w, http.StatusForbidden, "admin only")
		return
	}
	var req lunchSettingsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.engine.UpdateSettings(req.Timezone, req.DeadlineHour); err != nil {
		if errors.Is(err, lunch.ErrSettingsLocked) {
			writeError(w, http.StatusConflict, "today's round already closed; change settings tomorrow")
			return
		}
		writeFieldError(w, http.StatusBadRequest, "timezone", err.Error())
		return
	}
	log.Printf("lunch settings updated timezone=%s deadline_hour=%d", req.Timezone, req.DeadlineHour)
	settings := s.engine.CurrentSettings()
	writeJSON(w, http.StatusOK, map[string]any{
		"timezone":      settings.Timezone,
		"deadline_hour": settings.DeadlineHour,
	})
}
