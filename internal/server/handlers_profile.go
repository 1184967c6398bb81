package server

import (
	"errors"
	"net/http"
)

type profileRequest struct {
	AnonName string `json:"anon_name"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.currentUser(w, r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"claimed": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claimed":         true,
		"anon_name":       user.AnonName,
		"avatar_color":    user.AvatarColor,
		"lunch_win_count": s.engine.WinCount(user.UserID),
	})
}

func (s *Server) handleClaimProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateAnonName(req.AnonName)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "anon_name", err.Error())
		return
	}
	user, err := s.sessions.claimName(w, r, name)
	if err != nil {
		if errors.Is(err, errNameTaken) {
			writeFieldError(w, http.StatusConflict, "anon_name", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to claim name")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claimed":      true,
		"anon_name":    user.AnonName,
		"avatar_color": user.AvatarColor,
	})
}
