package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// adminRequest reports whether the caller may change site settings:
// either a user flagged as admin, or a request carrying the configured
// admin token. An empty configured token disables the header path.
func (s *Server) adminRequest(w http.ResponseWriter, r *http.Request) bool {
	if user, ok := s.sessions.currentUser(w, r); ok && user.IsAdmin {
		return true
	}
	if s.cfg.AdminToken == "" {
		return false
	}
	provided := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.AdminToken)) == 1
}
