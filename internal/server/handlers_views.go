package server

import (
	"net/http"

	"anisbee/internal/lunch"
	"anisbee/internal/web"

	"github.com/a-h/templ"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	name := ""
	if user, ok := s.sessions.currentUser(w, r); ok {
		name = user.AnonName
	}
	templ.Handler(web.Home(name)).ServeHTTP(w, r)
}

func (s *Server) handleLunchView(w http.ResponseWriter, r *http.Request) {
	name := ""
	if user, ok := s.sessions.currentUser(w, r); ok {
		name = user.AnonName
	}
	round := s.engine.TodaySnapshot()
	view := web.LunchView{AnonName: name}
	if round != nil {
		view.Phase = lunch.Phase(round, s.engine.Clock())
		view.Date = round.Date
		view.Deadline = round.Deadline.Format("15:04")
	}
	templ.Handler(web.Lunch(view)).ServeHTTP(w, r)
}
