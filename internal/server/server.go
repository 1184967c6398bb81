package server

import (
	"net/http"

	"anisbee/internal/config"
	"anisbee/internal/lunch"

	"gorm.io/gorm"
)

type Server struct {
	db       *gorm.DB
	engine   *lunch.Engine
	cfg      config.Config
	sessions *sessionStore
	hub      *lunchHub
}

func New(conn *gorm.DB, engine *lunch.Engine, cfg config.Config) *Server {
	s := &Server{
		db:       conn,
		engine:   engine,
		cfg:      cfg,
		sessions: newSessionStore(conn),
		hub:      newLunchHub(),
	}
	engine.SetOnChange(s.broadcastRound)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /lunch", s.handleLunchView)

	mux.HandleFunc("GET /api/lunch/today", s.handleLunchToday)
	mux.HandleFunc("POST /api/lunch/recommendations", s.handleSubmitRecommendation)
	mux.HandleFunc("GET /api/lunch/recommendations/mine", s.handleMyRecommendations)
	mux.HandleFunc("POST /api/lunch/votes", s.handleLunchVote)
	mux.HandleFunc("GET /api/lunch/yesterday", s.handleYesterdayWinner)
	mux.HandleFunc("GET /api/lunch/winners", s.handleWinnerMenus)
	mux.HandleFunc("GET /api/lunch/hall-of-fame", s.handleHallOfFame)
	mux.HandleFunc("POST /api/admin/lunch-settings", s.handleUpdateLunchSettings)

	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("POST /api/profile", s.handleClaimProfile)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /api/posts/{id}/comments", s.handleCreateComment)
	mux.HandleFunc("POST /api/posts/{id}/reactions", s.handleSetReaction)

	mux.HandleFunc("GET /ws/lunch", s.handleLunchWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
