package lunch

import (
	"log"
	"sync"
	"time"
)

// Scheduler closes rounds at their deadline instant whether or not
// anyone loads the page. It runs a catch-up pass on start, then arms one
// timer per upcoming deadline, re-arming after each fire.
type Scheduler struct {
	engine *Engine
	mu     sync.Mutex
	timer  *time.Timer
	done   bool
}

func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{engine: engine}
}

// Start performs the catch-up pass, ensures today's round exists, and
// arms the timer for the next deadline.
func (s *Scheduler) Start() {
	s.engine.CatchUp()
	s.engine.TodayRound()
	s.arm()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) arm() {
	next := s.engine.NextDeadline()
	wait := next.Sub(s.engine.now())
	if wait < time.Second {
		wait = time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(wait, s.fire)
	log.Printf("lunch scheduler armed next_deadline=%s", next.UTC().Format(time.RFC3339))
}

// fire closes whatever is overdue, makes sure the new day's round
// exists, and re-arms for the next deadline.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.engine.CatchUp()
	s.engine.TodayRound()
	s.arm()
}
