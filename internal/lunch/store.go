package lunch

import (
	"errors"
	"sync"
	"time"
)

// Store holds live round state keyed by round date. It is the in-process
// system of record; persistence writes through to Postgres and the
// round_date unique index arbitrates between concurrent processes.
type Store struct {
	mu        sync.Mutex
	nextRecID int
	rounds    map[string]*RoundState
}

func NewStore() *Store {
	return &Store{
		nextRecID: 1,
		rounds:    make(map[string]*RoundState),
	}
}

// GetOrCreateRound returns the round for date, creating it open with the
// given deadline on first access. The second result reports whether the
// call created the round.
func (s *Store) GetOrCreateRound(date string, deadline time.Time) (*RoundState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round, ok := s.rounds[date]; ok {
		return round, false
	}
	round := &RoundState{
		Date:     date,
		Deadline: deadline,
		Status:   StatusOpen,
		WinnerID: -1,
	}
	s.rounds[date] = round
	return round, true
}

func (s *Store) GetRound(date string) (*RoundState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[date]
	return round, ok
}

// UpdateRound applies a mutation to the round for date under the store
// lock.
func (s *Store) UpdateRound(date string, update func(round *RoundState) error) (*RoundState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[date]
	if !ok {
		return nil, errors.New("round not found")
	}
	if err := update(round); err != nil {
		return nil, err
	}
	return round, nil
}

// AddRecommendation appends an entry to an open round, assigning its
// in-memory ID. The caller has already validated fields and gating.
func (s *Store) AddRecommendation(date string, entry RecommendationEntry) (*RoundState, *RecommendationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[date]
	if !ok {
		return nil, nil, errors.New("round not found")
	}
	for i := range round.Recommendations {
		if round.Recommendations[i].UserID == entry.UserID {
			return nil, nil, ErrDuplicateRecommendation
		}
	}
	entry.ID = s.nextRecID
	s.nextRecID++
	round.Recommendations = append(round.Recommendations, entry)
	return round, &round.Recommendations[len(round.Recommendations)-1], nil
}

// SetVote upserts the voter's vote on a recommendation: the first vote
// inserts, a repeat vote by the same voter swaps the category in place.
// This primitive carries no round-status check; callers gate on phase.
func (s *Store) SetVote(date string, recID int, userID uint, category string) (*RoundState, *RecommendationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[date]
	if !ok {
		return nil, nil, errors.New("round not found")
	}
	for i := range round.Recommendations {
		rec := &round.Recommendations[i]
		if rec.ID != recID {
			continue
		}
		for j := range rec.Votes {
			if rec.Votes[j].UserID == userID {
				rec.Votes[j].Category = category
				return round, rec, nil
			}
		}
		rec.Votes = append(rec.Votes, VoteEntry{UserID: userID, Category: category})
		return round, rec, nil
	}
	return nil, nil, ErrRecommendationNotFound
}

// CloneRound returns a deep copy of the round for date, taken under the
// store lock. Readers building view models use the copy so concurrent
// mutations never race their field reads.
func (s *Store) CloneRound(date string) (*RoundState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[date]
	if !ok {
		return nil, false
	}
	clone := *round
	clone.Recommendations = make([]RecommendationEntry, len(round.Recommendations))
	copy(clone.Recommendations, round.Recommendations)
	for i := range clone.Recommendations {
		votes := make([]VoteEntry, len(round.Recommendations[i].Votes))
		copy(votes, round.Recommendations[i].Votes)
		clone.Recommendations[i].Votes = votes
	}
	return &clone, true
}

// FindRecommendation locates an entry by in-memory ID across rounds.
func (s *Store) FindRecommendation(recID int) (*RoundState, *RecommendationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, round := range s.rounds {
		for i := range round.Recommendations {
			if round.Recommendations[i].ID == recID {
				return round, &round.Recommendations[i], true
			}
		}
	}
	return nil, nil, false
}

// AdoptRound installs a round rehydrated from the database, advancing the
// recommendation ID counter past any restored entries.
func (s *Store) AdoptRound(round *RoundState) {
	if round == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[round.Date]; ok {
		return
	}
	for i := range round.Recommendations {
		if round.Recommendations[i].ID == 0 {
			round.Recommendations[i].ID = s.nextRecID
			s.nextRecID++
		} else if round.Recommendations[i].ID >= s.nextRecID {
			s.nextRecID = round.Recommendations[i].ID + 1
		}
	}
	round.WinnerID = -1
	if round.WinnerDBID != 0 {
		for i := range round.Recommendations {
			if round.Recommendations[i].DBID == round.WinnerDBID {
				round.WinnerID = round.Recommendations[i].ID
				break
			}
		}
	}
	s.rounds[round.Date] = round
}

// OverdueOpenRounds lists dates of open rounds whose deadline has passed.
func (s *Store) OverdueOpenRounds(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dates []string
	for date, round := range s.rounds {
		if round.Status == StatusOpen && PastDeadline(now, round.Deadline) {
			dates = append(dates, date)
		}
	}
	return dates
}
