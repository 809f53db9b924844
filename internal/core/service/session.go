package service

import (
	"context"
	"sync"

	"github.com/niksmo/pricecheck/internal/core/domain"
	"github.com/niksmo/pricecheck/pkg/logger"
)

// A Session keeps the state of one barcode view across searches.
//
// When searches overlap, only the most recently started one is applied;
// completions of older searches are dropped.
type Session struct {
	svc Service

	mu    sync.Mutex
	seq   uint64
	state domain.SearchState
}

func NewSession(svc Service) *Session {
	return &Session{svc: svc}
}

// Search runs a search and returns the resulting state snapshot.
func (s *Session) Search(ctx context.Context, barcode string) domain.SearchState {
	const op = "Session.Search"

	barcode, err := normalize(barcode)
	if err != nil {
		s.mu.Lock()
		s.state.Reject(err)
		snap := s.state.Clone()
		s.mu.Unlock()
		return snap
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Begin(barcode)
	s.mu.Unlock()

	ps, err := s.svc.find(ctx, barcode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		log := logger.FromContext(ctx, op)
		log.Debug().Str("barcode", barcode).Msg("dropped stale search result")
		return s.state.Clone()
	}

	s.state.Finish(ps, err)
	return s.state.Clone()
}

// State returns a snapshot of the current state.
func (s *Session) State() domain.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Reset discards the held results, as on view teardown. A search in
// flight at that moment is not applied.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state.Clear()
}
