package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// Store is the in-process session table. Operations on one session id are
// serialized on that session's own mutex; sessions with different ids only
// contend on the short map lookup.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	state domain.SessionState
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Update runs fn with exclusive access to the session, creating it on first
// use.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*domain.SessionState) error) error {
	if sessionID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "session update", fmt.Errorf("session id is required"))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := s.entryFor(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(&e.state); err != nil {
		return err
	}
	e.state.LastActiveAt = time.Now().UTC()
	return nil
}

func (s *Store) Get(_ context.Context, sessionID string) (domain.SessionState, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.SessionState{}, domain.WrapError(domain.ErrSessionNotFound, "session get",
			fmt.Errorf("session %q", sessionID))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return domain.WrapError(domain.ErrSessionNotFound, "session clear",
			fmt.Errorf("session %q", sessionID))
	}
	delete(s.sessions, sessionID)
	return nil
}

// PruneIdle evicts sessions idle longer than olderThan and returns how many
// were removed. Eviction is a resource bound, not a correctness mechanism.
func (s *Store) PruneIdle(olderThan time.Duration) int {
	cutoff := time.Now().UTC().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := !e.state.LastActiveAt.IsZero() && e.state.LastActiveAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) entryFor(sessionID string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[sessionID]; ok {
		return e
	}
	now := time.Now().UTC()
	e = &entry{state: domain.SessionState{ID: sessionID, CreatedAt: now, LastActiveAt: now}}
	s.sessions[sessionID] = e
	return e
}
