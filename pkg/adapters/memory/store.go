package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/ballpark/pkg/domain"
)

// Store implements ports.GameStore in memory. Games are lost on restart.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.GameState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.GameState),
	}
}

// Save stores a deep copy of the state.
func (s *Store) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[gameID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate stored games by pointer.
func (s *Store) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return state.Clone(), nil
}

// Delete removes the game.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, gameID)
	return nil
}

// List returns stored game IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]string, 0, len(s.data))
	for id := range s.data {
		games = append(games, id)
	}
	sort.Strings(games)
	return games, nil
}
