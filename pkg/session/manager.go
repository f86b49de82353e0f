package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/ballpark/internal/logging"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a game.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates game access, ensuring safe concurrent operations.
// Locks are reference counted and dropped once no caller holds them.
type Manager struct {
	store ports.GameStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
	onChange ports.ChangeFunc
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithOnChange calls fn after every successful Update, before the game is
// unlocked.
func WithOnChange(fn ports.ChangeFunc) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.GameStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(gameID) after unlocking.
func (m *Manager) acquire(gameID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[gameID]
	if !exists {
		entry = &lockEntry{}
		m.locks[gameID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[gameID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, gameID)
	}
}

// Load retrieves a game from the store.
func (m *Manager) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	var state *domain.GameState
	err := m.WithLock(ctx, gameID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, gameID)
		return err
	})
	return state, err
}

// Create stores a new game. It fails if the ID is already taken.
func (m *Manager) Create(ctx context.Context, state *domain.GameState) error {
	return m.WithLock(ctx, state.ID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, state.ID)
		if err == nil {
			return fmt.Errorf("game %s already exists", state.ID)
		}
		if !errors.Is(err, domain.ErrGameNotFound) {
			return fmt.Errorf("failed to check game existence: %w", err)
		}
		return m.store.Save(ctx, state.ID, state)
	})
}

// Update loads a game, lets fn mutate it and saves the result, all under the
// game's lock. Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, gameID string, fn func(context.Context, *domain.GameState) error) (*domain.GameState, error) {
	var state *domain.GameState
	err := m.WithLock(ctx, gameID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, gameID)
		if err != nil {
			return err
		}

		var before *domain.GameState
		if m.onChange != nil {
			before = state.Clone()
		}
		if err := fn(ctx, state); err != nil {
			return err
		}
		if err := m.store.Save(ctx, gameID, state); err != nil {
			return err
		}

		if m.onChange != nil {
			m.onChange(ctx, before, state)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save persists the game state.
func (m *Manager) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	return m.WithLock(ctx, gameID, func(ctx context.Context) error {
		return m.store.Save(ctx, gameID, state)
	})
}

// Delete removes the game from the store.
func (m *Manager) Delete(ctx context.Context, gameID string) error {
	return m.WithLock(ctx, gameID, func(ctx context.Context) error {
		return m.store.Delete(ctx, gameID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying game store.
func (m *Manager) Store() ports.GameStore {
	return m.store
}

// WithLock executes fn while holding the lock for the game.
func (m *Manager) WithLock(ctx context.Context, gameID string, fn func(context.Context) error) error {
	entry := m.acquire(gameID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(gameID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, gameID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, it will expire",
					"game_id", gameID,
					"ttl", m.lockTTL,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
