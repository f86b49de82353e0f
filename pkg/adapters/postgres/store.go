// Package postgres implements ports.GameStore on PostgreSQL.
// Each game is one row holding the JSON-encoded state.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/lib/pq"
)

// DefaultTable is the table games are stored in.
const DefaultTable = "ballpark_games"

// Config holds the connection pool settings.
type Config struct {
	DSN          string
	Table        string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	QueryTimeout time.Duration
}

// Store implements ports.GameStore using database/sql and lib/pq.
type Store struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

// Open connects, verifies the connection and creates the table if needed.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	store := NewFromDB(db, cfg.Table)
	if cfg.QueryTimeout > 0 {
		store.timeout = cfg.QueryTimeout
	}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewFromDB wraps an existing pool. The table is not created.
func NewFromDB(db *sql.DB, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, table: pq.QuoteIdentifier(table), timeout: 3 * time.Second}
}

// Migrate creates the games table.
func (s *Store) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create games table: %w", err)
	}
	return nil
}

// Save upserts the game row.
func (s *Store) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, status, state, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, state = EXCLUDED.state, updated_at = now()`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, stmt, gameID, string(state.Status), data); err != nil {
		return fmt.Errorf("failed to save game %s: %w", gameID, err)
	}
	return nil
}

// Load reads the game row.
func (s *Store) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	stmt := fmt.Sprintf(`SELECT state FROM %s WHERE id = $1`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var data []byte
	err := s.db.QueryRowContext(ctx, stmt, gameID).Scan(&data)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, domain.ErrGameNotFound
		default:
			return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
		}
	}

	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameID, err)
	}
	return &state, nil
}

// Delete removes the game row.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, stmt, gameID); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

// List returns game IDs, most recently played first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	stmt := fmt.Sprintf(`SELECT id FROM %s ORDER BY updated_at DESC`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		games = append(games, id)
	}
	return games, rows.Err()
}

// ActiveGames returns the IDs of games still in progress.
func (s *Store) ActiveGames(ctx context.Context) ([]string, error) {
	stmt := fmt.Sprintf(`SELECT id FROM %s WHERE status = $1 ORDER BY updated_at DESC`, s.table)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var ids []string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT coalesce(array_agg(id), '{}') FROM (%s) t`, stmt), string(domain.StatusActive)).
		Scan(pq.Array(&ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}
	return ids, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
