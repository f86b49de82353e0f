package ports

import (
	"context"

	"github.com/aretw0/ballpark/pkg/domain"
)

// GameStore persists game state between requests.
// Implementations must store a copy: callers keep mutating the state they saved.
type GameStore interface {
	// Save creates or overwrites the state for a game ID.
	Save(ctx context.Context, gameID string, state *domain.GameState) error

	// Load retrieves the state for a game ID.
	// Returns domain.ErrGameNotFound if the game does not exist.
	Load(ctx context.Context, gameID string) (*domain.GameState, error)

	// Delete removes a game. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, gameID string) error

	// List returns the IDs of all stored games.
	List(ctx context.Context) ([]string, error)
}
