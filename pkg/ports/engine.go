package ports

import (
	"context"

	"github.com/aretw0/ballpark/pkg/domain"
)

// GameService is the set of game operations adapters (HTTP, MCP, CLI) drive.
// Every call that takes a game ID is serialized per ID by the implementation.
type GameService interface {
	// CreateGame starts a new game. It only fails on storage errors.
	CreateGame(ctx context.Context, req domain.NewGameRequest) (*domain.GameState, error)

	// ProcessPitch applies a pitch thrown by the human player.
	ProcessPitch(ctx context.Context, gameID string, pitch domain.PitchType) (*domain.GameState, error)

	// ProcessAtBat applies the human player's swing or take.
	ProcessAtBat(ctx context.Context, gameID string, action domain.BatAction) (*domain.GameState, error)

	// SimulateGame auto-plays an active game to the end.
	SimulateGame(ctx context.Context, gameID string) (*domain.SimulationResult, error)

	// GetGame returns the stored state.
	GetGame(ctx context.Context, gameID string) (*domain.GameState, error)

	// DeleteGame removes a stored game.
	DeleteGame(ctx context.Context, gameID string) error

	// ListGames returns the IDs of stored games.
	ListGames(ctx context.Context) ([]string, error)

	// Teams lists the provider's teams.
	Teams(ctx context.Context) ([]domain.Team, error)

	// Pitchers lists a team's staff by ERA.
	Pitchers(ctx context.Context, teamID, season int) ([]domain.Pitcher, error)

	// OnChange registers fn for every stored change of a game. The returned
	// func unregisters it.
	OnChange(fn ChangeFunc) (remove func())
}

// ChangeFunc receives a game before and after one stored change. It runs
// while the game is still locked, so the calls for one game arrive in order
// and each before is the previous after. It must not modify either state or
// call back into the service for the same game.
type ChangeFunc func(ctx context.Context, before, after *domain.GameState)
