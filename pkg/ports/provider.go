package ports

import (
	"context"

	"github.com/aretw0/ballpark/pkg/domain"
)

// DataProvider supplies real teams, lineups and player stats.
// Any method may fail; the facade falls back to defaults instead of failing a game.
type DataProvider interface {
	// ListTeams returns every team the provider knows.
	ListTeams(ctx context.Context) ([]domain.Team, error)

	// Team returns one team, or domain.ErrTeamNotFound.
	Team(ctx context.Context, teamID int) (domain.Team, error)

	// Lineup returns exactly domain.LineupSize batters in batting order.
	Lineup(ctx context.Context, teamID, season int) ([]domain.Batter, error)

	// StartingPitcher returns the requested pitcher, or the team's best by ERA
	// when pitcherID is zero or not on the staff.
	StartingPitcher(ctx context.Context, teamID, season, pitcherID int) (domain.Pitcher, error)

	// Pitchers returns the staff sorted by ERA, best first.
	Pitchers(ctx context.Context, teamID, season int) ([]domain.Pitcher, error)

	// RandomOpponent picks any team other than excludeTeamID.
	RandomOpponent(ctx context.Context, excludeTeamID int) (domain.Team, error)
}
