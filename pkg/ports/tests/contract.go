// Package tests holds reusable contract suites for port implementations.
package tests

import (
	"context"
	"testing"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DataProviderContractTest verifies that an adapter complies with ports.DataProvider.
// teamID must be a team with at least one pitcher in season.
func DataProviderContractTest(t *testing.T, provider ports.DataProvider, teamID, season int) {
	t.Helper()
	ctx := context.Background()

	t.Run("ListTeams", func(t *testing.T) {
		teams, err := provider.ListTeams(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, teams)

		found := false
		for _, team := range teams {
			assert.NotEmpty(t, team.Name)
			if team.ID == teamID {
				found = true
			}
		}
		assert.True(t, found, "team %d should be listed", teamID)
	})

	t.Run("Team_NotFound", func(t *testing.T) {
		_, err := provider.Team(ctx, -1)
		assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	})

	t.Run("Lineup", func(t *testing.T) {
		lineup, err := provider.Lineup(ctx, teamID, season)
		require.NoError(t, err)
		assert.Len(t, lineup, domain.LineupSize)
		for i, b := range lineup {
			assert.NotEmpty(t, b.Name, "slot %d", i)
			assert.NotEmpty(t, b.Position, "slot %d", i)
		}
	})

	t.Run("Pitchers_SortedByERA", func(t *testing.T) {
		pitchers, err := provider.Pitchers(ctx, teamID, season)
		require.NoError(t, err)
		require.NotEmpty(t, pitchers)
		for i := 1; i < len(pitchers); i++ {
			assert.LessOrEqual(t, pitchers[i-1].Stats.ERA, pitchers[i].Stats.ERA)
		}
	})

	t.Run("StartingPitcher_DefaultsToBest", func(t *testing.T) {
		pitchers, err := provider.Pitchers(ctx, teamID, season)
		require.NoError(t, err)

		best, err := provider.StartingPitcher(ctx, teamID, season, 0)
		require.NoError(t, err)
		assert.Equal(t, pitchers[0].ID, best.ID)

		unknown, err := provider.StartingPitcher(ctx, teamID, season, -42)
		require.NoError(t, err)
		assert.Equal(t, pitchers[0].ID, unknown.ID)

		last := pitchers[len(pitchers)-1]
		chosen, err := provider.StartingPitcher(ctx, teamID, season, last.ID)
		require.NoError(t, err)
		assert.Equal(t, last.ID, chosen.ID)
	})

	t.Run("RandomOpponent", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			opp, err := provider.RandomOpponent(ctx, teamID)
			require.NoError(t, err)
			assert.NotEqual(t, teamID, opp.ID)
		}
	})
}
