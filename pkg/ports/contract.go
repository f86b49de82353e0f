package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGameStoreContract runs a suite of tests to verify that a GameStore
// implementation honors the interface contract.
func RunGameStoreContract(t *testing.T, store GameStore) {
	ctx := context.Background()
	gameID := fmt.Sprintf("contract-test-game-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewGameState(gameID)
		state.Inning = 4
		state.Bases = domain.Bases{true, false, true}
		state.HomeScore[2] = 3
		state.HomeTotal = 3
		state.PlayLog = append(state.PlayLog, "Play Ball!", "single")
		state.HomeLineup = []domain.Batter{{ID: 7, Name: "Slugger", Position: "1B", Stats: &domain.BattingStats{AVG: .300, SLG: .550}}}
		state.AwayPitcher = &domain.Pitcher{ID: 9, Name: "Ace", Position: "P", Stats: &domain.PitchingStats{ERA: 2.5}}

		require.NoError(t, store.Save(ctx, gameID, state), "Save should not return error")

		loaded, err := store.Load(ctx, gameID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, gameID, loaded.ID)
		assert.Equal(t, 4, loaded.Inning)
		assert.Equal(t, state.Bases, loaded.Bases)
		assert.Equal(t, state.HomeScore, loaded.HomeScore)
		assert.Equal(t, state.PlayLog, loaded.PlayLog)
		require.Len(t, loaded.HomeLineup, 1)
		assert.InDelta(t, .550, loaded.HomeLineup[0].Stats.SLG, 1e-9)
		require.NotNil(t, loaded.AwayPitcher)
		assert.Equal(t, "Ace", loaded.AwayPitcher.Name)
	})

	t.Run("Saved Copy Is Isolated", func(t *testing.T) {
		state := domain.NewGameState(gameID)
		require.NoError(t, store.Save(ctx, gameID, state))

		state.Outs = 2
		state.PlayLog = append(state.PlayLog, "mutated after save")

		loaded, err := store.Load(ctx, gameID)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Outs)
		assert.Empty(t, loaded.PlayLog)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+gameID)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, gameID, domain.NewGameState(gameID)))

		require.NoError(t, store.Delete(ctx, gameID), "Delete should not return error")

		_, err := store.Load(ctx, gameID)
		assert.ErrorIs(t, err, domain.ErrGameNotFound, "Load after Delete should return ErrGameNotFound")

		assert.NoError(t, store.Delete(ctx, gameID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := gameID + "-1"
		id2 := gameID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewGameState(id1)))
		require.NoError(t, store.Save(ctx, id2, domain.NewGameState(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		games, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, games, id1)
		assert.Contains(t, games, id2)
	})
}
