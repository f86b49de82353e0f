package runtime

import (
	"context"
	"testing"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64, opts ...EngineOption) *Engine {
	opts = append([]EngineOption{
		WithOutcomeEngine(probability.NewEngine(probability.WithSource(probability.NewSeededSource(seed)))),
	}, opts...)
	return NewEngine(opts...)
}

func TestSimulate_Completes(t *testing.T) {
	finished := 0
	for seed := uint64(1); seed <= 20; seed++ {
		s := newGame(t)
		res, err := seeded(seed).Simulate(context.Background(), s)
		require.NoError(t, err)

		assert.Len(t, res.Snapshots, res.Plays+1)
		assert.LessOrEqual(t, res.Plays, DefaultMaxPlays)
		assert.Same(t, s, res.State)

		first := res.Snapshots[0]
		assert.Equal(t, 1, first.Inning)
		assert.Equal(t, 0, first.AwayTotal+first.HomeTotal)

		for i, snap := range res.Snapshots {
			assert.Equal(t, snap.AwayTotal, sumInts(snap.AwayScore), "snapshot %d", i)
			assert.Equal(t, snap.HomeTotal, sumInts(snap.HomeScore), "snapshot %d", i)
			assert.LessOrEqual(t, snap.Outs, 2)
			assert.LessOrEqual(t, snap.Balls, 3)
			assert.LessOrEqual(t, snap.Strikes, 2)
		}

		if res.CeilingReached {
			assert.Equal(t, domain.StatusActive, s.Status)
			continue
		}
		finished++
		assert.Equal(t, domain.StatusFinal, s.Status)
		assert.NotEqual(t, s.HomeTotal, s.AwayTotal, "games never end tied")
		assert.Equal(t, domain.StatusFinal, res.Snapshots[len(res.Snapshots)-1].Status)
		assert.NoError(t, s.Validate())
	}
	assert.GreaterOrEqual(t, finished, 15)
}

func TestSimulate_Ceiling(t *testing.T) {
	s := newGame(t)
	res, err := seeded(3, WithMaxPlays(10)).Simulate(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, res.CeilingReached)
	assert.Equal(t, 10, res.Plays)
	assert.Len(t, res.Snapshots, 11)
	assert.Equal(t, domain.StatusActive, s.Status)
}

func TestSimulate_Deterministic(t *testing.T) {
	a, b := newGame(t), newGame(t)

	_, err := seeded(99).Simulate(context.Background(), a)
	require.NoError(t, err)
	_, err = seeded(99).Simulate(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, a.PlayLog, b.PlayLog)
	assert.Equal(t, a.AwayScore, b.AwayScore)
	assert.Equal(t, a.HomeScore, b.HomeScore)
}

func TestSimulate_FinalGame(t *testing.T) {
	s := newGame(t)
	s.Status = domain.StatusFinal

	res, err := NewEngine().Simulate(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrGameOver)
	assert.Nil(t, res)
}

func TestSimulate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Simulate(ctx, newGame(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulate_WithoutLineups(t *testing.T) {
	s := domain.NewGameState("bare")
	res, err := seeded(11).Simulate(context.Background(), s)
	require.NoError(t, err)

	assert.Empty(t, s.CurrentBatterName)
	assert.Greater(t, res.Plays, 0)
	assert.Contains(t, res.Snapshots[1].LastPlay, "Batter")
}

func sumInts(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
