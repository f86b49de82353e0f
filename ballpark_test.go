package ballpark_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/adapters/memory"
	"github.com/aretw0/ballpark/pkg/adapters/roster"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...ballpark.Option) *ballpark.Engine {
	t.Helper()
	provider, err := roster.Sample(memory.WithSource(probability.NewSeededSource(1)))
	require.NoError(t, err)

	opts = append([]ballpark.Option{
		ballpark.WithProvider(provider),
		ballpark.WithSource(probability.NewSeededSource(42)),
	}, opts...)
	return ballpark.New(opts...)
}

func TestCreateGame_Default(t *testing.T) {
	eng := ballpark.New(ballpark.WithIDGenerator(func() string { return "game-1" }))
	ctx := context.Background()

	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	assert.Equal(t, "game-1", game.ID)
	assert.Equal(t, 1, game.Inning)
	assert.Equal(t, domain.HalfTop, game.Half)
	assert.Equal(t, domain.RolePitching, game.Role)
	assert.Equal(t, domain.StatusActive, game.Status)
	assert.Equal(t, []string{ballpark.DefaultGameMessage}, game.PlayLog)
	assert.Empty(t, game.HomeTeam)
	assert.Empty(t, game.AwayLineup)

	stored, err := eng.GetGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, game.PlayLog, stored.PlayLog)
}

func TestCreateGame_Matchup(t *testing.T) {
	eng := newEngine(t)

	game, err := eng.CreateGame(context.Background(), domain.NewGameRequest{
		TeamID:        112,
		AwayTeamID:    138,
		HomePitcherID: 1013,
	})
	require.NoError(t, err)

	assert.Equal(t, "Chicago Cubs", game.HomeTeam)
	assert.Equal(t, "CHC", game.HomeAbbreviation)
	assert.Equal(t, "St. Louis Cardinals", game.AwayTeam)
	assert.Equal(t, "STL", game.AwayAbbreviation)
	assert.Equal(t, "Play Ball! You're the Chicago Cubs vs the St. Louis Cardinals!", game.LastPlay)

	assert.Len(t, game.HomeLineup, domain.LineupSize)
	assert.Len(t, game.AwayLineup, domain.LineupSize)
	require.NotNil(t, game.HomePitcher)
	require.NotNil(t, game.AwayPitcher)
	assert.Equal(t, "Danny Torres", game.HomePitcher.Name, "requested pitcher")
	assert.Equal(t, "Frank Jensen", game.AwayPitcher.Name, "best ERA when none requested")

	assert.Equal(t, game.AwayLineup[0].Name, game.CurrentBatterName)
	assert.NoError(t, game.Validate())
}

func TestCreateGame_RandomOpponent(t *testing.T) {
	eng := newEngine(t)

	for _, awayID := range []int{0, 112, 99999} {
		game, err := eng.CreateGame(context.Background(), domain.NewGameRequest{TeamID: 112, AwayTeamID: awayID})
		require.NoError(t, err)

		assert.Equal(t, "Chicago Cubs", game.HomeTeam)
		assert.NotEmpty(t, game.AwayTeam, "away %d", awayID)
		assert.NotEqual(t, game.HomeTeam, game.AwayTeam, "away %d", awayID)
	}
}

func TestCreateGame_UnknownTeamFallsBackToDefault(t *testing.T) {
	eng := newEngine(t)

	game, err := eng.CreateGame(context.Background(), domain.NewGameRequest{TeamID: 424242})
	require.NoError(t, err)

	assert.Equal(t, ballpark.DefaultGameMessage, game.LastPlay)
	assert.Empty(t, game.HomeTeam)
	assert.Empty(t, game.HomeLineup)
	assert.Nil(t, game.HomePitcher)
}

// flakyProvider knows its teams but fails every roster call.
type flakyProvider struct {
	*memory.Provider
}

func (flakyProvider) Lineup(context.Context, int, int) ([]domain.Batter, error) {
	return nil, fmt.Errorf("%w: timeout", domain.ErrProviderUnavailable)
}

func (flakyProvider) StartingPitcher(context.Context, int, int, int) (domain.Pitcher, error) {
	return domain.Pitcher{}, errors.New("connection reset")
}

func TestCreateGame_RosterFailureUsesPlaceholders(t *testing.T) {
	sample, err := roster.Sample()
	require.NoError(t, err)
	eng := ballpark.New(ballpark.WithProvider(flakyProvider{sample}))

	game, err := eng.CreateGame(context.Background(), domain.NewGameRequest{TeamID: 147, AwayTeamID: 119})
	require.NoError(t, err)

	assert.Equal(t, "New York Yankees", game.HomeTeam)
	require.Len(t, game.HomeLineup, domain.LineupSize)
	assert.Equal(t, "Player 1", game.HomeLineup[0].Name)
	assert.Equal(t, "UT", game.HomeLineup[0].Position)
	require.NotNil(t, game.AwayPitcher)
	assert.Equal(t, domain.PlaceholderPitcher().Name, game.AwayPitcher.Name)
}

func TestProcessPitch(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{TeamID: 112})
	require.NoError(t, err)

	updated, err := eng.ProcessPitch(ctx, game.ID, "Curveball")
	require.NoError(t, err)
	assert.Greater(t, len(updated.PlayLog), len(game.PlayLog))
	assert.True(t, strings.HasPrefix(updated.PlayLog[1], "You throw a curveball."), updated.PlayLog[1])

	stored, err := eng.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.PlayLog, stored.PlayLog)
}

func TestProcessPitch_Errors(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	_, err = eng.ProcessPitch(ctx, game.ID, "knuckleball")
	assert.ErrorIs(t, err, domain.ErrInvalidPitchType)

	_, err = eng.ProcessPitch(ctx, "missing", domain.PitchFastball)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	_, err = eng.ProcessAtBat(ctx, game.ID, "bunt")
	assert.ErrorIs(t, err, domain.ErrInvalidBatAction)
}

func TestProcessAtBat_OutOfRole(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	updated, err := eng.ProcessAtBat(ctx, game.ID, domain.ActionSwing)
	require.NoError(t, err)

	assert.Equal(t, "You're pitching right now, not batting!", updated.LastPlay)
	assert.Equal(t, game.PlayLog, updated.PlayLog)
	assert.Equal(t, 0, updated.Strikes+updated.Balls)
}

func TestSimulateGame(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{TeamID: 112, AwayTeamID: 147})
	require.NoError(t, err)

	res, err := eng.SimulateGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, res.Snapshots, res.Plays+1)

	stored, err := eng.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, res.State.Status, stored.Status)
	assert.Equal(t, res.State.PlayLog, stored.PlayLog)

	if !res.CeilingReached {
		assert.Equal(t, domain.StatusFinal, stored.Status)
		assert.Contains(t, stored.LastPlay, "Game Over! Final: Chicago Cubs")

		_, err = eng.SimulateGame(ctx, game.ID)
		assert.ErrorIs(t, err, domain.ErrGameOver)

		final, err := eng.ProcessPitch(ctx, game.ID, domain.PitchFastball)
		require.NoError(t, err)
		assert.Equal(t, stored.PlayLog, final.PlayLog, "final games are not modified")
	}
}

func TestSimulateGame_CeilingIsResumable(t *testing.T) {
	eng := newEngine(t, ballpark.WithMaxPlays(5))
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	res, err := eng.SimulateGame(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, res.CeilingReached)
	assert.Equal(t, 5, res.Plays)

	stored, err := eng.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)

	res, err = eng.SimulateGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Plays)
	assert.Len(t, res.Snapshots[0].PlayLog, len(stored.PlayLog))
}

func TestSimulateGame_NotFound(t *testing.T) {
	_, err := newEngine(t).SimulateGame(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestConcurrentPitchesAreSerialized(t *testing.T) {
	var plays atomic.Int64
	eng := newEngine(t, ballpark.WithLifecycleHooks(domain.LifecycleHooks{
		OnPlay: func(context.Context, *domain.PlayEvent) { plays.Add(1) },
	}))
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, err := eng.ProcessPitch(ctx, game.ID, domain.PitchChangeup)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	stored, err := eng.GetGame(ctx, game.ID)
	require.NoError(t, err)

	thrown := 0
	for _, line := range stored.PlayLog {
		if strings.HasPrefix(line, "You throw a changeup.") {
			thrown++
		}
	}
	assert.Equal(t, int(plays.Load()), thrown, "every applied pitch was saved")
	assert.NoError(t, stored.Validate())
}

func TestGameAdministration(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	a, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)
	b, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	ids, err := eng.ListGames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	require.NoError(t, eng.DeleteGame(ctx, a.ID))
	_, err = eng.GetGame(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestTeamsAndPitchers(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	teams, err := eng.Teams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 4)

	staff, err := eng.Pitchers(ctx, 112, 0)
	require.NoError(t, err)
	require.NotEmpty(t, staff)
	assert.Equal(t, "Zach Kato", staff[0].Name)
	for i := 1; i < len(staff); i++ {
		assert.LessOrEqual(t, staff[i-1].Stats.ERA, staff[i].Stats.ERA)
	}

	_, err = eng.Pitchers(ctx, 5, 2024)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestTeams_NoProvider(t *testing.T) {
	_, err := ballpark.New().Teams(context.Background())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestOnChange(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	game, err := eng.CreateGame(ctx, domain.NewGameRequest{})
	require.NoError(t, err)

	var mu sync.Mutex
	var afters []*domain.GameState
	var chained atomic.Bool
	chained.Store(true)
	remove := eng.OnChange(func(ctx context.Context, before, after *domain.GameState) {
		mu.Lock()
		defer mu.Unlock()
		if n := len(afters); n > 0 && !slices.Equal(before.PlayLog, afters[n-1].PlayLog) {
			chained.Store(false)
		}
		afters = append(afters, after.Clone())
	})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.ProcessPitch(ctx, game.ID, domain.PitchCurveball)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, afters, 10)
	assert.True(t, chained.Load(), "each change starts where the previous one ended")

	stored, err := eng.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.PlayLog, afters[len(afters)-1].PlayLog)

	remove()
	_, err = eng.SimulateGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, afters, 10)
}
