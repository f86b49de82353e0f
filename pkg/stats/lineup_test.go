package stats_test

import (
	"testing"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitter(id int, pos string, avg, slg float64) domain.Batter {
	return domain.Batter{ID: id, Name: pos, Position: pos, Stats: &domain.BattingStats{AVG: avg, SLG: slg}}
}

func TestBuildLineup_PositionsThenOPS(t *testing.T) {
	roster := []domain.Batter{
		hitter(1, "C", .220, .350),
		hitter(2, "C", .280, .450), // better catcher
		hitter(3, "1B", .300, .600),
		hitter(4, "2B", .250, .380),
		hitter(5, "3B", .260, .420),
		hitter(6, "SS", .240, .360),
		hitter(7, "LF", .270, .480),
		hitter(8, "CF", .265, .410),
		hitter(9, "RF", .255, .430),
		hitter(10, "1B", .290, .520), // no DH on roster, takes the open slot
		hitter(11, "2B", .200, .300),
	}

	lineup := stats.BuildLineup(roster)
	require.Len(t, lineup, domain.LineupSize)

	ids := make([]int, len(lineup))
	for i, b := range lineup {
		ids[i] = b.ID
	}
	assert.Contains(t, ids, 2)
	assert.Contains(t, ids, 10)
	assert.NotContains(t, ids, 1)
	assert.NotContains(t, ids, 11)

	assert.Equal(t, 3, lineup[0].ID, "best OPS leads off")
	for i := 1; i < len(lineup); i++ {
		assert.GreaterOrEqual(t, lineup[i-1].Stats.OPS(), lineup[i].Stats.OPS())
	}
}

func TestBuildLineup_PadsShortRoster(t *testing.T) {
	lineup := stats.BuildLineup([]domain.Batter{
		hitter(1, "SS", .400, .700),
		{ID: 2, Name: "No Stats", Position: "C"},
	})

	require.Len(t, lineup, domain.LineupSize)
	assert.Equal(t, 1, lineup[0].ID)
	require.NotNil(t, lineup[1].Stats)
	assert.Equal(t, domain.LeagueBatting(), *lineup[1].Stats)
	assert.Equal(t, "Player 3", lineup[2].Name)
	assert.Equal(t, "UT", lineup[8].Position)
	assert.Equal(t, "Player 9", lineup[8].Name)
}

func TestBuildLineup_DoesNotAliasRoster(t *testing.T) {
	roster := []domain.Batter{hitter(1, "C", .250, .400)}
	lineup := stats.BuildLineup(roster)

	lineup[0].Stats.AVG = 1
	assert.InDelta(t, .250, roster[0].Stats.AVG, 1e-9)
}

func TestPlaceholderLineup(t *testing.T) {
	lineup := stats.PlaceholderLineup()
	require.Len(t, lineup, 9)
	for _, b := range lineup {
		assert.Equal(t, "UT", b.Position)
		assert.NotNil(t, b.Stats)
	}
	assert.Equal(t, "Player 1", lineup[0].Name)
}

func TestSortAndChoosePitcher(t *testing.T) {
	staff := stats.SortPitchers([]domain.Pitcher{
		{ID: 1, Name: "Mid", Stats: &domain.PitchingStats{ERA: 3.9}},
		{ID: 2, Name: "Unknown"},
		{ID: 3, Name: "Ace", Stats: &domain.PitchingStats{ERA: 2.1}},
	})

	require.Len(t, staff, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{staff[0].ID, staff[1].ID, staff[2].ID})
	assert.InDelta(t, domain.LeagueERA, staff[2].Stats.ERA, 1e-9)

	assert.Equal(t, 3, stats.ChoosePitcher(staff, 0).ID)
	assert.Equal(t, 1, stats.ChoosePitcher(staff, 1).ID)
	assert.Equal(t, 3, stats.ChoosePitcher(staff, 99).ID, "unknown ID falls back to the ace")
	assert.Equal(t, "Unknown Pitcher", stats.ChoosePitcher(nil, 1).Name)
}
