package stats_test

import (
	"testing"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/aretw0/ballpark/pkg/stats"
	"github.com/stretchr/testify/assert"
)

func assertPreserved(t *testing.T, base, adjusted domain.Table) {
	t.Helper()
	assert.Len(t, adjusted, len(base))
	// Rounding each entry can move the total by at most half a unit per entry.
	assert.InDelta(t, base.Total(), adjusted.Total(), float64(len(base))/2+1)
	for _, w := range adjusted {
		assert.GreaterOrEqual(t, w.Weight, 1, "weight of %s", w.Outcome)
	}
}

func TestAdjust_NeutralPlayersLeaveTableUnchanged(t *testing.T) {
	league := domain.LeagueBatting()
	pitching := domain.LeaguePitching()

	for _, p := range domain.PitchTypes {
		base := probability.SwingTable(p)
		assert.Equal(t, base, stats.Adjust(base, &league, &pitching), string(p))
	}
}

func TestAdjust_NoStatsReturnsCopy(t *testing.T) {
	base := probability.SwingTable(domain.PitchFastball)
	got := stats.Adjust(base, nil, nil)
	assert.Equal(t, base, got)

	got[0].Weight = 999
	assert.NotEqual(t, 999, base[0].Weight, "adjusting must never alias the base table")

	take := probability.TakeTable(domain.PitchSlider)
	assert.Equal(t, take, stats.AdjustTake(take, nil))
}

func TestAdjust_StrongHitter(t *testing.T) {
	base := probability.SwingTable(domain.PitchFastball)
	hitter := domain.BattingStats{AVG: 0.490, SLG: domain.LeagueSLG, KRate: domain.LeagueKRate}

	got := stats.Adjust(base, &hitter, nil)

	assertPreserved(t, base, got)
	// hitMult clamps at 1.5 and outMult at 2/3 before rescaling.
	assert.Equal(t, 18, got.Get(domain.OutcomeSingle))
	assert.Equal(t, 10, got.Get(domain.OutcomeGroundout))
	assert.Greater(t, got.Get(domain.OutcomeDouble), base.Get(domain.OutcomeDouble))
	assert.Less(t, got.Get(domain.OutcomeFlyout), base.Get(domain.OutcomeFlyout))
}

func TestAdjust_PitcherOnlyUsesLeagueBatter(t *testing.T) {
	base := probability.SwingTable(domain.PitchCurveball)
	bad := domain.PitchingStats{ERA: 8.60, KPer9: domain.LeagueKPer9, BBPer9: domain.LeagueBBPer9}
	ace := domain.PitchingStats{ERA: 2.00, KPer9: 12.30, BBPer9: 1.50}

	worse := stats.Adjust(base, nil, &bad)
	better := stats.Adjust(base, nil, &ace)

	assertPreserved(t, base, worse)
	assertPreserved(t, base, better)
	assert.Greater(t, worse.Get(domain.OutcomeSingle), base.Get(domain.OutcomeSingle))
	assert.Greater(t, worse.Get(domain.OutcomeHomerun), base.Get(domain.OutcomeHomerun))
	assert.Greater(t, better.Get(domain.OutcomeStrikeSwinging), base.Get(domain.OutcomeStrikeSwinging))
	assert.Less(t, better.Get(domain.OutcomeSingle), base.Get(domain.OutcomeSingle))
}

func TestAdjust_ExtremesKeepEveryOutcomePossible(t *testing.T) {
	extremes := []domain.BattingStats{
		{AVG: 0, SLG: 0, KRate: 0},
		{AVG: 1, SLG: 4, KRate: 1},
		{AVG: 0.100, SLG: 2, KRate: 0.01},
	}
	pitchers := []*domain.PitchingStats{
		nil,
		{ERA: 0, KPer9: 0, BBPer9: 0},
		{ERA: 20, KPer9: 20, BBPer9: 20},
	}

	for _, p := range domain.PitchTypes {
		base := probability.SwingTable(p)
		for i := range extremes {
			for _, pitcher := range pitchers {
				assertPreserved(t, base, stats.Adjust(base, &extremes[i], pitcher))
			}
		}
		take := probability.TakeTable(p)
		for _, pitcher := range pitchers[1:] {
			assertPreserved(t, take, stats.AdjustTake(take, pitcher))
		}
	}
}

func TestAdjustTake_WildPitcher(t *testing.T) {
	base := probability.TakeTable(domain.PitchFastball)
	wild := domain.PitchingStats{ERA: domain.LeagueERA, KPer9: domain.LeagueKPer9, BBPer9: 4.80}

	got := stats.AdjustTake(base, &wild)

	assertPreserved(t, base, got)
	assert.Greater(t, got.Get(domain.OutcomeBall), base.Get(domain.OutcomeBall))
	assert.Less(t, got.Get(domain.OutcomeStrikeLooking), base.Get(domain.OutcomeStrikeLooking))
}

func TestMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, stats.Multiplier(0.245, 0.245))
	assert.Equal(t, stats.MaxMultiplier, stats.Multiplier(10, 1))
	assert.Equal(t, stats.MinMultiplier, stats.Multiplier(0, 1))
	assert.Equal(t, 1.0, stats.Multiplier(3, 0))
}
