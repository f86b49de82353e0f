// Package stats rescales outcome tables by how a batter and pitcher compare to
// league average.
//
// Every multiplier is the ratio of a player stat to its league baseline,
// clamped to [MinMultiplier, MaxMultiplier]. After all multipliers are
// applied the table is rescaled back to its original total, rounded, and
// floored at a weight of 1 so no outcome becomes impossible.
package stats

import (
	"math"

	"github.com/aretw0/ballpark/pkg/domain"
)

const (
	MinMultiplier = 0.5
	MaxMultiplier = 1.5
)

// Adjust returns a copy of a swing table scaled by the batter's and pitcher's stats.
//
// With only pitcher stats, the batter side uses league average so the pitcher
// effect still applies. With neither, the base table is returned as a copy.
func Adjust(base domain.Table, batter *domain.BattingStats, pitcher *domain.PitchingStats) domain.Table {
	if batter == nil && pitcher == nil {
		return base.Clone()
	}
	if batter == nil {
		league := domain.LeagueBatting()
		batter = &league
	}

	hitMult := Multiplier(batter.AVG, domain.LeagueAVG)
	powerMult := Multiplier(batter.SLG, domain.LeagueSLG)
	kMult := Multiplier(batter.KRate, domain.LeagueKRate)
	outMult := clamp(1 / hitMult)

	weights := make([]float64, len(base))
	for i, w := range base {
		v := float64(w.Weight)
		switch {
		case w.Outcome == domain.OutcomeStrikeSwinging:
			v *= kMult
		case w.Outcome == domain.OutcomeHomerun:
			v *= powerMult
		case w.Outcome.IsHit():
			v *= hitMult
		case w.Outcome.IsOut():
			v *= outMult
		}
		weights[i] = v
	}

	if pitcher != nil {
		eraMult := Multiplier(pitcher.ERA, domain.LeagueERA)
		k9Mult := Multiplier(pitcher.KPer9, domain.LeagueKPer9)
		for i, w := range base {
			switch {
			case w.Outcome == domain.OutcomeStrikeSwinging:
				weights[i] *= k9Mult
			case w.Outcome.IsHit():
				weights[i] *= eraMult
			}
		}
	}

	return rescale(base, weights)
}

// AdjustTake returns a copy of a take table scaled by the pitcher's walk rate.
// A wild pitcher (high BB/9) throws more balls and fewer called strikes.
func AdjustTake(base domain.Table, pitcher *domain.PitchingStats) domain.Table {
	if pitcher == nil {
		return base.Clone()
	}

	bbMult := Multiplier(pitcher.BBPer9, domain.LeagueBBPer9)
	strikeMult := clamp(1 / bbMult)

	weights := make([]float64, len(base))
	for i, w := range base {
		if w.Outcome == domain.OutcomeBall {
			weights[i] = float64(w.Weight) * bbMult
		} else {
			weights[i] = float64(w.Weight) * strikeMult
		}
	}

	return rescale(base, weights)
}

// Multiplier returns value/league clamped to the allowed range.
func Multiplier(value, league float64) float64 {
	if league == 0 {
		return 1
	}
	return clamp(value / league)
}

func clamp(v float64) float64 {
	return math.Max(MinMultiplier, math.Min(MaxMultiplier, v))
}

// rescale scales weights back to the original table total and rounds them.
func rescale(base domain.Table, weights []float64) domain.Table {
	var current float64
	for _, w := range weights {
		current += w
	}

	out := base.Clone()
	if current <= 0 {
		return out
	}

	scale := float64(base.Total()) / current
	for i := range out {
		// Halves round away from zero (2.5 -> 3), not to even.
		out[i].Weight = max(1, int(math.Round(weights[i]*scale)))
	}
	return out
}
