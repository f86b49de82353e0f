package stats

import (
	"cmp"
	"slices"

	"github.com/aretw0/ballpark/pkg/domain"
)

// LineupPositions are the slots every lineup is built around.
// Outfield slots accept LF, CF and RF as well as OF.
var LineupPositions = []string{"C", "1B", "2B", "3B", "SS", "OF", "OF", "OF", "DH"}

// Minimum samples below which a player's season line is replaced by league averages.
const (
	MinAtBats         = 50
	MinInningsPitched = 20
)

// BuildLineup picks nine hitters from a roster and orders them by OPS.
//
// The first pass takes the best OPS at each of LineupPositions, the second
// fills any open slot with the best remaining hitters. Short rosters are
// padded with league-average placeholders. Players without stats are given
// league averages.
func BuildLineup(roster []domain.Batter) []domain.Batter {
	players := make([]domain.Batter, len(roster))
	for i, p := range roster {
		players[i] = withBattingDefaults(p)
	}

	used := make([]bool, len(players))
	lineup := make([]domain.Batter, 0, domain.LineupSize)

	for _, target := range LineupPositions {
		best := -1
		for i, p := range players {
			if used[i] || !playsPosition(p.Position, target) {
				continue
			}
			if best < 0 || p.Stats.OPS() > players[best].Stats.OPS() {
				best = i
			}
		}
		if best >= 0 {
			used[best] = true
			lineup = append(lineup, players[best])
		}
	}

	var rest []domain.Batter
	for i, p := range players {
		if !used[i] {
			rest = append(rest, p)
		}
	}
	slices.SortStableFunc(rest, byOPS)
	for _, p := range rest {
		if len(lineup) >= domain.LineupSize {
			break
		}
		lineup = append(lineup, p)
	}

	slices.SortStableFunc(lineup, byOPS)

	for len(lineup) < domain.LineupSize {
		lineup = append(lineup, domain.PlaceholderBatter(len(lineup)+1))
	}
	return lineup
}

// PlaceholderLineup is the lineup used when no roster is available.
func PlaceholderLineup() []domain.Batter {
	return BuildLineup(nil)
}

// SortPitchers orders a staff by ERA, best first. Pitchers without stats get
// league averages.
func SortPitchers(staff []domain.Pitcher) []domain.Pitcher {
	out := make([]domain.Pitcher, len(staff))
	for i, p := range staff {
		if p.Stats == nil {
			league := domain.LeaguePitching()
			p.Stats = &league
		}
		out[i] = p
	}
	slices.SortStableFunc(out, func(a, b domain.Pitcher) int {
		return cmp.Compare(a.Stats.ERA, b.Stats.ERA)
	})
	return out
}

// ChoosePitcher returns the pitcher with the given ID from a staff sorted by
// SortPitchers, or the staff ace when the ID is zero or unknown. An empty staff
// yields the placeholder pitcher.
func ChoosePitcher(sorted []domain.Pitcher, pitcherID int) domain.Pitcher {
	if len(sorted) == 0 {
		return domain.PlaceholderPitcher()
	}
	if pitcherID != 0 {
		for _, p := range sorted {
			if p.ID == pitcherID {
				return p
			}
		}
	}
	return sorted[0]
}

func playsPosition(pos, target string) bool {
	if pos == target {
		return true
	}
	if target == "OF" {
		switch pos {
		case "LF", "CF", "RF":
			return true
		}
	}
	return false
}

func byOPS(a, b domain.Batter) int {
	return cmp.Compare(b.Stats.OPS(), a.Stats.OPS())
}

func withBattingDefaults(b domain.Batter) domain.Batter {
	if b.Stats == nil {
		league := domain.LeagueBatting()
		b.Stats = &league
	} else {
		s := *b.Stats
		b.Stats = &s
	}
	return b
}
