package domain

import "strconv"

// League-average baselines. A player matching these exactly is neutral to the
// stats adjuster.
const (
	LeagueAVG    = 0.245
	LeagueSLG    = 0.395
	LeagueKRate  = 0.230
	LeagueHRRate = 0.030
	LeagueERA    = 4.30
	LeagueKPer9  = 8.20
	LeagueBBPer9 = 3.20
)

// BattingStats is the flat performance record of a hitter.
type BattingStats struct {
	AVG    float64 `json:"avg" yaml:"avg" mapstructure:"avg"`
	SLG    float64 `json:"slg" yaml:"slg" mapstructure:"slg"`
	KRate  float64 `json:"k_rate" yaml:"k_rate" mapstructure:"k_rate"`
	HRRate float64 `json:"hr_rate" yaml:"hr_rate" mapstructure:"hr_rate"`
}

// PitchingStats is the flat performance record of a pitcher.
type PitchingStats struct {
	ERA    float64 `json:"era" yaml:"era" mapstructure:"era"`
	KPer9  float64 `json:"k_per_9" yaml:"k_per_9" mapstructure:"k_per_9"`
	BBPer9 float64 `json:"bb_per_9" yaml:"bb_per_9" mapstructure:"bb_per_9"`
}

// LeagueBatting returns a league-average batting record.
func LeagueBatting() BattingStats {
	return BattingStats{AVG: LeagueAVG, SLG: LeagueSLG, KRate: LeagueKRate, HRRate: LeagueHRRate}
}

// LeaguePitching returns a league-average pitching record.
func LeaguePitching() PitchingStats {
	return PitchingStats{ERA: LeagueERA, KPer9: LeagueKPer9, BBPer9: LeagueBBPer9}
}

// OPS approximates on-base plus slugging from the fields we carry.
// Providers use it to rank hitters.
func (s BattingStats) OPS() float64 {
	return s.AVG + s.SLG
}

// Batter is a lineup entry. Stats is nil when the provider knows nothing about the player.
type Batter struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Position string        `json:"position"`
	Stats    *BattingStats `json:"stats,omitempty"`
}

// Pitcher is a team's starting pitcher for the whole game.
type Pitcher struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Position string         `json:"position"`
	Stats    *PitchingStats `json:"stats,omitempty"`
}

// Team identifies a club in the provider's catalogue.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	League       string `json:"league,omitempty"`
}

// PlaceholderBatter returns the league-average stand-in used when a lineup is short.
func PlaceholderBatter(n int) Batter {
	stats := LeagueBatting()
	return Batter{
		Name:     "Player " + strconv.Itoa(n),
		Position: "UT",
		Stats:    &stats,
	}
}

// PlaceholderPitcher returns the league-average stand-in used when no pitcher is known.
func PlaceholderPitcher() Pitcher {
	stats := LeaguePitching()
	return Pitcher{
		Name:     "Unknown Pitcher",
		Position: "P",
		Stats:    &stats,
	}
}
