package domain

import (
	"encoding/json"
	"slices"
)

// Snapshot is a point-in-time copy of the mutable fields of a game.
// Lineups are left out to keep simulation payloads bounded.
type Snapshot struct {
	Inning    int      `json:"inning"`
	Half      Half     `json:"half"`
	Outs      int      `json:"outs"`
	Balls     int      `json:"balls"`
	Strikes   int      `json:"strikes"`
	Bases     Bases    `json:"bases"`
	AwayScore []int    `json:"away_score"`
	HomeScore []int    `json:"home_score"`
	AwayTotal int      `json:"away_total"`
	HomeTotal int      `json:"home_total"`
	Role      Role     `json:"player_role"`
	Status    Status   `json:"game_status"`
	LastPlay  string   `json:"last_play"`
	PlayLog   []string `json:"play_log"`

	CurrentBatterIndex int    `json:"current_batter_index"`
	CurrentBatterName  string `json:"current_batter_name"`

	HomePitcher *Pitcher `json:"home_pitcher,omitempty"`
	AwayPitcher *Pitcher `json:"away_pitcher,omitempty"`

	AwayTeam         string `json:"away_team,omitempty"`
	HomeTeam         string `json:"home_team,omitempty"`
	AwayAbbreviation string `json:"away_abbreviation,omitempty"`
	HomeAbbreviation string `json:"home_abbreviation,omitempty"`
}

// MarshalJSON adds the derived is_top flag.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	return json.Marshal(struct {
		plain
		IsTop bool `json:"is_top"`
	}{plain(s), s.Half == HalfTop})
}

// Snapshot captures the current mutable fields. Slices are copied so later
// plays do not rewrite earlier snapshots.
func (s *GameState) Snapshot() Snapshot {
	return Snapshot{
		Inning:             s.Inning,
		Half:               s.Half,
		Outs:               s.Outs,
		Balls:              s.Balls,
		Strikes:            s.Strikes,
		Bases:              s.Bases,
		AwayScore:          slices.Clone(s.AwayScore),
		HomeScore:          slices.Clone(s.HomeScore),
		AwayTotal:          s.AwayTotal,
		HomeTotal:          s.HomeTotal,
		Role:               s.Role,
		Status:             s.Status,
		LastPlay:           s.LastPlay,
		PlayLog:            slices.Clone(s.PlayLog),
		CurrentBatterIndex: s.CurrentBatterIndex,
		CurrentBatterName:  s.CurrentBatterName,
		HomePitcher:        s.HomePitcher.clone(),
		AwayPitcher:        s.AwayPitcher.clone(),
		AwayTeam:           s.AwayTeam,
		HomeTeam:           s.HomeTeam,
		AwayAbbreviation:   s.AwayAbbreviation,
		HomeAbbreviation:   s.HomeAbbreviation,
	}
}

// SimulationResult is the outcome of auto-playing a game.
type SimulationResult struct {
	State     *GameState `json:"state"`
	Snapshots []Snapshot `json:"snapshots"`
	// Plays is the number of pitches simulated. len(Snapshots) == Plays+1.
	Plays int `json:"plays"`
	// CeilingReached is set when the play ceiling stopped the loop before the game ended.
	CeilingReached bool `json:"ceiling_reached"`
}
