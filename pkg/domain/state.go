package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

const (
	// RegulationInnings is the number of innings in a game without extras.
	RegulationInnings = 9
	// LineupSize is the number of batters in every batting order.
	LineupSize = 9
)

// Half identifies which team is at the plate. TOP means the away team bats.
type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// Role is the human player's role, derived from the half-inning.
type Role string

const (
	RolePitching Role = "pitching"
	RoleBatting  Role = "batting"
)

// Status is the lifecycle of a game. It moves from active to final exactly once.
type Status string

const (
	StatusActive Status = "active"
	StatusFinal  Status = "final"
)

// Bases tracks occupancy of first, second and third base.
type Bases [3]bool

// Occupied returns the number of runners on base.
func (b Bases) Occupied() int {
	n := 0
	for _, on := range b {
		if on {
			n++
		}
	}
	return n
}

// Loaded reports whether every base is occupied.
func (b Bases) Loaded() bool { return b[0] && b[1] && b[2] }

// GameState is the complete state of one game.
// It is owned by the game store and mutated only by the runtime.
type GameState struct {
	ID string `json:"game_id"`

	Inning  int   `json:"inning"`
	Half    Half  `json:"half"`
	Outs    int   `json:"outs"`
	Balls   int   `json:"balls"`
	Strikes int   `json:"strikes"`
	Bases   Bases `json:"bases"`

	// Per-inning runs, extended by one slot for every extra inning.
	AwayScore []int `json:"away_score"`
	HomeScore []int `json:"home_score"`
	AwayTotal int   `json:"away_total"`
	HomeTotal int   `json:"home_total"`

	Role   Role   `json:"player_role"`
	Status Status `json:"game_status"`

	PlayLog  []string `json:"play_log"`
	LastPlay string   `json:"last_play"`

	AwayTeam         string `json:"away_team,omitempty"`
	HomeTeam         string `json:"home_team,omitempty"`
	AwayAbbreviation string `json:"away_abbreviation,omitempty"`
	HomeAbbreviation string `json:"home_abbreviation,omitempty"`

	AwayLineup    []Batter `json:"away_lineup,omitempty"`
	HomeLineup    []Batter `json:"home_lineup,omitempty"`
	AwayBatterIdx int      `json:"away_batter_idx"`
	HomeBatterIdx int      `json:"home_batter_idx"`

	// Convenience pointer at the batter currently at the plate.
	CurrentBatterIndex int    `json:"current_batter_index"`
	CurrentBatterName  string `json:"current_batter_name"`

	HomePitcher *Pitcher `json:"home_pitcher,omitempty"`
	AwayPitcher *Pitcher `json:"away_pitcher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState creates a fresh game at the top of the first inning.
func NewGameState(id string) *GameState {
	now := time.Now().UTC()
	return &GameState{
		ID:        id,
		Inning:    1,
		Half:      HalfTop,
		AwayScore: make([]int, RegulationInnings),
		HomeScore: make([]int, RegulationInnings),
		Role:      RolePitching,
		Status:    StatusActive,
		PlayLog:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarshalJSON adds the derived is_top flag clients use to pick their controls.
func (s GameState) MarshalJSON() ([]byte, error) {
	type plain GameState
	return json.Marshal(struct {
		plain
		IsTop bool `json:"is_top"`
	}{plain(s), s.Half == HalfTop})
}

// IsTop reports whether the away team is batting.
func (s *GameState) IsTop() bool { return s.Half == HalfTop }

// IsFinal reports whether the game has ended.
func (s *GameState) IsFinal() bool { return s.Status == StatusFinal }

// BattingLineup returns the lineup of the team at the plate.
func (s *GameState) BattingLineup() []Batter {
	if s.IsTop() {
		return s.AwayLineup
	}
	return s.HomeLineup
}

// FieldingPitcher returns the pitcher facing the team at the plate.
func (s *GameState) FieldingPitcher() *Pitcher {
	if s.IsTop() {
		return s.HomePitcher
	}
	return s.AwayPitcher
}

// BatterIndex returns the lineup index of the team at the plate.
func (s *GameState) BatterIndex() int {
	if s.IsTop() {
		return s.AwayBatterIdx
	}
	return s.HomeBatterIdx
}

// CurrentBatter refreshes the current-batter pointer and returns the batter at the plate.
// It returns nil when the batting team has no lineup.
func (s *GameState) CurrentBatter() *Batter {
	lineup := s.BattingLineup()
	if len(lineup) == 0 {
		return nil
	}
	idx := s.BatterIndex() % len(lineup)
	s.CurrentBatterIndex = idx
	s.CurrentBatterName = lineup[idx].Name
	return &lineup[idx]
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.AwayScore = slices.Clone(s.AwayScore)
	c.HomeScore = slices.Clone(s.HomeScore)
	c.PlayLog = slices.Clone(s.PlayLog)
	c.AwayLineup = cloneLineup(s.AwayLineup)
	c.HomeLineup = cloneLineup(s.HomeLineup)
	c.HomePitcher = s.HomePitcher.clone()
	c.AwayPitcher = s.AwayPitcher.clone()
	return &c
}

func cloneLineup(in []Batter) []Batter {
	if in == nil {
		return nil
	}
	out := make([]Batter, len(in))
	for i, b := range in {
		out[i] = b
		if b.Stats != nil {
			stats := *b.Stats
			out[i].Stats = &stats
		}
	}
	return out
}

func (p *Pitcher) clone() *Pitcher {
	if p == nil {
		return nil
	}
	c := *p
	if p.Stats != nil {
		stats := *p.Stats
		c.Stats = &stats
	}
	return &c
}

// Validate checks the invariants that must hold at every observable point.
func (s *GameState) Validate() error {
	switch {
	case s.Inning < 1:
		return fmt.Errorf("%w: inning %d", ErrInvalidState, s.Inning)
	case s.Half != HalfTop && s.Half != HalfBottom:
		return fmt.Errorf("%w: half %q", ErrInvalidState, s.Half)
	case s.Outs < 0 || s.Outs > 2:
		return fmt.Errorf("%w: outs %d", ErrInvalidState, s.Outs)
	case s.Balls < 0 || s.Balls > 3:
		return fmt.Errorf("%w: balls %d", ErrInvalidState, s.Balls)
	case s.Strikes < 0 || s.Strikes > 2:
		return fmt.Errorf("%w: strikes %d", ErrInvalidState, s.Strikes)
	case len(s.AwayScore) < RegulationInnings || len(s.AwayScore) != len(s.HomeScore):
		return fmt.Errorf("%w: score lengths %d/%d", ErrInvalidState, len(s.AwayScore), len(s.HomeScore))
	case sum(s.AwayScore) != s.AwayTotal:
		return fmt.Errorf("%w: away total %d != %d", ErrInvalidState, s.AwayTotal, sum(s.AwayScore))
	case sum(s.HomeScore) != s.HomeTotal:
		return fmt.Errorf("%w: home total %d != %d", ErrInvalidState, s.HomeTotal, sum(s.HomeScore))
	}
	if want := RoleFor(s.Half); s.Status == StatusActive && s.Role != want {
		return fmt.Errorf("%w: role %q during %s half", ErrInvalidState, s.Role, s.Half)
	}
	return nil
}

// RoleFor returns the human player's role for the given half-inning.
func RoleFor(h Half) Role {
	if h == HalfTop {
		return RolePitching
	}
	return RoleBatting
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
