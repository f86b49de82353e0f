package domain

// GameDiff represents the changes between two states of the same game.
// It is designed to be serialized to JSON for partial updates on the client.
type GameDiff struct {
	// GameID is always present to identify the target.
	GameID string `json:"game_id"`

	Inning  *int    `json:"inning,omitempty"`
	Half    *Half   `json:"half,omitempty"`
	Outs    *int    `json:"outs,omitempty"`
	Balls   *int    `json:"balls,omitempty"`
	Strikes *int    `json:"strikes,omitempty"`
	Bases   *Bases  `json:"bases,omitempty"`
	Role    *Role   `json:"player_role,omitempty"`
	Status  *Status `json:"game_status,omitempty"`

	AwayTotal *int `json:"away_total,omitempty"`
	HomeTotal *int `json:"home_total,omitempty"`

	// Score carries the full per-inning lines when any inning changed.
	Score *ScoreLine `json:"score,omitempty"`

	// PlayLog contains only the entries appended since the old state.
	PlayLog *LogDelta `json:"play_log,omitempty"`

	LastPlay *string `json:"last_play,omitempty"`
}

// ScoreLine is the per-inning runs of both teams.
type ScoreLine struct {
	Away []int `json:"away"`
	Home []int `json:"home"`
}

// LogDelta represents entries appended to the play log.
type LogDelta struct {
	Appended []string `json:"appended"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *GameState) *GameDiff {
	if newState == nil {
		return nil
	}

	diff := &GameDiff{GameID: newState.ID}
	old := oldState
	if old == nil {
		old = &GameState{}
	}

	if old.Inning != newState.Inning {
		diff.Inning = ptr(newState.Inning)
	}
	if old.Half != newState.Half {
		diff.Half = ptr(newState.Half)
	}
	if oldState == nil || old.Outs != newState.Outs {
		diff.Outs = ptr(newState.Outs)
	}
	if oldState == nil || old.Balls != newState.Balls {
		diff.Balls = ptr(newState.Balls)
	}
	if oldState == nil || old.Strikes != newState.Strikes {
		diff.Strikes = ptr(newState.Strikes)
	}
	if oldState == nil || old.Bases != newState.Bases {
		diff.Bases = ptr(newState.Bases)
	}
	if old.Role != newState.Role {
		diff.Role = ptr(newState.Role)
	}
	if old.Status != newState.Status {
		diff.Status = ptr(newState.Status)
	}
	if oldState == nil || old.AwayTotal != newState.AwayTotal {
		diff.AwayTotal = ptr(newState.AwayTotal)
	}
	if oldState == nil || old.HomeTotal != newState.HomeTotal {
		diff.HomeTotal = ptr(newState.HomeTotal)
	}
	if !equalInts(old.AwayScore, newState.AwayScore) || !equalInts(old.HomeScore, newState.HomeScore) {
		diff.Score = &ScoreLine{
			Away: append([]int(nil), newState.AwayScore...),
			Home: append([]int(nil), newState.HomeScore...),
		}
	}
	diff.PlayLog = diffLog(old.PlayLog, newState.PlayLog)
	if old.LastPlay != newState.LastPlay {
		diff.LastPlay = ptr(newState.LastPlay)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffLog assumes the play log is append-only.
func diffLog(old, new []string) *LogDelta {
	if len(new) > len(old) {
		return &LogDelta{Appended: append([]string(nil), new[len(old):]...)}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GameDiff) IsEmpty() bool {
	return d.Inning == nil &&
		d.Half == nil &&
		d.Outs == nil &&
		d.Balls == nil &&
		d.Strikes == nil &&
		d.Bases == nil &&
		d.Role == nil &&
		d.Status == nil &&
		d.AwayTotal == nil &&
		d.HomeTotal == nil &&
		d.Score == nil &&
		d.PlayLog == nil &&
		d.LastPlay == nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ptr[T any](v T) *T {
	return &v
}

// Touches reports whether the diff changes anything in a field group:
// "count" (balls, strikes, outs), "bases", "score", "status" (inning, half,
// role, status) or "log". Unknown groups match nothing.
func (d *GameDiff) Touches(group string) bool {
	switch group {
	case "count":
		return d.Balls != nil || d.Strikes != nil || d.Outs != nil
	case "bases":
		return d.Bases != nil
	case "score":
		return d.AwayTotal != nil || d.HomeTotal != nil || d.Score != nil
	case "status":
		return d.Inning != nil || d.Half != nil || d.Role != nil || d.Status != nil
	case "log":
		return d.PlayLog != nil || d.LastPlay != nil
	}
	return false
}
