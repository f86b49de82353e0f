package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/ballpark/pkg/domain"
)

// Apply mutates the state for one outcome and appends its description to the play log.
// Final games reject further outcomes with domain.ErrGameOver and are not modified.
func (e *Engine) Apply(ctx context.Context, s *domain.GameState, outcome domain.Outcome, description string) error {
	if s.IsFinal() {
		return domain.ErrGameOver
	}
	group := outcome.Group()
	if group == "" {
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	e.record(s, description)

	switch group {
	case domain.GroupBall:
		s.Balls++
		if s.Balls >= 4 {
			e.walk(s)
		}
	case domain.GroupStrike:
		s.Strikes++
		if s.Strikes >= 3 {
			e.out(ctx, s, "Strikeout!")
		}
	case domain.GroupFoul:
		// A foul never ends the at-bat.
		if s.Strikes < 2 {
			s.Strikes++
		}
	case domain.GroupOut:
		e.out(ctx, s, outcome.Title()+"!")
	case domain.GroupHit:
		e.hit(s, outcome)
	}

	s.UpdatedAt = e.now()
	return nil
}

func (e *Engine) walk(s *domain.GameState) {
	e.record(s, "Ball four, batter walks!")
	runs := advanceOnWalk(&s.Bases)
	e.score(s, runs)
	resetCount(s)
	advanceBatter(s)
	s.CurrentBatter()
}

func (e *Engine) hit(s *domain.GameState, hit domain.Outcome) {
	runs := advanceOnHit(&s.Bases, hit)
	e.score(s, runs)
	resetCount(s)
	advanceBatter(s)
	s.CurrentBatter()

	if runs > 0 {
		note := fmt.Sprintf("%d run(s) score!", runs)
		s.PlayLog = append(s.PlayLog, note)
		s.LastPlay += " " + note
	}
}

// out records an out. The lineup advances before any half-inning change so the
// retired team resumes with the right batter next time up.
func (e *Engine) out(ctx context.Context, s *domain.GameState, description string) {
	e.record(s, description)
	s.Outs++
	resetCount(s)
	advanceBatter(s)

	if s.Outs >= 3 {
		e.endHalfInning(ctx, s)
		return
	}
	s.CurrentBatter()
}

func (e *Engine) score(s *domain.GameState, runs int) {
	if runs <= 0 {
		return
	}
	idx := s.Inning - 1
	for len(s.AwayScore) <= idx {
		s.AwayScore = append(s.AwayScore, 0)
	}
	for len(s.HomeScore) <= idx {
		s.HomeScore = append(s.HomeScore, 0)
	}

	if s.IsTop() {
		s.AwayScore[idx] += runs
		s.AwayTotal += runs
	} else {
		s.HomeScore[idx] += runs
		s.HomeTotal += runs
	}
}

func (e *Engine) endHalfInning(ctx context.Context, s *domain.GameState) {
	s.Outs = 0
	s.Bases = domain.Bases{}
	resetCount(s)

	var header string
	if s.IsTop() {
		s.Half = domain.HalfBottom
		s.Role = domain.RoleBatting
		header = fmt.Sprintf("--- Bottom of inning %d ---", s.Inning)

		// Walk-off: the home team is already ahead, the bottom half is not played.
		if s.Inning >= domain.RegulationInnings && s.HomeTotal > s.AwayTotal {
			e.endGame(ctx, s)
			return
		}
	} else {
		completed := s.Inning
		s.Inning++
		s.Half = domain.HalfTop
		s.Role = domain.RolePitching
		header = fmt.Sprintf("--- Top of inning %d ---", s.Inning)

		if completed >= domain.RegulationInnings && s.HomeTotal != s.AwayTotal {
			e.endGame(ctx, s)
			return
		}
		if s.Inning > len(s.AwayScore) {
			s.AwayScore = append(s.AwayScore, 0)
			s.HomeScore = append(s.HomeScore, 0)
		}
	}

	s.CurrentBatter()
	e.record(s, header)

	if e.hooks.OnHalfInning != nil {
		e.hooks.OnHalfInning(ctx, &domain.InningEvent{
			EventBase: e.base(s, domain.EventHalfInning),
			Inning:    s.Inning,
			Half:      s.Half,
		})
	}
}

// endGame finalizes the game. Ties cannot reach here: the game only ends on
// unequal totals or a home team already ahead.
func (e *Engine) endGame(ctx context.Context, s *domain.GameState) {
	s.Status = domain.StatusFinal

	home, away := s.HomeTeam, s.AwayTeam
	if home == "" {
		home = "Home"
	}
	if away == "" {
		away = "Away"
	}
	verdict := "You lose!"
	if s.HomeTotal > s.AwayTotal {
		verdict = "You win!"
	}
	e.record(s, fmt.Sprintf("Game Over! Final: %s %d - %s %d. %s", home, s.HomeTotal, away, s.AwayTotal, verdict))

	if e.hooks.OnGameEnd != nil {
		e.hooks.OnGameEnd(ctx, e.gameEvent(s, domain.EventGameEnd))
	}
	e.logger.InfoContext(ctx, "game over",
		"game_id", s.ID,
		"home_total", s.HomeTotal,
		"away_total", s.AwayTotal,
		"inning", s.Inning,
	)
}

func resetCount(s *domain.GameState) {
	s.Balls = 0
	s.Strikes = 0
}

// advanceBatter moves the batting team's index to the next slot in the order.
func advanceBatter(s *domain.GameState) {
	size := len(s.BattingLineup())
	if size == 0 {
		size = domain.LineupSize
	}
	if s.IsTop() {
		s.AwayBatterIdx = (s.AwayBatterIdx + 1) % size
	} else {
		s.HomeBatterIdx = (s.HomeBatterIdx + 1) % size
	}
}
