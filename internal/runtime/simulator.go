package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/ballpark/pkg/domain"
)

// Simulate plays an active game CPU against CPU until it ends or the play
// ceiling is reached. Snapshot 0 is the state before any play, so
// len(Snapshots) == Plays+1. Hitting the ceiling is reported through
// CeilingReached with the game still active.
func (e *Engine) Simulate(ctx context.Context, s *domain.GameState) (*domain.SimulationResult, error) {
	if s.IsFinal() {
		return nil, domain.ErrGameOver
	}

	res := &domain.SimulationResult{
		State:     s,
		Snapshots: make([]domain.Snapshot, 0, 300),
	}
	res.Snapshots = append(res.Snapshots, s.Snapshot())

	for s.Status == domain.StatusActive && res.Plays < e.maxPlays {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation interrupted after %d plays: %w", res.Plays, err)
		}

		pitch := e.outcomes.SelectPitch()
		swung := e.outcomes.DecideSwing()
		if err := e.play(ctx, s, pitch, swung); err != nil {
			return nil, err
		}

		res.Plays++
		res.Snapshots = append(res.Snapshots, s.Snapshot())
	}

	if s.Status == domain.StatusActive {
		res.CeilingReached = true
		e.logger.WarnContext(ctx, "simulation ceiling reached",
			"game_id", s.ID,
			"plays", res.Plays,
			"inning", s.Inning,
		)
	}
	return res, nil
}
