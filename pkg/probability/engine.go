// Package probability turns a pitch and a swing decision into a single outcome.
//
// It owns the baseline outcome tables, the CPU pitch mix and swing rate, and
// the weighted sampler. Player stats are folded in through package stats
// before each draw.
package probability

import (
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/stats"
)

// Engine draws pitches, swing decisions and outcomes from a Source.
type Engine struct {
	src Source
}

// Option configures the Engine.
type Option func(*Engine)

// WithSource injects the random source. Use it for deterministic tests.
func WithSource(src Source) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// NewEngine creates an outcome engine backed by the process-wide random source.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{src: DefaultSource()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SelectPitch picks a CPU pitch from the weighted pitch mix.
func (e *Engine) SelectPitch() domain.PitchType {
	p, ok := pick(pitchMix, e.src)
	if !ok {
		return domain.PitchFastball
	}
	return p
}

// DecideSwing reports whether a CPU batter swings.
func (e *Engine) DecideSwing() bool {
	return e.src.Float64() < SwingProbability
}

// Table returns the adjusted table a draw would use, without drawing.
func (e *Engine) Table(pitch domain.PitchType, swung bool, batter *domain.BattingStats, pitcher *domain.PitchingStats) domain.Table {
	if swung {
		return stats.Adjust(SwingTable(pitch), batter, pitcher)
	}
	return stats.AdjustTake(TakeTable(pitch), pitcher)
}

// DetermineOutcome samples the result of one pitch.
// Batter stats only matter on a swing; on a take only the pitcher's control does.
func (e *Engine) DetermineOutcome(pitch domain.PitchType, swung bool, batter *domain.BattingStats, pitcher *domain.PitchingStats) domain.Outcome {
	return Choose(e.Table(pitch, swung, batter, pitcher), e.src)
}
