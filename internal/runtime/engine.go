package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
)

// DefaultMaxPlays is the hard ceiling on pitches in one simulation.
const DefaultMaxPlays = 500

// Engine applies pitch outcomes to game states.
// It holds no per-game state; callers own the GameState and must serialize
// access to it.
type Engine struct {
	outcomes *probability.Engine
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxPlays int
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithOutcomeEngine sets the engine used to draw pitches and outcomes.
func WithOutcomeEngine(o *probability.Engine) EngineOption {
	return func(e *Engine) {
		e.outcomes = o
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxPlays overrides the simulation ceiling.
func WithMaxPlays(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxPlays = n
		}
	}
}

// NewEngine creates a game engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		outcomes: probability.NewEngine(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxPlays: DefaultMaxPlays,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start opens the play log of a freshly built game and fires OnGameStart.
func (e *Engine) Start(ctx context.Context, s *domain.GameState, message string) {
	s.CurrentBatter()
	e.record(s, message)

	if e.hooks.OnGameStart != nil {
		e.hooks.OnGameStart(ctx, e.gameEvent(s, domain.EventGameStart))
	}
	e.logger.DebugContext(ctx, "game started", "game_id", s.ID, "home", s.HomeTeam, "away", s.AwayTeam)
}

// Pitch resolves a pitch thrown by the human player against a CPU batter.
// Out of role, the state is returned with an explanatory last play.
// A final game is returned untouched.
func (e *Engine) Pitch(ctx context.Context, s *domain.GameState, pitch domain.PitchType) (*domain.GameState, error) {
	if s.IsFinal() {
		return s, nil
	}
	if s.Role != domain.RolePitching {
		s.LastPlay = "You're batting right now, not pitching!"
		return s, nil
	}

	swung := e.outcomes.DecideSwing()
	if err := e.play(ctx, s, pitch, swung); err != nil {
		return nil, err
	}
	return s, nil
}

// Bat resolves the human player's swing or take against a CPU pitch.
// Out of role, the state is returned with an explanatory last play.
// A final game is returned untouched.
func (e *Engine) Bat(ctx context.Context, s *domain.GameState, action domain.BatAction) (*domain.GameState, error) {
	if s.IsFinal() {
		return s, nil
	}
	if s.Role != domain.RoleBatting {
		s.LastPlay = "You're pitching right now, not batting!"
		return s, nil
	}

	pitch := e.outcomes.SelectPitch()
	if err := e.play(ctx, s, pitch, action.Swung()); err != nil {
		return nil, err
	}
	return s, nil
}

// play draws and applies one outcome for whichever side is at the plate.
func (e *Engine) play(ctx context.Context, s *domain.GameState, pitch domain.PitchType, swung bool) error {
	inning, half := s.Inning, s.Half
	before := s.AwayTotal + s.HomeTotal

	batter := s.CurrentBatter()
	var batting *domain.BattingStats
	name := "Batter"
	if batter != nil {
		batting = batter.Stats
		name = batter.Name
	}
	var pitching *domain.PitchingStats
	if p := s.FieldingPitcher(); p != nil {
		pitching = p.Stats
	}

	outcome := e.outcomes.DetermineOutcome(pitch, swung, batting, pitching)
	if err := e.Apply(ctx, s, outcome, describe(s.Role, pitch, swung, name, outcome)); err != nil {
		return err
	}

	if e.hooks.OnPlay != nil {
		e.hooks.OnPlay(ctx, &domain.PlayEvent{
			EventBase: e.base(s, domain.EventPlay),
			Inning:    inning,
			Half:      half,
			Pitch:     pitch,
			Swung:     swung,
			Outcome:   outcome,
			Runs:      s.AwayTotal + s.HomeTotal - before,
		})
	}
	return nil
}

func describe(role domain.Role, pitch domain.PitchType, swung bool, batter string, o domain.Outcome) string {
	if role == domain.RolePitching {
		verb := "takes"
		if swung {
			verb = "swings"
		}
		return fmt.Sprintf("You throw a %s. %s %s: %s!", pitch, batter, verb, o.Title())
	}
	verb := "take"
	if swung {
		verb = "swing"
	}
	return fmt.Sprintf("Pitcher throws a %s. You %s: %s!", pitch, verb, o.Title())
}

func (e *Engine) record(s *domain.GameState, line string) {
	s.PlayLog = append(s.PlayLog, line)
	s.LastPlay = line
}

func (e *Engine) base(s *domain.GameState, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, GameID: s.ID}
}

func (e *Engine) gameEvent(s *domain.GameState, t domain.EventType) *domain.GameEvent {
	return &domain.GameEvent{
		EventBase: e.base(s, t),
		HomeTeam:  s.HomeTeam,
		AwayTeam:  s.AwayTeam,
		HomeTotal: s.HomeTotal,
		AwayTotal: s.AwayTotal,
		Innings:   s.Inning,
	}
}
