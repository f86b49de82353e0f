package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ballpark/pkg/domain"
)

// LogHooks returns lifecycle hooks writing every event to logger.
// Plays are logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(ctx context.Context, e *domain.GameEvent) {
			logger.InfoContext(ctx, "game_start",
				"game_id", e.GameID,
				"home", e.HomeTeam,
				"away", e.AwayTeam,
			)
		},
		OnPlay: func(ctx context.Context, e *domain.PlayEvent) {
			logger.DebugContext(ctx, "play",
				"game_id", e.GameID,
				"inning", e.Inning,
				"half", e.Half,
				"pitch", e.Pitch,
				"swung", e.Swung,
				"outcome", e.Outcome,
				"runs", e.Runs,
			)
		},
		OnHalfInning: func(ctx context.Context, e *domain.InningEvent) {
			logger.DebugContext(ctx, "half_inning", "game_id", e.GameID, "inning", e.Inning, "half", e.Half)
		},
		OnGameEnd: func(ctx context.Context, e *domain.GameEvent) {
			logger.InfoContext(ctx, "game_end",
				"game_id", e.GameID,
				"home_total", e.HomeTotal,
				"away_total", e.AwayTotal,
				"innings", e.Innings,
			)
		},
	}
}

// Combine fans every event out to each set of hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnGameStart = chain(out.OnGameStart, h.OnGameStart)
		out.OnPlay = chain(out.OnPlay, h.OnPlay)
		out.OnHalfInning = chain(out.OnHalfInning, h.OnHalfInning)
		out.OnGameEnd = chain(out.OnGameEnd, h.OnGameEnd)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
