package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/internal/config"
	"github.com/aretw0/ballpark/pkg/adapters/file"
	"github.com/aretw0/ballpark/pkg/adapters/memory"
	"github.com/aretw0/ballpark/pkg/adapters/mlbstats"
	"github.com/aretw0/ballpark/pkg/adapters/postgres"
	"github.com/aretw0/ballpark/pkg/adapters/redis"
	"github.com/aretw0/ballpark/pkg/adapters/roster"
	"github.com/aretw0/ballpark/pkg/observability"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the engine and everything built around it for one command run.
type App struct {
	Engine   *ballpark.Engine
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Logger   *slog.Logger

	closers []func() error
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Build wires store, provider, locker, metrics and hooks from cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = observability.NewMetrics(app.Registry)

	opts := []ballpark.Option{
		ballpark.WithLogger(logger),
		ballpark.WithLifecycleHooks(observability.Combine(
			observability.LogHooks(logger),
			app.Metrics.Hooks(),
		)),
		ballpark.WithMaxPlays(cfg.Game.MaxPlays),
	}

	var src probability.Source
	if cfg.Game.Seed != 0 {
		src = probability.NewSeededSource(uint64(cfg.Game.Seed))
		opts = append(opts, ballpark.WithSource(src))
	}

	storeOpts, err := app.store(ctx, cfg.Store)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	opts = append(opts, storeOpts...)

	provider, err := newProvider(cfg.Provider, logger, src)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if provider != nil {
		opts = append(opts, ballpark.WithProvider(provider))
	}

	app.Engine = ballpark.New(opts...)
	logger.Debug("engine ready",
		"store", cfg.Store.Kind,
		"provider", cfg.Provider.Kind,
		"max_plays", cfg.Game.MaxPlays,
	)
	return app, nil
}

func (a *App) store(ctx context.Context, cfg config.Store) ([]ballpark.Option, error) {
	switch cfg.Kind {
	case config.StoreFile:
		return []ballpark.Option{ballpark.WithStore(file.New(cfg.Dir))}, nil

	case config.StoreRedis:
		var storeOpts []redis.Option
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		a.closers = append(a.closers, store.Close)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}

		opts := []ballpark.Option{ballpark.WithStore(store)}
		if cfg.Redis.Lock {
			opts = append(opts, ballpark.WithLocker(redis.NewLocker(store.Client(), store.Prefix())))
			if cfg.Redis.LockTTL > 0 {
				opts = append(opts, ballpark.WithLockTTL(cfg.Redis.LockTTL))
			}
		}
		return opts, nil

	case config.StorePostgres:
		store, err := postgres.Open(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			Table:        cfg.Postgres.Table,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			QueryTimeout: cfg.Postgres.QueryTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return []ballpark.Option{ballpark.WithStore(store)}, nil
	}

	return []ballpark.Option{ballpark.WithStore(memory.NewStore())}, nil
}

func newProvider(cfg config.Provider, logger *slog.Logger, src probability.Source) (ports.DataProvider, error) {
	switch cfg.Kind {
	case config.ProviderNone:
		return nil, nil

	case config.ProviderMLB:
		opts := []mlbstats.Option{
			mlbstats.WithLogger(logger),
			mlbstats.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			mlbstats.WithConcurrency(cfg.Concurrency),
			mlbstats.WithTeamsTTL(cfg.TeamsTTL),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, mlbstats.WithBaseURL(cfg.BaseURL))
		}
		if cfg.RateLimit > 0 {
			opts = append(opts, mlbstats.WithRateLimit(cfg.RateLimit, max(int(cfg.RateLimit), 1)))
		}
		if src != nil {
			opts = append(opts, mlbstats.WithSource(src))
		}
		return mlbstats.New(opts...), nil
	}

	var rosterOpts []memory.ProviderOption
	if src != nil {
		rosterOpts = append(rosterOpts, memory.WithSource(src))
	}
	if cfg.Roster == "" {
		return roster.Sample(rosterOpts...)
	}
	p, err := roster.Load(cfg.Roster, rosterOpts...)
	if err != nil {
		return nil, fmt.Errorf("roster book: %w", err)
	}
	return p, nil
}
