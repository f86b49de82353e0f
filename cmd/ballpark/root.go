package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/ballpark/internal/cli"
	"github.com/aretw0/ballpark/internal/config"
	"github.com/aretw0/ballpark/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ballpark",
	Short: "Ballpark is a pitch-by-pitch baseball game engine",
	Long: `Ballpark simulates baseball games pitch by pitch. You are the home team:
you pitch in the top of each inning and bat in the bottom, against a CPU
driven by real or sample player statistics.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("store", "", "Game store: memory, file, redis or postgres")
	pf.String("dir", "", "Directory of the file store")
	pf.String("provider", "", "Stats provider: mlb, roster or none")
	pf.String("roster", "", "Roster book for the roster provider (YAML or JSON)")
	pf.Int64("seed", 0, "Seed for reproducible games")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
}

// loadConfig layers defaults, the config file, BALLPARK_* variables and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("store", &cfg.Store.Kind)
	override("dir", &cfg.Store.Dir)
	override("provider", &cfg.Provider.Kind)
	override("roster", &cfg.Provider.Roster)
	override("log-level", &cfg.LogLevel)
	override("log-format", &cfg.LogFormat)
	if flags.Changed("seed") {
		cfg.Game.Seed, _ = flags.GetInt64("seed")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, logging.WithFormat(format)), nil
}

// openApp builds the engine for a command. The caller must Close it.
func openApp(ctx context.Context, cmd *cobra.Command) (*cli.App, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, cfg, err
	}
	app, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		return nil, cfg, fmt.Errorf("error initializing ballpark: %w", err)
	}
	return app, cfg, nil
}
