// Package config loads the ballpark settings shared by every command.
//
// Settings come from three layers: built-in defaults, an optional YAML file
// and BALLPARK_* environment variables. Command-line flags are applied last
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvRedisAddr     = "BALLPARK_REDIS_ADDR"
	EnvRedisPassword = "BALLPARK_REDIS_PASSWORD"
	EnvPostgresDSN   = "BALLPARK_POSTGRES_DSN"
	EnvAddr          = "BALLPARK_ADDR"
	EnvLogLevel      = "BALLPARK_LOG_LEVEL"
	EnvSeed          = "BALLPARK_SEED"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Provider kinds.
const (
	ProviderMLB    = "mlb"
	ProviderRoster = "roster"
	ProviderNone   = "none"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Store    Store    `yaml:"store"`
	Provider Provider `yaml:"provider"`
	Server   Server   `yaml:"server"`
	Game     Game     `yaml:"game"`
}

type Store struct {
	Kind     string   `yaml:"kind"`
	Dir      string   `yaml:"dir"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	// Lock serializes games across replicas sharing the same Redis.
	Lock    bool          `yaml:"lock"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type Postgres struct {
	DSN          string        `yaml:"dsn"`
	Table        string        `yaml:"table"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

type Provider struct {
	Kind string `yaml:"kind"`
	// Roster is a YAML or JSON roster book. Empty uses the bundled sample.
	Roster      string        `yaml:"roster"`
	BaseURL     string        `yaml:"base_url"`
	RateLimit   float64       `yaml:"rate_limit"`
	Concurrency int           `yaml:"concurrency"`
	TeamsTTL    time.Duration `yaml:"teams_ttl"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Server struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
	Metrics   bool    `yaml:"metrics"`
}

type Game struct {
	MaxPlays int `yaml:"max_plays"`
	// Seed fixes the random source. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Store: Store{
			Kind: StoreMemory,
			Dir:  ".ballpark/games",
			Redis: Redis{
				Addr: "localhost:6379",
			},
		},
		Provider: Provider{
			Kind:        ProviderRoster,
			RateLimit:   10,
			Concurrency: 8,
			TeamsTTL:    time.Hour,
			Timeout:     10 * time.Second,
		},
		Server: Server{
			Addr:      ":8000",
			RateLimit: 20,
			Burst:     40,
			Metrics:   true,
		},
		Game: Game{
			MaxPlays: 500,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvRedisAddr); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		c.Store.Redis.Password = v
	}
	if v := getenv(EnvPostgresDSN); v != "" {
		c.Store.Postgres.DSN = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Game.Seed = seed
	}
	return nil
}

// Validate checks the settings that cannot be caught at decode time.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	case StorePostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("store.postgres.dsn is required (or set %s)", EnvPostgresDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (memory, file, redis, postgres)", c.Store.Kind))
	}

	switch c.Provider.Kind {
	case ProviderMLB, ProviderRoster, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (mlb, roster, none)", c.Provider.Kind))
	}

	if c.Game.MaxPlays < 0 {
		errs = append(errs, errors.New("game.max_plays must not be negative"))
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.burst must not be negative"))
	}

	return errors.Join(errs...)
}
