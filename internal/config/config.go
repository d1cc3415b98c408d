package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment at startup. The simulator core
// takes no flags; cadence and storage are wired through these.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisURL selects Redis-backed storage when set; otherwise
	// snapshots and the chronicle go to files under DataDir.
	RedisURL string `env:"REDIS_URL"`
	DataDir  string `env:"DATA_DIR" envDefault:"./data"`

	WorldName string `env:"WORLD_NAME" envDefault:"karameikos"`
	StartYear int    `env:"START_YEAR" envDefault:"1000"`
	// Seed initializes the world RNG stream. Zero means derive one
	// from the clock at first boot.
	Seed int64 `env:"SEED"`

	// TurnInterval is the wall-clock length of one simulated turn.
	TurnInterval time.Duration `env:"TURN_INTERVAL" envDefault:"5s"`
	// CatchUpCap bounds how many missed turns are replayed after an
	// offline gap. Default is two simulated weeks.
	CatchUpCap int `env:"CATCHUP_CAP" envDefault:"2016"`

	LogLevel slog.Level `env:"-"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
