// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/matcher"
	"github.com/aretw0/narrator/pkg/runner"
	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration shared by every command.
type Config struct {
	StoryPath string `env:"NARRATOR_STORY" envDefault:"story.json"`
	LogLevel  string `env:"NARRATOR_LOG_LEVEL" envDefault:"info"`

	SimilarityCutoff float64 `env:"NARRATOR_SIMILARITY_CUTOFF"`
	OverlapThreshold float64 `env:"NARRATOR_OVERLAP_THRESHOLD"`
	MaxInputSize     int     `env:"NARRATOR_MAX_INPUT_SIZE"`

	RedisAddr     string        `env:"NARRATOR_REDIS_ADDR"`
	RedisPassword string        `env:"NARRATOR_REDIS_PASSWORD"`
	RedisDB       int           `env:"NARRATOR_REDIS_DB"`
	RedisPrefix   string        `env:"NARRATOR_REDIS_PREFIX" envDefault:"narrator:session:"`
	SessionTTL    time.Duration `env:"NARRATOR_SESSION_TTL"`
	LockTTL       time.Duration `env:"NARRATOR_LOCK_TTL" envDefault:"30s"`
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		StoryPath:        "story.json",
		LogLevel:         "info",
		SimilarityCutoff: matcher.DefaultCutoff,
		OverlapThreshold: matcher.DefaultOverlapThreshold,
		MaxInputSize:     runner.DefaultMaxInputSize,
		RedisPrefix:      "narrator:session:",
		LockTTL:          30 * time.Second,
	}
}

// Load parses the environment on top of the defaults and validates the result.
func Load() (Config, error) {
	cfg := Defaults()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.SimilarityCutoff < 0 || c.SimilarityCutoff > 1 {
		return fmt.Errorf("NARRATOR_SIMILARITY_CUTOFF must be within [0,1], got %v", c.SimilarityCutoff)
	}
	if c.OverlapThreshold < 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("NARRATOR_OVERLAP_THRESHOLD must be within [0,1], got %v", c.OverlapThreshold)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("NARRATOR_MAX_INPUT_SIZE must be positive, got %d", c.MaxInputSize)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("NARRATOR_SESSION_TTL must not be negative, got %v", c.SessionTTL)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("NARRATOR_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// UseRedis reports whether sessions should live in Redis.
func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}
