// Package config reads server settings from flags, falling back to
// CHESSCORE_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const envPrefix = "CHESSCORE_"

type Config struct {
	Addr           string        // listen address
	AllowOrigins   string        // CORS origins, comma separated
	ClockTime      time.Duration // per-side time for new games
	MatchInterval  time.Duration // how often the matchmaking queue is drained
	EngineMoveTime time.Duration // search time requested from the engine
	LogLevel       string
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowOrigins:   "http://localhost:5173",
		ClockTime:      10 * time.Minute,
		MatchInterval:  time.Second,
		EngineMoveTime: time.Second,
		LogLevel:       "info",
	}
}

// Load parses args. Each setting is taken from its flag if given, else from
// the environment, else from Default.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("chesscore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "CORS allowed origins")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "time per side")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "matchmaking interval")
	fs.DurationVar(&cfg.EngineMoveTime, "engine-movetime", cfg.EngineMoveTime, "engine search time per move")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv(envPrefix + "ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv(envPrefix + "ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"CLOCK", &c.ClockTime},
		{"MATCH_INTERVAL", &c.MatchInterval},
		{"ENGINE_MOVETIME", &c.EngineMoveTime},
	}
	for _, d := range durations {
		v := getenv(envPrefix + d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c Config) validate() error {
	if c.ClockTime <= 0 {
		return fmt.Errorf("clock must be positive, got %v", c.ClockTime)
	}
	if c.MatchInterval <= 0 {
		return fmt.Errorf("match interval must be positive, got %v", c.MatchInterval)
	}
	if c.EngineMoveTime <= 0 {
		return fmt.Errorf("engine move time must be positive, got %v", c.EngineMoveTime)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a fiber log level.
func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}
