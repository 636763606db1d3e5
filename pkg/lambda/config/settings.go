package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Settings are the engine options read from a Config.
type Settings struct {
	// CacheCapacity bounds the compiled expression cache. Zero keeps every
	// expression.
	CacheCapacity int
	Metrics       bool
	Tracing       bool
	// EvalTimeout bounds each evaluation. Zero means no limit.
	EvalTimeout time.Duration
	LogLevel    slog.Level
	// LogFormat is "json" or "text". Empty leaves the choice to the caller.
	LogFormat string
	Vars      map[string]any
}

// DefaultSettings returns the settings used when no configuration is given.
func DefaultSettings() Settings {
	return Settings{LogLevel: slog.LevelInfo}
}

// Settings decodes engine settings, starting from DefaultSettings.
func (c Config) Settings() (Settings, error) {
	s := DefaultSettings()

	s.CacheCapacity = c.Int("cache.capacity", s.CacheCapacity)
	if s.CacheCapacity < 0 {
		return s, fmt.Errorf("cache.capacity must not be negative, got %d", s.CacheCapacity)
	}
	s.Metrics = c.Bool("metrics", s.Metrics)
	s.Tracing = c.Bool("tracing", s.Tracing)

	s.EvalTimeout = c.Duration("eval.timeout", s.EvalTimeout)
	if s.EvalTimeout < 0 {
		return s, fmt.Errorf("eval.timeout must not be negative, got %s", s.EvalTimeout)
	}

	logCfg := c.Sub("log")
	if lvl := logCfg.String("level", ""); lvl != "" {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return s, err
		}
		s.LogLevel = parsed
	}
	switch s.LogFormat = logCfg.String("format", ""); s.LogFormat {
	case "", "json", "text":
	default:
		return s, fmt.Errorf("log.format must be json or text, got %q", s.LogFormat)
	}

	s.Vars = c.Map("vars")
	if s.Vars == nil && c.Has("vars") {
		return s, errors.New("vars must be a mapping")
	}
	return s, nil
}

// ParseLevel parses a log level name such as "debug" or "WARN".
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", name, err)
	}
	return lvl, nil
}
