package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stammerchat/stammer/internal/stutter"
)

// Config contains all runtime settings for the stammer service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// DefaultMaxChunkChars bounds outgoing segments when the caller
	// does not pass its own limit.
	DefaultMaxChunkChars int
	DefaultPreset        stutter.Preset

	SessionInactivityTimeout time.Duration

	// DatabaseURL empty means drafts live in process memory only.
	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "stammer"),
		AllowAnyOrigin:           false,
		DefaultMaxChunkChars:     480,
		DefaultPreset:            stutter.Preset(envOrDefault("STAMMER_DEFAULT_PRESET", string(stutter.PresetMedium))),
		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 2 * time.Minute,
		DatabaseURL:              envTrimmed("DATABASE_URL"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultMaxChunkChars, err = intFromEnv("STAMMER_MAX_CHUNK_CHARS", cfg.DefaultMaxChunkChars)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.DefaultMaxChunkChars < 16 {
		return Config{}, fmt.Errorf("STAMMER_MAX_CHUNK_CHARS must be at least 16")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	switch cfg.DefaultPreset {
	case stutter.PresetOff, stutter.PresetLight, stutter.PresetMedium, stutter.PresetHeavy, stutter.PresetCustom:
	default:
		return Config{}, fmt.Errorf("STAMMER_DEFAULT_PRESET must be one of off|light|medium|heavy|custom")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
