// Package daemon holds powergate's configuration and the HTTP serving
// lifecycle.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tutu-network/powergate/internal/domain"
)

// Config holds all powergate configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Planner   PlannerConfig   `toml:"planner"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	RequestTimeout string   `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// DefaultsConfig fills in values a scenario leaves out.
type DefaultsConfig struct {
	Dimensions int    `toml:"dimensions"`
	Policy     string `toml:"policy"`
}

// PlannerConfig controls the safety gate in front of scheduling.
type PlannerConfig struct {
	RequireSafe bool `toml:"require_safe"`
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8474,
			CORSOrigins:    []string{"*"},
			RequestTimeout: "10s",
			MaxBodyBytes:   1 << 20,
		},
		Defaults: DefaultsConfig{
			Dimensions: 3,
			Policy:     domain.PolicyPerformance.String(),
		},
		Planner: PlannerConfig{
			RequireSafe: true,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from $POWERGATE_HOME/config.toml, falling back
// to defaults when the file does not exist.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom reads config from path over the defaults.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("config: api.port %d out of range", c.API.Port)
	}
	if _, err := time.ParseDuration(c.API.RequestTimeout); c.API.RequestTimeout != "" && err != nil {
		return fmt.Errorf("config: api.request_timeout: %w", err)
	}
	if c.Defaults.Dimensions < 0 {
		return fmt.Errorf("config: defaults.dimensions must be >= 0")
	}
	if c.Defaults.Policy != "" {
		if _, err := domain.ParsePolicy(c.Defaults.Policy); err != nil {
			return fmt.Errorf("config: defaults.policy: %w", err)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn":
	default:
		return fmt.Errorf("config: logging.level %q not one of debug, info, warn", c.Logging.Level)
	}
	return nil
}

// DefaultPolicy returns the configured default policy, or Performance.
func (c Config) DefaultPolicy() domain.Policy {
	p, err := domain.ParsePolicy(c.Defaults.Policy)
	if err != nil {
		return domain.PolicyPerformance
	}
	return p
}

// Debug reports whether debug logging is on.
func (c Config) Debug() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}

// Quiet reports whether only warnings should be logged.
func (c Config) Quiet() bool {
	return strings.EqualFold(c.Logging.Level, "warn")
}

// Timeout returns the request timeout, defaulting to 10s.
func (c Config) Timeout() time.Duration {
	return parseDuration(c.API.RequestTimeout, 10*time.Second)
}

// SaveConfig writes the config to path, creating parent directories.
func SaveConfig(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Home returns the powergate data directory.
func Home() string {
	if env := os.Getenv("POWERGATE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".powergate")
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
