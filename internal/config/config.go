// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvBoard       = "BETABOT_BOARD"
	EnvRouteBank   = "BETABOT_ROUTE_BANK"
	EnvSynthesizer = "BETABOT_SYNTHESIZER"
	EnvPort        = "BETABOT_PORT"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Sources
	Board     string `json:"board,omitempty"`      // Path or URL of the board definition
	RouteBank string `json:"route_bank,omitempty"` // Path or URL of the route bank; empty uses the built-in bank
	Rules     string `json:"rules,omitempty"`      // Path to a replacement guidance rule table (YAML)
	Positions string `json:"positions,omitempty"`  // Path to a JSON map of hold id to LED position

	// Synthesis
	Synthesizer string `json:"synthesizer,omitempty" validate:"omitempty,oneof=local external"`
	APIKey      string `json:"api_key,omitempty"`
	ModelTier   string `json:"model_tier,omitempty" validate:"omitempty,oneof=lite standard advanced"`

	// Server
	Port           int `json:"port,omitempty" validate:"gte=0,lte=65535"`
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"gte=0"` // Per-request limit; 0 means none

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Synthesizer:    "local",
		ModelTier:      "standard",
		Port:           8080,
		TimeoutSeconds: 60,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the BETABOT_* variables and GEMINI_API_KEY through getenv.
// An unparsable port is an error.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIKey:      strings.TrimSpace(getenv(EnvAPIKey)),
		Board:       strings.TrimSpace(getenv(EnvBoard)),
		RouteBank:   strings.TrimSpace(getenv(EnvRouteBank)),
		Synthesizer: strings.ToLower(strings.TrimSpace(getenv(EnvSynthesizer))),
	}
	if port := strings.TrimSpace(getenv(EnvPort)); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %s must be a number: %w", EnvPort, err)
		}
		cfg.Port = n
	}
	return cfg, nil
}

// Resolve layers the configuration: environment over the optional config file over
// Defaults. CLI flags are applied on top by the caller.
func Resolve(path string, getenv func(string) string) (Config, error) {
	file := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	env, err := FromEnv(getenv)
	if err != nil {
		return Config{}, err
	}

	merged := env.MergeWithDefaults(*file)
	merged.Verbose = merged.Verbose || file.Verbose
	return merged.MergeWithDefaults(Defaults()), nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Rules != "" {
		if _, err := os.Stat(c.Rules); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.Rules)
		}
	}
	if c.Positions != "" {
		if _, err := os.Stat(c.Positions); os.IsNotExist(err) {
			return fmt.Errorf("config error: positions file not found: %s", c.Positions)
		}
	}

	return nil
}

// Timeout returns the per-request limit, or 0 when unlimited.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Board == "" {
		result.Board = defaults.Board
	}
	if result.RouteBank == "" {
		result.RouteBank = defaults.RouteBank
	}
	if result.Rules == "" {
		result.Rules = defaults.Rules
	}
	if result.Positions == "" {
		result.Positions = defaults.Positions
	}
	if result.Synthesizer == "" {
		result.Synthesizer = defaults.Synthesizer
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ModelTier == "" {
		result.ModelTier = defaults.ModelTier
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
