package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvEnabled     = "BETABOT_RATE_LIMIT_ENABLED"
	EnvRoutesLimit = "BETABOT_RATE_LIMIT_ROUTES"
)

// EndpointConfig limits one method and path.
type EndpointConfig struct {
	Method string
	Path   string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// IdleTTL is how long an idle client's state is kept
	IdleTTL   time.Duration
	Endpoints []EndpointConfig
}

// DefaultEndpointConfigs limits route synthesis, which may call the paid generator, and
// leaves cheap endpoints generous.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Method: http.MethodPost, Path: "/routes", Limit: 30, Window: time.Minute, Burst: 5},
		{Method: http.MethodPost, Path: "/guidance", Limit: 600, Window: time.Minute, Burst: 60},
		{Method: http.MethodPost, Path: "/board/filter", Limit: 600, Window: time.Minute, Burst: 60},
	}
}

// DefaultConfig returns the enabled default configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		IdleTTL:   10 * time.Minute,
		Endpoints: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads overrides from the environment through getenv.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv(EnvEnabled)); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := strings.TrimSpace(getenv(EnvRoutesLimit)); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			for i := range cfg.Endpoints {
				if cfg.Endpoints[i].Path == "/routes" {
					cfg.Endpoints[i].Limit = limit
				}
			}
		}
	}
	return cfg
}

// match returns the endpoint config for method and path, or nil when unlimited.
func (c *Config) match(method, path string) *EndpointConfig {
	for i := range c.Endpoints {
		if c.Endpoints[i].Method == method && c.Endpoints[i].Path == path {
			return &c.Endpoints[i]
		}
	}
	return nil
}
