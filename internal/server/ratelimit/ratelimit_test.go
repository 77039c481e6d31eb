package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.now
	return l, clock
}

func routesOnly(limit, burst int) *Config {
	return &Config{
		Enabled:   true,
		IdleTTL:   time.Hour,
		Endpoints: []EndpointConfig{{Method: http.MethodPost, Path: "/routes", Limit: limit, Window: time.Minute, Burst: burst}},
	}
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l, _ := testLimiter(routesOnly(60, 2))

	assert.True(t, l.Allow("1.2.3.4", http.MethodPost, "/routes").Allowed)
	assert.True(t, l.Allow("1.2.3.4", http.MethodPost, "/routes").Allowed)

	info := l.Allow("1.2.3.4", http.MethodPost, "/routes")
	assert.False(t, info.Allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, time.Second, info.RetryAfter)
}

func TestAllow_Refills(t *testing.T) {
	l, clock := testLimiter(routesOnly(60, 1))

	assert.True(t, l.Allow("a", http.MethodPost, "/routes").Allowed)
	assert.False(t, l.Allow("a", http.MethodPost, "/routes").Allowed)

	clock.advance(time.Second)
	assert.True(t, l.Allow("a", http.MethodPost, "/routes").Allowed)
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l, _ := testLimiter(routesOnly(60, 1))

	assert.True(t, l.Allow("a", http.MethodPost, "/routes").Allowed)
	assert.True(t, l.Allow("b", http.MethodPost, "/routes").Allowed)
	assert.False(t, l.Allow("a", http.MethodPost, "/routes").Allowed)
}

func TestAllow_UnlimitedEndpoints(t *testing.T) {
	l, _ := testLimiter(routesOnly(1, 1))

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("a", http.MethodGet, "/health").Allowed)
		assert.True(t, l.Allow("a", http.MethodGet, "/routes").Allowed)
	}
	assert.Equal(t, 0, l.Len())
}

func TestAllow_Disabled(t *testing.T) {
	cfg := routesOnly(1, 1)
	cfg.Enabled = false
	l, _ := testLimiter(cfg)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("a", http.MethodPost, "/routes").Allowed)
	}
}

func TestSweep_DropsIdleClients(t *testing.T) {
	l, clock := testLimiter(routesOnly(60, 1))

	l.Allow("a", http.MethodPost, "/routes")
	l.Allow("b", http.MethodPost, "/routes")
	assert.Equal(t, 2, l.Len())

	clock.advance(2 * time.Hour)
	l.Allow("c", http.MethodPost, "/routes")
	assert.Equal(t, 1, l.Len())
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(func(key string) string {
		return map[string]string{EnvEnabled: "false", EnvRoutesLimit: "5"}[key]
	})

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.match(http.MethodPost, "/routes").Limit)
	assert.Nil(t, cfg.match(http.MethodGet, "/health"))

	defaults := LoadConfig(func(string) string { return "" })
	assert.True(t, defaults.Enabled)
	assert.Equal(t, 30, defaults.match(http.MethodPost, "/routes").Limit)
}
