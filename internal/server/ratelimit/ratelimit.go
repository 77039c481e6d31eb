// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	RetryAfter time.Duration
}

type bucketKey struct {
	client string
	method string
	path   string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per client and endpoint. It is safe for concurrent use.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[bucketKey]*bucket
	lastSweep time.Time
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[bucketKey]*bucket),
	}
}

// Allow consumes a token for client on method and path if one is available.
func (l *Limiter) Allow(client, method, path string) Info {
	if !l.config.Enabled {
		return Info{Allowed: true}
	}
	endpoint := l.config.match(method, path)
	if endpoint == nil || endpoint.Limit <= 0 {
		return Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	l.sweep(now)
	key := bucketKey{client: client, method: method, path: path}
	b, ok := l.buckets[key]
	if !ok {
		burst := endpoint.Burst
		if burst <= 0 {
			burst = endpoint.Limit
		}
		every := endpoint.Window / time.Duration(endpoint.Limit)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Info{Limit: endpoint.Limit}
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Info{Limit: endpoint.Limit, RetryAfter: delay}
	}
	return Info{Allowed: true, Limit: endpoint.Limit}
}

// sweep drops idle buckets at most once per IdleTTL. Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	ttl := l.config.IdleTTL
	if ttl <= 0 || now.Sub(l.lastSweep) < ttl {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > ttl {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
