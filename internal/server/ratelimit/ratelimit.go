// Package ratelimit throttles intake API clients with per-route token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket holds up to capacity tokens and refills at a steady rate.
type TokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity), // Start with full bucket
		lastRefill: now,
	}
}

// refill must be called with mu held
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed > 0 {
		tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
		tb.lastRefill = now
	}
}

// take consumes a token when one is available and reports the bucket state
// after the attempt.
func (tb *TokenBucket) take(now time.Time) (allowed bool, remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		allowed = true
	}

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) && tb.refillRate > 0 {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// nextToken is how long until one whole token is available; mu must be held
func (tb *TokenBucket) nextToken() time.Duration {
	if tb.tokens >= 1.0 || tb.refillRate <= 0 {
		return 0
	}
	return time.Duration((1.0 - tb.tokens) / tb.refillRate * float64(time.Second))
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter manages one token bucket per client and route pattern.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu         sync.Mutex
	buckets    map[string]*TokenBucket
	lastAccess map[string]time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// Option customises a Limiter
type Option func(*Limiter)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter creates a limiter. A nil config allows 1000 requests per minute.
func NewLimiter(config *Config, opts ...Option) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:     config,
		now:        time.Now,
		buckets:    make(map[string]*TokenBucket),
		lastAccess: make(map[string]time.Time),
	}
	for _, o := range opts {
		o(l)
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanup()
	}
	return l
}

// Allow checks whether clientID may call path with method.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Pattern: path,
			Method:  method,
			Limit:   l.config.DefaultLimit,
			Window:  l.config.DefaultWindow,
			Burst:   l.config.DefaultLimit,
		}
	}
	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	key := clientID + ":" + method + ":" + endpoint.Pattern
	bucket := l.bucket(key, endpoint, now)

	allowed, remaining, resetTime := bucket.take(now)
	info := Info{
		Allowed:   allowed,
		Limit:     endpoint.Limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		bucket.mu.Lock()
		info.RetryAfter = bucket.nextToken()
		bucket.mu.Unlock()
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, endpoint *EndpointConfig, now time.Time) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccess[key] = now
	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := endpoint.Burst
	if capacity <= 0 {
		capacity = endpoint.Limit
	}
	b := newTokenBucket(capacity, float64(endpoint.Limit)/endpoint.Window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.Sweep(time.Hour)
		case <-l.cleanupStop:
			return
		}
	}
}

// Sweep drops buckets idle for longer than idle and returns how many remain.
func (l *Limiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
