// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/dogapi/dogapi/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep idle limiters in memory.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

// Limiter holds one token bucket per client network.
//
// A Limiter is safe for concurrent use.
type Limiter struct {
	rate       rate.Limit
	burst      int
	passIPs    []string
	ipv4Prefix int
	ipv6Prefix int

	limiters sync.Map // network string -> *limiterWrapper
	now      func() time.Time

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time
}

// limiterWrapper holds a rate limiter and when it was last used.
type limiterWrapper struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	lastAccess time.Time
}

// New returns a Limiter configured from cfg.Limiter.
func New(cfg *config.ServerConfig) *Limiter {
	return &Limiter{
		rate:       rate.Limit(cfg.Limiter.Rate),
		burst:      cfg.Limiter.Burst,
		passIPs:    cfg.Limiter.PassIPs,
		ipv4Prefix: cfg.Limiter.IPv4Prefix,
		ipv6Prefix: cfg.Limiter.IPv6Prefix,
		now:        time.Now,
	}
}

// allow consumes one token for network. It returns whether the request may
// proceed and how many whole tokens are left afterwards.
func (l *Limiter) allow(network string) (bool, int) {
	limWrapper := l.getOrCreateLimiter(network)

	limWrapper.mu.Lock()
	defer limWrapper.mu.Unlock()

	now := l.now()
	limWrapper.lastAccess = now

	allowed := limWrapper.limiter.AllowN(now, 1)
	remaining := max(int(limWrapper.limiter.TokensAt(now)), 0)

	if !allowed {
		log.Warn().
			Str("network", network).
			Msg("Rate limit exceeded")
	}

	return allowed, remaining
}

// getOrCreateLimiter returns the limiterWrapper for network, creating it on
// first use.
func (l *Limiter) getOrCreateLimiter(network string) *limiterWrapper {
	if value, ok := l.limiters.Load(network); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	value, _ := l.limiters.LoadOrStore(network, &limiterWrapper{
		limiter:    rate.NewLimiter(l.rate, l.burst),
		lastAccess: l.now(),
	})

	limWrapper, _ := value.(*limiterWrapper)

	return limWrapper
}

// cleanupExpiredLimiters removes limiters that haven't been accessed for
// LimiterExpiryDuration as of now and returns how many were removed.
func (l *Limiter) cleanupExpiredLimiters(now time.Time) int {
	var keysToDelete []any

	// Collect keys to delete in a slice to avoid deleting during Range()
	l.limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			keysToDelete = append(keysToDelete, key)

			return true
		}

		limWrapper.mu.Lock()
		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	for _, key := range keysToDelete {
		l.limiters.Delete(key)
	}

	if len(keysToDelete) > 0 {
		log.Info().Int("count", len(keysToDelete)).
			Msg("Cleaned up expired limiters")
	}

	return len(keysToDelete)
}
