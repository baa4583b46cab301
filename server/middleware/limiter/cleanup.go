// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// doCleanup starts a background sweep of idle limiters at most once per
// CleanupInterval. The first call only records the starting point.
func (l *Limiter) doCleanup() {
	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	now := l.now()
	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now

		return
	}

	if now.Sub(l.lastCleanupAt) < CleanupInterval {
		return
	}

	l.lastCleanupAt = now

	go func() {
		start := time.Now()
		removed := l.cleanupExpiredLimiters(now)

		log.Debug().
			Int("removed", removed).
			Dur("dur", time.Since(start)).
			Msg("limiter cleanup")
	}()
}
