// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/dogapi/dogapi/config"
)

// mockClock is a controllable time source.
type mockClock struct {
	currentTime time.Time
}

func (m *mockClock) Now() time.Time {
	return m.currentTime
}

func (m *mockClock) Sleep(d time.Duration) {
	m.currentTime = m.currentTime.Add(d)
}

func newTestLimiter(t *testing.T, ratePerSecond float64, burst int, passIPs ...string) (*Limiter, *mockClock) {
	t.Helper()

	cfg := &config.ServerConfig{}
	cfg.Limiter.Rate = ratePerSecond
	cfg.Limiter.Burst = burst
	cfg.Limiter.PassIPs = passIPs
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48

	clock := &mockClock{currentTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	l := New(cfg)
	l.now = clock.Now

	return l, clock
}

func serve(l *Limiter, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr

	rr := httptest.NewRecorder()

	l.Evaluate(rr, req, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return rr
}

func TestEvaluate_BurstThenBlock(t *testing.T) {
	t.Parallel()

	l, clock := newTestLimiter(t, 1, 3)

	for i := range 3 {
		rr := serve(l, "/breeds/list/all", "8.8.8.8:1000")
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i)
		assert.Equal(t, "3", rr.Header().Get(HeaderRateLimitLimit))
	}

	rr := serve(l, "/breeds/list/all", "8.8.8.8:1000")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "error", gjson.Get(rr.Body.String(), "status").String())
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, "0", rr.Header().Get(HeaderRateLimitRemaining))

	// the same /24 shares the bucket
	rr = serve(l, "/breeds/list/all", "8.8.8.9:1000")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// a different network has its own bucket
	rr = serve(l, "/breeds/list/all", "9.9.9.9:1000")
	assert.Equal(t, http.StatusOK, rr.Code)

	clock.Sleep(time.Second)

	rr = serve(l, "/breeds/list/all", "8.8.8.8:1000")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEvaluate_Exemptions(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(t, 1, 1, "10.0.0.0/8")

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(l, "/healthz", "8.8.8.8:1000").Code)
		assert.Equal(t, http.StatusOK, serve(l, "/breeds/list/all", "10.1.2.3:1000").Code)
		assert.Equal(t, http.StatusOK, serve(l, "/breeds/list/all", "@").Code)
	}
}

func TestCleanupExpiredLimiters(t *testing.T) {
	t.Parallel()

	l, clock := newTestLimiter(t, 1, 5)

	serve(l, "/", "8.8.8.8:1000")
	clock.Sleep(LimiterExpiryDuration / 2)
	serve(l, "/", "9.9.9.9:1000")
	clock.Sleep(LimiterExpiryDuration/2 + time.Second)

	assert.Equal(t, 1, l.cleanupExpiredLimiters(clock.Now()))

	_, stillThere := l.limiters.Load("9.9.9.0/24")
	assert.True(t, stillThere)

	_, present := l.limiters.Load("8.8.8.0/24")
	assert.False(t, present)
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(t, 0.1, 1)
	assert.Equal(t, 10, l.retryAfterSeconds())

	l, _ = newTestLimiter(t, 5, 1)
	assert.Equal(t, 1, l.retryAfterSeconds())
}
