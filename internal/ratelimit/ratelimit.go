// Package ratelimit implements the per-client sliding-window limiter that
// sheds load before it reaches the paid upstream API.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most limit requests per client identifier within any
// trailing window. State lives in process memory only; a restart resets
// all counters, and multiple instances multiply the effective limit.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
}

// New builds a limiter on the real clock and starts its background sweep.
func New(limit int, window time.Duration) *Limiter {
	l := newLimiter(limit, window, time.Now)
	go l.janitor()
	return l
}

func newLimiter(limit int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		visitors: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      now,
		stop:     make(chan struct{}),
	}
}

// Allow reports whether a request from clientID is admitted right now.
// Rejected attempts are not recorded, so hammering a closed window does
// not extend it.
func (l *Limiter) Allow(clientID string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.visitors[clientID]
	for len(stamps) > 0 && stamps[0].Before(cutoff) {
		stamps = stamps[1:]
	}
	if len(stamps) >= l.limit {
		l.visitors[clientID] = stamps
		return false
	}
	l.visitors[clientID] = append(stamps, now)
	return true
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) janitor() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep evicts identifiers that have been idle for a full window, bounding
// memory to clients seen recently.
func (l *Limiter) sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, stamps := range l.visitors {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
			delete(l.visitors, id)
		}
	}
}
