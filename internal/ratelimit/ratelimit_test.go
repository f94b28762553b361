package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return newLimiter(limit, window, clock.Now), clock
}

func TestAllow_AdmitsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestAllow_WindowExpiryReadmits(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("1.2.3.4")
	l.Allow("1.2.3.4")
	if l.Allow("1.2.3.4") {
		t.Fatal("third request inside the window should be rejected")
	}

	clock.Advance(time.Minute + time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatal("request after the window elapsed should be admitted")
	}
}

func TestAllow_SlidingBoundary(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("1.2.3.4")
	clock.Advance(30 * time.Second)
	l.Allow("1.2.3.4")

	clock.Advance(20 * time.Second)
	if l.Allow("1.2.3.4") {
		t.Fatal("both timestamps still inside the window, should reject")
	}

	// First timestamp is now 71s old, second 41s old.
	clock.Advance(21 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatal("oldest timestamp expired, should admit")
	}
}

func TestAllow_RejectionsNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	l.Allow("1.2.3.4")
	for i := 0; i < 10; i++ {
		clock.Advance(5 * time.Second)
		if l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be rejected", i+1)
		}
	}

	// 50s of rejected attempts must not have extended the window.
	clock.Advance(11 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatal("client should be readmitted once the admitted request ages out")
	}
}

func TestAllow_IndependentClients(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	l.Allow("1.2.3.4")
	l.Allow("1.2.3.4")
	if l.Allow("1.2.3.4") {
		t.Fatal("client A should be exhausted")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("client B must not be affected by client A's quota")
	}
}

func TestSweep_EvictsIdleClients(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("1.2.3.4")
	l.Allow("5.6.7.8")

	clock.Advance(2 * time.Minute)
	l.Allow("5.6.7.8")
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["1.2.3.4"]; ok {
		t.Error("idle client should have been evicted")
	}
	if _, ok := l.visitors["5.6.7.8"]; !ok {
		t.Error("active client should have been kept")
	}
}
