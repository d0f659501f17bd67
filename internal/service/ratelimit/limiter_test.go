package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(capacity, rate float64) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(capacity, rate)
	l.now = clock.now
	return l, clock
}

func TestLimiterBurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(3, 1)
	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if l.Allow("a") {
		t.Fatalf("fourth call should be denied")
	}
	if l.RetryAfter("a") != time.Second {
		t.Fatalf("unexpected retry after %v", l.RetryAfter("a"))
	}
	if !l.Allow("b") {
		t.Fatalf("keys must be independent")
	}
}

func TestLimiterRefills(t *testing.T) {
	l, clock := newTestLimiter(2, 0.5)
	l.Allow("a")
	l.Allow("a")
	if l.Allow("a") {
		t.Fatalf("expected empty bucket")
	}
	clock.t = clock.t.Add(2 * time.Second)
	if !l.Allow("a") {
		t.Fatalf("expected one token after 2s")
	}
	if l.Allow("a") {
		t.Fatalf("expected bucket empty again")
	}
	clock.t = clock.t.Add(time.Hour)
	if !l.Allow("a") || !l.Allow("a") || l.Allow("a") {
		t.Fatalf("refill must cap at capacity")
	}
}

func TestLimiterDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(1, 1)
	l.Allow("a")
	clock.t = clock.t.Add(2 * time.Hour)
	l.Allow("b")
	if _, ok := l.buckets["a"]; ok {
		t.Fatalf("idle bucket should be swept")
	}
}
