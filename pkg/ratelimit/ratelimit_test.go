package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Unlimited(t *testing.T) {
	l := New(0, 0)
	defer l.Stop()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited limiter should not block, took %v", elapsed)
	}
}

func TestLimiter_Paces(t *testing.T) {
	l := New(100, 0) // 10ms interval
	defer l.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("expected at least ~30ms of pacing, got %v", elapsed)
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	l := New(0.1, 0) // 10s interval, will never tick in this test
	defer l.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestLimiter_JitterClamped(t *testing.T) {
	l := New(1000, 5) // jitter must clamp to 1.0
	defer l.Stop()

	if l.jitter != 1 {
		t.Errorf("expected jitter clamped to 1.0, got %f", l.jitter)
	}

	l2 := New(1000, -1)
	defer l2.Stop()
	if l2.jitter != 0 {
		t.Errorf("expected jitter clamped to 0, got %f", l2.jitter)
	}
}
