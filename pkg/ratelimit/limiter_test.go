package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected request beyond capacity to be denied")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 20*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("Expected first request to be allowed")
	}
	if tb.Allow() {
		t.Fatal("Expected second immediate request to be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !tb.Allow() {
		t.Error("Expected request after refill period to be allowed")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	tb.Allow()
	if tb.Allow() {
		t.Fatal("Expected bucket to be empty")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("Expected request after reset to be allowed")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 20*time.Millisecond)
	tb.Allow() // drain

	start := time.Now()
	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Expected Wait to block until refill, returned after %v", elapsed)
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	tb.Allow() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestPerMinute(t *testing.T) {
	tb := PerMinute(2)
	if !tb.Allow() || !tb.Allow() {
		t.Error("Expected two requests per minute to be allowed")
	}
	if tb.Allow() {
		t.Error("Expected third request to be denied")
	}
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	if !l.Allow() {
		t.Error("Expected Unlimited to always allow")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
