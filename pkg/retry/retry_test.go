package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "ntxcensus/pkg/errors"
	"ntxcensus/pkg/logger"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delays[backoff.NextDelay(2)] = true
	}

	if len(delays) < 2 {
		t.Error("Expected multiple different delays with jitter, but got consistent delays")
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errs.New(errs.ErrorTypeNetwork, 0, "timeout")
		}
		return nil
	}

	if err := Do(op, testConfig(5)); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errs.New(errs.ErrorTypeServerError, 503, "unavailable")
	}

	err := Do(op, testConfig(3))
	if err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	attempts := 0
	noData := errs.New(errs.ErrorTypeNoData, 204, "no data for place/year")
	op := func() error {
		attempts++
		return noData
	}

	err := Do(op, testConfig(5))
	if !errors.Is(err, noData) {
		t.Errorf("Expected the no-data error back, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt for a permanent error, got %d", attempts)
	}
}

func TestRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := testConfig(0)
	cfg.Context = ctx
	cfg.Backoff = &ConstantBackoff{Delay: time.Hour}

	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errs.New(errs.ErrorTypeNetwork, 0, "timeout")
	}

	err := Do(op, cfg)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected one attempt before cancellation, got %d", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errs.New(errs.ErrorTypeRateLimit, 429, "slow down")
		}
		return "payload", nil
	}

	result, err := DoWithResult(op, testConfig(3))
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result != "payload" {
		t.Errorf("Expected result %q, got %q", "payload", result)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"network error", errs.New(errs.ErrorTypeNetwork, 0, "timeout"), true},
		{"rate limit error", errs.New(errs.ErrorTypeRateLimit, 429, "slow down"), true},
		{"no data", errs.New(errs.ErrorTypeNoData, 204, "nothing here"), false},
		{"auth error", errs.New(errs.ErrorTypeAuth, 401, "bad key"), false},
		{"context canceled", context.Canceled, false},
		{"unknown error", errors.New("mystery"), true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DefaultRetryIf(test.err); got != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWaitZeroDelay(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Expected nil for zero delay, got %v", err)
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
