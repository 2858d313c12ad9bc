package utils

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls the exponential backoff schedule of Retry.
type RetryConfig struct {
	MaxRetries      int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool
}

// DefaultRetryConfig returns the standard backoff policy: 3 retries
// starting at 1s, doubling up to 60s, with jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialDelay:    time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2,
		Jitter:          true,
	}
}

// Delay returns the backoff delay before retry n (1-indexed):
// min(MaxDelay, InitialDelay * base^(n-1)), multiplied by a jitter factor
// drawn uniformly from [0.5, 1.5) when Jitter is set.
func (c RetryConfig) Delay(retry int) time.Duration {
	base := c.ExponentialBase
	if base <= 0 {
		base = 2
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(base, float64(retry-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	if c.Jitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return delay
}

// Retry runs op until it succeeds or the retry budget is exhausted,
// sleeping with exponential backoff between attempts. The total number of
// attempts is MaxRetries+1. On exhaustion the last error is returned to
// the caller; it is never swallowed. Context cancellation interrupts the
// inter-attempt wait.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			slog.Warn("max retries exceeded", "max_retries", cfg.MaxRetries, "error", err)
			break
		}

		delay := cfg.Delay(attempt + 1)
		slog.Info("retrying after delay",
			"retry", attempt+1,
			"max_retries", cfg.MaxRetries,
			"delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, fmt.Errorf("retries exhausted after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}
