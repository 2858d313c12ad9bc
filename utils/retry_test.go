package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openrag/docsearch-be/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryConfig(maxRetries int) utils.RetryConfig {
	return utils.RetryConfig{
		MaxRetries:      maxRetries,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		ExponentialBase: 2,
	}
}

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := utils.Retry(context.Background(), testRetryConfig(3), func() (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := utils.Retry(context.Background(), testRetryConfig(3), func() (int, error) {
			calls++
			if calls <= 2 {
				return 0, errors.New("transient")
			}
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("surfaces the last error after maxRetries+1 attempts", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("still broken")
		calls := 0
		_, err := utils.Retry(context.Background(), testRetryConfig(3), func() (int, error) {
			calls++
			return 0, wantErr
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		cfg := testRetryConfig(3)
		cfg.InitialDelay = time.Hour
		cfg.MaxDelay = time.Hour

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := utils.Retry(ctx, cfg, func() (int, error) {
			return 0, errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryConfigDelay(t *testing.T) {
	t.Parallel()

	t.Run("doubles from the initial delay", func(t *testing.T) {
		t.Parallel()

		cfg := utils.RetryConfig{
			InitialDelay:    time.Second,
			MaxDelay:        60 * time.Second,
			ExponentialBase: 2,
		}
		assert.Equal(t, time.Second, cfg.Delay(1))
		assert.Equal(t, 2*time.Second, cfg.Delay(2))
		assert.Equal(t, 4*time.Second, cfg.Delay(3))
	})

	t.Run("is capped at the max delay", func(t *testing.T) {
		t.Parallel()

		cfg := utils.RetryConfig{
			InitialDelay:    time.Second,
			MaxDelay:        60 * time.Second,
			ExponentialBase: 2,
		}
		assert.Equal(t, 60*time.Second, cfg.Delay(10))
	})

	t.Run("jitter stays within half and one-and-a-half", func(t *testing.T) {
		t.Parallel()

		cfg := utils.RetryConfig{
			InitialDelay:    time.Second,
			MaxDelay:        60 * time.Second,
			ExponentialBase: 2,
			Jitter:          true,
		}
		for i := 0; i < 100; i++ {
			d := cfg.Delay(1)
			assert.GreaterOrEqual(t, d, 500*time.Millisecond)
			assert.Less(t, d, 1500*time.Millisecond)
		}
	})
}
