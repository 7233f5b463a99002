// Package retry provides bounded retries for transient provider failures.
package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go/v4"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

const (
	defaultAttempts = 3
	defaultDelay    = 200 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// Config bounds the retry loop.
type Config struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultConfig returns the retry policy used for provider calls.
func DefaultConfig() Config {
	return Config{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

func (c Config) options(ctx context.Context) []retrygo.Option {
	attempts := c.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	delay := c.Delay
	if delay == 0 {
		delay = defaultDelay
	}
	maxDelay := c.MaxDelay
	if maxDelay == 0 {
		maxDelay = defaultMaxDelay
	}
	return []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(attempts),
		retrygo.Delay(delay),
		retrygo.MaxDelay(maxDelay),
		retrygo.LastErrorOnly(true),
		retrygo.RetryIf(domain.IsRetriable),
	}
}

// Do runs op, retrying with backoff while it fails with a retriable
// provider error. Fatal errors and context cancellation surface
// immediately; on exhaustion the last error is returned.
func Do(ctx context.Context, cfg Config, op func() error) error {
	return retrygo.Do(op, cfg.options(ctx)...)
}

// DoWithData is Do for operations that return a value.
func DoWithData[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	return retrygo.DoWithData(op, cfg.options(ctx)...)
}
