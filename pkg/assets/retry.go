package assets

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a download failure worth another attempt: transient
// network errors and 5xx responses from the asset CDN. Anything unwrapped
// fails immediately.
type RetryableError struct{ Err error }

// Retryable wraps an error as retryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// retryBaseDelay is the first wait between attempts; tests shorten it.
var retryBaseDelay = time.Second

// retryWithBackoff runs fn up to three times, doubling the delay after each
// failed attempt. Only [RetryableError] failures are retried. Returns
// ctx.Err() when cancelled mid-wait.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryBaseDelay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*RetryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
