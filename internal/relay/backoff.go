package relay

import (
	"context"
	"time"
)

// Backoff controls how Dial retries a refused connection.
type Backoff struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int
}

// DefaultBackoff doubles from 250ms up to 5s, for at most 6 attempts.
var DefaultBackoff = Backoff{Initial: 250 * time.Millisecond, Max: 5 * time.Second, MaxAttempts: 6}

// retry calls fn until it succeeds, attempts run out or ctx is done.
func (b Backoff) retry(ctx context.Context, fn func() error) error {
	attempts := b.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	wait := b.Initial

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
			if b.Max > 0 && wait > b.Max {
				wait = b.Max
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if _, ok := lastErr.(permanent); ok {
			return lastErr
		}
	}
	return lastErr
}

// permanent marks an error that retrying cannot fix, such as a 4xx response.
type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }
