package directory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FetchPolicy bounds retries of fetch-style operations (locating an element
// or reading a table). Exhausting the budget yields ErrNotFound.
type FetchPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// ClickPolicy bounds retries of click-style operations. The original
// automation retried clicks forever when another element intercepted them;
// here the loop has a configurable ceiling so every operation either
// succeeds or fails after a defined bound.
type ClickPolicy struct {
	Attempts int
	Interval time.Duration
}

// DefaultFetchPolicy mirrors the historical 3-attempt, 1-second-backoff
// fetch behavior.
func DefaultFetchPolicy() FetchPolicy {
	return FetchPolicy{Attempts: 3, Backoff: time.Second}
}

// DefaultClickPolicy allows interception to clear for up to a minute.
func DefaultClickPolicy() ClickPolicy {
	return ClickPolicy{Attempts: 120, Interval: 500 * time.Millisecond}
}

// Fetch runs op under the policy. Transient failures are retried with a
// fixed backoff; exhaustion returns ErrNotFound wrapping the last error.
func (p FetchPolicy) Fetch(ctx context.Context, op func(context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(ctx, p.Backoff); err != nil {
				return err
			}
		}
		if last = op(ctx); last == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %w", ErrNotFound, last)
}

// Click runs op under the policy, retrying while the target is not yet
// actionable. Hitting the ceiling is a terminal failure: the remote page
// structure has likely changed and the run must abort.
func (p ClickPolicy) Click(ctx context.Context, op func(context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(ctx, p.Interval); err != nil {
				return err
			}
		}
		if last = op(ctx); last == nil {
			return nil
		}
	}
	return fmt.Errorf("element never became actionable after %d attempts: %w", attempts, last)
}

// IsNotFound reports whether err is the retry-exhaustion signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
