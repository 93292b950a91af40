// Package retry runs an operation a fixed number of times with a linear
// backoff between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

const (
	DefaultAttempts = 3
	DefaultStep     = 5 * time.Second
)

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retries exhausted")

// Policy describes how an operation is retried.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int

	// Backoff returns the delay after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration

	// OnFailure is called after every failed attempt.
	OnFailure func(attempt, attempts int, err error)

	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Linear waits attempt*step after each failed attempt: step, 2*step, ...
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// NewPolicy returns a policy with the given attempts and linear backoff step.
func NewPolicy(attempts int, step time.Duration) *Policy {
	return &Policy{
		Attempts: attempts,
		Backoff:  Linear(step),
		Sleep:    SleepContext,
	}
}

// Default is 3 attempts with 5s, 10s between them.
func Default() *Policy {
	return NewPolicy(DefaultAttempts, DefaultStep)
}

// Do calls op until it succeeds or the attempts run out. It does not wait
// after the last attempt. A cancelled context stops retrying immediately.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := max(p.Attempts, 1)
	attempt := 0

	err := retrygo.Do(
		func() error {
			attempt++
			return op(ctx, attempt)
		},
		retrygo.Context(ctx),
		retrygo.Attempts(uint(attempts)),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(func(_ uint, _ error, _ *retrygo.Config) time.Duration {
			if p.Backoff == nil {
				return 0
			}

			return p.Backoff(attempt)
		}),
		retrygo.OnRetry(func(_ uint, err error) {
			if p.OnFailure != nil {
				p.OnFailure(attempt, attempts, err)
			}
		}),
		retrygo.WithTimer(&sleepTimer{ctx: ctx, sleep: p.Sleep}),
	)

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("retry stopped after attempt %d: %w", attempt, ctxErr)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
}

// sleepTimer adapts a Sleep func to the retry-go timer. A wait that is cut
// short by ctx never fires, so the context branch wins.
type sleepTimer struct {
	ctx   context.Context
	sleep func(ctx context.Context, d time.Duration) error
}

func (t *sleepTimer) After(d time.Duration) <-chan time.Time {
	sleep := t.sleep

	if sleep == nil {
		sleep = SleepContext
	}

	if d > 0 && sleep(t.ctx, d) != nil && t.ctx.Err() != nil {
		return nil
	}

	ch := make(chan time.Time, 1)
	ch <- time.Now()

	return ch
}

// SleepContext blocks for d unless ctx is cancelled first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
