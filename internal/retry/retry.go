// Package retry decides whether a failed completion attempt is tried again.
package retry

import (
	"context"
	"time"

	apierrors "github.com/coodar/dscli/internal/errors"
)

// Defaults used when a Policy field is zero
const (
	DefaultMaxRetries = 3
	DefaultDelay      = time.Second
)

// Policy bounds the attempts of one turn and the pause between them
type Policy struct {
	MaxRetries int
	Delay      time.Duration

	// sleep is swapped in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Policy. Negative values fall back to the defaults; a
// zero delay means no pause between attempts.
func New(maxRetries int, delay time.Duration) Policy {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return Policy{MaxRetries: maxRetries, Delay: delay}
}

// Default returns the policy with three attempts one second apart
func Default() Policy {
	return New(DefaultMaxRetries, DefaultDelay)
}

// Classify maps a failure to its kind and message
func (p Policy) Classify(err error) apierrors.Classification {
	return apierrors.Classify(err)
}

// ShouldRetry reports whether another attempt follows. attempt counts the
// failures seen so far in this turn, starting at 1. Once attempt reaches
// MaxRetries nothing is retried; below that only connection, timeout and
// auth failures are.
func (p Policy) ShouldRetry(kind apierrors.Kind, attempt int) bool {
	if attempt >= p.MaxRetries {
		return false
	}
	return apierrors.RetryableKind(kind)
}

// Wait pauses for Delay, returning early with ctx's error if it is done
func (p Policy) Wait(ctx context.Context) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, p.Delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
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

// WithSleep returns a copy of p that pauses with fn instead of a timer
func (p Policy) WithSleep(fn func(ctx context.Context, d time.Duration) error) Policy {
	p.sleep = fn
	return p
}
