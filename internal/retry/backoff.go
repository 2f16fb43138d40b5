// Package retry provides the bounded polling used to wait for the
// network manager to settle after a mode switch, and a circuit breaker
// that stops re-running status queries against a misbehaving nmcli.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when the time budget runs out.
var ErrExhausted = errors.New("retry budget exhausted")

// ── Backoff ──────────────────────────────────────────────────────────

// Backoff implements exponential backoff bounded by total wall time.
type Backoff struct {
	// InitialDelay is the delay before the second attempt (default 250ms).
	InitialDelay time.Duration
	// MaxDelay caps a single wait (default 2s).
	MaxDelay time.Duration
	// Multiplier increases the delay each attempt (default 2.0).
	Multiplier float64
	// Budget caps the total time spent waiting.  Zero means no limit,
	// leaving only the context to stop the loop.
	Budget time.Duration
}

// SettleBackoff returns the backoff used to poll for a settled network
// state: quick first probes, then slower ones, never longer than budget.
func SettleBackoff(budget time.Duration) *Backoff {
	return &Backoff{
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Budget:       budget,
	}
}

// Do runs fn until it returns nil, the budget runs out or ctx is done.
// The attempt number passed to fn is 1-based.
func (b *Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	delay := b.InitialDelay
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	multiplier := b.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}
	maxDelay := b.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	var deadline time.Time
	if b.Budget > 0 {
		deadline = time.Now().Add(b.Budget)
	}

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		wait := delay
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
			}
			if wait > remaining {
				wait = remaining
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * multiplier)
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// errNotYet is the internal signal used by Until.
var errNotYet = errors.New("condition not met")

// Until polls cond until it reports true.  It returns an error wrapping
// ErrExhausted when the budget runs out first.
func (b *Backoff) Until(ctx context.Context, cond func(attempt int) bool) error {
	return b.Do(ctx, func(attempt int) error {
		if cond(attempt) {
			return nil
		}
		return errNotYet
	})
}
