package runner

import (
	"context"

	"netswitch/internal/retry"
)

// Guarded passes queries through a circuit breaker.  Execs are never
// short-circuited: a user-requested mode switch must always be attempted.
type Guarded struct {
	next    Runner
	breaker *retry.CircuitBreaker
}

// Guard wraps next so that repeated query failures open cb.
func Guard(next Runner, cb *retry.CircuitBreaker) *Guarded {
	return &Guarded{next: next, breaker: cb}
}

// Query implements Runner.  While the breaker is open it fails fast with
// an error wrapping errors.ErrCircuitOpen.
func (g *Guarded) Query(ctx context.Context, args ...string) (string, error) {
	var out string
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.next.Query(ctx, args...)
		return err
	})
	return out, err
}

// Exec implements Runner.
func (g *Guarded) Exec(ctx context.Context, args ...string) error {
	return g.next.Exec(ctx, args...)
}

// Breaker returns the underlying circuit breaker.
func (g *Guarded) Breaker() *retry.CircuitBreaker { return g.breaker }

var _ Runner = (*Guarded)(nil)
