package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	nserr "netswitch/internal/errors"
	"netswitch/internal/retry"
)

// WaitSettled polls Status until it satisfies m or the settle timeout
// runs out.  NetworkManager applies changes asynchronously, so a status
// read right after Apply can still show the old state.  On timeout the
// last snapshot is returned together with an error wrapping
// errors.ErrNotSettled; callers should treat that as informational.
func (c *Controller) WaitSettled(ctx context.Context, m Mode) (ConnectionStatus, error) {
	if c.settle <= 0 {
		return c.Status(ctx), nil
	}

	var last ConnectionStatus
	err := retry.SettleBackoff(c.settle).Until(ctx, func(attempt int) bool {
		last = c.Status(ctx)
		c.logger.Debug("settle poll", zap.Int("attempt", attempt), zap.Stringer("mode", last.CurrentMode()))
		return last.Reached(m)
	})
	if err != nil {
		c.logger.Warn("network state did not settle",
			zap.Stringer("want", m),
			zap.Stringer("have", last.CurrentMode()),
			zap.Duration("timeout", c.settle),
		)
		return last, fmt.Errorf("%w: want %s, have %s: %w", nserr.ErrNotSettled, m, last.CurrentMode(), err)
	}
	return last, nil
}

// ApplyAndSettle applies m, then waits for it to settle.  The returned
// status is always a fresh best-effort snapshot, also when Apply failed.
func (c *Controller) ApplyAndSettle(ctx context.Context, m Mode) (ConnectionStatus, error) {
	if err := c.Apply(ctx, m); err != nil {
		return c.Status(ctx), err
	}
	return c.WaitSettled(ctx, m)
}
