package controller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	nserr "netswitch/internal/errors"
	"netswitch/internal/nmcli"
)

// Step names reported in TransitionError.
const (
	StepDisableHotspot = "disable-hotspot"
	StepEnsureWired    = "ensure-wired"
	StepWifiRadioOn    = "wifi-radio-on"
	StepWifiRadioOff   = "wifi-radio-off"
	StepEthernetUp     = "ethernet-up"
	StepEthernetDown   = "ethernet-down"
	StepHotspotUp      = "hotspot-up"
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Steps returns the ordered step names a switch to m runs.
func (c *Controller) Steps(m Mode) ([]string, error) {
	plan, err := c.plan(m)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(plan))
	for i, s := range plan {
		names[i] = s.name
	}
	return names, nil
}

func (c *Controller) plan(m Mode) ([]step, error) {
	var (
		disableHotspot = step{StepDisableHotspot, c.disableHotspot}
		ensureWired    = step{StepEnsureWired, c.EnsureWired}
		radioOn        = step{StepWifiRadioOn, c.execStep(nmcli.WifiRadioArgs(true))}
		radioOff       = step{StepWifiRadioOff, c.execStep(nmcli.WifiRadioArgs(false))}
		ethernetUp     = step{StepEthernetUp, c.execStep(nmcli.ConnectionUpArgs(c.ethernet.Name))}
		ethernetDown   = step{StepEthernetDown, c.execStep(nmcli.ConnectionDownArgs(c.ethernet.Name))}
		hotspotUp      = step{StepHotspotUp, c.execStep(nmcli.ConnectionUpArgs(c.hotspot.Name))}
	)

	switch m {
	case WifiOnly:
		return []step{disableHotspot, radioOn, ethernetDown}, nil
	case WiredOnly:
		return []step{disableHotspot, ethernetUp, radioOff}, nil
	case Both:
		return []step{disableHotspot, radioOn, ethernetUp}, nil
	case Hotspot:
		return []step{ensureWired, radioOn, hotspotUp}, nil
	case Disconnected:
		return []step{radioOff, ethernetDown}, nil
	}
	return nil, fmt.Errorf("%w %q", nserr.ErrUnknownMode, string(m))
}

// Apply runs the fixed command sequence for m.  The first failing step
// aborts the rest and is returned as *errors.TransitionError.  There is
// no rollback: steps already issued stay applied.
func (c *Controller) Apply(ctx context.Context, m Mode) error {
	steps, err := c.plan(m)
	if err != nil {
		return err
	}

	log := c.logger.With(zap.String("op", uuid.NewString()), zap.Stringer("mode", m))
	log.Info("switching network mode")

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			log.Error("step failed, remaining steps skipped", zap.String("step", s.name), zap.Error(err))
			c.metrics.TransitionFinished(m.String(), err)
			return nserr.Step(m.String(), s.name, err)
		}
		log.Debug("step done", zap.String("step", s.name))
	}

	log.Info("network mode switched")
	c.metrics.TransitionFinished(m.String(), nil)
	return nil
}

// EnsureWired activates the ethernet profile unless a device already
// reports it connected.  The hotspot routes through the wired uplink, so
// a nil return is the precondition for enabling it.
func (c *Controller) EnsureWired(ctx context.Context) error {
	up, err := c.ethernetDeviceUp(ctx)
	if err != nil {
		c.logger.Warn("device status unavailable, activating wired profile anyway", zap.Error(err))
	}
	if up {
		return nil
	}

	c.logger.Info("wired connection not active, activating", zap.String("profile", c.ethernet.Name))
	if err := c.runner.Exec(ctx, nmcli.ConnectionUpArgs(c.ethernet.Name)...); err != nil {
		return fmt.Errorf("%w: %w", nserr.ErrNoWiredUplink, err)
	}
	return nil
}

// disableHotspot deactivates the hotspot profile if it is active.
func (c *Controller) disableHotspot(ctx context.Context) error {
	conns, err := c.queryActive(ctx)
	if err != nil {
		return err
	}
	for _, a := range conns {
		if a.Name == c.hotspot.Name {
			if err := c.runner.Exec(ctx, nmcli.ConnectionDownArgs(c.hotspot.Name)...); err != nil {
				return err
			}
			c.logger.Info("hotspot disabled", zap.String("profile", c.hotspot.Name))
			return nil
		}
	}
	return nil
}

func (c *Controller) execStep(args []string) func(context.Context) error {
	return func(ctx context.Context) error {
		return c.runner.Exec(ctx, args...)
	}
}
