// Package controller switches the machine between network modes by
// driving NetworkManager through a runner.Runner.
//
// The Controller discovers the ethernet and hotspot profiles once, at
// construction, and holds no other state: NetworkManager is the single
// source of truth and is queried on every Status call.
//
// A Controller does no locking.  NetworkManager's state is shared and
// externally mutable, and two interleaved Apply calls could leave it
// inconsistent, so callers must serialize all calls (the tray presenter
// runs them on a single goroutine).
package controller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"netswitch/internal/metrics"
	"netswitch/internal/runner"
)

// Options tunes a Controller.  The zero value discovers both profiles
// and does not wait for the network to settle.
type Options struct {
	// EthernetProfile pins the ethernet profile name and skips its
	// discovery.
	EthernetProfile string
	// HotspotProfile pins the hotspot profile name and skips its
	// discovery.
	HotspotProfile string
	// SettleTimeout bounds WaitSettled.  Zero disables polling.
	SettleTimeout time.Duration
	Metrics       *metrics.Collector
}

// Controller is the ConnectionController.
type Controller struct {
	runner   runner.Runner
	logger   *zap.Logger
	metrics  *metrics.Collector
	settle   time.Duration
	ethernet NetworkProfile
	hotspot  NetworkProfile
}

// New builds a Controller and runs profile discovery once.
func New(ctx context.Context, r runner.Runner, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		runner:  r,
		logger:  logger,
		metrics: opts.Metrics,
		settle:  opts.SettleTimeout,
	}

	if opts.EthernetProfile != "" {
		c.ethernet = NetworkProfile{Name: opts.EthernetProfile, Kind: Ethernet}
	} else {
		c.ethernet = c.DiscoverEthernetProfile(ctx)
	}
	if opts.HotspotProfile != "" {
		c.hotspot = NetworkProfile{Name: opts.HotspotProfile, Kind: WirelessHotspot}
	} else {
		c.hotspot = c.DiscoverHotspotProfile(ctx)
	}

	logger.Info("controller ready",
		zap.String("ethernet_profile", c.ethernet.Name),
		zap.String("hotspot_profile", c.hotspot.Name),
	)
	return c
}

// Profiles returns the ethernet and hotspot profiles in use.
func (c *Controller) Profiles() (ethernet, hotspot NetworkProfile) {
	return c.ethernet, c.hotspot
}
