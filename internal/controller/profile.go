package controller

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"netswitch/internal/nmcli"
)

// Default profile names used when discovery finds nothing.
const (
	DefaultEthernetProfile = "connection-lan"
	DefaultHotspotProfile  = "Hotspot"
)

// ProfileKind tags what a NetworkProfile is used for.
type ProfileKind int

const (
	Ethernet ProfileKind = iota
	WirelessHotspot
)

func (k ProfileKind) String() string {
	if k == WirelessHotspot {
		return "wireless-hotspot"
	}
	return "ethernet"
}

// NetworkProfile is a saved NetworkManager connection.
type NetworkProfile struct {
	Name string      `json:"name"`
	Kind ProfileKind `json:"-"`
	// Discovered is false when Name is a default or configured value.
	Discovered bool `json:"discovered"`
}

// DiscoverEthernetProfile returns the first ethernet profile, or the
// default name when none is found.  It never fails; a failing listing is
// logged and degrades to the default.
func (c *Controller) DiscoverEthernetProfile(ctx context.Context) NetworkProfile {
	return c.discover(ctx, Ethernet, DefaultEthernetProfile, func(p nmcli.Profile) bool {
		return p.Type == nmcli.TypeEthernet
	})
}

// DiscoverHotspotProfile returns the first wireless profile whose name
// contains "hotspot" in any case, or the default name.
func (c *Controller) DiscoverHotspotProfile(ctx context.Context) NetworkProfile {
	return c.discover(ctx, WirelessHotspot, DefaultHotspotProfile, func(p nmcli.Profile) bool {
		return p.Type == nmcli.TypeWireless && strings.Contains(strings.ToLower(p.Name), "hotspot")
	})
}

func (c *Controller) discover(ctx context.Context, kind ProfileKind, def string, match func(nmcli.Profile) bool) NetworkProfile {
	fallback := NetworkProfile{Name: def, Kind: kind}
	log := c.logger.With(zap.Stringer("kind", kind))

	out, err := c.runner.Query(ctx, nmcli.ListProfilesArgs()...)
	if err != nil {
		log.Error("profile discovery failed, using default", zap.String("default", def), zap.Error(err))
		return fallback
	}
	profiles, err := nmcli.ParseProfiles(out)
	if err != nil {
		log.Error("unparsable profile listing, using default", zap.String("default", def), zap.Error(err))
		return fallback
	}
	for _, p := range profiles {
		if match(p) {
			log.Info("profile discovered", zap.String("name", p.Name))
			return NetworkProfile{Name: p.Name, Kind: kind, Discovered: true}
		}
	}
	log.Warn("no matching profile, using default", zap.String("default", def))
	return fallback
}

// DiscoverProfiles runs both discoveries.  It never fails.
func (c *Controller) DiscoverProfiles(ctx context.Context) (ethernet, hotspot NetworkProfile) {
	return c.DiscoverEthernetProfile(ctx), c.DiscoverHotspotProfile(ctx)
}
