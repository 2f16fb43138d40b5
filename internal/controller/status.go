package controller

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"netswitch/internal/nmcli"
)

// Status fields that can degrade independently.
const (
	FieldRadio    = "wifi_radio"
	FieldActive   = "active_connections"
	FieldEthernet = "ethernet_device"
)

// ConnectionStatus is a point-in-time snapshot.  It is recomputed on
// every query and never cached.
type ConnectionStatus struct {
	WifiRadio         nmcli.RadioState `json:"-"`
	WifiConnected     bool             `json:"wifi_connected"`
	WifiNetworkName   string           `json:"wifi_network,omitempty"`
	EthernetConnected bool             `json:"ethernet_connected"`
	HotspotActive     bool             `json:"hotspot_active"`
	// EthernetProfileUp is set only for the configured ethernet profile.
	// EthernetConnected also counts other wired links, such as a USB
	// tether.
	EthernetProfileUp bool `json:"-"`
	// Degraded lists the fields whose query failed.
	Degraded []string `json:"degraded,omitempty"`
}

// WifiRadioEnabled reports whether the radio is known to be on.
func (s ConnectionStatus) WifiRadioEnabled() bool { return s.WifiRadio == nmcli.RadioEnabled }

// IsDegraded reports whether field could not be determined.
func (s ConnectionStatus) IsDegraded(field string) bool { return slices.Contains(s.Degraded, field) }

// CurrentMode picks the single mode shown as "the" current connection.
// Several flags may be true at once; the hotspot wins because it
// occupies the Wi-Fi radio, then Wi-Fi plus ethernet, then either alone.
func (s ConnectionStatus) CurrentMode() Mode {
	switch {
	case s.HotspotActive:
		return Hotspot
	case s.WifiConnected && s.EthernetConnected:
		return Both
	case s.WifiConnected:
		return WifiOnly
	case s.EthernetConnected:
		return WiredOnly
	default:
		return Disconnected
	}
}

// Label describes the current mode, naming the Wi-Fi network when known.
func (s ConnectionStatus) Label() string {
	m := s.CurrentMode()
	if s.WifiNetworkName == "" {
		return m.Label()
	}
	switch m {
	case WifiOnly:
		return "Wi-Fi (" + s.WifiNetworkName + ")"
	case Both:
		return "Both Wi-Fi (" + s.WifiNetworkName + ") and Wired"
	}
	return m.Label()
}

// Reached reports whether the snapshot satisfies what a switch to m
// asked for.  A Wi-Fi switch only turns the radio on, so it does not
// require an association to have happened yet.  Only the configured
// ethernet profile is checked; wired links a switch never touches are
// ignored.
func (s ConnectionStatus) Reached(m Mode) bool {
	radioOn := s.WifiRadio == nmcli.RadioEnabled
	radioOff := s.WifiRadio == nmcli.RadioDisabled
	switch m {
	case WifiOnly:
		return radioOn && !s.EthernetProfileUp && !s.HotspotActive
	case WiredOnly:
		return radioOff && s.EthernetProfileUp && !s.HotspotActive
	case Both:
		return radioOn && s.EthernetProfileUp && !s.HotspotActive
	case Hotspot:
		return s.HotspotActive
	case Disconnected:
		return radioOff && !s.EthernetProfileUp
	}
	return false
}

// Status queries the radio state, the active connections and the device
// carrying the ethernet profile.  It never fails: each query that fails
// leaves its fields at their zero value and is listed in Degraded.
func (c *Controller) Status(ctx context.Context) ConnectionStatus {
	var st ConnectionStatus

	if state, err := c.queryRadio(ctx); err != nil {
		c.degrade(&st, FieldRadio, err)
	} else {
		st.WifiRadio = state
	}

	if conns, err := c.queryActive(ctx); err != nil {
		c.degrade(&st, FieldActive, err)
	} else {
		c.applyActive(&st, conns)
	}

	if up, err := c.ethernetDeviceUp(ctx); err != nil {
		c.degrade(&st, FieldEthernet, err)
	} else if up {
		st.EthernetConnected = true
		st.EthernetProfileUp = true
	}

	c.logger.Debug("status",
		zap.Stringer("radio", st.WifiRadio),
		zap.Bool("wifi", st.WifiConnected),
		zap.String("ssid", st.WifiNetworkName),
		zap.Bool("ethernet", st.EthernetConnected),
		zap.Bool("hotspot", st.HotspotActive),
		zap.Strings("degraded", st.Degraded),
	)
	return st
}

func (c *Controller) applyActive(st *ConnectionStatus, conns []nmcli.ActiveConnection) {
	for _, a := range conns {
		switch {
		case a.Name == c.hotspot.Name:
			st.HotspotActive = true
		case a.IsWireless():
			if !st.WifiConnected {
				st.WifiConnected = true
				st.WifiNetworkName = a.Name
			}
		case a.IsEthernet():
			st.EthernetConnected = true
			if a.Name == c.ethernet.Name {
				st.EthernetProfileUp = true
			}
		}
	}
}

func (c *Controller) degrade(st *ConnectionStatus, field string, err error) {
	st.Degraded = append(st.Degraded, field)
	c.metrics.StatusDegraded(field)
	c.logger.Warn("status field unknown", zap.String("field", field), zap.Error(err))
}

func (c *Controller) queryRadio(ctx context.Context) (nmcli.RadioState, error) {
	out, err := c.runner.Query(ctx, nmcli.RadioArgs()...)
	if err != nil {
		return nmcli.RadioUnknown, err
	}
	return nmcli.ParseRadio(out)
}

func (c *Controller) queryActive(ctx context.Context) ([]nmcli.ActiveConnection, error) {
	out, err := c.runner.Query(ctx, nmcli.ActiveConnectionsArgs()...)
	if err != nil {
		return nil, err
	}
	return nmcli.ParseActiveConnections(out)
}

// ethernetDeviceUp reports whether a device is fully connected with the
// ethernet profile.
func (c *Controller) ethernetDeviceUp(ctx context.Context) (bool, error) {
	out, err := c.runner.Query(ctx, nmcli.DeviceStatusArgs()...)
	if err != nil {
		return false, err
	}
	devs, err := nmcli.ParseDeviceStatus(out)
	if err != nil {
		return false, err
	}
	for _, d := range devs {
		if d.Connection == c.ethernet.Name && d.Connected() {
			return true, nil
		}
	}
	return false, nil
}
