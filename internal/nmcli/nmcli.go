// Package nmcli knows the command lines and terse output format of
// NetworkManager's command-line client.
//
// All queries use terse mode (-t) with an explicit field list (-f), so
// each output line is a colon-separated record in a fixed field order.
// Colons and backslashes inside values are escaped with a backslash.
package nmcli

import (
	"fmt"
	"strings"
)

// DefaultProgram is the client binary looked up on PATH.
const DefaultProgram = "nmcli"

// Connection type tokens as printed in the TYPE field.
const (
	TypeEthernet = "802-3-ethernet"
	TypeWireless = "802-11-wireless"
)

// StateConnected is the device STATE of a fully activated device.
const StateConnected = "connected"

// ── Queries ──────────────────────────────────────────────────────────

// ListProfilesArgs lists every saved connection profile as NAME:TYPE.
func ListProfilesArgs() []string {
	return []string{"-t", "-f", "NAME,TYPE", "connection", "show"}
}

// ActiveConnectionsArgs lists active connections as NAME:TYPE:DEVICE.
func ActiveConnectionsArgs() []string {
	return []string{"-t", "-f", "NAME,TYPE,DEVICE", "connection", "show", "--active"}
}

// DeviceStatusArgs lists devices as DEVICE:TYPE:STATE:CONNECTION.
func DeviceStatusArgs() []string {
	return []string{"-t", "-f", "DEVICE,TYPE,STATE,CONNECTION", "device", "status"}
}

// RadioArgs prints the Wi-Fi radio state.
func RadioArgs() []string {
	return []string{"-t", "-f", "WIFI", "radio"}
}

// ── State changes ────────────────────────────────────────────────────

// WifiRadioArgs switches the Wi-Fi radio on or off.
func WifiRadioArgs(on bool) []string {
	state := "off"
	if on {
		state = "on"
	}
	return []string{"radio", "wifi", state}
}

// ConnectionUpArgs activates the profile named name.
func ConnectionUpArgs(name string) []string {
	return []string{"connection", "up", "id", name}
}

// ConnectionDownArgs deactivates the profile named name.
func ConnectionDownArgs(name string) []string {
	return []string{"connection", "down", "id", name}
}

// ── Records ──────────────────────────────────────────────────────────

// Profile is one line of ListProfilesArgs output.
type Profile struct {
	Name string
	Type string
}

// ActiveConnection is one line of ActiveConnectionsArgs output.
type ActiveConnection struct {
	Name   string
	Type   string
	Device string
}

// IsWireless reports whether the connection is a Wi-Fi connection.
func (a ActiveConnection) IsWireless() bool { return strings.Contains(a.Type, TypeWireless) }

// IsEthernet reports whether the connection is a wired connection.
func (a ActiveConnection) IsEthernet() bool { return strings.Contains(a.Type, TypeEthernet) }

// Device is one line of DeviceStatusArgs output.
type Device struct {
	Device     string
	Type       string
	State      string
	Connection string
}

// Connected reports whether the device is fully activated.  "disconnected"
// and "connecting (...)" do not count.
func (d Device) Connected() bool { return d.State == StateConnected }

// RadioState is the Wi-Fi radio power state.
type RadioState int

const (
	RadioUnknown RadioState = iota
	RadioEnabled
	RadioDisabled
)

func (r RadioState) String() string {
	switch r {
	case RadioEnabled:
		return "enabled"
	case RadioDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ── Parsers ──────────────────────────────────────────────────────────

// ParseProfiles parses ListProfilesArgs output.
func ParseProfiles(out string) ([]Profile, error) {
	recs, err := parseRecords(out, 2)
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(recs))
	for _, r := range recs {
		profiles = append(profiles, Profile{Name: r[0], Type: r[1]})
	}
	return profiles, nil
}

// ParseActiveConnections parses ActiveConnectionsArgs output.
func ParseActiveConnections(out string) ([]ActiveConnection, error) {
	recs, err := parseRecords(out, 3)
	if err != nil {
		return nil, err
	}
	conns := make([]ActiveConnection, 0, len(recs))
	for _, r := range recs {
		conns = append(conns, ActiveConnection{Name: r[0], Type: r[1], Device: r[2]})
	}
	return conns, nil
}

// ParseDeviceStatus parses DeviceStatusArgs output.
func ParseDeviceStatus(out string) ([]Device, error) {
	recs, err := parseRecords(out, 4)
	if err != nil {
		return nil, err
	}
	devs := make([]Device, 0, len(recs))
	for _, r := range recs {
		devs = append(devs, Device{Device: r[0], Type: r[1], State: r[2], Connection: r[3]})
	}
	return devs, nil
}

// ParseRadio parses RadioArgs output.
func ParseRadio(out string) (RadioState, error) {
	v := strings.ToLower(strings.TrimSpace(out))
	switch {
	case strings.Contains(v, "disabled"):
		return RadioDisabled, nil
	case strings.Contains(v, "enabled"):
		return RadioEnabled, nil
	default:
		return RadioUnknown, fmt.Errorf("unrecognised radio state %q", v)
	}
}

// SplitTerse splits one terse-mode line into fields, undoing the
// backslash escapes nmcli applies to ':' and '\'.
func SplitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case ch == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case ch == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(fields, cur.String())
}

func parseRecords(out string, nfields int) ([][]string, error) {
	var recs [][]string
	for n, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := SplitTerse(line)
		if len(f) != nfields {
			return nil, fmt.Errorf("line %d: want %d fields, got %d: %q", n+1, nfields, len(f), line)
		}
		recs = append(recs, f)
	}
	return recs, nil
}
