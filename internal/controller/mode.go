package controller

import (
	"fmt"
	"strings"

	nserr "netswitch/internal/errors"
)

// Mode is a user-selectable target network state.
type Mode string

const (
	WifiOnly     Mode = "wifi"
	WiredOnly    Mode = "wired"
	Both         Mode = "both"
	Hotspot      Mode = "hotspot"
	Disconnected Mode = "off"
)

// AllModes returns every mode in menu order.
func AllModes() []Mode {
	return []Mode{WifiOnly, WiredOnly, Both, Hotspot, Disconnected}
}

// IsValid reports whether m is one of the five modes.
func (m Mode) IsValid() bool {
	switch m {
	case WifiOnly, WiredOnly, Both, Hotspot, Disconnected:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// Label is the human-readable name used in menus and messages.
func (m Mode) Label() string {
	switch m {
	case WifiOnly:
		return "Wi-Fi"
	case WiredOnly:
		return "Wired"
	case Both:
		return "Both Wi-Fi and Wired"
	case Hotspot:
		return "Hotspot"
	case Disconnected:
		return "Not Connected"
	}
	return string(m)
}

var modeAliases = map[string]Mode{
	"wifi":         WifiOnly,
	"wifi-only":    WifiOnly,
	"wireless":     WifiOnly,
	"wired":        WiredOnly,
	"wired-only":   WiredOnly,
	"ethernet":     WiredOnly,
	"lan":          WiredOnly,
	"both":         Both,
	"hotspot":      Hotspot,
	"ap":           Hotspot,
	"off":          Disconnected,
	"none":         Disconnected,
	"disconnected": Disconnected,
	"stop":         Disconnected,
}

// ParseMode accepts a mode name or one of its aliases, case-insensitively.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w %q (want one of wifi, wired, both, hotspot, off)", nserr.ErrUnknownMode, s)
}
