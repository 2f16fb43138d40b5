// Package config defines the runtime configuration for netswitch.
package config

import (
	"net"
	"os"
	"path/filepath"
	"time"

	nserr "netswitch/internal/errors"
)

// Config holds every tuneable for a netswitch process.
type Config struct {
	// ── NetworkManager ───────────────────────────────────────────────
	Program         string        // nmcli binary
	ExecPrefix      []string      // prepended to state-changing commands, e.g. ["pkexec"]
	CommandTimeout  time.Duration // per invocation
	SettleTimeout   time.Duration // 0 disables settle polling
	EthernetProfile string        // empty → discover
	HotspotProfile  string        // empty → discover

	// ── Tray ─────────────────────────────────────────────────────────
	RefreshInterval  time.Duration // 0 disables periodic refresh
	IconPath         string
	SettingsPrograms []string // command lines tried in order; empty → built-in list
	BreakerFailures  int
	BreakerReset     time.Duration

	// ── Output ───────────────────────────────────────────────────────
	Debug       bool
	LogFile     string // empty → no file
	LogFormat   string // auto, json or console
	MetricsAddr string // empty → no listener

	// File is the config file that was read, if any.
	File string
}

// Dir returns the per-user directory holding config.yaml and the log.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = filepath.Join(home, ".config")
		} else {
			base = os.TempDir()
		}
	}
	return filepath.Join(base, AppDir)
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() string {
	return filepath.Join(Dir(), LogFileName)
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Program == "" {
		return &nserr.ConfigError{
			Field:   "nmcli",
			Message: "the NetworkManager client program is required",
			Hint:    "leave unset to use \"nmcli\" from PATH",
		}
	}
	if c.CommandTimeout <= 0 {
		return &nserr.ConfigError{
			Field:   "timeout",
			Value:   c.CommandTimeout,
			Message: "must be positive",
			Hint:    "use a duration such as 8s",
		}
	}
	if c.SettleTimeout < 0 {
		return &nserr.ConfigError{
			Field:   "settle-timeout",
			Value:   c.SettleTimeout,
			Message: "must not be negative",
			Hint:    "use 0 to skip waiting for the network to settle",
		}
	}
	if c.RefreshInterval < 0 || (c.RefreshInterval > 0 && c.RefreshInterval < time.Second) {
		return &nserr.ConfigError{
			Field:   "refresh",
			Value:   c.RefreshInterval,
			Message: "must be 0 or at least 1s",
			Hint:    "every refresh runs three nmcli queries",
		}
	}
	if c.BreakerFailures < 1 {
		return &nserr.ConfigError{
			Field:   "breaker-failures",
			Value:   c.BreakerFailures,
			Message: "must be at least 1",
		}
	}
	if c.BreakerReset <= 0 {
		return &nserr.ConfigError{
			Field:   "breaker-reset",
			Value:   c.BreakerReset,
			Message: "must be positive",
		}
	}
	switch c.LogFormat {
	case "auto", "json", "console":
	default:
		return &nserr.ConfigError{
			Field:   "log-format",
			Value:   c.LogFormat,
			Message: "unknown log format",
			Hint:    "use auto, json or console",
		}
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return &nserr.ConfigError{
				Field:   "metrics-addr",
				Value:   c.MetricsAddr,
				Message: err.Error(),
				Hint:    "use host:port, e.g. 127.0.0.1:9310",
			}
		}
	}
	return nil
}
