package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, the config file and environment variables.

const (
	// AppDir is the directory name under the user config dir that holds
	// config.yaml and the log file.
	AppDir = "network-switcher"

	// LogFileName is the log file created inside AppDir.
	LogFileName = "network-switcher.log"

	// EnvPrefix prefixes every environment variable, e.g.
	// NETSWITCH_COMMAND_TIMEOUT=5s.
	EnvPrefix = "NETSWITCH"

	// DefaultProgram is the NetworkManager client looked up on PATH.
	DefaultProgram = "nmcli"

	// DefaultCommandTimeout bounds every nmcli invocation.
	DefaultCommandTimeout = 8 * time.Second

	// DefaultSettleTimeout bounds the poll for a switch to take effect.
	DefaultSettleTimeout = 10 * time.Second

	// DefaultRefreshInterval is how often the tray re-reads the status.
	DefaultRefreshInterval = 30 * time.Second

	// DefaultBreakerFailures is how many consecutive failed status
	// queries open the circuit breaker.
	DefaultBreakerFailures = 3

	// DefaultBreakerReset is how long the breaker stays open.
	DefaultBreakerReset = time.Minute

	// DefaultLogFormat picks console output on a terminal, JSON otherwise.
	DefaultLogFormat = "auto"
)
