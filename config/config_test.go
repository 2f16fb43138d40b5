package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nserr "netswitch/internal/errors"
)

func validConfig() Config {
	return Config{
		Program:         DefaultProgram,
		CommandTimeout:  DefaultCommandTimeout,
		SettleTimeout:   DefaultSettleTimeout,
		RefreshInterval: DefaultRefreshInterval,
		BreakerFailures: DefaultBreakerFailures,
		BreakerReset:    DefaultBreakerReset,
		LogFormat:       DefaultLogFormat,
	}
}

// TestValidate_ErrorMessages verifies that Validate returns actionable
// error messages naming the flag.
func TestValidate_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantSub string
	}{
		{"no program", func(c *Config) { c.Program = "" }, "nmcli", "hint:"},
		{"zero timeout", func(c *Config) { c.CommandTimeout = 0 }, "timeout", "must be positive"},
		{"negative settle", func(c *Config) { c.SettleTimeout = -time.Second }, "settle-timeout", "hint:"},
		{"tiny refresh", func(c *Config) { c.RefreshInterval = 10 * time.Millisecond }, "refresh", "at least 1s"},
		{"negative refresh", func(c *Config) { c.RefreshInterval = -1 }, "refresh", "at least 1s"},
		{"no breaker failures", func(c *Config) { c.BreakerFailures = 0 }, "breaker-failures", "at least 1"},
		{"no breaker reset", func(c *Config) { c.BreakerReset = 0 }, "breaker-reset", "must be positive"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log-format", "use auto, json or console"},
		{"bad metrics addr", func(c *Config) { c.MetricsAddr = "9310" }, "metrics-addr", "host:port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ce *nserr.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, err.Error(), tt.wantSub)
			assert.True(t, strings.HasPrefix(err.Error(), "config: --"+tt.field))
		})
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg.SettleTimeout = 0
	cfg.RefreshInterval = 0
	cfg.MetricsAddr = "127.0.0.1:9310"
	cfg.LogFormat = "console"
	assert.NoError(t, cfg.Validate())
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/network-switcher", Dir())
	assert.Equal(t, "/tmp/xdg/network-switcher/network-switcher.log", DefaultLogFile())
}
