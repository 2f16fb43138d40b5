package config

// loader.go - configuration loading through viper.
//
// Precedence order (highest wins):
//   1. CLI flags  (bound from cmd/root.go)
//   2. Environment variables  (NETSWITCH_*)
//   3. Config file  (config.yaml in Dir(), or --config)
//   4. Defaults   (defaults.go)

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys.  Each is also the lower-case suffix of its environment
// variable: command_timeout ↔ NETSWITCH_COMMAND_TIMEOUT.
const (
	KeyProgram          = "nmcli"
	KeyExecPrefix       = "exec_prefix"
	KeyCommandTimeout   = "command_timeout"
	KeySettleTimeout    = "settle_timeout"
	KeyEthernetProfile  = "ethernet_profile"
	KeyHotspotProfile   = "hotspot_profile"
	KeyRefreshInterval  = "refresh_interval"
	KeyIconPath         = "icon_path"
	KeySettingsPrograms = "settings_programs"
	KeyBreakerFailures  = "breaker_failures"
	KeyBreakerReset     = "breaker_reset"
	KeyDebug            = "debug"
	KeyLogFile          = "log_file"
	KeyLogFormat        = "log_format"
	KeyMetricsAddr      = "metrics_addr"
)

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"nmcli":            KeyProgram,
	"exec-prefix":      KeyExecPrefix,
	"timeout":          KeyCommandTimeout,
	"settle-timeout":   KeySettleTimeout,
	"ethernet-profile": KeyEthernetProfile,
	"hotspot-profile":  KeyHotspotProfile,
	"refresh":          KeyRefreshInterval,
	"icon":             KeyIconPath,
	"debug":            KeyDebug,
	"log-file":         KeyLogFile,
	"log-format":       KeyLogFormat,
	"metrics-addr":     KeyMetricsAddr,
}

// NewViper returns a viper instance with defaults, the optional config
// file and the environment applied.  A missing default config file is
// not an error; a missing explicit path is.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyProgram, DefaultProgram)
	v.SetDefault(KeyExecPrefix, []string{})
	v.SetDefault(KeyCommandTimeout, DefaultCommandTimeout)
	v.SetDefault(KeySettleTimeout, DefaultSettleTimeout)
	v.SetDefault(KeyEthernetProfile, "")
	v.SetDefault(KeyHotspotProfile, "")
	v.SetDefault(KeyRefreshInterval, DefaultRefreshInterval)
	v.SetDefault(KeyIconPath, "")
	v.SetDefault(KeySettingsPrograms, []string{})
	v.SetDefault(KeyBreakerFailures, DefaultBreakerFailures)
	v.SetDefault(KeyBreakerReset, DefaultBreakerReset)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, DefaultLogFile())
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyMetricsAddr, "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// BindFlags makes every flag in fs that the user actually set override
// its config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Program:          v.GetString(KeyProgram),
		ExecPrefix:       words(v.GetStringSlice(KeyExecPrefix)),
		CommandTimeout:   v.GetDuration(KeyCommandTimeout),
		SettleTimeout:    v.GetDuration(KeySettleTimeout),
		EthernetProfile:  v.GetString(KeyEthernetProfile),
		HotspotProfile:   v.GetString(KeyHotspotProfile),
		RefreshInterval:  v.GetDuration(KeyRefreshInterval),
		IconPath:         v.GetString(KeyIconPath),
		SettingsPrograms: v.GetStringSlice(KeySettingsPrograms),
		BreakerFailures:  v.GetInt(KeyBreakerFailures),
		BreakerReset:     v.GetDuration(KeyBreakerReset),
		Debug:            v.GetBool(KeyDebug),
		LogFile:          v.GetString(KeyLogFile),
		LogFormat:        strings.ToLower(v.GetString(KeyLogFormat)),
		MetricsAddr:      v.GetString(KeyMetricsAddr),
		File:             v.ConfigFileUsed(),
	}
}

// Load reads the configuration from path (or the default location),
// the environment and the set flags in fs, which may be nil, and
// validates it.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	if fs != nil {
		if err := BindFlags(v, fs); err != nil {
			return nil, err
		}
	}
	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// words splits entries such as "sudo -n" so a prefix can be given as one
// string in the environment or on the command line.
func words(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.Fields(s)...)
	}
	return out
}
