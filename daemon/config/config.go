// Package config is netguardd's configuration layer (SPEC_FULL.md
// "AMBIENT STACK"): a JSON file on disk overlaid with CLI flags, the
// same two-source model the teacher's own daemon config uses, reduced
// to the handful of settings this daemon actually needs (API socket
// path, persisted-state directories, logging, and the event bus
// backlog).
//
// Grounded on the teacher's daemon/config package: MergeDaemonConfigurations
// and findConfigurationConflicts are kept under the same names and the
// same "flag wins, file fills the rest, any explicit disagreement is a
// hard error" policy (daemon/config/config_test.go's
// TestDaemonConfigurationMergeConflicts and
// TestFindConfigurationConflictsWithMergedValues).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/pflag"
)

// Config is netguardd's full runtime configuration.
type Config struct {
	APISocket        string `json:"api-socket,omitempty"`
	SocketGID        int    `json:"api-socket-gid,omitempty"`
	RegulatoryDomain string `json:"regulatory-domain,omitempty"`
	RuntimeDir       string `json:"runtime-dir,omitempty"`
	ProfilesDir      string `json:"profiles-dir,omitempty"`
	VPNStoreDir      string `json:"vpn-store-dir,omitempty"`
	DHCPLeaseFile    string `json:"dhcp-lease-file,omitempty"`

	Debug     bool   `json:"debug,omitempty"`
	LogLevel  string `json:"log-level,omitempty"`
	LogFormat string `json:"log-format,omitempty"`

	EventBacklog              int `json:"event-backlog,omitempty"`
	MaxConcurrentProfileLoads int `json:"max-concurrent-profile-loads,omitempty"`
}

// New returns a Config populated with netguardd's defaults.
func New() *Config {
	return &Config{
		APISocket:                 "/run/netguardd/netguardd.sock",
		SocketGID:                 os.Getgid(),
		RegulatoryDomain:          "00",
		RuntimeDir:                "/run/netguardd",
		ProfilesDir:               "/etc/netguardd/connections",
		VPNStoreDir:               "/etc/netguardd/vpn",
		DHCPLeaseFile:             "/var/lib/netguardd/dhcp.leases",
		LogLevel:                  "info",
		LogFormat:                 "text",
		EventBacklog:              100,
		MaxConcurrentProfileLoads: 10,
	}
}

// findConfigurationConflicts reports every key in a parsed config file
// whose value a user-supplied flag disagrees with, plus any key that
// doesn't correspond to a known configuration option at all.
func findConfigurationConflicts(config map[string]interface{}, flags *pflag.FlagSet) error {
	var conflicts []string
	var unknown []string

	for key, fileVal := range config {
		f := flags.Lookup(key)
		if f == nil {
			unknown = append(unknown, key)
			continue
		}
		if !f.Changed {
			continue
		}
		flagVal := f.Value.String()
		if flagVal != fmt.Sprintf("%v", fileVal) {
			conflicts = append(conflicts, fmt.Sprintf("%s: (from flag: %s, from file: %v)", key, flagVal, fileVal))
		}
	}

	sort.Strings(unknown)
	sort.Strings(conflicts)

	var msgs []string
	if len(unknown) > 0 {
		msgs = append(msgs, "the following directives don't match any configuration option: "+strings.Join(unknown, ", "))
	}
	msgs = append(msgs, conflicts...)
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}

// MergeDaemonConfigurations reads configFile (if non-empty), checks it
// against flags for disagreements, and merges it into flagsConfig: a
// flag the caller actually set always wins, an unset field is filled
// from the file, and the daemon's own defaults fill whatever neither
// source set.
func MergeDaemonConfigurations(flagsConfig *Config, flags *pflag.FlagSet, configFile string) (*Config, error) {
	if configFile == "" {
		return flagsConfig, Validate(flagsConfig)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configFile, err)
	}
	if flags != nil {
		if err := findConfigurationConflicts(raw, flags); err != nil {
			return nil, err
		}
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configFile, err)
	}

	merged := *flagsConfig
	if err := mergo.Merge(&merged, fileConfig, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := Validate(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate sanity-checks a fully merged configuration.
func Validate(config *Config) error {
	if config.EventBacklog < 0 {
		return fmt.Errorf("event-backlog must not be negative, got %d", config.EventBacklog)
	}
	if config.MaxConcurrentProfileLoads < 0 {
		return fmt.Errorf("max-concurrent-profile-loads must not be negative, got %d", config.MaxConcurrentProfileLoads)
	}
	switch config.LogLevel {
	case "", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log-level: %q", config.LogLevel)
	}
	switch config.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %q", config.LogFormat)
	}
	return nil
}
