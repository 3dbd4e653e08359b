// This file contains the override table shared by environment variables and
// the YAML config file.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

var osLookup LookupFunc = os.LookupEnv

// override declares a single setting that may come from the environment or
// the config file. key is the environment name without EnvPrefix; its
// lowercase form is the YAML key. flags lists the command-line names that
// take precedence over it.
type override struct {
	key      string
	flags    []string
	unprefix bool // read the environment variable without EnvPrefix
	apply    func(*AppConfig, string) error
}

func (o override) envName() string {
	if o.unprefix {
		return o.key
	}
	return EnvPrefix + o.key
}

func (o override) fileKey() string { return strings.ToLower(o.key) }

// overrides is the declarative table of every overridable setting.
var overrides = []override{
	// Collection
	{key: "DB", flags: []string{"db"}, apply: func(c *AppConfig, v string) error {
		c.DBPath = v
		return nil
	}},
	{key: "DURATION", flags: []string{"duration"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.Duration })},
	{key: "INTERVAL", flags: []string{"interval"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.Interval })},
	{key: "CPU_WAIT", flags: []string{"cpu-wait"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.CPUWait })},
	{key: "PROCESS_WAIT", flags: []string{"process-wait"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.ProcessWait })},
	{key: "MAX_CYCLES", flags: []string{"max-cycles"}, apply: intSetter(func(c *AppConfig) *int { return &c.MaxCycles })},
	{key: "PROCESS_LIMIT", flags: []string{"process-limit"}, apply: intSetter(func(c *AppConfig) *int { return &c.ProcessLimit })},
	{key: "DISK_PATH", flags: []string{"disk-path"}, apply: func(c *AppConfig, v string) error {
		c.DiskPath = v
		return nil
	}},

	// Output
	{key: "LOG_LEVEL", flags: []string{"log-level"}, apply: func(c *AppConfig, v string) error {
		c.LogLevel = strings.ToLower(v)
		return nil
	}},
	{key: "LOG_FORMAT", flags: []string{"log-format"}, apply: func(c *AppConfig, v string) error {
		c.LogFormat = strings.ToLower(v)
		return nil
	}},
	{key: "LOG_FILE", flags: []string{"log-file"}, apply: func(c *AppConfig, v string) error {
		c.LogFile = v
		return nil
	}},
	{key: "METRICS_FILE", flags: []string{"metrics-file"}, apply: func(c *AppConfig, v string) error {
		c.MetricsFile = v
		return nil
	}},
	{key: "QUIET", flags: []string{"quiet", "q"}, apply: boolSetter(func(c *AppConfig) *bool { return &c.Quiet })},
	{key: "NO_COLOR", flags: []string{"no-color"}, unprefix: true, apply: func(c *AppConfig, v string) error {
		// Any non-empty NO_COLOR disables color (no-color.org).
		c.NoColor = parseBoolEnv(v, true)
		return nil
	}},
	{key: "TUI", flags: []string{"tui"}, apply: boolSetter(func(c *AppConfig) *bool { return &c.TUI })},

	// Report
	{key: "IDLE_THRESHOLD", flags: []string{"idle-threshold"}, apply: floatSetter(func(c *AppConfig) *float64 { return &c.IdleThreshold })},
	{key: "SPIKE_WINDOW", flags: []string{"spike-window"}, apply: intSetter(func(c *AppConfig) *int { return &c.SpikeWindow })},
	{key: "SPIKE_THRESHOLD", flags: []string{"spike-threshold"}, apply: floatSetter(func(c *AppConfig) *float64 { return &c.SpikeThreshold })},
	{key: "MIN_SPIKE_DURATION", flags: []string{"min-spike-duration"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.MinSpikeDuration })},
	{key: "SPIKE_MATCH_WINDOW", flags: []string{"spike-match-window"}, apply: durationSetter(func(c *AppConfig) *time.Duration { return &c.SpikeMatchWindow })},
	{key: "TOP", flags: []string{"top"}, apply: intSetter(func(c *AppConfig) *int { return &c.TopProcesses })},
}

func durationSetter(field func(*AppConfig) *time.Duration) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func intSetter(field func(*AppConfig) *int) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatSetter(field func(*AppConfig) *float64) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func boolSetter(field func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			*field(c) = true
		case "false", "0", "no":
			*field(c) = false
		default:
			return fmt.Errorf("not a boolean: %q", v)
		}
		return nil
	}
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
func isFlagSetAny(fs *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flagChanged(fs, name) {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
func applyEnvOverrides(cfg *AppConfig, fs *pflag.FlagSet, lookup LookupFunc) error {
	for _, o := range overrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val, ok := lookup(o.envName())
		if !ok || val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return apperrors.NewConfigError("invalid %s=%q: %v", o.envName(), val, err)
		}
	}
	return nil
}
