// Package config defines the application configuration, its defaults, and
// the resolution of command-line flags, environment variables and an
// optional YAML file into a validated AppConfig.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/logging"
)

// EnvPrefix is prepended to every environment variable the application reads,
// except the standard NO_COLOR.
const EnvPrefix = "SYSOPT_"

// Default values.
const (
	DefaultDBPath           = "build/optimizer.db"
	DefaultDuration         = 60 * time.Second
	DefaultInterval         = 2 * time.Second
	DefaultCPUWait          = 100 * time.Millisecond
	DefaultProcessWait      = 100 * time.Millisecond
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultIdleThreshold    = 12.0
	DefaultSpikeWindow      = 10
	DefaultSpikeThreshold   = 10.0
	DefaultMinSpikeDuration = 30 * time.Second
	DefaultSpikeMatchWindow = 2 * time.Second
	DefaultTopProcesses     = 10
)

// AppConfig aggregates every setting of the collector, the report and the
// presentation layer.
type AppConfig struct {
	// Collection
	DBPath       string
	Duration     time.Duration // 0 runs until interrupted
	Interval     time.Duration
	CPUWait      time.Duration
	ProcessWait  time.Duration
	MaxCycles    int // 0 is unbounded
	ProcessLimit int // 0 samples every process
	DiskPath     string

	// Output
	LogLevel    string
	LogFormat   string
	LogFile     string
	MetricsFile string
	Quiet       bool
	NoColor     bool
	TUI         bool

	// Report
	IdleThreshold    float64
	SpikeWindow      int
	SpikeThreshold   float64
	MinSpikeDuration time.Duration
	SpikeMatchWindow time.Duration
	TopProcesses     int

	ConfigFile string
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		DBPath:           DefaultDBPath,
		Duration:         DefaultDuration,
		Interval:         DefaultInterval,
		CPUWait:          DefaultCPUWait,
		ProcessWait:      DefaultProcessWait,
		DiskPath:         DefaultDiskPath(),
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		IdleThreshold:    DefaultIdleThreshold,
		SpikeWindow:      DefaultSpikeWindow,
		SpikeThreshold:   DefaultSpikeThreshold,
		MinSpikeDuration: DefaultMinSpikeDuration,
		SpikeMatchWindow: DefaultSpikeMatchWindow,
		TopProcesses:     DefaultTopProcesses,
	}
}

// BindFlags registers every configuration flag on fs, backed by cfg. The
// current values of cfg are used as flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "total collection time (0 runs until interrupted)")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "pause between collection cycles")
	fs.DurationVar(&cfg.CPUWait, "cpu-wait", cfg.CPUWait, "window of the system CPU delta sample")
	fs.DurationVar(&cfg.ProcessWait, "process-wait", cfg.ProcessWait, "window of each per-process CPU sample")
	fs.IntVar(&cfg.MaxCycles, "max-cycles", cfg.MaxCycles, "stop after this many cycles (0 is unbounded)")
	fs.IntVar(&cfg.ProcessLimit, "process-limit", cfg.ProcessLimit, "sample at most this many processes per cycle (0 samples all)")
	fs.StringVar(&cfg.DiskPath, "disk-path", cfg.DiskPath, "filesystem whose usage is recorded")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json or plain)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file instead of stderr")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus text metrics to this file after every cycle")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "suppress per-cycle console output")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show a live dashboard while collecting")

	fs.Float64Var(&cfg.IdleThreshold, "idle-threshold", cfg.IdleThreshold, "system CPU below this percentage is idle")
	fs.IntVar(&cfg.SpikeWindow, "spike-window", cfg.SpikeWindow, "rolling mean window, in samples")
	fs.Float64Var(&cfg.SpikeThreshold, "spike-threshold", cfg.SpikeThreshold, "percentage points above the rolling mean that make a spike")
	fs.DurationVar(&cfg.MinSpikeDuration, "min-spike-duration", cfg.MinSpikeDuration, "minimum duration of a long spike")
	fs.DurationVar(&cfg.SpikeMatchWindow, "spike-match-window", cfg.SpikeMatchWindow, "time window matching process rows to a spike")
	fs.IntVar(&cfg.TopProcesses, "top", cfg.TopProcesses, "number of processes listed in the report")

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file")
}

// Resolve applies the YAML file named by cfg.ConfigFile and then the
// environment to cfg, skipping every setting whose flag was set on fs, and
// validates the result. Priority: flags > environment > file > defaults.
// A nil lookup reads the process environment.
func Resolve(cfg *AppConfig, fs *pflag.FlagSet, lookup LookupFunc) error {
	if lookup == nil {
		lookup = osLookup
	}
	if cfg.ConfigFile == "" {
		if v, ok := lookup(EnvPrefix + "CONFIG"); ok && v != "" && !flagChanged(fs, "config") {
			cfg.ConfigFile = v
		}
	}
	if cfg.ConfigFile != "" {
		values, err := readFile(cfg.ConfigFile)
		if err != nil {
			return err
		}
		if err := applyValues(cfg, fs, values, "config file"); err != nil {
			return err
		}
	}
	if err := applyEnvOverrides(cfg, fs, lookup); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting as an apperrors.ValidationError
// naming the offending flag.
func (c AppConfig) Validate() error {
	switch {
	case c.DBPath == "":
		return invalid("db", "must not be empty")
	case c.Duration < 0:
		return invalid("duration", "must not be negative, got %s", c.Duration)
	case c.Interval < 0:
		return invalid("interval", "must not be negative, got %s", c.Interval)
	case c.CPUWait <= 0:
		return invalid("cpu-wait", "must be positive, got %s", c.CPUWait)
	case c.ProcessWait < time.Microsecond:
		return invalid("process-wait", "must be at least 1µs, got %s", c.ProcessWait)
	case c.MaxCycles < 0:
		return invalid("max-cycles", "must not be negative, got %d", c.MaxCycles)
	case c.ProcessLimit < 0:
		return invalid("process-limit", "must not be negative, got %d", c.ProcessLimit)
	case !slices.Contains(logging.Formats, c.LogFormat):
		return invalid("log-format", "must be one of %s, got %q", strings.Join(logging.Formats, ", "), c.LogFormat)
	case c.IdleThreshold < 0 || c.IdleThreshold > 100:
		return invalid("idle-threshold", "must be within [0, 100], got %g", c.IdleThreshold)
	case c.SpikeWindow < 1:
		return invalid("spike-window", "must be at least 1, got %d", c.SpikeWindow)
	case c.SpikeThreshold < 0:
		return invalid("spike-threshold", "must not be negative, got %g", c.SpikeThreshold)
	case c.MinSpikeDuration < 0:
		return invalid("min-spike-duration", "must not be negative, got %s", c.MinSpikeDuration)
	case c.SpikeMatchWindow < 0:
		return invalid("spike-match-window", "must not be negative, got %s", c.SpikeMatchWindow)
	case c.TopProcesses < 1:
		return invalid("top", "must be at least 1, got %d", c.TopProcesses)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log-level", "%v", err)
	}
	return nil
}

func invalid(field, format string, a ...any) error {
	return apperrors.ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

func flagChanged(fs *pflag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
