// Package config loads the runtime configuration shared by the monitor
// and analyzer processes. Scenario files describe the airspace; this
// file describes how the processes themselves run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skyfoundry/airspace-sentinel/core"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Monitor holds settings for the live monitoring loop.
type Monitor struct {
	// ListenAddr serves /metrics, /stream, and /healthz.
	ListenAddr string `yaml:"listen_addr"`
	// TickHz is the evaluation cadence against live positions.
	TickHz float64 `yaml:"tick_hz"`
	// ReplaySpeedup multiplies mission-clock speed during trajectory
	// replay. 1 replays in real time.
	ReplaySpeedup float64 `yaml:"replay_speedup"`
}

// Analyzer holds settings for batch trajectory analysis.
type Analyzer struct {
	// Workers caps concurrent trajectory files. Zero means one per file.
	Workers int `yaml:"workers"`
	// OutputDir receives one JSON report per analyzed trajectory.
	// Empty writes reports to stdout.
	OutputDir string `yaml:"output_dir"`
}

// Config is the root of the runtime configuration file.
type Config struct {
	Monitor  Monitor  `yaml:"monitor"`
	Analyzer Analyzer `yaml:"analyzer"`

	// Severity overrides the violation depth thresholds when present.
	Severity *core.SeverityThresholds `yaml:"severity"`
	// Night overrides the default night period when present.
	Night *core.NightPeriod `yaml:"night"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Monitor: Monitor{
			ListenAddr:    ":9090",
			TickHz:        10,
			ReplaySpeedup: 1,
		},
		Analyzer: Analyzer{},
	}
}

// Load reads a YAML configuration file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the processes cannot run with.
func (c Config) Validate() error {
	if c.Monitor.TickHz <= 0 {
		return fmt.Errorf("%w: monitor.tick_hz must be positive, got %v", ErrInvalidConfig, c.Monitor.TickHz)
	}
	if c.Monitor.ReplaySpeedup <= 0 {
		return fmt.Errorf("%w: monitor.replay_speedup must be positive, got %v", ErrInvalidConfig, c.Monitor.ReplaySpeedup)
	}
	if c.Monitor.ListenAddr == "" {
		return fmt.Errorf("%w: monitor.listen_addr must not be empty", ErrInvalidConfig)
	}
	if c.Analyzer.Workers < 0 {
		return fmt.Errorf("%w: analyzer.workers must not be negative, got %d", ErrInvalidConfig, c.Analyzer.Workers)
	}
	if c.Severity != nil && c.Severity.High < c.Severity.Low {
		return fmt.Errorf("%w: severity.high (%v) below severity.low (%v)", ErrInvalidConfig, c.Severity.High, c.Severity.Low)
	}
	return nil
}

// TickInterval converts the configured cadence to a duration.
func (m Monitor) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / m.TickHz)
}

// ApplyTo copies the optional overrides onto an evaluator.
func (c Config) ApplyTo(ev *core.Evaluator) {
	if ev == nil {
		return
	}
	if c.Severity != nil {
		ev.Severity = *c.Severity
	}
	if c.Night != nil {
		ev.Night = *c.Night
	}
}
