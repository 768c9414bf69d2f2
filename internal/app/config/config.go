package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ghalamif/TrackFlow/internal/adapters/history"
	"github.com/ghalamif/TrackFlow/internal/geometry"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

type Config struct {
	Policy    ports.Policy    `yaml:"policy"`
	Generator geometry.Config `yaml:"generator"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	Disabled bool   `yaml:"disabled"`
}

const defaultTickInterval = 100 * time.Millisecond

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields. It is exported so programmatic configs
// get the same treatment as files.
func (c *Config) ApplyDefaults() {
	c.Generator.ApplyDefaults()

	if c.Policy.TickInterval == 0 {
		if c.Policy.NominalSpeedKmh > 0 {
			c.Policy.TickInterval = IntervalForSpeed(c.Generator.SamplingStep, c.Policy.NominalSpeedKmh)
		} else {
			c.Policy.TickInterval = defaultTickInterval
		}
	}
	if c.Policy.HistoryCapacity == 0 {
		c.Policy.HistoryCapacity = history.DefaultCapacity
	}
	if c.Policy.OnSinkError == "" {
		c.Policy.OnSinkError = "continue"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
}

func (c *Config) Validate() error {
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator config: %w", err)
	}
	if c.Policy.TickInterval <= 0 {
		return fmt.Errorf("policy.tick_interval must be > 0")
	}
	if c.Policy.HistoryCapacity <= 0 {
		return fmt.Errorf("policy.history_capacity must be > 0")
	}
	switch c.Policy.OnSinkError {
	case "continue", "stop":
	default:
		return fmt.Errorf("policy.on_sink_error %q must be continue or stop", c.Policy.OnSinkError)
	}
	if !c.Metrics.Disabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}

// IntervalForSpeed is the tick period that covers one sampling step at the
// given travel speed.
func IntervalForSpeed(stepMeters, speedKmh float64) time.Duration {
	if stepMeters <= 0 || speedKmh <= 0 {
		return 0
	}
	metersPerSecond := speedKmh / 3.6
	return time.Duration(math.Round(stepMeters / metersPerSecond * float64(time.Second)))
}
