package geometry

import "errors"

// Config captures the per-session generation parameters.
type Config struct {
	SamplingStep  float64 `yaml:"sampling_step_m"`
	StartChainage float64 `yaml:"start_chainage_m"`
	SpeedMin      float64 `yaml:"speed_min_kmh"`
	SpeedMax      float64 `yaml:"speed_max_kmh"`
	Seed          int64   `yaml:"seed"`
}

const (
	DefaultSamplingStep = 0.25
	DefaultSpeedMin     = 45.0
	DefaultSpeedMax     = 145.0
)

func (c *Config) ApplyDefaults() {
	if c.SamplingStep == 0 {
		c.SamplingStep = DefaultSamplingStep
	}
	if c.SpeedMin == 0 {
		c.SpeedMin = DefaultSpeedMin
	}
	if c.SpeedMax == 0 {
		c.SpeedMax = DefaultSpeedMax
	}
}

func (c *Config) Validate() error {
	if c.SamplingStep <= 0 {
		return errors.New("sampling_step_m must be > 0")
	}
	if c.StartChainage < 0 {
		return errors.New("start_chainage_m must be >= 0")
	}
	if c.SpeedMin <= 0 {
		return errors.New("speed_min_kmh must be > 0")
	}
	if c.SpeedMax < c.SpeedMin {
		return errors.New("speed_max_kmh must be >= speed_min_kmh")
	}
	return nil
}
