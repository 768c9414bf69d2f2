package trackflow

import (
	"github.com/ghalamif/TrackFlow/internal/app/config"
	"github.com/ghalamif/TrackFlow/internal/geometry"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls tick cadence, history size and sink failure handling.
	Policy = ports.Policy
	// GeneratorConfig holds the per-session generation parameters.
	GeneratorConfig = geometry.Config
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
