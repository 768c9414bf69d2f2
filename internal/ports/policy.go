package ports

import "time"

type Policy struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	NominalSpeedKmh float64       `yaml:"nominal_speed_kmh"`
	HistoryCapacity int           `yaml:"history_capacity"`

	OnSinkError string `yaml:"on_sink_error"` // "continue", "stop"
}
