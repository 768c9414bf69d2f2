package domain

import (
	"time"

	"github.com/google/uuid"
)

// TelemetrySample is one track-geometry measurement taken at a chainage point.
// Lengths are in millimetres unless noted, accelerations in m/s².
type TelemetrySample struct {
	Chainage             float64   `json:"chainage"` // metres
	Gauge                float64   `json:"gauge"`
	LeftRailLevel        float64   `json:"left_rail_level"`
	RightRailLevel       float64   `json:"right_rail_level"`
	LeftRailAlignment    float64   `json:"left_rail_alignment"`
	RightRailAlignment   float64   `json:"right_rail_alignment"`
	CrossLevel           float64   `json:"cross_level"`
	Twist                float64   `json:"twist"`
	Unevenness           float64   `json:"unevenness"`
	VerticalAcceleration float64   `json:"vertical_acceleration"`
	LateralAcceleration  float64   `json:"lateral_acceleration"`
	Speed                float64   `json:"speed"` // km/h
	Timestamp            time.Time `json:"ts"`
}

// Frame is the unit a monitor tick hands to sinks: one sample and the
// verdicts computed for it.
type Frame struct {
	SessionID uuid.UUID           `json:"session_id"`
	Seq       uint64              `json:"seq"`
	Sample    TelemetrySample     `json:"sample"`
	Verdicts  []ComplianceVerdict `json:"verdicts"`
}

// Worst returns the most severe status among the frame's verdicts.
func (f Frame) Worst() Status {
	worst := StatusCompliant
	for _, v := range f.Verdicts {
		if v.Status > worst {
			worst = v.Status
		}
	}
	return worst
}
