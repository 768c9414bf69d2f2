package trackflow

import (
	"github.com/ghalamif/TrackFlow/internal/adapters/export"
	"github.com/ghalamif/TrackFlow/internal/compliance"
	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/geometry"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

// TelemetrySample is one track-geometry measurement.
type TelemetrySample = domain.TelemetrySample

// ComplianceVerdict classifies one parameter of a sample under one standard.
type ComplianceVerdict = domain.ComplianceVerdict

// Frame bundles a sample with its verdicts, as handed to sinks.
type Frame = domain.Frame

// RailProfileRegistration is the outcome of a profile registration.
type RailProfileRegistration = domain.RailProfileRegistration

// WearStats summarises a wear map.
type WearStats = domain.WearStats

type (
	Parameter = domain.Parameter
	Status    = domain.Status
	Standard  = domain.Standard
)

const (
	StatusCompliant = domain.StatusCompliant
	StatusWarning   = domain.StatusWarning
	StatusCritical  = domain.StatusCritical

	StandardA = domain.StandardA
	StandardB = domain.StandardB
)

// Generator synthesizes samples for one session. Not safe for concurrent use.
type Generator = geometry.Generator

// Evaluator applies the threshold tables. Safe for concurrent use.
type Evaluator = compliance.Evaluator

// ErrInvalidInput is returned by RegisterRailProfile for an empty standard profile.
var ErrInvalidInput = geometry.ErrInvalidInput

// SampleSource produces samples; *Generator satisfies it.
type SampleSource = ports.SampleSource

// SampleEvaluator classifies samples; *Evaluator satisfies it.
type SampleEvaluator = ports.Evaluator

// Sink consumes frames produced on every tick.
type Sink = ports.Sink

// History is the bounded rolling window kept by the monitor.
type History = ports.History

// Observability emits logs and metrics about the monitor.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field

// Table is the tabular export view of frames.
type Table = export.Table

// NewGenerator starts a new session generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	return geometry.NewGenerator(cfg)
}

// NewEvaluator returns the StandardA + StandardB evaluator.
func NewEvaluator() *Evaluator {
	return compliance.NewEvaluator()
}

// SampleTable projects frames into one row per sample.
func SampleTable(frames []Frame) Table {
	return export.SampleTable(frames)
}

// VerdictTable projects frames into one row per verdict.
func VerdictTable(frames []Frame) Table {
	return export.VerdictTable(frames)
}
