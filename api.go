package trackflow

import (
	"io"
	"time"

	base "github.com/ghalamif/TrackFlow/pkg/trackflow"
)

// Re-exported errors for convenience.
var (
	ErrInvalidInput      = base.ErrInvalidInput
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrMonitorRunning    = base.ErrMonitorRunning
	ErrMonitorStopped    = base.ErrMonitorStopped
)

// Type aliases so consumers can import github.com/ghalamif/TrackFlow directly.
type (
	Config                  = base.Config
	Policy                  = base.Policy
	GeneratorConfig         = base.GeneratorConfig
	MetricsConfig           = base.MetricsConfig
	Flow                    = base.Flow
	FlowOption              = base.FlowOption
	StreamInOption          = base.StreamInOption
	StreamOutOption         = base.StreamOutOption
	Monitor                 = base.Monitor
	MonitorOption           = base.MonitorOption
	TelemetrySample         = base.TelemetrySample
	ComplianceVerdict       = base.ComplianceVerdict
	Frame                   = base.Frame
	FrameHandler            = base.FrameHandler
	RailProfileRegistration = base.RailProfileRegistration
	Generator               = base.Generator
	Evaluator               = base.Evaluator
	SampleSource            = base.SampleSource
	SampleEvaluator         = base.SampleEvaluator
	Sink                    = base.Sink
	History                 = base.History
	Observability           = base.Observability
	Table                   = base.Table
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Engine helpers.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	return base.NewGenerator(cfg)
}

func NewEvaluator() *Evaluator {
	return base.NewEvaluator()
}

func SampleTable(frames []Frame) Table {
	return base.SampleTable(frames)
}

func VerdictTable(frames []Frame) Table {
	return base.VerdictTable(frames)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...MonitorOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInSource(src SampleSource) StreamInOption {
	return base.StreamInSource(src)
}

func StreamInEvaluator(ev SampleEvaluator) StreamInOption {
	return base.StreamInEvaluator(ev)
}

func StreamInGenerator(gen *Generator) StreamInOption {
	return base.StreamInGenerator(gen)
}

func StreamInHistory(h History) StreamInOption {
	return base.StreamInHistory(h)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn FrameHandler) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Monitor and options.
func NewMonitor(cfg *Config, opts ...MonitorOption) (*Monitor, error) {
	return base.NewMonitor(cfg, opts...)
}

func WithSource(src SampleSource) MonitorOption {
	return base.WithSource(src)
}

func WithGenerator(gen *Generator) MonitorOption {
	return base.WithGenerator(gen)
}

func WithClock(now func() time.Time) MonitorOption {
	return base.WithClock(now)
}

func WithEvaluator(ev SampleEvaluator) MonitorOption {
	return base.WithEvaluator(ev)
}

func WithHistory(h History) MonitorOption {
	return base.WithHistory(h)
}

func WithObservability(obs Observability) MonitorOption {
	return base.WithObservability(obs)
}

func WithSink(s Sink) MonitorOption {
	return base.WithSink(s)
}

// Sink adapters.
func NewCallbackSink(name string, fn FrameHandler) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan Frame, func()) {
	return base.NewChannelSink(name, buffer)
}

func NewCSVSink(w io.Writer) Sink {
	return base.NewCSVSink(w)
}
