package trackflow

import (
	"context"
	"fmt"
)

// Flow assembles a Monitor in two steps: StreamIN picks where samples come
// from and how they are judged, StreamOUT picks where frames go.
// Anything left unset falls back to a seeded generator, both standards and
// a ring sized by policy.history_capacity.
type Flow struct {
	cfg  *Config
	opts []MonitorOption
}

// FlowOption adjusts a Flow right after its config is loaded.
type FlowOption func(*Flow)

// StreamInOption configures the sample side: source, evaluator, history.
type StreamInOption func(*Flow)

// StreamOutOption configures the frame side: sinks and observability.
type StreamOutOption func(*Flow)

// Conf loads a monitor config from YAML and starts a Flow from it.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig starts a Flow from an in-memory Config. Defaults are
// applied when the Monitor is built, not here.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the config the Monitor will be built from. Changes made
// before StreamOUT take effect.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// StreamIN records sample-side overrides; later options win.
func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// StreamOUT records frame-side overrides and builds the Monitor. Sinks
// receive frames in the order they were added.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Monitor, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return NewMonitor(f.cfg, f.opts...)
}

// Run builds the Monitor and ticks until ctx is done or a sink aborts the
// session under the stop policy.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	m, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

// WithFlowOptions passes raw MonitorOption values through Conf.
func WithFlowOptions(opts ...MonitorOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

// StreamInSource replays samples from src instead of the generator, e.g. a
// recorded survey run.
func StreamInSource(src SampleSource) StreamInOption {
	return func(f *Flow) {
		if f != nil && src != nil {
			f.appendOptions(WithSource(src))
		}
	}
}

// StreamInEvaluator swaps the two-standard evaluator, e.g. for one using
// local threshold tables.
func StreamInEvaluator(ev SampleEvaluator) StreamInOption {
	return func(f *Flow) {
		if f != nil && ev != nil {
			f.appendOptions(WithEvaluator(ev))
		}
	}
}

// StreamInGenerator runs the session on gen, e.g. one resuming at a known
// chainage.
func StreamInGenerator(gen *Generator) StreamInOption {
	return func(f *Flow) {
		if f != nil && gen != nil {
			f.appendOptions(WithGenerator(gen))
		}
	}
}

// StreamInHistory replaces the rolling frame window.
func StreamInHistory(h History) StreamInOption {
	return func(f *Flow) {
		if f != nil && h != nil {
			f.appendOptions(WithHistory(h))
		}
	}
}

// StreamOutSink adds a sink. Sinks implementing io.Closer are closed on
// shutdown.
func StreamOutSink(s Sink) StreamOutOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithSink(s))
		}
	}
}

// StreamOutObservability replaces the Prometheus backend; /metrics then
// serves obs.Handler() when it has one.
func StreamOutObservability(obs Observability) StreamOutOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutCallback forwards every frame to fn. The frame's verdicts are a
// copy and may be kept.
func StreamOutCallback(name string, fn FrameHandler) StreamOutOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(WithSink(NewCallbackSink(name, fn)))
		}
	}
}

func (f *Flow) appendOptions(opts ...MonitorOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
