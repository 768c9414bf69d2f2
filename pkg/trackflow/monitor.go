package trackflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/TrackFlow/internal/adapters/history"
	"github.com/ghalamif/TrackFlow/internal/adapters/observability"
	"github.com/ghalamif/TrackFlow/internal/app/pipeline"
	"github.com/ghalamif/TrackFlow/internal/compliance"
	"github.com/ghalamif/TrackFlow/internal/geometry"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

var (
	// ErrMonitorRunning is returned when Start or Tick is called on a running monitor.
	ErrMonitorRunning = errors.New("trackflow: monitor already running")
	// ErrMonitorStopped is returned when Start is called after Shutdown.
	ErrMonitorStopped = errors.New("trackflow: monitor stopped")
)

// MonitorOption customizes the dependencies used by Monitor.
type MonitorOption func(*monitorOverrides)

type monitorOverrides struct {
	source        SampleSource
	evaluator     SampleEvaluator
	history       History
	observability Observability
	sinks         []Sink
	clock         func() time.Time
}

// WithSource replaces the default generator, e.g. with a replay of recorded samples.
func WithSource(src SampleSource) MonitorOption {
	return func(o *monitorOverrides) {
		o.source = src
	}
}

// WithGenerator runs the session on a caller-built generator, e.g. one with a
// fixed random source or a non-zero start chainage.
func WithGenerator(gen *Generator) MonitorOption {
	return func(o *monitorOverrides) {
		if gen != nil {
			o.source = gen
		}
	}
}

// WithClock sets the timestamp source of the default generator. It has no
// effect when WithSource or WithGenerator supplies the samples.
func WithClock(now func() time.Time) MonitorOption {
	return func(o *monitorOverrides) {
		o.clock = now
	}
}

// WithEvaluator overrides the default StandardA + StandardB evaluator.
func WithEvaluator(ev SampleEvaluator) MonitorOption {
	return func(o *monitorOverrides) {
		o.evaluator = ev
	}
}

// WithHistory injects a custom rolling window.
func WithHistory(h History) MonitorOption {
	return func(o *monitorOverrides) {
		o.history = h
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) MonitorOption {
	return func(o *monitorOverrides) {
		o.observability = obs
	}
}

// WithSink adds a sink; sinks receive every frame in the order they were added.
func WithSink(s Sink) MonitorOption {
	return func(o *monitorOverrides) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// Monitor hosts one monitoring session: it owns the generator, drives the
// generate → evaluate → forward cycle on a fixed period and serves metrics.
type Monitor struct {
	cfg        Config
	sessionID  uuid.UUID
	cycle      *pipeline.Cycle
	obs        ports.Observability
	history    ports.History
	sinks      []ports.Sink
	metrics    http.Handler
	metricsSrv *http.Server

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
	runErr  error
}

// NewMonitor bootstraps the default adapters (generator, evaluator, ring
// history, Prometheus observability). MonitorOption values override any of them.
func NewMonitor(cfg *Config, opts ...MonitorOption) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var overrides monitorOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	var metrics http.Handler
	obs := overrides.observability
	if obs == nil {
		prom := observability.NewPromObs(slog.Default())
		obs = prom
		metrics = prom.Handler()
	} else if h, ok := obs.(interface{ Handler() http.Handler }); ok {
		metrics = h.Handler()
	} else {
		metrics = promhttp.Handler()
	}

	src := overrides.source
	if src == nil {
		var genOpts []geometry.Option
		if overrides.clock != nil {
			genOpts = append(genOpts, geometry.WithClock(overrides.clock))
		}
		gen, err := geometry.NewGenerator(c.Generator, genOpts...)
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		src = gen
	}

	ev := overrides.evaluator
	if ev == nil {
		ev = compliance.NewEvaluator()
	}

	hist := overrides.history
	if hist == nil {
		hist = history.NewRing(c.Policy.HistoryCapacity)
	}

	id := uuid.New()
	return &Monitor{
		cfg:       c,
		sessionID: id,
		cycle: &pipeline.Cycle{
			SessionID: id,
			Source:    src,
			Evaluator: ev,
			History:   hist,
			Sinks:     overrides.sinks,
			Policy:    c.Policy,
			Obs:       obs,
		},
		obs:     obs,
		history: hist,
		sinks:   overrides.sinks,
		metrics: metrics,
	}, nil
}

// SessionID identifies the monitoring session on every frame.
func (m *Monitor) SessionID() uuid.UUID { return m.sessionID }

// Config returns the effective configuration, defaults applied.
func (m *Monitor) Config() Config { return m.cfg }

// History returns the rolling window oldest first.
func (m *Monitor) History() []Frame { return m.history.Snapshot() }

// Latest returns the most recent frame, if any tick has run.
func (m *Monitor) Latest() (Frame, bool) { return m.history.Latest() }

// Tick runs one cycle synchronously. It is meant for callers that drive
// the cadence themselves and fails while the periodic loop is running.
func (m *Monitor) Tick() (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return Frame{}, ErrMonitorRunning
	}
	return m.cycle.Tick()
}

// Start launches the periodic loop and the metrics server. It returns
// immediately; call Run to block on a context instead.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return ErrMonitorStopped
	}
	if m.running {
		return ErrMonitorRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.doneCh = make(chan struct{})
	m.running = true

	go func() {
		err := pipeline.RunMonitorPipeline(ctx, m.cycle)
		m.mu.Lock()
		m.runErr = err
		m.mu.Unlock()
		close(m.doneCh)
	}()

	if !m.cfg.Metrics.Disabled {
		m.startMetrics()
	}
	return nil
}

// Run starts the monitor and blocks until ctx is cancelled or the loop
// aborts, then shuts down gracefully.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-m.doneCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(m.Shutdown(shutdownCtx), m.err())
}

// Shutdown stops the loop and the metrics server and closes sinks that
// implement io.Closer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	cancel, done := m.cancel, m.doneCh
	m.mu.Unlock()

	var errs []error

	if cancel != nil {
		cancel()
	}

	// Closing sinks before waiting releases a tick blocked on a consumer
	// that stopped reading.
	for _, s := range m.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close sink %s: %w", s.Name(), err))
			}
		}
	}

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if m.metricsSrv != nil {
		if err := m.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	return errors.Join(errs...)
}

func (m *Monitor) err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runErr
}

func (m *Monitor) startMetrics() {
	m.metricsSrv = &http.Server{
		Addr:    m.cfg.Metrics.Addr,
		Handler: m.router(),
	}

	go func() {
		if err := m.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.obs.LogError("metrics_server_exited", err)
		}
	}()
}

func (m *Monitor) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", m.metrics)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
