package trackflow

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		Policy: Policy{
			TickInterval:    time.Millisecond,
			HistoryCapacity: 8,
		},
		Generator: GeneratorConfig{Seed: 5},
		Metrics:   MetricsConfig{Disabled: true},
	}
}

func TestNewMonitorWithCustomAdapters(t *testing.T) {
	sourceStub := &stubSource{}
	evaluatorStub := &stubEvaluator{}
	historyStub := &stubHistory{}
	obsStub := &stubObservability{}
	sinkStub := &stubSink{}

	m, err := NewMonitor(
		testConfig(),
		WithSource(sourceStub),
		WithEvaluator(evaluatorStub),
		WithHistory(historyStub),
		WithObservability(obsStub),
		WithSink(sinkStub),
	)
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}

	if m.cycle.Source != sourceStub {
		t.Fatalf("expected custom source to be used")
	}
	if m.cycle.Evaluator != evaluatorStub {
		t.Fatalf("expected custom evaluator to be used")
	}
	if m.history != historyStub {
		t.Fatalf("expected custom history to be used")
	}
	if m.obs != obsStub {
		t.Fatalf("expected custom observability to be used")
	}
	if len(m.sinks) != 1 || m.sinks[0] != sinkStub {
		t.Fatalf("expected custom sink to be used")
	}
}

func TestNewMonitorRejectsNilAndInvalidConfig(t *testing.T) {
	if _, err := NewMonitor(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	cfg := testConfig()
	cfg.Policy.OnSinkError = "panic"
	if _, err := NewMonitor(cfg); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestMonitorTickUsesDefaults(t *testing.T) {
	m, err := NewMonitor(testConfig())
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}

	var last Frame
	for i := 0; i < 4; i++ {
		if last, err = m.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if last.Sample.Chainage != 1.0 {
		t.Fatalf("expected chainage 1.0 after four ticks, got %v", last.Sample.Chainage)
	}
	if last.SessionID != m.SessionID() {
		t.Fatalf("expected frame to carry the session id")
	}
	if len(last.Verdicts) != 12 {
		t.Fatalf("expected 12 verdicts from two standards, got %d", len(last.Verdicts))
	}
	if got := len(m.History()); got != 4 {
		t.Fatalf("expected 4 frames in history, got %d", got)
	}
	latest, ok := m.Latest()
	if !ok || latest.Seq != 4 {
		t.Fatalf("unexpected latest frame: %+v ok=%v", latest, ok)
	}
}

func TestMonitorHistoryIsBounded(t *testing.T) {
	m, err := NewMonitor(testConfig())
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := m.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	frames := m.History()
	if len(frames) != 8 {
		t.Fatalf("expected history capped at 8, got %d", len(frames))
	}
	if frames[0].Seq != 13 || frames[7].Seq != 20 {
		t.Fatalf("expected seqs 13..20, got %d..%d", frames[0].Seq, frames[7].Seq)
	}
}

func TestMonitorStartAndShutdown(t *testing.T) {
	var (
		mu     sync.Mutex
		frames []Frame
	)
	sink := NewCallbackSink("collect", func(f Frame) error {
		mu.Lock()
		defer mu.Unlock()
		frames = append(frames, f)
		return nil
	})

	m, err := NewMonitor(testConfig(), WithSink(sink))
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := m.Start(); !errors.Is(err, ErrMonitorRunning) {
		t.Fatalf("expected ErrMonitorRunning on second start, got %v", err)
	}
	if _, err := m.Tick(); !errors.Is(err, ErrMonitorRunning) {
		t.Fatalf("expected manual tick to be refused while running, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(frames)
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for frames")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if err := m.Start(); !errors.Is(err, ErrMonitorStopped) {
		t.Fatalf("expected ErrMonitorStopped after shutdown, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(frames); i++ {
		if frames[i].Sample.Chainage-frames[i-1].Sample.Chainage != 0.25 {
			t.Fatalf("chainage step broken between frames %d and %d", i-1, i)
		}
	}
}

func TestMonitorRunReturnsSinkErrorWhenPolicyStops(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.OnSinkError = "stop"
	boom := errors.New("boom")

	m, err := NewMonitor(cfg,
		WithSink(NewCallbackSink("failing", func(Frame) error { return boom })),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Run(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected sink error from Run, got %v", err)
	}
}

func TestMonitorShutdownClosesChannelSink(t *testing.T) {
	sink, ch, _ := NewChannelSink("chan", 4)
	m, err := NewMonitor(testConfig(), WithSink(sink))
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	if _, err := m.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}

	if f, ok := <-ch; !ok || f.Seq != 1 {
		t.Fatalf("expected buffered frame before close, got %+v ok=%v", f, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed by shutdown")
	}
}

func TestMonitorShutdownReleasesBlockedChannelSink(t *testing.T) {
	sink, _, _ := NewChannelSink("unread", 0)
	m, err := NewMonitor(testConfig(), WithSink(sink), WithObservability(&stubObservability{}))
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	// Give the loop time to block on the channel nobody reads.
	time.Sleep(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- m.Shutdown(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Shutdown returned error: %v", err)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Shutdown blocked on a channel sink without a reader")
	}
}

func TestMonitorWithGeneratorAndClock(t *testing.T) {
	gen, err := NewGenerator(GeneratorConfig{StartChainage: 100, Seed: 9})
	if err != nil {
		t.Fatalf("NewGenerator returned error: %v", err)
	}
	m, err := NewMonitor(testConfig(), WithGenerator(gen))
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	f, err := m.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if f.Sample.Chainage != 100.25 {
		t.Fatalf("expected caller generator to drive chainage, got %v", f.Sample.Chainage)
	}

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m, err = NewMonitor(testConfig(), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	if f, err = m.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !f.Sample.Timestamp.Equal(fixed) {
		t.Fatalf("expected clock timestamp %v, got %v", fixed, f.Sample.Timestamp)
	}
}

func TestMonitorRouterServesHealthAndMetrics(t *testing.T) {
	m, err := NewMonitor(testConfig())
	if err != nil {
		t.Fatalf("NewMonitor returned error: %v", err)
	}
	if _, err := m.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	rec := httptest.NewRecorder()
	m.router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	m.router().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "track_samples_generated_total 1") {
		t.Fatalf("expected generated counter in metrics, got:\n%s", rec.Body.String())
	}
}

type stubSource struct{ chainage float64 }

func (s *stubSource) NextSample() TelemetrySample {
	s.chainage += 0.25
	return TelemetrySample{Chainage: s.chainage}
}

type stubEvaluator struct{}

func (s *stubEvaluator) Evaluate(TelemetrySample) []ComplianceVerdict { return nil }

type stubHistory struct{}

func (s *stubHistory) Push(Frame)            {}
func (s *stubHistory) Snapshot() []Frame     { return nil }
func (s *stubHistory) Latest() (Frame, bool) { return Frame{}, false }
func (s *stubHistory) Len() int              { return 0 }

type stubSink struct{}

func (s *stubSink) WriteFrame(Frame) error { return nil }
func (s *stubSink) Name() string           { return "stub" }

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)            {}
func (s *stubObservability) LogError(string, error, ...Field)    {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)          {}
func (s *stubObservability) ObserveLatency(string, float64)      {}
func (s *stubObservability) SetGauge(string, float64)            {}
func (s *stubObservability) RecordVerdicts([]ComplianceVerdict)  {}
