package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

// Cycle holds everything one monitoring session needs per tick. A Cycle is
// driven by a single goroutine; ticks never overlap.
type Cycle struct {
	SessionID uuid.UUID
	Source    ports.SampleSource
	Evaluator ports.Evaluator
	History   ports.History
	Sinks     []ports.Sink
	Policy    ports.Policy
	// Obs may be nil, in which case nothing is logged or measured.
	Obs ports.Observability

	seq uint64
}

// Tick runs one generate, evaluate and forward cycle. It only fails when a
// sink rejects the frame and the policy says stop.
func (c *Cycle) Tick() (domain.Frame, error) {
	start := time.Now()
	obs := c.observer()

	sample := c.Source.NextSample()
	verdicts := c.Evaluator.Evaluate(sample)
	c.seq++

	frame := domain.Frame{
		SessionID: c.SessionID,
		Seq:       c.seq,
		Sample:    sample,
		Verdicts:  verdicts,
	}

	if c.History != nil {
		c.History.Push(frame)
		obs.SetGauge("track_history_length", float64(c.History.Len()))
	}
	obs.IncCounter("track_samples_generated_total", 1)
	obs.SetGauge("track_chainage_meters", sample.Chainage)
	obs.RecordVerdicts(verdicts)

	err := forwardWithPolicy(c.Sinks, frame, c.Policy, obs)
	obs.ObserveLatency("track_tick_duration_seconds", time.Since(start).Seconds())
	return frame, err
}

// Seq reports how many ticks have completed.
func (c *Cycle) Seq() uint64 { return c.seq }

func (c *Cycle) observer() ports.Observability {
	if c.Obs == nil {
		return nopObservability{}
	}
	return c.Obs
}

// RunMonitorPipeline ticks at the policy interval until ctx is cancelled.
// A tick that overruns the interval makes the ticker drop the missed ticks
// rather than queue them.
func RunMonitorPipeline(ctx context.Context, c *Cycle) error {
	interval := c.Policy.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	obs := c.observer()
	obs.LogInfo("monitor_started",
		ports.Field{Key: "session", Value: c.SessionID.String()},
		ports.Field{Key: "interval", Value: interval.String()})

	for {
		select {
		case <-ctx.Done():
			logStopped(obs, c)
			return nil
		case <-ticker.C:
			if _, err := c.Tick(); err != nil {
				// Sinks are closed during shutdown; a failure caused by that is not an abort.
				if ctx.Err() != nil {
					logStopped(obs, c)
					return nil
				}
				obs.LogCritical("monitor_aborted", err, ports.Field{Key: "session", Value: c.SessionID.String()})
				return err
			}
		}
	}
}

func logStopped(obs ports.Observability, c *Cycle) {
	obs.LogInfo("monitor_stopped",
		ports.Field{Key: "session", Value: c.SessionID.String()},
		ports.Field{Key: "ticks", Value: c.seq})
}

func forwardWithPolicy(sinks []ports.Sink, f domain.Frame, pol ports.Policy, obs ports.Observability) error {
	for _, s := range sinks {
		err := s.WriteFrame(f)
		if err == nil {
			continue
		}
		obs.IncCounter("track_sink_errors_total", 1)

		switch pol.OnSinkError {
		case "stop":
			return fmt.Errorf("sink %s: %w", s.Name(), err)
		case "continue", "":
			obs.LogError("tick_sink_failed", err,
				ports.Field{Key: "sink", Value: s.Name()},
				ports.Field{Key: "seq", Value: f.Seq})
		default:
			obs.LogError("sink_policy_invalid", fmt.Errorf("policy=%s", pol.OnSinkError))
		}
	}
	return nil
}

var _ ports.Observability = nopObservability{}

type nopObservability struct{}

func (nopObservability) LogInfo(string, ...ports.Field)            {}
func (nopObservability) LogError(string, error, ...ports.Field)    {}
func (nopObservability) LogCritical(string, error, ...ports.Field) {}
func (nopObservability) IncCounter(string, float64)                {}
func (nopObservability) ObserveLatency(string, float64)            {}
func (nopObservability) SetGauge(string, float64)                  {}
func (nopObservability) RecordVerdicts([]domain.ComplianceVerdict) {}
