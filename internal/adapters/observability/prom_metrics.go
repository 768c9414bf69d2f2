package observability

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/ports"
)

type PromObs struct {
	registry *prometheus.Registry
	logger   *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
	verdicts *prometheus.CounterVec
}

// NewPromObs registers the monitor metrics on a private registry so several
// sessions can coexist in one process.
func NewPromObs(logger *slog.Logger) *PromObs {
	if logger == nil {
		logger = slog.Default()
	}

	generated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "track_samples_generated_total",
		Help: "Total track-geometry samples generated.",
	})
	sinkErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "track_sink_errors_total",
		Help: "Frames a sink failed to accept.",
	})
	chainage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "track_chainage_meters",
		Help: "Chainage of the most recent sample.",
	})
	historyLen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "track_history_length",
		Help: "Frames currently held in the rolling history window.",
	})
	tick := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "track_tick_duration_seconds",
		Help:    "Time spent in one generate, evaluate and forward cycle.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12),
	})
	verdicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "track_verdicts_total",
		Help: "Compliance verdicts by standard and status.",
	}, []string{"standard", "status"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(generated, sinkErrors, chainage, historyLen, tick, verdicts)

	return &PromObs{
		registry: reg,
		logger:   logger,
		counters: map[string]prometheus.Counter{
			"track_samples_generated_total": generated,
			"track_sink_errors_total":       sinkErrors,
		},
		gauges: map[string]prometheus.Gauge{
			"track_chainage_meters": chainage,
			"track_history_length":  historyLen,
		},
		histos: map[string]prometheus.Observer{
			"track_tick_duration_seconds": tick,
		},
		verdicts: verdicts,
	}
}

// Handler serves the private registry in the Prometheus exposition format.
func (p *PromObs) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PromObs) Registry() *prometheus.Registry { return p.registry }

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.logger.Error(msg, append(attrs(fields), slog.Any("err", err))...)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.logger.Error(msg, append(attrs(fields), slog.Any("err", err), slog.Bool("critical", true))...)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordVerdicts(verdicts []domain.ComplianceVerdict) {
	for _, v := range verdicts {
		p.verdicts.WithLabelValues(v.Standard.String(), v.Status.String()).Inc()
	}
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
