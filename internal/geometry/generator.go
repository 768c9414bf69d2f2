package geometry

import (
	"math"
	"math/rand"
	"time"

	"github.com/ghalamif/TrackFlow/internal/domain"
)

// NominalGauge is standard gauge in millimetres.
const NominalGauge = 1435.0

// Waveform shape of the synthetic track. Wavelengths are in metres,
// amplitudes in millimetres.
const (
	levelAmplitude      = 4.0
	levelWavelength     = 12.0
	alignmentAmplitude  = 2.5
	alignmentWavelength = 20.0
	gaugeAmplitude      = 2.5
	gaugeWavelength     = 40.0
	railPhaseShift      = 1.2

	sharedNoise = 1.0 // roadbed perturbation common to both rails
	gaugeNoise  = 1.0

	// Twist is taken over a nominal 3 m base, approximated from the
	// instantaneous cross-level.
	twistResponse = 0.7
	twistNoise    = 0.3

	verticalResponse = 0.35
	lateralResponse  = 0.25
)

// Option customizes a Generator.
type Option func(*Generator)

// WithRand replaces the random source, mainly for reproducible tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator synthesizes track-geometry samples for one monitoring session.
// It owns the chainage accumulator and is not safe for concurrent use.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	now   func() time.Time
	ticks uint64
}

func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Chainage reports the position of the most recent sample.
func (g *Generator) Chainage() float64 {
	return g.cfg.StartChainage + float64(g.ticks)*g.cfg.SamplingStep
}

// NextSample advances one sampling step and returns the measurement there.
func (g *Generator) NextSample() domain.TelemetrySample {
	g.ticks++
	ch := g.Chainage()

	speed := Round(g.cfg.SpeedMin+g.rng.Float64()*(g.cfg.SpeedMax-g.cfg.SpeedMin), PrecisionSpeed)

	shared := g.symmetric(sharedNoise)
	kl := 2 * math.Pi * ch / levelWavelength
	ka := 2 * math.Pi * ch / alignmentWavelength
	kg := 2 * math.Pi * ch / gaugeWavelength

	left := Round(levelAmplitude*math.Sin(kl)+shared, PrecisionLength)
	right := Round(levelAmplitude*math.Sin(kl+railPhaseShift)+shared, PrecisionLength)
	leftAlign := Round(alignmentAmplitude*math.Cos(ka)+shared/2, PrecisionLength)
	rightAlign := Round(alignmentAmplitude*math.Cos(ka+railPhaseShift)+shared/2, PrecisionLength)
	gauge := Round(NominalGauge+gaugeAmplitude*math.Sin(kg)+g.symmetric(gaugeNoise), PrecisionLength)

	// Derived from the rounded rail levels so the identity holds exactly
	// at display precision.
	cross := Round(right-left, PrecisionLength)
	twist := Round(twistResponse*cross+g.symmetric(twistNoise), PrecisionLength)
	unevenness := Round(0.5*math.Abs(left-right), PrecisionLength)

	speedFactor := speed / 100
	vertical := Round(math.Max(math.Abs(left), math.Abs(right))*verticalResponse*speedFactor, PrecisionAcceleration)
	lateral := Round(math.Abs(cross)*lateralResponse*speedFactor, PrecisionAcceleration)

	return domain.TelemetrySample{
		Chainage:             ch,
		Gauge:                gauge,
		LeftRailLevel:        left,
		RightRailLevel:       right,
		LeftRailAlignment:    leftAlign,
		RightRailAlignment:   rightAlign,
		CrossLevel:           cross,
		Twist:                twist,
		Unevenness:           unevenness,
		VerticalAcceleration: vertical,
		LateralAcceleration:  lateral,
		Speed:                speed,
		Timestamp:            g.now(),
	}
}

// symmetric draws uniformly from [-amp, amp).
func (g *Generator) symmetric(amp float64) float64 {
	return (g.rng.Float64()*2 - 1) * amp
}
