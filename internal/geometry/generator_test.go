package geometry

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	return g
}

func TestNextSampleChainageAdvancesByStep(t *testing.T) {
	g := newTestGenerator(t, Config{})

	prev := g.NextSample().Chainage
	require.Equal(t, 0.25, prev)
	for i := 0; i < 1000; i++ {
		cur := g.NextSample().Chainage
		require.Equal(t, 0.25, cur-prev, "step %d", i)
		prev = cur
	}
}

func TestNextSampleFourCallsReachOneMetre(t *testing.T) {
	g := newTestGenerator(t, Config{})

	var last float64
	for i := 0; i < 4; i++ {
		last = g.NextSample().Chainage
	}
	require.Equal(t, 1.0, last)
	require.Equal(t, 1.0, g.Chainage())
}

func TestNextSampleStartChainage(t *testing.T) {
	g := newTestGenerator(t, Config{StartChainage: 1200})

	require.Equal(t, 1200.25, g.NextSample().Chainage)
}

func TestNextSampleDerivedFieldsConsistent(t *testing.T) {
	g := newTestGenerator(t, Config{})

	for i := 0; i < 5000; i++ {
		s := g.NextSample()

		require.InDelta(t, s.RightRailLevel-s.LeftRailLevel, s.CrossLevel, 1e-9, "sample %d", i)
		require.GreaterOrEqual(t, s.Unevenness, 0.0)
		require.InDelta(t, 0.5*math.Abs(s.LeftRailLevel-s.RightRailLevel), s.Unevenness, 0.005+1e-9)
		require.GreaterOrEqual(t, s.VerticalAcceleration, 0.0)
		require.GreaterOrEqual(t, s.LateralAcceleration, 0.0)
		require.GreaterOrEqual(t, s.Speed, DefaultSpeedMin)
		require.LessOrEqual(t, s.Speed, DefaultSpeedMax)
		require.InDelta(t, twistResponse*s.CrossLevel, s.Twist, twistNoise+0.01)
		require.InDelta(t, NominalGauge, s.Gauge, gaugeAmplitude+gaugeNoise+0.01)
	}
}

func TestNextSampleRailsShareRoadbedPerturbation(t *testing.T) {
	g := newTestGenerator(t, Config{})

	// With the shared term the difference between rails is bounded by the
	// deterministic waveforms alone.
	bound := 2*levelAmplitude*math.Abs(math.Sin(railPhaseShift/2)) + 0.02
	for i := 0; i < 2000; i++ {
		s := g.NextSample()
		require.LessOrEqual(t, math.Abs(s.CrossLevel), bound)
	}
}

func TestNextSampleUsesClock(t *testing.T) {
	at := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	g, err := NewGenerator(Config{Seed: 1}, WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	require.Equal(t, at, g.NextSample().Timestamp)
}

func TestNewGeneratorSeedIsReproducible(t *testing.T) {
	a, err := NewGenerator(Config{Seed: 99}, WithClock(func() time.Time { return time.Time{} }))
	require.NoError(t, err)
	b, err := NewGenerator(Config{Seed: 99}, WithClock(func() time.Time { return time.Time{} }))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.NextSample(), b.NextSample())
	}
}

func TestNewGeneratorRejectsInvalidConfig(t *testing.T) {
	_, err := NewGenerator(Config{SamplingStep: -1})
	require.Error(t, err)

	_, err = NewGenerator(Config{SpeedMin: 100, SpeedMax: 50})
	require.Error(t, err)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	require.Equal(t, 1.01, Round(1.005, 2))
	require.Equal(t, -1.01, Round(-1.005, 2))
	require.Equal(t, 2.346, Round(2.3456, 3))
}
