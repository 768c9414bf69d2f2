package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ghalamif/TrackFlow/internal/domain"
)

// ErrInvalidInput is returned when a registration input cannot be used.
var ErrInvalidInput = errors.New("geometry: invalid input")

const (
	minConfidence        = 0.85
	registrationErrFloor = 0.05
	registrationErrSpan  = 0.45
)

// RegisterRailProfile compares a measured rail cross-section with its
// reference profile point by point. The registration itself is approximate:
// error and confidence are synthesized within their documented bounds.
//
// Points past the end of standard are compared against its last value.
func (g *Generator) RegisterRailProfile(measured, standard []float64) (domain.RailProfileRegistration, error) {
	if len(standard) == 0 {
		return domain.RailProfileRegistration{}, fmt.Errorf("%w: standard profile is empty", ErrInvalidInput)
	}

	wear := make([]float64, len(measured))
	last := standard[len(standard)-1]
	for i, m := range measured {
		ref := last
		if i < len(standard) {
			ref = standard[i]
		}
		wear[i] = math.Abs(ref - m)
	}

	return domain.RailProfileRegistration{
		RegistrationError: Round(registrationErrFloor+g.rng.Float64()*registrationErrSpan, PrecisionAcceleration),
		WearMap:           wear,
		Confidence:        Round(minConfidence+g.rng.Float64()*(1-minConfidence), PrecisionAcceleration),
		Stats:             summarizeWear(wear),
	}, nil
}

func summarizeWear(wear []float64) domain.WearStats {
	if len(wear) == 0 {
		return domain.WearStats{WorstIndex: -1}
	}

	var (
		sum, sumSq float64
		worst      int
	)
	for i, w := range wear {
		sum += w
		sumSq += w * w
		if w > wear[worst] {
			worst = i
		}
	}
	n := float64(len(wear))

	sorted := append([]float64(nil), wear...)
	sort.Float64s(sorted)
	rank := int(math.Ceil(0.95*n)) - 1

	return domain.WearStats{
		MaxWear:    Round(wear[worst], PrecisionLength),
		MeanWear:   Round(sum/n, PrecisionLength),
		RMSWear:    Round(math.Sqrt(sumSq/n), PrecisionLength),
		P95Wear:    Round(sorted[rank], PrecisionLength),
		WorstIndex: worst,
	}
}
