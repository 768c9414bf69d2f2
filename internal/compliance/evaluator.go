package compliance

import (
	"fmt"
	"math"

	"github.com/ghalamif/TrackFlow/internal/domain"
	"github.com/ghalamif/TrackFlow/internal/geometry"
)

// Evaluator classifies samples against a fixed, ordered list of tables.
// It is immutable after construction and safe for concurrent use.
type Evaluator struct {
	tables []Table
}

// NewEvaluator returns an evaluator for StandardA followed by StandardB.
func NewEvaluator() *Evaluator {
	e, _ := NewEvaluatorWithTables(StandardATable(), StandardBTable())
	return e
}

// NewEvaluatorWithTables builds an evaluator from caller-supplied tables.
// Every table must define a limit for each tracked parameter.
func NewEvaluatorWithTables(tables ...Table) (*Evaluator, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("at least one table is required")
	}
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		for _, p := range domain.Parameters() {
			l, ok := t.Limits[p]
			if !ok {
				return nil, fmt.Errorf("%s: missing limit for %s", t.Standard, p)
			}
			if !l.SingleCeiling && l.Intervention < l.Alert {
				return nil, fmt.Errorf("%s: %s intervention %.2f below alert %.2f", t.Standard, p, l.Intervention, l.Alert)
			}
		}
		out = append(out, t.clone())
	}
	return &Evaluator{tables: out}, nil
}

// Evaluate returns one verdict per tracked parameter per table. Tables keep
// their construction order and parameters follow domain.Parameters.
func (e *Evaluator) Evaluate(s domain.TelemetrySample) []domain.ComplianceVerdict {
	params := domain.Parameters()
	out := make([]domain.ComplianceVerdict, 0, len(params)*len(e.tables))
	for _, t := range e.tables {
		for _, p := range params {
			l := t.Limits[p]
			v := Magnitude(p, s)
			out = append(out, domain.ComplianceVerdict{
				Parameter: p,
				Value:     v,
				Limit:     l.Alert,
				Status:    Classify(v, l),
				Standard:  t.Standard,
			})
		}
	}
	return out
}

// Classify maps a magnitude onto a status. Both thresholds are exclusive:
// a value equal to a threshold stays in the lower tier.
func Classify(value float64, l Limit) domain.Status {
	if l.SingleCeiling {
		if value > l.Alert {
			return domain.StatusCritical
		}
		return domain.StatusCompliant
	}
	switch {
	case value > l.Intervention:
		return domain.StatusCritical
	case value > l.Alert:
		return domain.StatusWarning
	default:
		return domain.StatusCompliant
	}
}

// Magnitude extracts the compared quantity for a parameter. Results are
// rounded to display precision so that floating-point noise in the gauge
// subtraction cannot push a value across a threshold.
func Magnitude(p domain.Parameter, s domain.TelemetrySample) float64 {
	switch p {
	case domain.ParamGauge:
		return geometry.Round(math.Abs(s.Gauge-geometry.NominalGauge), geometry.PrecisionLength)
	case domain.ParamLongitudinalLevel:
		return math.Max(math.Abs(s.LeftRailLevel), math.Abs(s.RightRailLevel))
	case domain.ParamCrossLevel:
		return math.Abs(s.CrossLevel)
	case domain.ParamTwist:
		return math.Abs(s.Twist)
	case domain.ParamVerticalAcceleration:
		return math.Abs(s.VerticalAcceleration)
	case domain.ParamLateralAcceleration:
		return math.Abs(s.LateralAcceleration)
	default:
		return 0
	}
}
