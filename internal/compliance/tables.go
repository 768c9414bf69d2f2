package compliance

import "github.com/ghalamif/TrackFlow/internal/domain"

// Limit is the threshold set for one parameter. Two-tier limits escalate
// to Warning above Alert and to Critical above Intervention. Single-ceiling
// limits only know Compliant and Critical, with Alert as the ceiling.
type Limit struct {
	Alert         float64
	Intervention  float64
	SingleCeiling bool
}

// TwoTier builds an alert/intervention limit.
func TwoTier(alert, intervention float64) Limit {
	return Limit{Alert: alert, Intervention: intervention}
}

// Ceiling builds a single-ceiling limit.
func Ceiling(max float64) Limit {
	return Limit{Alert: max, Intervention: max, SingleCeiling: true}
}

// Table is the rule set of one standard.
type Table struct {
	Standard domain.Standard
	Limits   map[domain.Parameter]Limit
}

// StandardATable holds the stricter rule set (mm, accelerations in m/s²).
func StandardATable() Table {
	return Table{
		Standard: domain.StandardA,
		Limits: map[domain.Parameter]Limit{
			domain.ParamGauge:                TwoTier(3, 5),
			domain.ParamLongitudinalLevel:    TwoTier(4, 6),
			domain.ParamCrossLevel:           TwoTier(4, 6),
			domain.ParamTwist:                TwoTier(3, 5),
			domain.ParamVerticalAcceleration: Ceiling(2.5),
			domain.ParamLateralAcceleration:  Ceiling(1.5),
		},
	}
}

// StandardBTable holds the second, more permissive rule set.
func StandardBTable() Table {
	return Table{
		Standard: domain.StandardB,
		Limits: map[domain.Parameter]Limit{
			domain.ParamGauge:                TwoTier(4, 6),
			domain.ParamLongitudinalLevel:    TwoTier(5, 8),
			domain.ParamCrossLevel:           TwoTier(5, 7),
			domain.ParamTwist:                TwoTier(4, 6),
			domain.ParamVerticalAcceleration: Ceiling(3.0),
			domain.ParamLateralAcceleration:  Ceiling(2.0),
		},
	}
}

func (t Table) clone() Table {
	limits := make(map[domain.Parameter]Limit, len(t.Limits))
	for p, l := range t.Limits {
		limits[p] = l
	}
	return Table{Standard: t.Standard, Limits: limits}
}
