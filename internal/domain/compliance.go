package domain

// Parameter identifies a track-geometry quantity checked for compliance.
type Parameter int

const (
	ParamGauge Parameter = iota
	ParamLongitudinalLevel
	ParamCrossLevel
	ParamTwist
	ParamVerticalAcceleration
	ParamLateralAcceleration
)

var parameterNames = map[Parameter]string{
	ParamGauge:                "gauge",
	ParamLongitudinalLevel:    "longitudinal_level",
	ParamCrossLevel:           "cross_level",
	ParamTwist:                "twist",
	ParamVerticalAcceleration: "vertical_acceleration",
	ParamLateralAcceleration:  "lateral_acceleration",
}

func (p Parameter) String() string {
	if n, ok := parameterNames[p]; ok {
		return n
	}
	return "unknown"
}

// Parameters lists every tracked parameter in evaluation order.
func Parameters() []Parameter {
	return []Parameter{
		ParamGauge,
		ParamLongitudinalLevel,
		ParamCrossLevel,
		ParamTwist,
		ParamVerticalAcceleration,
		ParamLateralAcceleration,
	}
}

// Status is ordered by severity so callers can compare with >.
type Status int

const (
	StatusCompliant Status = iota
	StatusWarning
	StatusCritical
)

func (s Status) String() string {
	switch s {
	case StatusCompliant:
		return "compliant"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Standard names the rule table a verdict came from.
type Standard int

const (
	StandardA Standard = iota
	StandardB
)

func (s Standard) String() string {
	switch s {
	case StandardA:
		return "standard_a"
	case StandardB:
		return "standard_b"
	default:
		return "unknown"
	}
}

// ComplianceVerdict classifies one parameter of one sample under one standard.
type ComplianceVerdict struct {
	Parameter Parameter `json:"parameter"`
	Value     float64   `json:"value"`
	Limit     float64   `json:"limit"`
	Status    Status    `json:"status"`
	Standard  Standard  `json:"standard"`
}
