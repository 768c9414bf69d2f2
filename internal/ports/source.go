package ports

import "github.com/ghalamif/TrackFlow/internal/domain"

// SampleSource produces one sample per call. Implementations own their
// spatial state and need not be safe for concurrent use.
type SampleSource interface {
	NextSample() domain.TelemetrySample
}

type Evaluator interface {
	Evaluate(s domain.TelemetrySample) []domain.ComplianceVerdict
}
