package domain

// RailProfileRegistration is the result of registering a measured rail
// cross-section against its reference profile.
type RailProfileRegistration struct {
	RegistrationError float64   `json:"registration_error"` // mm, >= 0
	WearMap           []float64 `json:"wear_map"`
	Confidence        float64   `json:"confidence"` // [0.85, 1.0]
	Stats             WearStats `json:"stats"`
}

// WearStats summarises a wear map. WorstIndex is -1 for an empty map.
type WearStats struct {
	MaxWear    float64 `json:"max_wear"`
	MeanWear   float64 `json:"mean_wear"`
	RMSWear    float64 `json:"rms_wear"`
	P95Wear    float64 `json:"p95_wear"`
	WorstIndex int     `json:"worst_index"`
}
