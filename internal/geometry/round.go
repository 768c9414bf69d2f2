package geometry

import "github.com/shopspring/decimal"

// Display precision per field family.
const (
	PrecisionLength       = 2
	PrecisionAcceleration = 3
	PrecisionSpeed        = 1
)

// Round rounds v half away from zero to the given number of decimals.
// Rounding goes through a decimal so 1.005 lands on 1.01, not 1.00.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
