package astro

import (
	"math"
	"strconv"
)

// SignificantDigits rounds v to a number of decimals chosen from its order
// of magnitude, keeping roughly four significant figures without switching
// to scientific notation. Halves round away from zero.
func SignificantDigits(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	factor := math.Pow10(decimalsFor(v))
	return math.Round(v*factor) / factor
}

// decimalsFor returns the number of decimals SignificantDigits keeps.
func decimalsFor(v float64) int {
	switch mag := math.Floor(math.Log10(math.Abs(v))); {
	case mag >= 3:
		return 0
	case mag >= 2:
		return 1
	case mag >= 1:
		return 2
	case mag >= 0:
		return 3
	case mag >= -1:
		return 4
	case mag >= -2:
		return 5
	default:
		return 6
	}
}

// FormatMagnitude renders v through SignificantDigits with an optional unit
// suffix, e.g. "1.524 AU".
func FormatMagnitude(v float64, unit string) string {
	s := strconv.FormatFloat(SignificantDigits(v), 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
