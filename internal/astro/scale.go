package astro

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scene defaults for a planetary system view.
const (
	DefaultDistanceTargetMax = 200.0
	DefaultRadiusTargetMax   = 5.0
	DefaultRadiusMinSize     = 0.8
)

// ScalingFunction maps a real astronomical magnitude (AU, Earth radii) into
// bounded scene units. Each one is closed over a single system snapshot and
// returns the same output for the same input for that snapshot's lifetime.
type ScalingFunction func(float64) float64

// MakeDistanceScale builds a logarithmic distance map for one system.
//
// The largest distance maps to targetMax, zero or negative distances map to 0.
// Distances beyond the maximum extrapolate past targetMax.
func MakeDistanceScale(distances []float64, targetMax float64) ScalingFunction {
	maxDist := positiveMax(distances)
	if maxDist <= 0 {
		return func(float64) float64 { return 0 }
	}
	denom := math.Log10(maxDist + 1)

	return func(d float64) float64 {
		if d <= 0 {
			return 0
		}
		return math.Log10(d+1) / denom * targetMax
	}
}

// MakeRadiusScale builds a linear radius map for one system. The output is
// never below minSize so every body stays visible; the largest planet maps
// to targetMax+minSize.
func MakeRadiusScale(radii []float64, targetMax, minSize float64) ScalingFunction {
	maxRadius := positiveMax(radii)
	if maxRadius <= 0 {
		return func(float64) float64 { return minSize }
	}

	return func(r float64) float64 {
		return r/maxRadius*targetMax + minSize
	}
}

// ScaleStarRadius sizes the central star from its radius in solar radii.
// The upper bound shrinks with the scaled extent of the system; when the
// lower bound of 3 exceeds it, the lower bound wins.
func ScaleStarRadius(starRadiusSolar, maxPlanetDistanceScaled float64) float64 {
	base := math.Log10(starRadiusSolar+1) * 10
	upper := math.Log10(maxPlanetDistanceScaled+1) * 0.2
	return Clamp(base, 3, upper)
}

// Clamp limits v to [lo, hi]. If lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// positiveMax returns the largest value in xs, or 0 when xs is empty or has
// no positive entry.
func positiveMax(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := floats.Max(xs)
	if m <= 0 || math.IsNaN(m) {
		return 0
	}
	return m
}
