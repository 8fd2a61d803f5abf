package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// EquatorialCoord is a direction on the celestial sphere.
type EquatorialCoord struct {
	RAHours float64 // Right ascension in hours [0, 24)
	DecDeg  float64 // Declination in degrees [-90, 90]
}

// RADeg returns the right ascension in degrees.
func (c EquatorialCoord) RADeg() float64 {
	return c.RAHours * 15
}

// RADecToXYZ places a catalog direction on a sphere of the given radius.
//
// RA=0h, Dec=0° lands on +X and Dec=+90° on +Y. Star placement and camera
// pointing must both go through here or their relative positions drift.
func RADecToXYZ(raHours, decDeg, radius float64) Vec3 {
	raRad := raHours / 24 * 2 * math.Pi
	decRad := decDeg / 180 * math.Pi

	sinRA, cosRA := math.Sincos(raRad)
	sinDec, cosDec := math.Sincos(decRad)

	return Vec3{
		X: radius * cosDec * cosRA,
		Y: radius * sinDec,
		Z: radius * cosDec * sinRA,
	}
}

// XYZToRADec is the inverse of RADecToXYZ. The zero vector maps to RA 0, Dec 0.
func XYZToRADec(v Vec3) EquatorialCoord {
	r := v.Norm()
	if r == 0 {
		return EquatorialCoord{}
	}
	dec := radToDeg(math.Asin(Clamp(v.Y/r, -1, 1)))
	ra := NormalizeHours(math.Atan2(v.Z, v.X) / (2 * math.Pi) * 24)
	return EquatorialCoord{RAHours: ra, DecDeg: dec}
}

// NormalizeHours wraps an hour value into [0, 24).
func NormalizeHours(h float64) float64 {
	return wrap(h, 24)
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(d float64) float64 {
	return wrap(d, 360)
}

// wrap is unit.PMod with the r+y == y rounding case folded back to 0.
func wrap(x, period float64) float64 {
	r := unit.PMod(x, period)
	if r >= period {
		return 0
	}
	return r
}
