package astro

import "math"

// AngularSeparation returns the great-circle angle in degrees between two
// sky directions (haversine form, stable for small separations).
func AngularSeparation(a, b EquatorialCoord) float64 {
	ra1 := degToRad(a.RADeg())
	dec1 := degToRad(a.DecDeg)
	ra2 := degToRad(b.RADeg())
	dec2 := degToRad(b.DecDeg)

	sinDDec := math.Sin((dec2 - dec1) / 2)
	sinDRA := math.Sin((ra2 - ra1) / 2)
	h := sinDDec*sinDDec + math.Cos(dec1)*math.Cos(dec2)*sinDRA*sinDRA

	return radToDeg(2 * math.Asin(math.Sqrt(Clamp(h, 0, 1))))
}

// AltitudeTier buckets an altitude for display.
type AltitudeTier int

const (
	AltitudeBelow  AltitudeTier = iota // below the horizon
	AltitudeLow                        // 0-15 degrees
	AltitudeMedium                     // 15-45 degrees
	AltitudeHigh                       // 45+ degrees
)

// String returns a short label for the tier.
func (t AltitudeTier) String() string {
	switch t {
	case AltitudeLow:
		return "low"
	case AltitudeMedium:
		return "mid"
	case AltitudeHigh:
		return "high"
	default:
		return "below horizon"
	}
}

// GetAltitudeTier returns the tier for an altitude in degrees.
func GetAltitudeTier(altDeg float64) AltitudeTier {
	switch {
	case altDeg <= 0:
		return AltitudeBelow
	case altDeg < 15:
		return AltitudeLow
	case altDeg < 45:
		return AltitudeMedium
	default:
		return AltitudeHigh
	}
}
