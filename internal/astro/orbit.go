package astro

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// FastestOrbitSeconds is how long the shortest-period planet of a system
	// takes to complete one revolution on screen.
	FastestOrbitSeconds = 20.0

	// DefaultOrbitSpeed slows the relative animation down to a calm pace.
	DefaultOrbitSpeed = 0.3

	// DefaultBaseOrbitSeconds is the time base for the log-period animation mode.
	DefaultBaseOrbitSeconds = 30.0

	// DefaultOrbitSegments is the number of points on a drawn orbit path.
	DefaultOrbitSegments = 128
)

// OrbitalElements describes one orbit in scene units.
type OrbitalElements struct {
	SemiMajorAxis  float64 // scene units, >= 0
	Eccentricity   float64 // [0, 1)
	InclinationDeg float64
	PeriodDays     float64 // > 0
}

// PositionAt returns the position on this orbit at the given angle.
func (o OrbitalElements) PositionAt(angleRad float64) Vec3 {
	return PositionAtAngle(o.SemiMajorAxis, o.Eccentricity, o.InclinationDeg, angleRad)
}

// SemiMinorAxis returns b = a·sqrt(1-e²).
func (o OrbitalElements) SemiMinorAxis() float64 {
	return o.SemiMajorAxis * math.Sqrt(1-o.Eccentricity*o.Eccentricity)
}

// PositionAtAngle places a body on an ellipse with semi-major axis a and
// eccentricity e, then tilts the orbital plane about the x-axis by the
// inclination. e = 1 or a = 0 collapse the ellipse and are returned as-is.
func PositionAtAngle(a, e, inclinationDeg, angleRad float64) Vec3 {
	b := a * math.Sqrt(1-e*e)
	incl := degToRad(inclinationDeg)

	x := a * math.Cos(angleRad)
	y := 0.0
	z := b * math.Sin(angleRad)

	sinI, cosI := math.Sincos(incl)
	return Vec3{
		X: x,
		Y: y*cosI - z*sinI,
		Z: y*sinI + z*cosI,
	}
}

// OrbitAngle returns the animation angle of a planet after elapsedSec seconds.
//
// The shortest-period planet of the system completes a revolution every
// FastestOrbitSeconds/speed seconds and every other planet moves in
// proportion to its real period. The angle grows without bound.
func OrbitAngle(elapsedSec, shortestPeriodDays, periodDays, speed float64) float64 {
	return (elapsedSec / FastestOrbitSeconds) * (shortestPeriodDays / periodDays) * 2 * math.Pi * speed
}

// LogPeriodAngularSpeed returns an angular speed in rad/s that shrinks with
// the logarithm of the orbital period, so long-period planets still move
// visibly.
func LogPeriodAngularSpeed(periodDays, baseOrbitSeconds float64) float64 {
	return 2 * math.Pi / (baseOrbitSeconds * math.Log10(periodDays+1))
}

// ShortestPeriod returns the minimum period in periods, or 1 when empty.
func ShortestPeriod(periods []float64) float64 {
	if len(periods) == 0 {
		return 1
	}
	return floats.Min(periods)
}

// AngleFromPosition maps a point back to an orbit angle for hit-testing.
//
// It treats the orbit as a circle of radius a, which is only an
// approximation for eccentric orbits.
func AngleFromPosition(a float64, p Vec3) float64 {
	const e = 0
	b := a * math.Sqrt(1-e*e)
	return math.Atan2(p.Z/b, p.X/a)
}

// OrbitPath samples a closed orbit: segments evenly spaced points followed by
// the first point again.
func OrbitPath(a, e, inclinationDeg float64, segments int) []Vec3 {
	if segments < 3 {
		segments = 3
	}
	pts := make([]Vec3, 0, segments+1)
	for i := 0; i < segments; i++ {
		angle := float64(i) / float64(segments) * 2 * math.Pi
		pts = append(pts, PositionAtAngle(a, e, inclinationDeg, angle))
	}
	return append(pts, pts[0])
}
