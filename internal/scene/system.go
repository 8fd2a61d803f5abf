package scene

import (
	"math"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
)

const (
	// CameraDistanceFactor places the camera this many times the outermost
	// scaled orbit away from the star.
	CameraDistanceFactor = 1.5

	// OrbitTubeFraction is the hit-test tube radius as a fraction of the
	// semi-major axis; minOrbitTube is its floor in scene units.
	OrbitTubeFraction = 0.02
	minOrbitTube      = 0.5

	// emptySystemCamera is used when a system has no planet to frame.
	emptySystemCamera = 20.0
)

// AnimationMode selects how planets advance along their orbits.
type AnimationMode int

const (
	// AnimateRelative keeps real period ratios, the fastest planet taking
	// astro.FastestOrbitSeconds per revolution.
	AnimateRelative AnimationMode = iota
	// AnimateLogPeriod compresses periods logarithmically so outer planets
	// still move.
	AnimateLogPeriod
)

func (m AnimationMode) String() string {
	switch m {
	case AnimateLogPeriod:
		return "log"
	default:
		return "relative"
	}
}

// Options are the scale targets for a system view.
type Options struct {
	DistanceTargetMax float64
	RadiusTargetMax   float64
	RadiusMinSize     float64
}

// DefaultOptions returns the standard scale targets.
func DefaultOptions() Options {
	return Options{
		DistanceTargetMax: astro.DefaultDistanceTargetMax,
		RadiusTargetMax:   astro.DefaultRadiusTargetMax,
		RadiusMinSize:     astro.DefaultRadiusMinSize,
	}
}

// Body is one planet in scene units.
type Body struct {
	Planet    catalog.Planet
	Orbit     astro.OrbitalElements
	Radius    float64 // scaled display radius
	Habitable bool
}

// Name returns the planet name.
func (b Body) Name() string {
	return b.Planet.Name
}

// System is a planetary system laid out for rendering.
type System struct {
	Star           catalog.Star
	Bodies         []Body
	ShortestPeriod float64 // days
	StarRadius     float64 // scene units
	MaxScaled      float64 // outermost scaled orbit
	CameraDistance float64

	// Habitable zone in scene units, when the catalog knows it.
	HZInner, HZOuter float64
	HasHZ            bool

	scaleDistance astro.ScalingFunction
	scaleRadius   astro.ScalingFunction
}

// NewSystem scales a catalog system into scene units.
func NewSystem(sys *catalog.System, opts Options) *System {
	distances := sys.MeanDistances()
	scaleDistance := astro.MakeDistanceScale(distances, opts.DistanceTargetMax)
	scaleRadius := astro.MakeRadiusScale(sys.Radii(), opts.RadiusTargetMax, opts.RadiusMinSize)

	s := &System{
		Star:          sys.Star,
		Bodies:        make([]Body, 0, len(sys.Planets)),
		scaleDistance: scaleDistance,
		scaleRadius:   scaleRadius,
	}

	periods := make([]float64, 0, len(sys.Planets))
	for _, p := range sys.Planets {
		orbit := p.Elements(scaleDistance)
		if orbit.PeriodDays <= 0 {
			orbit.PeriodDays = catalog.DefaultPeriodDays
		}
		orbit.Eccentricity = astro.Clamp(orbit.Eccentricity, 0, 0.99)

		s.Bodies = append(s.Bodies, Body{
			Planet:    p,
			Orbit:     orbit,
			Radius:    scaleRadius(p.RadiusOrZero()),
			Habitable: p.IsHabitable(),
		})
		periods = append(periods, orbit.PeriodDays)
		s.MaxScaled = math.Max(s.MaxScaled, orbit.SemiMajorAxis)
	}

	s.ShortestPeriod = astro.ShortestPeriod(periods)
	s.StarRadius = astro.ScaleStarRadius(sys.Star.RadiusOrDefault(), s.MaxScaled)

	s.CameraDistance = s.MaxScaled * CameraDistanceFactor
	if s.CameraDistance <= 0 {
		s.CameraDistance = emptySystemCamera
	}

	if inner, outer, ok := sys.Star.HabitableZone(); ok && outer > inner {
		s.HZInner = scaleDistance(inner)
		s.HZOuter = scaleDistance(outer)
		s.HasHZ = true
	}

	return s
}

// ScaleDistance maps AU to scene units with this system's distance scale.
func (s *System) ScaleDistance(au float64) float64 {
	return s.scaleDistance(au)
}

// Angle returns body i's orbit angle after elapsedSec seconds.
func (s *System) Angle(i int, elapsedSec, speed float64, mode AnimationMode) float64 {
	period := s.Bodies[i].Orbit.PeriodDays
	if mode == AnimateLogPeriod {
		return astro.LogPeriodAngularSpeed(period, astro.DefaultBaseOrbitSeconds) * elapsedSec * speed
	}
	return astro.OrbitAngle(elapsedSec, s.ShortestPeriod, period, speed)
}

// Positions returns every body's position for one frame.
func (s *System) Positions(elapsedSec, speed float64, mode AnimationMode) []astro.Vec3 {
	out := make([]astro.Vec3, len(s.Bodies))
	for i, b := range s.Bodies {
		out[i] = b.Orbit.PositionAt(s.Angle(i, elapsedSec, speed, mode))
	}
	return out
}

// OrbitPath samples body i's orbit.
func (s *System) OrbitPath(i, segments int) []astro.Vec3 {
	o := s.Bodies[i].Orbit
	return astro.OrbitPath(o.SemiMajorAxis, o.Eccentricity, o.InclinationDeg, segments)
}

// HitTest returns the body whose orbit tube the ray from origin along dir
// passes through, preferring the orbit the ray passes closest to. Each orbit
// is tested as the polyline drawn for it, so inclined and eccentric orbits
// are hit wherever they appear on screen.
func (s *System) HitTest(origin, dir astro.Vec3) (int, bool) {
	dir = dir.Normalized()
	best, bestDist := -1, math.Inf(1)
	for i, b := range s.Bodies {
		a := b.Orbit.SemiMajorAxis
		if a <= 0 {
			continue
		}

		d := math.Inf(1)
		path := s.OrbitPath(i, astro.DefaultOrbitSegments)
		for k := 1; k < len(path); k++ {
			d = math.Min(d, raySegmentDistance(origin, dir, path[k-1], path[k]))
		}
		if d <= tubeRadius(a) && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

func tubeRadius(a float64) float64 {
	return math.Max(a*OrbitTubeFraction, minOrbitTube)
}

// raySegmentDistance is the closest approach between the ray o + t·u (t >= 0,
// u unit length) and the segment p0-p1.
func raySegmentDistance(o, u, p0, p1 astro.Vec3) float64 {
	v := p1.Sub(p0)
	w := o.Sub(p0)
	b, c := u.Dot(v), v.Dot(v)
	d, e := u.Dot(w), v.Dot(w)

	var s float64
	if denom := c - b*b; c > 0 && denom > 1e-12 {
		s = astro.Clamp((e-b*d)/denom, 0, 1)
	}
	t := math.Max(s*b-d, 0)
	if c > 0 {
		s = astro.Clamp((e+t*b)/c, 0, 1)
	}
	return o.Add(u.Scale(t)).Distance(p0.Add(v.Scale(s)))
}
