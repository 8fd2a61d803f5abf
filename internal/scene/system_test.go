package scene

import (
	"math"
	"testing"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
)

func bptr(v bool) *bool { return &v }

func testSystem() *catalog.System {
	return &catalog.System{
		Star: catalog.Star{Name: "Kepler-186", Radius: fptr(0.52), HabZoneMin: fptr(0.22), HabZoneMax: fptr(0.4)},
		Planets: []catalog.Planet{
			{Name: "b", MeanDistance: fptr(0.0378), Period: fptr(3.89), Radius: fptr(1.07)},
			{Name: "f", MeanDistance: fptr(0.432), Period: fptr(129.9), Radius: fptr(1.17), Habitable: bptr(true), Inclination: fptr(10)},
			{Name: "x", MeanDistance: fptr(0.1), Period: fptr(0), Eccentricity: fptr(1.2)},
		},
	}
}

func TestNewSystem(t *testing.T) {
	s := NewSystem(testSystem(), DefaultOptions())

	if len(s.Bodies) != 3 {
		t.Fatalf("bodies = %d, want 3", len(s.Bodies))
	}
	if math.Abs(s.MaxScaled-astro.DefaultDistanceTargetMax) > 1e-9 {
		t.Errorf("MaxScaled = %v, want %v", s.MaxScaled, astro.DefaultDistanceTargetMax)
	}
	if math.Abs(s.CameraDistance-s.MaxScaled*1.5) > 1e-9 {
		t.Errorf("CameraDistance = %v", s.CameraDistance)
	}
	if s.ShortestPeriod != 1 {
		// planet x has period 0, which is replaced by the 1-day default
		t.Errorf("ShortestPeriod = %v, want 1", s.ShortestPeriod)
	}
	if s.StarRadius < 3 {
		t.Errorf("StarRadius = %v, want >= 3", s.StarRadius)
	}
	if !s.HasHZ || s.HZInner <= 0 || s.HZOuter <= s.HZInner || s.HZOuter > s.MaxScaled {
		t.Errorf("habitable zone = %v..%v (%v)", s.HZInner, s.HZOuter, s.HasHZ)
	}

	x := s.Bodies[2]
	if x.Orbit.Eccentricity >= 1 {
		t.Errorf("eccentricity not clamped: %v", x.Orbit.Eccentricity)
	}
	if x.Radius != astro.DefaultRadiusMinSize {
		t.Errorf("radius of unknown-size planet = %v, want %v", x.Radius, astro.DefaultRadiusMinSize)
	}
	if !s.Bodies[1].Habitable || s.Bodies[1].Name() != "f" {
		t.Errorf("body f = %+v", s.Bodies[1])
	}
}

func TestNewSystemEmpty(t *testing.T) {
	s := NewSystem(&catalog.System{Star: catalog.Star{Name: "Lonely"}}, DefaultOptions())

	if len(s.Bodies) != 0 || s.MaxScaled != 0 {
		t.Errorf("unexpected bodies: %+v", s.Bodies)
	}
	if s.CameraDistance <= 0 {
		t.Errorf("CameraDistance = %v, want > 0", s.CameraDistance)
	}
	if s.ShortestPeriod != 1 {
		t.Errorf("ShortestPeriod = %v, want 1", s.ShortestPeriod)
	}
	if got := s.Positions(10, 1, AnimateRelative); len(got) != 0 {
		t.Errorf("Positions = %v, want empty", got)
	}
}

func TestPositionsStayOnOrbit(t *testing.T) {
	s := NewSystem(testSystem(), DefaultOptions())

	for _, mode := range []AnimationMode{AnimateRelative, AnimateLogPeriod} {
		for _, elapsed := range []float64{0, 1.5, 17, 300} {
			for i, p := range s.Positions(elapsed, astro.DefaultOrbitSpeed, mode) {
				b := s.Bodies[i]
				if b.Orbit.Eccentricity == 0 && math.Abs(p.Norm()-b.Orbit.SemiMajorAxis) > 1e-6 {
					t.Errorf("%s mode=%v t=%v: |p| = %v, want %v", b.Name(), mode, elapsed, p.Norm(), b.Orbit.SemiMajorAxis)
				}
				if p.IsNaN() {
					t.Errorf("%s mode=%v t=%v: NaN position", b.Name(), mode, elapsed)
				}
			}
		}
	}
}

func TestAngleRelativeOrdering(t *testing.T) {
	s := NewSystem(testSystem(), DefaultOptions())

	// planet b (3.89 d) moves faster than f (129.9 d)
	if s.Angle(0, 10, 1, AnimateRelative) <= s.Angle(1, 10, 1, AnimateRelative) {
		t.Error("shorter period should advance further")
	}
	if s.Angle(0, 10, 1, AnimateLogPeriod) <= s.Angle(1, 10, 1, AnimateLogPeriod) {
		t.Error("shorter period should advance further in log mode")
	}
}

func soloSystem(e, incl float64) *System {
	return NewSystem(&catalog.System{
		Star: catalog.Star{Name: "Solo"},
		Planets: []catalog.Planet{
			{Name: "Solo b", MeanDistance: fptr(1), Period: fptr(10), Eccentricity: fptr(e), Inclination: fptr(incl)},
		},
	}, DefaultOptions())
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		e, incl float64
	}{
		{0, 0},
		{0, 30},
		{0, 60},
		{0, 89},
		{0.5, 0},
		{0.5, 60},
		{0.5, 89},
		{0.9, 89},
	}
	for _, tt := range tests {
		s := soloSystem(tt.e, tt.incl)
		eye := NewOrbitCamera(s.CameraDistance).Eye()
		orbit := s.Bodies[0].Orbit

		var hits, nearHits int
		for k := 0; k < 36; k++ {
			on := orbit.PositionAt(float64(k) * 10 * math.Pi / 180)
			if i, ok := s.HitTest(eye, on.Sub(eye)); ok && i == 0 {
				hits++
			}
			// inside the tube, just outside the orbit
			near := on.Scale(1 + 0.5*OrbitTubeFraction)
			if i, ok := s.HitTest(eye, near.Sub(eye)); ok && i == 0 {
				nearHits++
			}
		}
		if hits != 36 || nearHits != 36 {
			t.Errorf("e=%v incl=%v: hits %d/36, near hits %d/36", tt.e, tt.incl, hits, nearHits)
		}

		if _, ok := s.HitTest(eye, astro.Vec3{}.Sub(eye)); ok {
			t.Errorf("e=%v incl=%v: ray at the star should miss", tt.e, tt.incl)
		}
		wide := orbit.PositionAt(0).Scale(1.5)
		if _, ok := s.HitTest(eye, wide.Sub(eye)); ok {
			t.Errorf("e=%v incl=%v: ray outside the orbit should miss", tt.e, tt.incl)
		}
		if _, ok := s.HitTest(eye, eye); ok {
			t.Errorf("e=%v incl=%v: ray pointing away should miss", tt.e, tt.incl)
		}
	}
}

func TestRaySegmentDistance(t *testing.T) {
	p0 := astro.Vec3{X: -1, Y: 0, Z: -5}
	p1 := astro.Vec3{X: 1, Y: 0, Z: -5}
	tests := []struct {
		name   string
		origin astro.Vec3
		dir    astro.Vec3
		want   float64
	}{
		{"through", astro.Vec3{}, astro.Vec3{Z: -1}, 0},
		{"above", astro.Vec3{Y: 2}, astro.Vec3{Z: -1}, 2},
		{"past end", astro.Vec3{X: 4}, astro.Vec3{Z: -1}, 3},
		{"behind origin", astro.Vec3{Z: -8}, astro.Vec3{Z: -1}, 3},
		{"parallel", astro.Vec3{Y: 1, Z: -5}, astro.Vec3{X: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := raySegmentDistance(tt.origin, tt.dir, p0, p1); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrbitPath(t *testing.T) {
	s := NewSystem(testSystem(), DefaultOptions())
	pts := s.OrbitPath(1, 64)
	if len(pts) != 65 || pts[0] != pts[64] {
		t.Errorf("OrbitPath: len %d, closed %v", len(pts), pts[0] == pts[64])
	}
}

func TestAnimationModeString(t *testing.T) {
	if AnimateRelative.String() != "relative" || AnimateLogPeriod.String() != "log" {
		t.Errorf("mode names: %s, %s", AnimateRelative, AnimateLogPeriod)
	}
}
