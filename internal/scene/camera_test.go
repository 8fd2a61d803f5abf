package scene

import (
	"math"
	"testing"

	"github.com/litescript/ls-exohunter/internal/astro"
)

func TestCameraProjectCenter(t *testing.T) {
	c := NewOrbitCamera(100)
	col, row, depth, ok := c.Project(astro.Vec3{}, 80, 24)

	if !ok {
		t.Fatal("target should be visible")
	}
	if col != 40 || row != 12 {
		t.Errorf("target at (%d, %d), want (40, 12)", col, row)
	}
	if math.Abs(depth-100) > 1e-9 {
		t.Errorf("depth = %v, want 100", depth)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	c := NewSkyCamera()
	if _, _, _, ok := c.Project(astro.Vec3{X: -10}, 80, 24); ok {
		t.Error("point behind the camera should not project")
	}
	if _, _, _, ok := c.Project(astro.Vec3{X: 10}, 80, 24); !ok {
		t.Error("point ahead should project")
	}
}

func TestCameraOrientation(t *testing.T) {
	c := Camera{Distance: 10, FOVDeg: 60}

	// +X is right, +Y is up on screen
	col, _, _, _ := c.Project(astro.Vec3{X: 1}, 80, 24)
	if col <= 40 {
		t.Errorf("+X projected to col %d, want > 40", col)
	}
	_, row, _, _ := c.Project(astro.Vec3{Y: 1}, 80, 24)
	if row >= 12 {
		t.Errorf("+Y projected to row %d, want < 12", row)
	}
}

func TestCameraLookAt(t *testing.T) {
	dirs := []astro.Vec3{
		{X: 1}, {Z: 1}, {X: -1, Y: 0.5}, {X: 0.3, Y: -0.8, Z: 0.2},
	}

	for _, d := range dirs {
		var c Camera
		c.LookAt(d)
		if !vecNear(c.Forward(), d.Normalized(), 1e-9) {
			t.Errorf("LookAt(%v): forward = %v", d, c.Forward())
		}
	}

	c := Camera{YawDeg: 12, PitchDeg: 3}
	c.LookAt(astro.Vec3{})
	if c.YawDeg != 12 || c.PitchDeg != 3 {
		t.Error("LookAt(zero) should not move the camera")
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	c := NewSkyCamera()
	c.Rotate(0, 500)
	if c.PitchDeg > maxPitchDeg {
		t.Errorf("pitch = %v, want <= %v", c.PitchDeg, maxPitchDeg)
	}
	c.Rotate(370, -1000)
	if c.PitchDeg < -maxPitchDeg || math.Abs(c.YawDeg) >= 360 {
		t.Errorf("yaw/pitch = %v/%v", c.YawDeg, c.PitchDeg)
	}
}

func TestCameraRayRoundTrip(t *testing.T) {
	c := NewOrbitCamera(300)
	c.Rotate(25, -20)

	p := astro.Vec3{X: 40, Y: 0, Z: -70}
	col, row, _, ok := c.Project(p, 240, 80)
	if !ok {
		t.Fatal("point should be visible")
	}

	origin, dir := c.Ray(col, row, 240, 80)
	along := p.Sub(origin).Dot(dir)
	if along <= 0 {
		t.Fatal("point should be in front of the ray")
	}

	// half a cell of rounding error at that depth
	if miss := origin.Add(dir.Scale(along)).Distance(p); miss > 4 {
		t.Errorf("ray passes %.2f from %v", miss, p)
	}
}

func TestStarfieldDeterministic(t *testing.T) {
	a := Starfield(50, 300, 7)
	b := Starfield(50, 300, 7)
	c := Starfield(50, 300, 8)

	if len(a) != 50 {
		t.Fatalf("len = %d, want 50", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("star %d differs for same seed", i)
		}
		if math.Abs(a[i].Pos.Norm()-300) > 1e-6 {
			t.Errorf("star %d at radius %v", i, a[i].Pos.Norm())
		}
		if a[i].Brightness < 0 || a[i].Brightness > 1 {
			t.Errorf("star %d brightness %v", i, a[i].Brightness)
		}
	}
	if a[0] == c[0] {
		t.Error("different seeds produced the same first star")
	}
}

func vecNear(a, b astro.Vec3, tol float64) bool {
	return a.Distance(b) <= tol
}
