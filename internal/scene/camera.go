package scene

import (
	"math"

	"github.com/litescript/ls-exohunter/internal/astro"
)

const (
	// DefaultFOVDeg is the vertical field of view.
	DefaultFOVDeg = 50.0

	// CellAspect is how many columns make up one row's height on a
	// typical terminal.
	CellAspect = 2.0

	maxPitchDeg = 89.0
	nearPlane   = 1e-3
)

var worldUp = astro.Vec3{X: 0, Y: 1, Z: 0}

// Camera looks along the direction given by Yaw and Pitch at Target, from
// Distance units away. Distance 0 puts the eye at Target, which is how the
// star map looks out at the celestial sphere.
type Camera struct {
	Target   astro.Vec3
	Distance float64
	YawDeg   float64 // 0 looks down -Z, positive turns toward +X
	PitchDeg float64 // positive looks up
	FOVDeg   float64
}

// NewOrbitCamera frames a system from distance, slightly above the plane.
func NewOrbitCamera(distance float64) Camera {
	return Camera{
		Distance: distance,
		PitchDeg: -math.Atan2(0.3, 1.5) * 180 / math.Pi,
		FOVDeg:   DefaultFOVDeg,
	}
}

// NewSkyCamera is a camera at the origin looking out along RA 0h, Dec 0°.
func NewSkyCamera() Camera {
	c := Camera{FOVDeg: 60}
	c.LookAt(astro.Vec3{X: 1})
	return c
}

// Forward returns the unit view direction.
func (c Camera) Forward() astro.Vec3 {
	yaw := c.YawDeg * math.Pi / 180
	pitch := c.PitchDeg * math.Pi / 180
	return astro.Vec3{
		X: math.Cos(pitch) * math.Sin(yaw),
		Y: math.Sin(pitch),
		Z: -math.Cos(pitch) * math.Cos(yaw),
	}
}

// Eye returns the camera position.
func (c Camera) Eye() astro.Vec3 {
	return c.Target.Sub(c.Forward().Scale(c.Distance))
}

// LookAt turns the camera to face dir.
func (c *Camera) LookAt(dir astro.Vec3) {
	d := dir.Normalized()
	if d.Norm() == 0 {
		return
	}
	c.YawDeg = math.Atan2(d.X, -d.Z) * 180 / math.Pi
	c.PitchDeg = astro.Clamp(math.Asin(astro.Clamp(d.Y, -1, 1))*180/math.Pi, -maxPitchDeg, maxPitchDeg)
}

// Rotate turns the camera by the given yaw and pitch deltas.
func (c *Camera) Rotate(dYawDeg, dPitchDeg float64) {
	c.YawDeg = math.Mod(c.YawDeg+dYawDeg, 360)
	c.PitchDeg = astro.Clamp(c.PitchDeg+dPitchDeg, -maxPitchDeg, maxPitchDeg)
}

// Zoom multiplies the orbit distance by factor.
func (c *Camera) Zoom(factor float64) {
	if factor > 0 {
		c.Distance *= factor
	}
}

func (c Camera) basis() (fwd, right, up astro.Vec3) {
	fwd = c.Forward()
	right = fwd.Cross(worldUp).Normalized()
	up = right.Cross(fwd)
	return fwd, right, up
}

func (c Camera) focal(height int) float64 {
	fov := c.FOVDeg
	if fov <= 0 {
		fov = DefaultFOVDeg
	}
	return float64(height) / 2 / math.Tan(fov*math.Pi/360)
}

// Project maps p onto a width×height cell grid. ok is false for points
// behind the camera; col/row may fall outside the grid.
func (c Camera) Project(p astro.Vec3, width, height int) (col, row int, depth float64, ok bool) {
	fwd, right, up := c.basis()
	v := p.Sub(c.Eye())

	depth = v.Dot(fwd)
	if depth <= nearPlane {
		return 0, 0, depth, false
	}

	f := c.focal(height)
	x := v.Dot(right) / depth * f * CellAspect
	y := v.Dot(up) / depth * f

	col = int(math.Round(float64(width)/2 + x))
	row = int(math.Round(float64(height)/2 - y))
	return col, row, depth, true
}

// ProjectedRadius returns how many rows a sphere of radius r at depth
// covers.
func (c Camera) ProjectedRadius(r, depth float64, height int) float64 {
	if depth <= nearPlane {
		return 0
	}
	return r / depth * c.focal(height)
}

// Ray returns the world-space ray through the centre of a cell.
func (c Camera) Ray(col, row, width, height int) (origin, dir astro.Vec3) {
	fwd, right, up := c.basis()
	f := c.focal(height)

	x := (float64(col) - float64(width)/2) / (f * CellAspect)
	y := (float64(height)/2 - float64(row)) / f

	dir = fwd.Add(right.Scale(x)).Add(up.Scale(y)).Normalized()
	return c.Eye(), dir
}
