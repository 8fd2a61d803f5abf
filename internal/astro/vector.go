// Package astro provides the celestial-coordinate and orbital-geometry math
// behind the star map and the planetary system view.
package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in scene space.
//
// Scene axes follow the renderer: X and Z span the orbital reference plane,
// Y points "up" (toward declination +90 on the star map).
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return r3.Norm(v.r3())
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return fromR3(r3.Scale(s, v.r3()))
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return fromR3(r3.Add(v.r3(), u.r3()))
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return fromR3(r3.Sub(v.r3(), u.r3()))
}

// Dot returns the scalar product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return r3.Dot(v.r3(), u.r3())
}

// Cross returns the vector product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return fromR3(r3.Cross(v.r3(), u.r3()))
}

// Distance returns the Euclidean distance between two points.
func (v Vec3) Distance(u Vec3) float64 {
	return v.Sub(u).Norm()
}

// IsNaN reports whether any component is NaN. Renderers skip such points.
func (v Vec3) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z)
}

func (v Vec3) r3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
