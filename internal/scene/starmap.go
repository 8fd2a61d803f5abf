// Package scene turns catalog data into positioned, scaled objects ready to
// be projected onto the terminal.
package scene

import (
	"math"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
)

// DefaultStarMapRadius is the radius of the sphere catalog stars sit on.
const DefaultStarMapRadius = 40.0

// MapStar is a catalog star placed on the star-map sphere.
type MapStar struct {
	Star      catalog.Star
	Coord     astro.EquatorialCoord
	Pos       astro.Vec3
	Habitable bool
}

// StarMap places catalog stars on a sphere around the observer.
type StarMap struct {
	Radius float64
	Stars  []MapStar
}

// NewStarMap builds a star map. radius <= 0 selects DefaultStarMapRadius.
func NewStarMap(stars []catalog.Star, idx catalog.HabitableIndex, radius float64) *StarMap {
	if radius <= 0 {
		radius = DefaultStarMapRadius
	}

	m := &StarMap{
		Radius: radius,
		Stars:  make([]MapStar, 0, len(stars)),
	}
	for _, s := range stars {
		coord := s.Coord()
		m.Stars = append(m.Stars, MapStar{
			Star:      s,
			Coord:     coord,
			Pos:       astro.RADecToXYZ(coord.RAHours, coord.DecDeg, radius),
			Habitable: idx.Has(s.Name),
		})
	}
	return m
}

// Nearest returns the index of the star closest in angle to dir and that
// angle in degrees. It returns -1 for an empty map or a zero direction.
func (m *StarMap) Nearest(dir astro.Vec3) (int, float64) {
	d := dir.Normalized()
	if d.Norm() == 0 {
		return -1, 0
	}

	best, bestDot := -1, -2.0
	for i, s := range m.Stars {
		dot := s.Pos.Normalized().Dot(d)
		if dot > bestDot {
			best, bestDot = i, dot
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, math.Acos(astro.Clamp(bestDot, -1, 1)) * 180 / math.Pi
}

// NearestCoord is Nearest for a sky coordinate.
func (m *StarMap) NearestCoord(eq astro.EquatorialCoord) (int, float64) {
	return m.Nearest(astro.RADecToXYZ(eq.RAHours, eq.DecDeg, 1))
}

// IndexOf returns the position of the star with the given catalog ID.
func (m *StarMap) IndexOf(id int) int {
	for i, s := range m.Stars {
		if s.Star.ID == id {
			return i
		}
	}
	return -1
}
