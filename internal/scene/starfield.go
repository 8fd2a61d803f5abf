package scene

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-exohunter/internal/astro"
)

// BackgroundStar is a decorative star on a distant shell.
type BackgroundStar struct {
	Pos        astro.Vec3
	Brightness float64 // 0..1
}

// Starfield scatters n stars uniformly over a sphere of the given radius.
// The same seed always yields the same field, so the background does not
// flicker between frames.
func Starfield(n int, radius float64, seed uint64) []BackgroundStar {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	stars := make([]BackgroundStar, n)
	for i := range stars {
		// Uniform on the sphere: z uniform in [-1, 1], longitude uniform.
		z := rng.Float64()*2 - 1
		lon := rng.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)

		stars[i] = BackgroundStar{
			Pos: astro.Vec3{
				X: radius * r * math.Cos(lon),
				Y: radius * z,
				Z: radius * r * math.Sin(lon),
			},
			// Skew toward dim stars.
			Brightness: math.Pow(rng.Float64(), 3),
		}
	}
	return stars
}
