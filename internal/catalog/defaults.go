package catalog

import "github.com/litescript/ls-exohunter/internal/astro"

// Fallbacks for fields the API leaves null.
const (
	DefaultStarMass       = 1.0 // solar masses
	DefaultStarRadius     = 1.0 // solar radii
	DefaultPeriodDays     = 1.0
	DefaultMeanDistanceAU = 0.1
)

// SunName is the catalog name of our own star. It counts as habitable even
// though no habitable-planet entry points at it.
const SunName = "Sun"

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// MassOrDefault returns the star mass, 1 when unknown.
func (s Star) MassOrDefault() float64 {
	return valueOr(s.Mass, DefaultStarMass)
}

// RadiusOrDefault returns the star radius, 1 when unknown.
func (s Star) RadiusOrDefault() float64 {
	return valueOr(s.Radius, DefaultStarRadius)
}

// RAHours returns the right ascension, 0 when unknown.
func (s Star) RAHours() float64 {
	return valueOr(s.RA, 0)
}

// DecDeg returns the declination, 0 when unknown.
func (s Star) DecDeg() float64 {
	return valueOr(s.Dec, 0)
}

// Coord returns the star's sky position.
func (s Star) Coord() astro.EquatorialCoord {
	return astro.EquatorialCoord{RAHours: s.RAHours(), DecDeg: s.DecDeg()}
}

// SpectralType returns the spectral type or "?".
func (s Star) SpectralType() string {
	return stringOr(s.Type, "?")
}

// HabitableZone returns the habitable-zone bounds in AU. ok is false unless
// both bounds are known.
func (s Star) HabitableZone() (inner, outer float64, ok bool) {
	if s.HabZoneMin == nil || s.HabZoneMax == nil {
		return 0, 0, false
	}
	return *s.HabZoneMin, *s.HabZoneMax, true
}

// PeriodDays returns the orbital period, 1 day when unknown.
func (p Planet) PeriodDays() float64 {
	return valueOr(p.Period, DefaultPeriodDays)
}

// MeanDistanceAU returns the mean orbital distance, falling back to the
// semi-major axis and then to 0.1 AU.
func (p Planet) MeanDistanceAU() float64 {
	if p.MeanDistance != nil {
		return *p.MeanDistance
	}
	return valueOr(p.SemMajorAxis, DefaultMeanDistanceAU)
}

// EccentricityOrZero returns the eccentricity, 0 when unknown.
func (p Planet) EccentricityOrZero() float64 {
	return valueOr(p.Eccentricity, 0)
}

// InclinationDeg returns the inclination, 0 when unknown.
func (p Planet) InclinationDeg() float64 {
	return valueOr(p.Inclination, 0)
}

// RadiusOrZero returns the planet radius in Earth radii, 0 when unknown.
func (p Planet) RadiusOrZero() float64 {
	return valueOr(p.Radius, 0)
}

// IsHabitable reports the catalog's habitable flag.
func (p Planet) IsHabitable() bool {
	return p.Habitable != nil && *p.Habitable
}

// Elements returns the planet's orbit with the distance passed through scale.
func (p Planet) Elements(scale astro.ScalingFunction) astro.OrbitalElements {
	return astro.OrbitalElements{
		SemiMajorAxis:  scale(p.MeanDistanceAU()),
		Eccentricity:   p.EccentricityOrZero(),
		InclinationDeg: p.InclinationDeg(),
		PeriodDays:     p.PeriodDays(),
	}
}

// MeanDistances returns every planet's mean distance in AU.
func (s System) MeanDistances() []float64 {
	out := make([]float64, len(s.Planets))
	for i, p := range s.Planets {
		out[i] = p.MeanDistanceAU()
	}
	return out
}

// Radii returns every planet's radius in Earth radii.
func (s System) Radii() []float64 {
	out := make([]float64, len(s.Planets))
	for i, p := range s.Planets {
		out[i] = p.RadiusOrZero()
	}
	return out
}

// Periods returns every planet's period in days.
func (s System) Periods() []float64 {
	out := make([]float64, len(s.Planets))
	for i, p := range s.Planets {
		out[i] = p.PeriodDays()
	}
	return out
}
