// Package catalog fetches stars, planets and habitable-planet listings from
// the Exoplanet Hunter API and turns them into values the astro core can use.
package catalog

// Star is a catalog star as returned by GET /Stars.
type Star struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	NameHD         *string  `json:"nameHD,omitempty"`
	NameHIP        *string  `json:"nameHIP,omitempty"`
	Constellation  *string  `json:"constellation,omitempty"`
	Type           *string  `json:"type,omitempty"`   // spectral type
	Mass           *float64 `json:"mass,omitempty"`   // solar masses
	Radius         *float64 `json:"radius,omitempty"` // solar radii
	Teff           *float64 `json:"teff,omitempty"`   // K
	Luminosity     *float64 `json:"luminosity,omitempty"`
	FeH            *float64 `json:"feH,omitempty"`
	Age            *float64 `json:"age,omitempty"` // Gyr
	ApparMag       *float64 `json:"apparMag,omitempty"`
	Distance       *float64 `json:"distance,omitempty"` // parsecs
	RA             *float64 `json:"ra,omitempty"`       // hours
	Dec            *float64 `json:"dec,omitempty"`      // degrees
	MagFromPlanet  *float64 `json:"magfromPlanet,omitempty"`
	SizeFromPlanet *float64 `json:"sizefromPlanet,omitempty"`
	HabZoneMin     *float64 `json:"habZoneMin,omitempty"` // AU
	HabZoneMax     *float64 `json:"habZoneMax,omitempty"` // AU
	HabCat         *bool    `json:"habCat,omitempty"`
	Planets        *int     `json:"planets,omitempty"` // planet count
	Message        *string  `json:"message,omitempty"`
}

// Planet is one planet of a system as returned by
// GET /ExoSolarSystems/GetPlanetsByStarId/{id}.
type Planet struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	NameKepler       *string  `json:"nameKepler,omitempty"`
	NameKOI          *string  `json:"nameKOI,omitempty"`
	ZoneClass        *string  `json:"zoneClass,omitempty"`
	MassClass        *string  `json:"massClass,omitempty"`
	CompositionClass *string  `json:"compositionClass,omitempty"`
	AtmosphereClass  *string  `json:"atmosphereClass,omitempty"`
	HabitableClass   *string  `json:"habitableClass,omitempty"`
	MinMass          *float64 `json:"minMass,omitempty"`
	Mass             *float64 `json:"mass,omitempty"` // Earth masses
	MaxMass          *float64 `json:"maxMass,omitempty"`
	Radius           *float64 `json:"radius,omitempty"` // Earth radii
	Density          *float64 `json:"density,omitempty"`
	Gravity          *float64 `json:"gravity,omitempty"`
	EscVel           *float64 `json:"escVel,omitempty"`
	SFluxMean        *float64 `json:"sFluxMean,omitempty"`
	TeqMean          *float64 `json:"teqMean,omitempty"`
	TsMean           *float64 `json:"tsMean,omitempty"`
	SurfPress        *float64 `json:"surfPress,omitempty"`
	Period           *float64 `json:"period,omitempty"` // days
	SemMajorAxis     *float64 `json:"semMajorAxis,omitempty"`
	Eccentricity     *float64 `json:"eccentricity,omitempty"`
	MeanDistance     *float64 `json:"meanDistance,omitempty"` // AU
	Inclination      *float64 `json:"inclination,omitempty"`  // degrees
	Omega            *float64 `json:"omega,omitempty"`
	ESI              *float64 `json:"esi,omitempty"`
	Habitable        *bool    `json:"habitable,omitempty"`
	HabMoon          *bool    `json:"habMoon,omitempty"`
	Confirmed        *bool    `json:"confirmed,omitempty"`
	DiscMethod       *string  `json:"disc_Method,omitempty"`
	DiscYear         *int     `json:"disc_Year,omitempty"`
	Message          *string  `json:"message,omitempty"`
}

// HabitablePlanet is an entry of GET /ExoSolarSystems/GetHabitablePlanets.
type HabitablePlanet struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Period       *float64       `json:"period,omitempty"`
	HabType      *int           `json:"habType,omitempty"`
	MeanDistance *float64       `json:"meanDistance,omitempty"`
	Distance     *float64       `json:"distance,omitempty"`
	ESI          *float64       `json:"esi,omitempty"`
	Radius       float64        `json:"radius"`
	Eccentricity *float64       `json:"eccentricity,omitempty"`
	Star         *HabitableHost `json:"star,omitempty"`
}

// HabitableHost is the host-star summary embedded in a HabitablePlanet.
type HabitableHost struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Mass   float64  `json:"mass"`
	Radius float64  `json:"radius"`
	Temp   *float64 `json:"temp,omitempty"`
}

// System is a star together with its planets.
type System struct {
	Star    Star     `json:"star"`
	Planets []Planet `json:"planets"`
}
