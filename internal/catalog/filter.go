package catalog

import (
	"sort"
	"strings"
)

// HabitableIndex is the set of star names hosting at least one potentially
// habitable planet.
type HabitableIndex map[string]struct{}

// NewHabitableIndex indexes planets by host-star name.
func NewHabitableIndex(planets []HabitablePlanet) HabitableIndex {
	idx := make(HabitableIndex, len(planets))
	for _, p := range planets {
		if p.Star != nil && p.Star.Name != "" {
			idx[p.Star.Name] = struct{}{}
		}
	}
	return idx
}

// Has reports whether the named star hosts a habitable planet. The Sun
// always does.
func (idx HabitableIndex) Has(starName string) bool {
	if starName == SunName {
		return true
	}
	_, ok := idx[starName]
	return ok
}

// PlanetsOf returns the habitable planets orbiting the named star.
func PlanetsOf(planets []HabitablePlanet, starName string) []HabitablePlanet {
	var out []HabitablePlanet
	for _, p := range planets {
		if p.Star != nil && p.Star.Name == starName {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns the stars whose name contains query (case-insensitive),
// optionally only those in idx, sorted by name. The input is not modified.
func Filter(stars []Star, query string, habitableOnly bool, idx HabitableIndex) []Star {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Star, 0, len(stars))
	for _, s := range stars {
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) {
			continue
		}
		if habitableOnly && !idx.Has(s.Name) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lessName(out[i].Name, out[j].Name)
	})
	return out
}

// FindByID returns the star with the given ID.
func FindByID(stars []Star, id int) (Star, bool) {
	for _, s := range stars {
		if s.ID == id {
			return s, true
		}
	}
	return Star{}, false
}

// lessName orders names case-insensitively, breaking ties on the raw bytes.
func lessName(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
