package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-exohunter/internal/astro"
)

// SnapshotExport is the JSON-serializable representation of the catalog.
type SnapshotExport struct {
	FetchedAt      time.Time    `json:"fetched_at"`
	Source         string       `json:"source"`
	StarCount      int          `json:"star_count"`
	HabitableCount int          `json:"habitable_count"`
	Stars          []StarExport `json:"stars"`
}

// StarExport is a JSON-friendly star with defaults applied.
type StarExport struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Constellation string  `json:"constellation,omitempty"`
	RAHours       float64 `json:"ra_hours"`
	DecDeg        float64 `json:"dec_deg"`
	DistancePC    float64 `json:"distance_pc,omitempty"`
	Mass          float64 `json:"mass_solar"`
	Radius        float64 `json:"radius_solar"`
	Planets       int     `json:"planets"`
	Habitable     bool    `json:"habitable"`
}

// ExportSnapshot converts the catalog to an exportable format.
func ExportSnapshot(stars []Star, idx HabitableIndex, source string, fetchedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		FetchedAt: fetchedAt,
		Source:    source,
		StarCount: len(stars),
		Stars:     make([]StarExport, 0, len(stars)),
	}

	for _, s := range Filter(stars, "", false, idx) {
		habitable := idx.Has(s.Name)
		if habitable {
			export.HabitableCount++
		}
		export.Stars = append(export.Stars, StarExport{
			ID:            s.ID,
			Name:          s.Name,
			Type:          s.SpectralType(),
			Constellation: stringOr(s.Constellation, ""),
			RAHours:       s.RAHours(),
			DecDeg:        s.DecDeg(),
			DistancePC:    valueOr(s.Distance, 0),
			Mass:          s.MassOrDefault(),
			Radius:        s.RadiusOrDefault(),
			Planets:       planetCount(s),
			Habitable:     habitable,
		})
	}

	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	ID        int
	Name      string
	Type      string
	RA        string
	Dec       string
	Distance  string
	Planets   int
	Habitable bool
}

// GenerateSummaryRows creates summary rows for the filtered star list.
func GenerateSummaryRows(stars []Star, idx HabitableIndex) []SummaryRow {
	rows := make([]SummaryRow, 0, len(stars))
	for _, s := range stars {
		dist := "-"
		if s.Distance != nil {
			dist = astro.FormatMagnitude(*s.Distance, "pc")
		}
		rows = append(rows, SummaryRow{
			ID:        s.ID,
			Name:      s.Name,
			Type:      s.SpectralType(),
			RA:        fmt.Sprintf("%.2fh", s.RAHours()),
			Dec:       fmt.Sprintf("%+.2f°", s.DecDeg()),
			Distance:  dist,
			Planets:   planetCount(s),
			Habitable: idx.Has(s.Name),
		})
	}
	return rows
}

// WriteSummaryTable writes a text table of stars to the given writer. total
// is the size of the unfiltered catalog.
func WriteSummaryTable(w io.Writer, stars []Star, total int, idx HabitableIndex, timestamp time.Time) {
	rows := GenerateSummaryRows(stars, idx)

	fmt.Fprintf(w, "Exoplanet catalog @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No matching stars")
		return
	}

	fmt.Fprintf(w, "%-6s %-22s %-6s %-8s %-9s %-12s %-7s %-3s\n",
		"ID", "Name", "Type", "RA", "Dec", "Distance", "Planets", "HZ")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, r := range rows {
		hz := ""
		if r.Habitable {
			hz = "yes"
		}
		fmt.Fprintf(w, "%-6d %-22s %-6s %-8s %-9s %-12s %7d %-3s\n",
			r.ID,
			truncateStr(r.Name, 22),
			truncateStr(r.Type, 6),
			r.RA,
			r.Dec,
			r.Distance,
			r.Planets,
			hz,
		)
	}

	fmt.Fprintf(w, "\nShowing %d of %d stars\n", len(rows), total)
}

// WriteSystemTable writes the orbit table of a system.
func WriteSystemTable(w io.Writer, sys *System) {
	fmt.Fprintf(w, "%s (%s)\n", sys.Star.Name, sys.Star.SpectralType())
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(sys.Planets) == 0 {
		fmt.Fprintln(w, "No known planets")
		return
	}

	fmt.Fprintf(w, "%-22s %-12s %-12s %-8s %-8s %-6s\n",
		"Planet", "Distance", "Period", "Ecc", "Incl", "HZ")
	for _, p := range sys.Planets {
		hz := ""
		if p.IsHabitable() {
			hz = "yes"
		}
		fmt.Fprintf(w, "%-22s %-12s %-12s %-8s %-8s %-6s\n",
			truncateStr(p.Name, 22),
			astro.FormatMagnitude(p.MeanDistanceAU(), "AU"),
			astro.FormatMagnitude(p.PeriodDays(), "d"),
			astro.FormatMagnitude(p.EccentricityOrZero(), ""),
			astro.FormatMagnitude(p.InclinationDeg(), "°"),
			hz,
		)
	}
}

func planetCount(s Star) int {
	if s.Planets == nil {
		return 0
	}
	return *s.Planets
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
