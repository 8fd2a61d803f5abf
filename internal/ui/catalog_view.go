package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/state"
)

// Styles for the catalog list
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	habitableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorHabitable))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// OpenSystemMsg asks the root model to load and show a star's system.
type OpenSystemMsg struct {
	StarID int
}

// CatalogModel is the searchable star list.
type CatalogModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
	lastErr  error

	query         string
	searching     bool
	habitableOnly bool
	visible       []catalog.Star
}

// NewCatalogModel creates a new catalog model.
func NewCatalogModel() CatalogModel {
	return CatalogModel{}
}

// Init implements the Bubble Tea model interface.
func (m CatalogModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m CatalogModel) SetSize(width, height int) CatalogModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m CatalogModel) UpdateData(snapshot state.Snapshot) CatalogModel {
	selected := m.SelectedStarID()
	m.snapshot = snapshot
	m.refilter()
	m.selectID(selected)
	return m
}

// SetError sets the last error for display.
func (m CatalogModel) SetError(err error) CatalogModel {
	m.lastErr = err
	return m
}

// Searching reports whether the search prompt has keyboard focus.
func (m CatalogModel) Searching() bool {
	return m.searching
}

// Update handles messages.
func (m CatalogModel) Update(msg tea.Msg) (CatalogModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		return m.updateSearch(key), nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
	case "/":
		m.searching = true
	case "h":
		m.habitableOnly = !m.habitableOnly
		m.refilter()
	case "esc":
		if m.query != "" {
			m.query = ""
			m.refilter()
		}
	case "enter":
		if id := m.SelectedStarID(); id != 0 {
			return m, func() tea.Msg { return OpenSystemMsg{StarID: id} }
		}
	}
	return m, nil
}

func (m CatalogModel) updateSearch(key tea.KeyMsg) CatalogModel {
	switch key.Type {
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
		m.refilter()
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.refilter()
		}
	case tea.KeySpace:
		m.query += " "
		m.refilter()
	case tea.KeyRunes:
		m.query += string(key.Runes)
		m.refilter()
	}
	return m
}

func (m *CatalogModel) refilter() {
	m.visible = catalog.Filter(m.snapshot.Stars, m.query, m.habitableOnly, m.snapshot.HabitableIndex)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *CatalogModel) selectID(id int) {
	if id == 0 {
		return
	}
	for i, s := range m.visible {
		if s.ID == id {
			m.cursor = i
			return
		}
	}
}

// View renders the catalog.
func (m CatalogModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if len(m.snapshot.Stars) == 0 && m.lastErr == nil {
		b.WriteString("Waiting for catalog data...\n")
		return b.String()
	}

	b.WriteString(m.renderSearchBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderStarTable())

	return b.String()
}

func (m CatalogModel) renderSearchBar() string {
	prompt := "/ to search"
	if m.searching || m.query != "" {
		prompt = "Search: " + m.query
		if m.searching {
			prompt += "█"
		}
	}

	filter := "all stars"
	if m.habitableOnly {
		filter = habitableStyle.Render("habitable only")
	}

	return titleStyle.Render("Star Catalog") + "  " + searchStyle.Render(prompt) + "  [" + filter + "]"
}

func (m CatalogModel) renderStarTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-24s %-6s %-10s %-10s %-7s %-6s",
		"Star", "Type", "Distance", "Constell.", "Planets", "ESI")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString("  No matching stars\n")
		return b.String()
	}

	// Calculate visible rows based on height
	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(m.visible) {
		endIdx = len(m.visible)
	}

	for i := startIdx; i < endIdx; i++ {
		star := m.visible[i]

		dist := "-"
		if star.Distance != nil {
			dist = astro.FormatMagnitude(*star.Distance, "pc")
		}
		constellation := "-"
		if star.Constellation != nil && *star.Constellation != "" {
			constellation = *star.Constellation
		}
		planets := "-"
		if star.Planets != nil {
			planets = fmt.Sprintf("%d", *star.Planets)
		}

		row := fmt.Sprintf("%-24s %-6s %-10s %-10s %-7s ",
			truncate(star.Name, 24),
			truncate(star.SpectralType(), 6),
			dist,
			truncate(constellation, 10),
			planets,
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString(m.renderESIBar(m.bestESI(star.Name), 5))
		b.WriteString("\n")
	}

	// Scroll indicator
	b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d stars (%d total)",
		startIdx+1, endIdx, len(m.visible), len(m.snapshot.Stars)))

	return b.String()
}

// bestESI returns the highest Earth Similarity Index among the star's
// habitable planets, or -1 when it has none.
func (m CatalogModel) bestESI(starName string) float64 {
	best := -1.0
	for _, p := range catalog.PlanetsOf(m.snapshot.Habitable, starName) {
		if p.ESI != nil && *p.ESI > best {
			best = *p.ESI
		}
	}
	return best
}

// renderESIBar draws an ESI in [0, 1] as a bar of width cells. Stars
// without habitable planets get a blank bar.
func (m CatalogModel) renderESIBar(esi float64, width int) string {
	if esi < 0 {
		return strings.Repeat(" ", width)
	}
	filled := int(astro.Clamp(esi, 0, 1)*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return habitableStyle.Render(bar)
}

// SelectedStar returns the star under the cursor, if any.
func (m CatalogModel) SelectedStar() (catalog.Star, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Star{}, false
	}
	return m.visible[m.cursor], true
}

// SelectedStarID returns the ID of the star under the cursor, or 0.
func (m CatalogModel) SelectedStarID() int {
	s, ok := m.SelectedStar()
	if !ok {
		return 0
	}
	return s.ID
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
