// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/scene"
	"github.com/litescript/ls-exohunter/internal/state"
	"github.com/litescript/ls-exohunter/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewCatalog ViewMode = iota
	ViewStarMap
	ViewSystem

	viewCount = 3
)

// systemLoadTimeout bounds one system fetch started from the UI.
const systemLoadTimeout = 45 * time.Second

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals new catalog or sensor data is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a fetch error.
	ErrorMsg struct {
		Error error
	}

	// systemLoadedMsg carries the result of a system fetch.
	systemLoadedMsg struct {
		starID int
		system *catalog.System
		err    error
	}
)

// SystemLoader fetches a star together with its planets.
type SystemLoader interface {
	FetchSystem(ctx context.Context, starID int) (*catalog.System, error)
}

// Options tune the views.
type Options struct {
	Scene         scene.Options
	OrbitSpeed    float64
	StarMapRadius float64
}

// DefaultOptions returns the standard view options.
func DefaultOptions() Options {
	return Options{
		Scene:         scene.DefaultOptions(),
		OrbitSpeed:    astro.DefaultOrbitSpeed,
		StarMapRadius: scene.DefaultStarMapRadius,
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	loader SystemLoader
	opts   Options

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int // Animation tick for the spinner
	lastErr   error
	loadingID int // star whose system is being fetched, 0 when idle

	// Sub-models
	catalog CatalogModel
	starMap StarMapModel
	system  SystemModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, loader SystemLoader, opts Options) Model {
	return Model{
		state:    stateMgr,
		loader:   loader,
		opts:     opts,
		viewMode: ViewCatalog,
		catalog:  NewCatalogModel(),
		starMap:  NewStarMapModel(opts.StarMapRadius),
		system:   NewSystemModel(opts.OrbitSpeed),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.catalog.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The search prompt owns the keyboard while it is open.
		if m.viewMode == ViewCatalog && m.catalog.Searching() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			cmds = append(cmds, m.updateActiveView(msg))
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewCatalog
		case "2":
			m = m.enterStarMap()
		case "3":
			m.viewMode = ViewSystem

		case "tab":
			// Cycle through views
			next := (m.viewMode + 1) % viewCount
			if next == ViewStarMap {
				m = m.enterStarMap()
			}
			m.viewMode = next

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Propagate to sub-models
		contentHeight := msg.Height - m.headerLines() - 2
		m.catalog = m.catalog.SetSize(msg.Width, contentHeight)
		m.starMap = m.starMap.SetSize(msg.Width, contentHeight)
		m.system = m.system.SetSize(msg.Width, contentHeight)

	case tea.MouseMsg:
		if m.viewMode == ViewSystem {
			msg.Y -= m.headerLines()
			m.system, _ = m.system.Update(msg)
		}

	case TickMsg:
		cmds = append(cmds, tickCmd())
		// Request fresh snapshot
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.system, _ = m.system.Update(msg)

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.catalog = m.catalog.UpdateData(m.snapshot)
		m.starMap = m.starMap.UpdateData(m.snapshot)

	case OpenSystemMsg:
		if cmd := m.loadSystem(msg.StarID); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case systemLoadedMsg:
		if msg.starID != m.loadingID {
			// A newer request superseded this one.
			break
		}
		m.loadingID = 0
		m.state.SetSystem(msg.system, msg.err)
		m.snapshot = m.state.Snapshot()
		if msg.err != nil {
			m.lastErr = fmt.Errorf("load system %d: %w", msg.starID, msg.err)
			m.statusMsg = ""
			break
		}
		m.lastErr = nil
		m.statusMsg = fmt.Sprintf("Loaded %s (%d planets)", msg.system.Star.Name, len(msg.system.Planets))
		m.system = m.system.SetSystem(scene.NewSystem(msg.system, m.opts.Scene))
		m.viewMode = ViewSystem

	case ErrorMsg:
		m.lastErr = msg.Error
		m.catalog = m.catalog.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewCatalog:
		m.catalog, cmd = m.catalog.Update(msg)
	case ViewStarMap:
		m.starMap, cmd = m.starMap.Update(msg)
	case ViewSystem:
		m.system, cmd = m.system.Update(msg)
	}
	return cmd
}

// enterStarMap switches to the star map focused on the catalog selection.
func (m Model) enterStarMap() Model {
	if m.viewMode != ViewStarMap {
		m.starMap = m.starMap.SyncFocus(m.catalog.SelectedStarID())
	}
	m.viewMode = ViewStarMap
	return m
}

// loadSystem starts an async fetch of a star's system.
func (m *Model) loadSystem(starID int) tea.Cmd {
	if starID == 0 || m.loader == nil {
		return nil
	}

	m.loadingID = starID
	name := fmt.Sprintf("star %d", starID)
	if s, ok := catalog.FindByID(m.snapshot.Stars, starID); ok {
		name = s.Name
	}
	m.statusMsg = "Loading " + name + "..."

	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), systemLoadTimeout)
		defer cancel()
		sys, err := loader.FetchSystem(ctx, starID)
		return systemLoadedMsg{starID: starID, system: sys, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewCatalog:
		content = m.catalog.View()
	case ViewStarMap:
		content = m.starMap.View()
	case ViewSystem:
		content = m.system.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

// headerLines is the number of terminal rows above the view content.
func (m Model) headerLines() int {
	return strings.Count(m.renderHeader(), "\n") + 1
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderStatusLine()
}

var logo = []string{
	`  ██╗     ███████╗      ███████╗██╗  ██╗ ██████╗ ██╗  ██╗██╗   ██╗███╗   ██╗████████╗███████╗██████╗ `,
	`  ██║     ██╔════╝      ██╔════╝╚██╗██╔╝██╔═══██╗██║  ██║██║   ██║████╗  ██║╚══██╔══╝██╔════╝██╔══██╗`,
	`  ██║     ███████╗█████╗█████╗   ╚███╔╝ ██║   ██║███████║██║   ██║██╔██╗ ██║   ██║   █████╗  ██████╔╝`,
	`  ██║     ╚════██║╚════╝██╔══╝   ██╔██╗ ██║   ██║██╔══██║██║   ██║██║╚██╗██║   ██║   ██╔══╝  ██╔══██╗`,
	`  ███████╗███████║      ███████╗██╔╝ ██╗╚██████╔╝██║  ██║╚██████╔╝██║ ╚████║   ██║   ███████╗██║  ██║`,
	`  ╚══════╝╚══════╝      ╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝   ╚═╝   ╚══════╝╚═╝  ╚═╝`,
}

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	if m.width < lipgloss.Width(logo[0]) {
		// Narrow terminal: plain title
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
		b.WriteString("  " + title.Render("LS-EXOHUNTER") + "\n")
	} else {
		// Render each line with a horizontal truecolor gradient
		for row, line := range logo {
			runes := []rune(line)
			for col, r := range runes {
				color := gradientColor(col, row, len(runes), len(logo))
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
				b.WriteString(style.Render(string(r)))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(muted.Render("  Exoplanet Catalog · Star Map · Orbits"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// teal -> blue -> violet -> pink, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		// Teal (#2EC4B6) to Blue (#3B82F6)
		t := xRatio / 0.33
		r = lerp(46, 59, t)
		g = lerp(196, 130, t)
		b = lerp(182, 246, t)
	case xRatio < 0.66:
		// Blue to Violet (#8B5CF6)
		t := (xRatio - 0.33) / 0.33
		r = lerp(59, 139, t)
		g = lerp(130, 92, t)
		b = 246
	default:
		// Violet to Pink (#EC4899)
		t := (xRatio - 0.66) / 0.34
		r = lerp(139, 236, t)
		g = lerp(92, 72, t)
		b = lerp(246, 153, t)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightness := 1.0 - (yRatio * 0.5)

	return fmt.Sprintf("#%02X%02X%02X",
		int(astro.Clamp(r*brightness, 0, 255)),
		int(astro.Clamp(g*brightness, 0, 255)),
		int(astro.Clamp(b*brightness, 0, 255)))
}

func (m Model) renderStatusLine() string {
	return m.renderTabs() + "\n"
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Catalog", "[2] Star Map", "[3] System"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.lastErr != nil:
		status = errStyle.Render("ERROR: " + m.lastErr.Error())
	case m.snapshot.LastError != nil:
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.loadingID != 0:
		status = accentStyle.Render(spinner) + " " + dimStyle.Render(m.statusMsg)
	case !m.snapshot.LastFetch.IsZero():
		countdown := time.Until(m.snapshot.NextRefresh).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = dimStyle.Render(fmt.Sprintf("%d stars | refresh in %s", len(m.snapshot.Stars), countdown))
		if m.snapshot.FetchDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.FetchDuration.Round(time.Millisecond).String() + ")")
		}
		if m.snapshot.HasSensor {
			status += accentStyle.Render(" | device")
		}
	default:
		status = accentStyle.Render(spinner) + " " + dimStyle.Render("Waiting for catalog...")
	}

	// View-specific help hints
	var help string
	switch m.viewMode {
	case ViewStarMap:
		help = "arrows: rotate | j/k: focus | p: follow device | l: labels | enter: open"
	case ViewSystem:
		help = "j/k: focus | +/-: speed | m: mode | space: pause | l: labels | arrows/</>: camera"
	default:
		help = "↑↓: navigate | /: search | h: habitable | enter: open | tab: switch view"
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)

	if m.statusMsg != "" && m.loadingID == 0 && m.lastErr == nil {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
