package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/scene"
)

const (
	// frameSeconds is how much animation time one frame tick advances.
	frameSeconds = 0.08

	// Discrete orbit speed multipliers
	minOrbitSpeed = 0.05
	maxOrbitSpeed = 20.0
	speedFactor   = 1.5

	systemHUDLines   = 3
	systemFieldStars = 250
	hzSegments       = 96
)

// SystemModel renders an animated planetary system.
type SystemModel struct {
	width  int
	height int

	system *scene.System
	camera scene.Camera
	field  []scene.BackgroundStar

	// Animation state
	elapsed      float64 // animation seconds
	speed        float64
	defaultSpeed float64
	mode         scene.AnimationMode
	paused       bool

	focusIdx  int // index in system bodies (-1 = host star)
	labelMode LabelMode
}

// NewSystemModel creates a new system view model with the given orbit
// speed multiplier.
func NewSystemModel(speed float64) SystemModel {
	if speed <= 0 {
		speed = astro.DefaultOrbitSpeed
	}
	return SystemModel{
		speed:        speed,
		defaultSpeed: speed,
		focusIdx:     -1,
		labelMode:    LabelFocused,
	}
}

// SetSize updates the viewport size.
func (m SystemModel) SetSize(width, height int) SystemModel {
	m.width = width
	m.height = height
	return m
}

// SetSystem replaces the displayed system and frames it.
func (m SystemModel) SetSystem(sys *scene.System) SystemModel {
	m.system = sys
	m.elapsed = 0
	m.focusIdx = -1
	if sys == nil {
		m.field = nil
		return m
	}
	m.camera = scene.NewOrbitCamera(sys.CameraDistance)
	m.field = scene.Starfield(systemFieldStars, sys.CameraDistance*20, uint64(sys.Star.ID))
	return m
}

// System returns the displayed system, or nil.
func (m SystemModel) System() *scene.System {
	return m.system
}

// Update handles input messages.
func (m SystemModel) Update(msg tea.Msg) (SystemModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j":
			m.focusNext()
		case "k":
			m.focusPrev()
		case "+", "=":
			m.speed = math.Min(m.speed*speedFactor, maxOrbitSpeed)
		case "-":
			m.speed = math.Max(m.speed/speedFactor, minOrbitSpeed)
		case "m":
			if m.mode == scene.AnimateRelative {
				m.mode = scene.AnimateLogPeriod
			} else {
				m.mode = scene.AnimateRelative
			}
		case " ", "space":
			m.paused = !m.paused
		case "l":
			m.labelMode = m.labelMode.next()

		// Camera
		case "left":
			m.camera.Rotate(-rotateStep, 0)
		case "right":
			m.camera.Rotate(rotateStep, 0)
		case "up":
			m.camera.Rotate(0, -rotateStep)
		case "down":
			m.camera.Rotate(0, rotateStep)
		case "<", ",":
			m.camera.Zoom(1.2)
		case ">", ".":
			m.camera.Zoom(1 / 1.2)
		case "r":
			if m.system != nil {
				m.camera = scene.NewOrbitCamera(m.system.CameraDistance)
			}
			m.speed = m.defaultSpeed
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if idx, ok := m.pick(msg.X, msg.Y); ok {
				m.focusIdx = idx
			}
		}

	case AnimTickMsg:
		if !m.paused && m.system != nil {
			m.elapsed += frameSeconds
		}
	}
	return m, nil
}

func (m *SystemModel) focusNext() {
	if m.system == nil || len(m.system.Bodies) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.system.Bodies) {
		m.focusIdx = -1 // Wrap to star
	}
}

func (m *SystemModel) focusPrev() {
	if m.system == nil || len(m.system.Bodies) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.system.Bodies) - 1
	}
}

func (m SystemModel) canvasSize() (int, int) {
	h := m.height - systemHUDLines
	if h < 5 {
		h = 5
	}
	return m.width, h
}

// pick maps a click at canvas cell (col, row) to the orbit under it.
func (m SystemModel) pick(col, row int) (int, bool) {
	if m.system == nil {
		return -1, false
	}
	w, h := m.canvasSize()
	if col < 0 || col >= w || row < 0 || row >= h {
		return -1, false
	}
	return m.system.HitTest(m.camera.Ray(col, row, w, h))
}

// View renders the system view.
func (m SystemModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for system view"
	}
	if m.system == nil {
		return "No system loaded. Press enter on a star in the catalog or star map."
	}

	w, h := m.canvasSize()
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(w, h).String(), m.renderHUD())
}

// bodyDraw is a projected planet waiting to be painted.
type bodyDraw struct {
	idx    int
	x, y   int
	depth  float64
	radius float64 // rows
}

func (m SystemModel) buildCanvas(width, height int) *canvas {
	c := newCanvas(width, height)
	sys := m.system

	for _, bg := range m.field {
		if bg.Brightness < 0.1 {
			continue
		}
		if x, y, _, ok := m.camera.Project(bg.Pos, width, height); ok {
			glyph := '·'
			if bg.Brightness > 0.6 {
				glyph = '∗'
			}
			c.fill(x, y, glyph, colorOrbit)
		}
	}

	if sys.HasHZ {
		m.drawRing(c, sys.HZInner, colorHabitable)
		m.drawRing(c, sys.HZOuter, colorHabitable)
	}

	for i := range sys.Bodies {
		color := lipgloss.Color(colorOrbit)
		if i == m.focusIdx {
			color = colorAccent
		}
		m.drawPath(c, sys.OrbitPath(i, astro.DefaultOrbitSegments), '·', color)
	}

	// Host star at the origin
	var marks []labelMark
	if x, y, depth, ok := m.camera.Project(astro.Vec3{}, width, height); ok {
		if r := m.camera.ProjectedRadius(sys.StarRadius, depth, height); r >= 1 {
			c.disc(x, y, r, scene.CellAspect, '█', colorStar)
		}
		c.set(x, y, '✹', colorStar)
		marks = append(marks, labelMark{x: x, y: y, name: sys.Star.Name, isFocused: m.focusIdx == -1, color: colorStar})
	}

	// Planets, far to near
	var draws []bodyDraw
	for i, p := range sys.Positions(m.elapsed, m.speed, m.mode) {
		x, y, depth, ok := m.camera.Project(p, width, height)
		if !ok {
			continue
		}
		draws = append(draws, bodyDraw{
			idx:    i,
			x:      x,
			y:      y,
			depth:  depth,
			radius: m.camera.ProjectedRadius(sys.Bodies[i].Radius, depth, height),
		})
	}
	sort.Slice(draws, func(a, b int) bool { return draws[a].depth > draws[b].depth })

	for _, d := range draws {
		body := sys.Bodies[d.idx]
		isFocused := d.idx == m.focusIdx

		color := lipgloss.Color("39")
		if body.Habitable {
			color = colorHabitable
		}
		if isFocused {
			color = colorFocus
		}

		if d.radius >= 1 {
			c.disc(d.x, d.y, d.radius, scene.CellAspect, '●', color)
		}
		glyph := '•'
		if isFocused {
			glyph = '●'
		}
		c.set(d.x, d.y, glyph, color)
		marks = append(marks, labelMark{x: d.x, y: d.y, name: body.Name(), isFocused: isFocused, color: colorLabel})
	}

	drawLabels(c, m.labelMode, marks)
	return c
}

// drawPath connects projected points of a closed path.
func (m SystemModel) drawPath(c *canvas, path []astro.Vec3, glyph rune, color lipgloss.Color) {
	prevX, prevY, havePrev := 0, 0, false
	for _, p := range path {
		x, y, _, ok := m.camera.Project(p, c.width, c.height)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev {
			c.line(prevX, prevY, x, y, glyph, color)
		}
		prevX, prevY, havePrev = x, y, true
	}
}

// drawRing draws a circle of the given radius in the orbital plane.
func (m SystemModel) drawRing(c *canvas, radius float64, color lipgloss.Color) {
	if radius <= 0 {
		return
	}
	path := make([]astro.Vec3, hzSegments+1)
	for i := range path {
		theta := 2 * math.Pi * float64(i) / hzSegments
		path[i] = astro.Vec3{X: radius * math.Cos(theta), Z: radius * math.Sin(theta)}
	}
	m.drawPath(c, path, '∙', color)
}

func (m SystemModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label + " "))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("  ")
	}

	sys := m.system
	if body, ok := m.FocusedBody(); ok {
		b.WriteString(headerStyle.Render("◆ " + body.Name()))
		b.WriteString("  ")
		field("a:", astro.FormatMagnitude(body.Planet.MeanDistanceAU(), "AU"))
		field("Period:", astro.FormatMagnitude(body.Orbit.PeriodDays, "d"))
		field("e:", fmt.Sprintf("%g", astro.SignificantDigits(body.Orbit.Eccentricity)))
		field("i:", fmt.Sprintf("%g°", astro.SignificantDigits(body.Orbit.InclinationDeg)))
		if r := body.Planet.RadiusOrZero(); r > 0 {
			field("Radius:", astro.FormatMagnitude(r, "R⊕"))
		}
		if body.Habitable {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colorHabitable)).Render("habitable"))
		}
	} else {
		b.WriteString(headerStyle.Render("✹ " + sys.Star.Name))
		b.WriteString("  ")
		field("Type:", sys.Star.SpectralType())
		field("Mass:", astro.FormatMagnitude(sys.Star.MassOrDefault(), "M☉"))
		field("Radius:", astro.FormatMagnitude(sys.Star.RadiusOrDefault(), "R☉"))
		field("Planets:", fmt.Sprintf("%d", len(sys.Bodies)))
	}
	b.WriteString("\n")

	if sys.HasHZ {
		inner, outer, _ := sys.Star.HabitableZone()
		field("HZ:", fmt.Sprintf("%g-%g AU", astro.SignificantDigits(inner), astro.SignificantDigits(outer)))
	}

	state := "running"
	if m.paused {
		state = "paused"
	}
	b.WriteString(dimStyle.Render("Mode:"))
	b.WriteString(valueStyle.Render(m.mode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Speed:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%gx", astro.SignificantDigits(m.speed))))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(state))

	return b.String()
}

// FocusedBody returns the focused planet; ok is false when the host star is
// focused.
func (m SystemModel) FocusedBody() (scene.Body, bool) {
	if m.system == nil || m.focusIdx < 0 || m.focusIdx >= len(m.system.Bodies) {
		return scene.Body{}, false
	}
	return m.system.Bodies[m.focusIdx], true
}

// Speed returns the current orbit speed multiplier.
func (m SystemModel) Speed() float64 {
	return m.speed
}

// Paused reports whether the animation is stopped.
func (m SystemModel) Paused() bool {
	return m.paused
}
