package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/scene"
	"github.com/litescript/ls-exohunter/internal/state"
)

const (
	// Camera animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Degrees per arrow-key press
	rotateStep = 5.0

	// Star glyphs
	glyphStar          = '·'
	glyphStarBright    = '✶'
	glyphStarHabitable = '✦'
	glyphStarFocused   = '◆'
	glyphPointing      = '⊕'
	glyphTrail         = '∘'

	// Star colors by apparent magnitude (grayscale so habitable stars stand out)
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorTrail       = "#5FB7D9"
	colorPointing    = "#FF6F91"
	starMapSeed      = 42
	starMapFieldSize = 300
)

// StarMapModel renders catalog stars on the celestial sphere.
type StarMapModel struct {
	width  int
	height int

	camera scene.Camera
	radius float64

	// Animation state
	animating      bool
	animStartYaw   float64
	animStartPitch float64
	animTargYaw    float64
	animTargPitch  float64
	animStart      time.Time

	starMap  *scene.StarMap
	focusIdx int
	snapshot state.Snapshot
	field    []scene.BackgroundStar

	followPointing bool
	labelMode      LabelMode
}

// NewStarMapModel creates a new star map model. radius <= 0 selects the
// default sphere radius.
func NewStarMapModel(radius float64) StarMapModel {
	if radius <= 0 {
		radius = scene.DefaultStarMapRadius
	}
	return StarMapModel{
		camera:    scene.NewSkyCamera(),
		radius:    radius,
		starMap:   scene.NewStarMap(nil, nil, radius),
		field:     scene.Starfield(starMapFieldSize, radius*2, starMapSeed),
		labelMode: LabelFocused,
	}
}

// SetSize updates the viewport size.
func (m StarMapModel) SetSize(width, height int) StarMapModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with new data snapshot.
func (m StarMapModel) UpdateData(snapshot state.Snapshot) StarMapModel {
	focusedID := m.FocusedStarID()

	m.snapshot = snapshot
	m.starMap = scene.NewStarMap(snapshot.Stars, snapshot.HabitableIndex, m.radius)

	if idx := m.starMap.IndexOf(focusedID); idx >= 0 {
		m.focusIdx = idx
	} else if m.focusIdx >= len(m.starMap.Stars) {
		m.focusIdx = 0
	}

	if m.followPointing && snapshot.HasSensor {
		m = m.followSensor()
	}
	return m
}

// SyncFocus focuses the star with the given catalog ID, typically the one
// selected in the catalog view.
func (m StarMapModel) SyncFocus(starID int) StarMapModel {
	idx := m.starMap.IndexOf(starID)
	if idx < 0 {
		return m
	}
	m.focusIdx = idx
	if !m.followPointing {
		m.camera.LookAt(m.starMap.Stars[idx].Pos)
	}
	return m
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m StarMapModel) Update(msg tea.Msg) (StarMapModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			m.animating = false
			m.camera.Rotate(-rotateStep, 0)
		case "right":
			m.animating = false
			m.camera.Rotate(rotateStep, 0)
		case "up":
			m.animating = false
			m.camera.Rotate(0, rotateStep)
		case "down":
			m.animating = false
			m.camera.Rotate(0, -rotateStep)
		case "j":
			return m.focusNext()
		case "k":
			return m.focusPrev()
		case "p":
			m.followPointing = !m.followPointing
			if m.followPointing && m.snapshot.HasSensor {
				m = m.followSensor()
			}
		case "l":
			m.labelMode = m.labelMode.next()
		case "enter":
			if id := m.FocusedStarID(); id != 0 {
				return m, func() tea.Msg { return OpenSystemMsg{StarID: id} }
			}
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m StarMapModel) focusNext() (StarMapModel, tea.Cmd) {
	if len(m.starMap.Stars) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.starMap.Stars)
	return m.startAnimation()
}

func (m StarMapModel) focusPrev() (StarMapModel, tea.Cmd) {
	if len(m.starMap.Stars) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.starMap.Stars) - 1
	}
	return m.startAnimation()
}

// followSensor points the camera along the device and focuses the star
// nearest to where it points.
func (m StarMapModel) followSensor() StarMapModel {
	p := m.snapshot.Sensor.Pointing
	m.animating = false
	m.camera.LookAt(astro.RADecToXYZ(p.RAHours, p.DecDeg, 1))
	if idx, _ := m.starMap.NearestCoord(p); idx >= 0 {
		m.focusIdx = idx
	}
	return m
}

func (m StarMapModel) startAnimation() (StarMapModel, tea.Cmd) {
	if m.followPointing || m.focusIdx >= len(m.starMap.Stars) {
		return m, nil
	}

	target := m.camera
	target.LookAt(m.starMap.Stars[m.focusIdx].Pos)

	m.animating = true
	m.animStartYaw = m.camera.YawDeg
	m.animStartPitch = m.camera.PitchDeg
	m.animTargYaw = target.YawDeg
	m.animTargPitch = target.PitchDeg
	m.animStart = time.Now()

	return m, animTick()
}

func (m StarMapModel) updateAnimation() (StarMapModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camera.YawDeg = m.animTargYaw
		m.camera.PitchDeg = m.animTargPitch
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camera.YawDeg = lerpAngle(m.animStartYaw, m.animTargYaw, t)
	m.camera.PitchDeg = lerp(m.animStartPitch, m.animTargPitch, t)

	return m, animTick()
}

// View renders the star map.
func (m StarMapModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Star map requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(m.width, m.height-4).String())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m StarMapModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))

	center := astro.XYZToRADec(m.camera.Forward())

	follow := dimStyle.Render("Follow: off")
	switch {
	case m.followPointing && m.snapshot.HasSensor:
		follow = accentStyle.Render("Follow: device")
	case m.followPointing:
		follow = accentStyle.Render("Follow: waiting for device")
	}

	return fmt.Sprintf("%s | %s | %s | %s",
		titleStyle.Render("Star Map"),
		dimStyle.Render(fmt.Sprintf("RA:%.2fh Dec:%+.1f°", center.RAHours, center.DecDeg)),
		accentStyle.Render("Labels: "+m.labelMode.String()),
		follow,
	)
}

func (m StarMapModel) renderCanvas(width, height int) *canvas {
	c := newCanvas(width, height)

	for _, bg := range m.field {
		if bg.Brightness < 0.2 {
			continue
		}
		if x, y, _, ok := m.camera.Project(bg.Pos, width, height); ok {
			c.fill(x, y, '.', colorOrbit)
		}
	}

	var marks []labelMark
	for i, s := range m.starMap.Stars {
		x, y, _, ok := m.camera.Project(s.Pos, width, height)
		if !ok || !c.inside(x, y) {
			continue
		}

		isFocused := i == m.focusIdx
		glyph, color := m.starGlyph(s)
		if isFocused {
			glyph, color = glyphStarFocused, colorFocus
		}
		c.set(x, y, glyph, color)

		labelColor := lipgloss.Color(colorLabel)
		if s.Habitable {
			labelColor = colorHabitable
		}
		marks = append(marks, labelMark{x: x, y: y, name: s.Star.Name, isFocused: isFocused, color: labelColor})
	}

	if m.snapshot.HasSensor {
		m.drawPointing(c, width, height)
	}

	drawLabels(c, m.labelMode, marks)
	return c
}

// drawPointing draws the sensor trail and the current pointing reticle.
func (m StarMapModel) drawPointing(c *canvas, width, height int) {
	prevX, prevY, havePrev := 0, 0, false
	for _, eq := range m.snapshot.PointingTrail {
		x, y, _, ok := m.camera.Project(astro.RADecToXYZ(eq.RAHours, eq.DecDeg, m.radius), width, height)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev {
			c.line(prevX, prevY, x, y, glyphTrail, colorTrail)
		} else {
			c.fill(x, y, glyphTrail, colorTrail)
		}
		prevX, prevY, havePrev = x, y, true
	}

	p := m.snapshot.Sensor.Pointing
	if x, y, _, ok := m.camera.Project(astro.RADecToXYZ(p.RAHours, p.DecDeg, m.radius), width, height); ok {
		c.set(x, y, glyphPointing, colorPointing)
	}
}

// starGlyph picks a glyph by habitability and apparent magnitude.
func (m StarMapModel) starGlyph(s scene.MapStar) (rune, lipgloss.Color) {
	if s.Habitable {
		return glyphStarHabitable, colorHabitable
	}
	if s.Star.ApparMag == nil {
		return glyphStar, colorStarDim
	}
	switch mag := *s.Star.ApparMag; {
	case mag < 6:
		return glyphStarBright, colorStarBright
	case mag < 10:
		return glyphStar, colorStarMedium
	default:
		return glyphStar, colorStarDim
	}
}

func (m StarMapModel) renderStatus() string {
	if len(m.starMap.Stars) == 0 {
		return "No stars loaded"
	}
	if m.focusIdx >= len(m.starMap.Stars) {
		return ""
	}

	s := m.starMap.Stars[m.focusIdx]
	dist := "?"
	if s.Star.Distance != nil {
		dist = astro.FormatMagnitude(*s.Star.Distance, "pc")
	}

	line1 := fmt.Sprintf(">>> %s [%s] | RA:%.2fh Dec:%+.1f° | %s",
		s.Star.Name, s.Star.SpectralType(), s.Coord.RAHours, s.Coord.DecDeg, dist)
	if s.Habitable {
		line1 += " | habitable"
	}
	status := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocus)).Render(line1)

	if m.snapshot.HasSensor {
		obs := m.snapshot.Sensor.Observer
		alt, _ := astro.HorizontalFromEquatorial(s.Coord, obs.LatDeg, obs.LonDeg, m.snapshot.Sensor.At)
		sep := astro.AngularSeparation(m.snapshot.Sensor.Pointing, s.Coord)
		at := m.snapshot.Sensor.At
		line2 := fmt.Sprintf("    %.1f° from pointing | Alt:%.0f° (%s) | LST %.2fh (mean %.2fh)",
			sep, alt, astro.GetAltitudeTier(alt),
			astro.LocalSiderealTimeHours(at, obs.LonDeg), astro.MeanLocalSiderealTimeHours(at, obs.LonDeg))
		status += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Render(line2)
	}

	return status
}

// FocusedStarID returns the catalog ID of the focused star, or 0.
func (m StarMapModel) FocusedStarID() int {
	if m.starMap == nil || m.focusIdx < 0 || m.focusIdx >= len(m.starMap.Stars) {
		return 0
	}
	return m.starMap.Stars[m.focusIdx].Star.ID
}

// FollowingPointing reports whether the camera tracks the device.
func (m StarMapModel) FollowingPointing() bool {
	return m.followPointing
}

// Init returns nil cmd
func (m StarMapModel) Init() tea.Cmd {
	return nil
}
