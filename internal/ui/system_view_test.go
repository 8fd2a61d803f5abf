package ui

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/scene"
)

func testSystem(t *testing.T, starID int) *scene.System {
	t.Helper()
	sys, err := (&fakeLoader{}).FetchSystem(context.Background(), starID)
	if err != nil {
		t.Fatal(err)
	}
	return scene.NewSystem(sys, scene.DefaultOptions())
}

func newTestSystemModel(t *testing.T) SystemModel {
	t.Helper()
	return NewSystemModel(0).SetSize(120, 40).SetSystem(testSystem(t, 2))
}

func TestSystemModelDefaults(t *testing.T) {
	m := NewSystemModel(0)
	if m.Speed() != astro.DefaultOrbitSpeed {
		t.Errorf("speed = %v, want %v", m.Speed(), astro.DefaultOrbitSpeed)
	}
	if _, ok := m.FocusedBody(); ok {
		t.Error("nothing should be focused without a system")
	}

	// Keys without a system are harmless
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(AnimTickMsg(time.Now()))
	if m.focusIdx != -1 || m.elapsed != 0 {
		t.Errorf("focusIdx = %d, elapsed = %v", m.focusIdx, m.elapsed)
	}
}

func TestSystemModelFocusWraps(t *testing.T) {
	m := newTestSystemModel(t)

	tests := []struct {
		key  string
		want int
	}{
		{"j", 0},
		{"j", 1},
		{"j", -1}, // back to the star
		{"k", 1},
		{"k", 0},
		{"k", -1},
	}
	for i, tt := range tests {
		m, _ = m.Update(keyRunes(tt.key))
		if m.focusIdx != tt.want {
			t.Errorf("step %d (%s): focusIdx = %d, want %d", i, tt.key, m.focusIdx, tt.want)
		}
	}
}

func TestSystemModelSpeed(t *testing.T) {
	m := newTestSystemModel(t)
	base := m.Speed()

	m, _ = m.Update(keyRunes("+"))
	if math.Abs(m.Speed()-base*speedFactor) > 1e-9 {
		t.Errorf("speed after + = %v", m.Speed())
	}
	m, _ = m.Update(keyRunes("-"))
	if math.Abs(m.Speed()-base) > 1e-9 {
		t.Errorf("speed after - = %v", m.Speed())
	}

	for i := 0; i < 30; i++ {
		m, _ = m.Update(keyRunes("="))
	}
	if m.Speed() != maxOrbitSpeed {
		t.Errorf("speed = %v, want clamp at %v", m.Speed(), maxOrbitSpeed)
	}
	for i := 0; i < 60; i++ {
		m, _ = m.Update(keyRunes("-"))
	}
	if m.Speed() != minOrbitSpeed {
		t.Errorf("speed = %v, want clamp at %v", m.Speed(), minOrbitSpeed)
	}

	m, _ = m.Update(keyRunes("r"))
	if m.Speed() != base {
		t.Errorf("r should restore speed, got %v", m.Speed())
	}
}

func TestSystemModelPause(t *testing.T) {
	m := newTestSystemModel(t)

	m, _ = m.Update(AnimTickMsg(time.Now()))
	if math.Abs(m.elapsed-frameSeconds) > 1e-9 {
		t.Fatalf("elapsed = %v, want %v", m.elapsed, frameSeconds)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Paused() {
		t.Fatal("space should pause")
	}
	before := m.elapsed
	m, _ = m.Update(AnimTickMsg(time.Now()))
	if m.elapsed != before {
		t.Error("paused animation should not advance")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("HUD should show paused")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Paused() {
		t.Error("second space should resume")
	}
}

func TestSystemModelModeAndLabels(t *testing.T) {
	m := newTestSystemModel(t)

	m, _ = m.Update(keyRunes("m"))
	if m.mode != scene.AnimateLogPeriod {
		t.Errorf("mode = %v, want log", m.mode)
	}
	if !strings.Contains(m.View(), "Mode:log") {
		t.Error("HUD should show log mode")
	}
	m, _ = m.Update(keyRunes("m"))
	if m.mode != scene.AnimateRelative {
		t.Errorf("mode = %v, want relative", m.mode)
	}

	m, _ = m.Update(keyRunes("l"))
	if m.labelMode != LabelAll {
		t.Errorf("labelMode = %v, want all", m.labelMode)
	}
}

func TestSystemModelSetSystemResets(t *testing.T) {
	m := newTestSystemModel(t)
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(AnimTickMsg(time.Now()))

	m = m.SetSystem(testSystem(t, 3))
	if m.focusIdx != -1 || m.elapsed != 0 {
		t.Errorf("focusIdx = %d, elapsed = %v after SetSystem", m.focusIdx, m.elapsed)
	}
	if m.camera.Distance != m.System().CameraDistance {
		t.Errorf("camera distance = %v, want %v", m.camera.Distance, m.System().CameraDistance)
	}
	if len(m.field) != systemFieldStars {
		t.Errorf("field = %d stars", len(m.field))
	}

	m = m.SetSystem(nil)
	if !strings.Contains(m.View(), "No system loaded") {
		t.Error("nil system should show the empty state")
	}
}

func TestSystemModelZoom(t *testing.T) {
	m := newTestSystemModel(t)
	d := m.camera.Distance

	m, _ = m.Update(keyRunes(">"))
	if m.camera.Distance >= d {
		t.Errorf("> should zoom in: %v -> %v", d, m.camera.Distance)
	}
	m, _ = m.Update(keyRunes("<"))
	m, _ = m.Update(keyRunes("<"))
	if m.camera.Distance <= d {
		t.Errorf("< should zoom out: %v -> %v", d, m.camera.Distance)
	}
	m, _ = m.Update(keyRunes("r"))
	if m.camera.Distance != d {
		t.Errorf("r should reset the camera, distance = %v", m.camera.Distance)
	}
}

func TestSystemModelView(t *testing.T) {
	m := newTestSystemModel(t)

	view := m.View()
	for _, want := range []string{"✹ Kepler-22", "Planets: 2", "Mode:relative", "running", "◄ Kepler-22"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = m.Update(keyRunes("j"))
	view = m.View()
	for _, want := range []string{"◆ Kepler-22 b", "Period:", "a:"} {
		if !strings.Contains(view, want) {
			t.Errorf("planet HUD missing %q", want)
		}
	}
	body, ok := m.FocusedBody()
	if !ok || body.Name() != "Kepler-22 b" {
		t.Errorf("FocusedBody = %q, %v", body.Name(), ok)
	}

	small := m.SetSize(30, 8)
	if small.View() != "Terminal too small for system view" {
		t.Error("small terminal should be rejected")
	}
}

func TestSystemModelMousePick(t *testing.T) {
	sys := scene.NewSystem(&catalog.System{
		Star: catalog.Star{ID: 7, Name: "Solo"},
		Planets: []catalog.Planet{
			{ID: 70, Name: "Solo b", MeanDistance: fptr(1), Period: fptr(10)},
		},
	}, scene.DefaultOptions())

	m := NewSystemModel(0).SetSize(240, 100+systemHUDLines).SetSystem(sys)
	// Look straight down from far enough away that the whole orbit fits.
	m.camera.PitchDeg = -89
	m.camera.Distance = 600

	w, h := m.canvasSize()
	col, row, _, ok := m.camera.Project(sys.Bodies[0].Orbit.PositionAt(0), w, h)
	if !ok || col < 0 || col >= w || row < 0 || row >= h {
		t.Fatalf("orbit point projects off-canvas: (%d,%d) ok=%v", col, row, ok)
	}

	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m, _ = m.Update(click(col, row))
	if m.focusIdx != 0 {
		t.Fatalf("click on orbit: focusIdx = %d, want 0", m.focusIdx)
	}

	// The star is not an orbit
	m.focusIdx = -1
	sx, sy, _, _ := m.camera.Project(astro.Vec3{}, w, h)
	m, _ = m.Update(click(sx, sy))
	if m.focusIdx != -1 {
		t.Errorf("click on star: focusIdx = %d, want -1", m.focusIdx)
	}

	if _, hit := m.pick(-1, 0); hit {
		t.Error("clicks outside the canvas should miss")
	}
	if _, hit := m.pick(0, h); hit {
		t.Error("clicks on the HUD should miss")
	}

	// Only left presses pick
	m, _ = m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	if m.focusIdx != -1 {
		t.Error("motion should not pick")
	}
}
