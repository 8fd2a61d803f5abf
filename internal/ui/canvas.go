package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared colors for the canvas views.
const (
	colorBackground = "236"
	colorDim        = "60"  // muted purple
	colorOrbit      = "240" // dim gray
	colorFocus      = "229" // bright gold
	colorHabitable  = "#7CDB8A"
	colorStar       = "#FFD166"
	colorLabel      = "249"
	colorAccent     = "#d0c8ff"
)

// LabelMode controls how object labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused object
	LabelAll                      // Every object
)

func (l LabelMode) next() LabelMode {
	return (l + 1) % 3
}

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelAll:
		return "all"
	default:
		return "focus"
	}
}

// canvas is a rune grid with one foreground color per cell.
type canvas struct {
	width  int
	height int
	cells  [][]rune
	colors [][]lipgloss.Color
}

func newCanvas(width, height int) *canvas {
	c := &canvas{
		width:  width,
		height: height,
		cells:  make([][]rune, height),
		colors: make([][]lipgloss.Color, height),
	}
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorBackground
		}
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *canvas) empty(x, y int) bool {
	return c.inside(x, y) && c.cells[y][x] == ' '
}

func (c *canvas) at(x, y int) rune {
	if !c.inside(x, y) {
		return 0
	}
	return c.cells[y][x]
}

// set writes r at (x, y), ignoring cells off the grid.
func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if !c.inside(x, y) {
		return
	}
	c.cells[y][x] = r
	c.colors[y][x] = color
}

// fill writes r only over empty cells.
func (c *canvas) fill(x, y int, r rune, color lipgloss.Color) {
	if c.empty(x, y) {
		c.set(x, y, r, color)
	}
}

// line draws a Bresenham segment over empty cells.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	// Segments far outside the grid come from points near the camera plane.
	if dx > 4*c.width+4 || -dy > 4*c.height+4 {
		return
	}

	for {
		c.fill(x0, y0, r, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// disc fills an ellipse of the given row radius, widened for cell aspect.
func (c *canvas) disc(cx, cy int, rowRadius, aspect float64, r rune, color lipgloss.Color) {
	ry := int(rowRadius)
	rx := int(rowRadius * aspect)
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx := float64(dx) / (rowRadius * aspect)
			ny := float64(dy) / rowRadius
			if nx*nx+ny*ny <= 1 {
				c.set(cx+dx, cy+dy, r, color)
			}
		}
	}
}

// String renders the grid with lipgloss colors.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			ch := c.cells[y][x]
			if ch == ' ' {
				b.WriteRune(ch)
				continue
			}
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(ch)))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// labelMark is an object position that may carry a label.
type labelMark struct {
	x, y      int
	name      string
	isFocused bool
	color     lipgloss.Color
}

// drawLabels writes labels to the right of their marks. Focused labels
// claim their cells first so other labels cannot overwrite them.
func drawLabels(c *canvas, mode LabelMode, marks []labelMark) {
	if mode == LabelNone || len(marks) == 0 {
		return
	}

	claimed := make(map[int]map[int]bool) // y -> x -> claimed
	for _, mk := range marks {
		if !mk.isFocused {
			continue
		}
		if claimed[mk.y] == nil {
			claimed[mk.y] = make(map[int]bool)
		}
		for x := mk.x + 2; x < mk.x+4+len([]rune(mk.name)); x++ {
			claimed[mk.y][x] = true
		}
	}

	for _, mk := range marks {
		if mode == LabelFocused && !mk.isFocused {
			continue
		}

		text := mk.name
		color := mk.color
		if mk.isFocused {
			text = "◄ " + mk.name
			color = colorFocus
		}

		for i, r := range []rune(text) {
			x := mk.x + 2 + i
			if !c.inside(x, mk.y) {
				continue
			}
			if !mk.isFocused && claimed[mk.y][x] {
				continue
			}
			c.set(x, mk.y, r, color)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
