package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shhawkins/hex-a-theremin/engine"
	"github.com/shhawkins/hex-a-theremin/hex"
	"github.com/shhawkins/hex-a-theremin/looper"
	"github.com/shhawkins/hex-a-theremin/theme"
)

// Canvas rasterizes the instrument surface into a character grid. Cells are
// roughly twice as tall as wide, so the grid uses a 2:1 column/row ratio to
// keep the hexagon regular on screen.
type Canvas struct {
	hexagon *hex.Hexagon
	cols    int
	rows    int
	base    []baseCell // static outline/surface classification
	styles  *theme.Styles
}

type cellKind uint8

const (
	cellOutside cellKind = iota
	cellSurface
	cellOutline
)

type baseCell struct {
	kind cellKind
	side int // nearest side, valid when kind == cellOutline
}

// NewCanvas builds a canvas of rows terminal lines for the hexagon's
// bounding square.
func NewCanvas(h *hex.Hexagon, rows int, styles *theme.Styles) *Canvas {
	c := &Canvas{
		hexagon: h,
		cols:    rows * 2,
		rows:    rows,
		styles:  styles,
	}
	c.classify()
	return c
}

// Cols returns the canvas width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the canvas height in cells.
func (c *Canvas) Rows() int { return c.rows }

// ToSpace converts a cell coordinate to a point in the instrument's
// coordinate space. Out-of-range cells clamp to the bounding square edge.
func (c *Canvas) ToSpace(x, y int) hex.Point {
	ctr, r := c.hexagon.Center(), c.hexagon.Radius()
	px := ctr.X - r + (float64(x)+0.5)/float64(c.cols)*2*r
	py := ctr.Y - r + (float64(y)+0.5)/float64(c.rows)*2*r
	return c.hexagon.Clamp(hex.Point{X: px, Y: py})
}

// toCell converts a space point to a cell coordinate, clamped to the grid.
func (c *Canvas) toCell(p hex.Point) (int, int) {
	ctr, r := c.hexagon.Center(), c.hexagon.Radius()
	x := int((p.X - (ctr.X - r)) / (2 * r) * float64(c.cols))
	y := int((p.Y - (ctr.Y - r)) / (2 * r) * float64(c.rows))
	if x < 0 {
		x = 0
	} else if x >= c.cols {
		x = c.cols - 1
	}
	if y < 0 {
		y = 0
	} else if y >= c.rows {
		y = c.rows - 1
	}
	return x, y
}

func (c *Canvas) classify() {
	c.base = make([]baseCell, c.cols*c.rows)
	// A cell counts as outline when the nearest side passes within half a
	// cell of its center.
	halfCell := c.hexagon.Radius() / float64(c.rows)
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			p := c.ToSpace(x, y)
			cell := baseCell{kind: cellOutside}
			best, bestSide := 0.0, 0
			for i, d := range c.hexagon.SideDistances(p) {
				if i == 0 || d < best {
					best, bestSide = d, i
				}
			}
			if best <= halfCell {
				cell = baseCell{kind: cellOutline, side: bestSide}
			} else if c.hexagon.Contains(p) {
				cell.kind = cellSurface
			}
			c.base[y*c.cols+x] = cell
		}
	}
}

// Render draws one frame onto the grid and returns it as styled lines.
func (c *Canvas) Render(f engine.Frame) string {
	type overlay struct {
		ch    rune
		color theme.RGB
	}
	cells := make(map[int]overlay, len(f.Touches)*8)
	put := func(p hex.Point, ch rune, col theme.RGB) {
		x, y := c.toCell(p)
		cells[y*c.cols+x] = overlay{ch: ch, color: col}
	}

	// Draw order fixes what wins a shared cell: trails under ghosts under
	// touches under the badge.
	for _, tc := range f.Touches {
		for _, p := range tc.Trail {
			put(p, '·', theme.RGB{tc.Color[0] / 2, tc.Color[1] / 2, tc.Color[2] / 2})
		}
	}
	for _, g := range f.Ghosts {
		ch := '◦'
		if g.Kind == looper.EventDown {
			ch = '●'
		}
		put(g.Pos, ch, g.Color)
	}
	for _, tc := range f.Touches {
		put(tc.Pos, '●', tc.Color)
	}
	put(f.Badge, '◆', f.BadgeColor)

	var out strings.Builder
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			idx := y*c.cols + x
			if ov, ok := cells[idx]; ok {
				out.WriteString(lipgloss.NewStyle().Foreground(theme.Lipgloss(ov.color)).Render(string(ov.ch)))
				continue
			}
			switch b := c.base[idx]; b.kind {
			case cellOutline:
				st := lipgloss.NewStyle().Foreground(theme.Lipgloss(f.SideColors[b.side]))
				out.WriteString(st.Render("#"))
			case cellSurface:
				out.WriteString(c.styles.Surface.Render("·"))
			default:
				out.WriteByte(' ')
			}
		}
		out.WriteByte('\n')
	}
	return out.String()
}
