// Package hex is the geometry layer: a regular hexagon plus the bounding
// square that acts as the actual sensing region. All per-frame queries run
// against vertices precomputed at construction.
package hex

import (
	"errors"
	"math"
)

// Sides is the number of hexagon sides (and effect slots).
const Sides = 6

// ErrInvalidGeometry is returned for a non-positive or non-finite radius.
var ErrInvalidGeometry = errors.New("hex: radius must be positive and finite")

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// Hexagon is a regular, pointy-top hexagon defined by center and radius.
// Side i runs from Vertex(i) to Vertex(i+1), counterclockwise.
type Hexagon struct {
	center Point
	radius float64
	verts  [Sides]Point
}

// New builds a hexagon and precomputes its vertices.
func New(center Point, radius float64) (*Hexagon, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrInvalidGeometry
	}
	h := &Hexagon{center: center, radius: radius}
	for i := 0; i < Sides; i++ {
		a := math.Pi/3*float64(i) - math.Pi/2
		h.verts[i] = Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}
	return h, nil
}

// Center returns the hexagon center.
func (h *Hexagon) Center() Point { return h.center }

// Radius returns the circumradius.
func (h *Hexagon) Radius() float64 { return h.radius }

// Vertex returns vertex i (0..5).
func (h *Hexagon) Vertex(i int) Point { return h.verts[i] }

// Contains reports whether p lies inside the hexagon outline, using an
// even-odd crossing test. Points exactly on an edge count as outside; the
// choice only has to be consistent.
func (h *Hexagon) Contains(p Point) bool {
	inside := false
	j := Sides - 1
	for i := 0; i < Sides; i++ {
		vi, vj := h.verts[i], h.verts[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// InSquare reports whether p lies inside the bounding square. The square is
// the sensing region: touches keep sounding here even outside the outline.
func (h *Hexagon) InSquare(p Point) bool {
	return p.X >= h.center.X-h.radius && p.X <= h.center.X+h.radius &&
		p.Y >= h.center.Y-h.radius && p.Y <= h.center.Y+h.radius
}

// Normalized maps p into [0,1]x[0,1] over the bounding square, clamping at
// the edges so motion past the square saturates instead of overflowing.
func (h *Hexagon) Normalized(p Point) (nx, ny float64) {
	side := 2 * h.radius
	nx = clamp01((p.X - (h.center.X - h.radius)) / side)
	ny = clamp01((p.Y - (h.center.Y - h.radius)) / side)
	return nx, ny
}

// Clamp returns p constrained to the bounding square.
func (h *Hexagon) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, h.center.X-h.radius), h.center.X+h.radius),
		Y: math.Min(math.Max(p.Y, h.center.Y-h.radius), h.center.Y+h.radius),
	}
}

// DistanceToSide returns the perpendicular distance from p to side i
// (the segment Vertex(i)..Vertex(i+1)). Side index must be 0..5.
func (h *Hexagon) DistanceToSide(p Point, i int) float64 {
	a := h.verts[i]
	b := h.verts[(i+1)%Sides]
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	t := (apx*abx + apy*aby) / (abx*abx + aby*aby)
	t = clamp01(t)
	cx, cy := a.X+t*abx-p.X, a.Y+t*aby-p.Y
	return math.Hypot(cx, cy)
}

// SideDistances returns the distance from p to all six sides at once.
func (h *Hexagon) SideDistances(p Point) [Sides]float64 {
	var out [Sides]float64
	for i := 0; i < Sides; i++ {
		out[i] = h.DistanceToSide(p, i)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
