package gesture

import "github.com/shhawkins/hex-a-theremin/hex"

// GrabRadius is how close to the badge a pointer-down must land to claim
// the badge instead of starting a note.
const GrabRadius = 28.0

// Badge is the draggable modulation badge. Its position is constrained to
// the hexagon's bounding square; every move recomputes one strength per
// side from the perpendicular side distances.
type Badge struct {
	hexagon   *hex.Hexagon
	pos       hex.Point
	strengths [hex.Sides]float64
}

// NewBadge places the badge at the hexagon center.
func NewBadge(h *hex.Hexagon) *Badge {
	b := &Badge{hexagon: h}
	b.MoveTo(h.Center())
	return b
}

// Pos returns the badge position.
func (b *Badge) Pos() hex.Point { return b.pos }

// Strengths returns the six side strengths from the last move.
func (b *Badge) Strengths() [hex.Sides]float64 { return b.strengths }

// MoveTo clamps p to the bounding square, stores it, and recomputes all six
// strengths: clamp(1 - d/radius, 0, 1) per side.
func (b *Badge) MoveTo(p hex.Point) [hex.Sides]float64 {
	b.pos = b.hexagon.Clamp(p)
	r := b.hexagon.Radius()
	for i, d := range b.hexagon.SideDistances(b.pos) {
		s := 1 - d/r
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		b.strengths[i] = s
	}
	return b.strengths
}

// Grabs reports whether a pointer-down at p claims the badge.
func (b *Badge) Grabs(p hex.Point) bool {
	dx, dy := p.X-b.pos.X, p.Y-b.pos.Y
	return dx*dx+dy*dy <= GrabRadius*GrabRadius
}
