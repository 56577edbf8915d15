// Package gesture owns pointer lifecycles: classifying each pointer-down as
// a badge drag or a playing touch, tracking up to ten simultaneous note
// touches, and sampling movement trails for rendering.
package gesture

import (
	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/hex"
)

// MaxTouches is the number of simultaneous note-driving touches.
const MaxTouches = 10

// TrailLen bounds the per-touch trail ring.
const TrailLen = 48

// Role is what a pointer identifier drives, resolved once at pointer-down
// and cached for the identifier's lifetime.
type Role int

const (
	RoleNone  Role = iota // down outside the hexagon, or pool full
	RoleNote              // drives a voice
	RoleBadge             // drags the modulation badge
)

// Touch is the live state of one pointer identifier.
type Touch struct {
	ID       int
	Pos      hex.Point
	Pressure float64 // 0..1; 1 when the device reports none
	Role     Role
	trail    []hex.Point
}

// Trail returns the sampled movement trail, oldest first.
func (t *Touch) Trail() []hex.Point { return t.trail }

func (t *Touch) sample(p hex.Point) {
	if len(t.trail) == TrailLen {
		copy(t.trail, t.trail[1:])
		t.trail = t.trail[:TrailLen-1]
	}
	t.trail = append(t.trail, p)
}

// Tracker runs the per-identifier state machine. The badge driver and note
// drivers are mutually exclusive per identifier and independent of each
// other: a badge drag never blocks note gestures.
type Tracker struct {
	hexagon *hex.Hexagon
	badge   *Badge
	touches map[int]*Touch
	notes   int
}

// NewTracker builds a tracker over the given surface and badge.
func NewTracker(h *hex.Hexagon, b *Badge) *Tracker {
	return &Tracker{
		hexagon: h,
		badge:   b,
		touches: make(map[int]*Touch),
	}
}

// Down registers a pointer-down and resolves its role: badge driver when
// within GrabRadius of the badge (and the badge is unclaimed), note driver
// when inside the hexagon outline and a note slot is free, RoleNone
// otherwise. The returned touch is owned by the tracker.
func (t *Tracker) Down(id int, p hex.Point, pressure float64) *Touch {
	if _, ok := t.touches[id]; ok {
		// Stale identifier never released; replace it.
		debug.Log("gesture", "down for live id=%d, dropping stale touch", id)
		t.remove(id)
	}
	if pressure <= 0 {
		pressure = 1
	}
	tc := &Touch{ID: id, Pos: p, Pressure: pressure, Role: RoleNone}
	switch {
	case !t.badgeClaimed() && t.badge.Grabs(p):
		tc.Role = RoleBadge
		t.badge.MoveTo(p)
	case t.hexagon.Contains(p):
		if t.notes >= MaxTouches {
			debug.Log("gesture", "note touch limit reached, ignoring id=%d", id)
			return tc
		}
		tc.Role = RoleNote
		t.notes++
	default:
		return tc
	}
	tc.sample(p)
	t.touches[id] = tc
	return tc
}

// Move updates a live touch. Note touches keep playing anywhere inside the
// bounding square; position is not gated on the hexagon outline. Unknown
// identifiers return nil (logged, not fatal).
func (t *Tracker) Move(id int, p hex.Point, pressure float64) *Touch {
	tc, ok := t.touches[id]
	if !ok {
		debug.LogEvery(60, "gesture", "move for unknown id=%d", id)
		return nil
	}
	if tc.Role == RoleBadge {
		t.badge.MoveTo(p)
		tc.Pos = t.badge.Pos()
	} else {
		tc.Pos = p
	}
	if pressure > 0 {
		tc.Pressure = pressure
	}
	tc.sample(tc.Pos)
	return tc
}

// Up ends a touch (pointer-up, leave, or cancel) and returns its final
// state, or nil for an unknown identifier.
func (t *Tracker) Up(id int) *Touch {
	tc, ok := t.touches[id]
	if !ok {
		debug.Log("gesture", "up for unknown id=%d", id)
		return nil
	}
	t.remove(id)
	return tc
}

func (t *Tracker) remove(id int) {
	if tc := t.touches[id]; tc != nil && tc.Role == RoleNote {
		t.notes--
	}
	delete(t.touches, id)
}

func (t *Tracker) badgeClaimed() bool {
	for _, tc := range t.touches {
		if tc.Role == RoleBadge {
			return true
		}
	}
	return false
}

// Active returns the live touches in no particular order.
func (t *Tracker) Active() []*Touch {
	out := make([]*Touch, 0, len(t.touches))
	for _, tc := range t.touches {
		out = append(out, tc)
	}
	return out
}

// NoteCount returns the number of live note-driving touches.
func (t *Tracker) NoteCount() int { return t.notes }
