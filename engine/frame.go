package engine

import (
	"sort"
	"time"

	"github.com/shhawkins/hex-a-theremin/gesture"
	"github.com/shhawkins/hex-a-theremin/hex"
	"github.com/shhawkins/hex-a-theremin/looper"
	"github.com/shhawkins/hex-a-theremin/theme"
)

// TouchView is a touch as the renderer sees it.
type TouchView struct {
	ID    int
	Pos   hex.Point
	Color theme.RGB
	Freq  float64
	Amp   float64
	Trail []hex.Point
}

// GhostView is a ghost event due for the current loop time.
type GhostView struct {
	Track int
	Pos   hex.Point
	Color theme.RGB
	Kind  looper.EventKind
}

// TrackView is a track's status line.
type TrackView struct {
	State  looper.State
	Events int
	Gain   float64
	Muted  bool
	Color  theme.RGB
}

// Frame is the engine's complete per-tick output for the renderer. The
// engine never draws; it only emits this data.
type Frame struct {
	Touches    []TouchView
	Badge      hex.Point
	BadgeColor theme.RGB
	Strengths  [hex.Sides]float64
	SideColors [hex.Sides]theme.RGB
	Ghosts     []GhostView
	Tracks     [looper.NumTracks]TrackView
	LoopTime   time.Duration
	LoopLength time.Duration
}

func (e *Engine) frame(ghosts []looper.Ghost) Frame {
	f := Frame{
		Badge:      e.badge.Pos(),
		BadgeColor: theme.BadgeColor(),
		Strengths:  e.badge.Strengths(),
		LoopTime:   e.rec.Clock().LoopTime(),
		LoopLength: e.rec.Clock().LoopLength(),
	}
	for i, s := range f.Strengths {
		f.SideColors[i] = theme.SideColor(i, s)
	}

	active := e.tracker.Active()
	sort.Slice(active, func(a, b int) bool { return active[a].ID < active[b].ID })
	for _, tc := range active {
		if tc.Role != gesture.RoleNote {
			continue
		}
		nx, ny := e.hexagon.Normalized(tc.Pos)
		m := e.mapper.Map(nx, ny)
		f.Touches = append(f.Touches, TouchView{
			ID:    tc.ID,
			Pos:   tc.Pos,
			Color: e.touchColor(tc),
			Freq:  m.Freqs[0],
			Amp:   m.Amp,
			Trail: tc.Trail(),
		})
	}

	if e.ghostsOn {
		for _, g := range ghosts {
			f.Ghosts = append(f.Ghosts, GhostView{
				Track: g.Track,
				Pos:   g.Event.Pos,
				Color: theme.GhostColor(g.Track, e.ghostLevel(g.Event.At)),
				Kind:  g.Event.Kind,
			})
		}
	}

	for i := 0; i < looper.NumTracks; i++ {
		f.Tracks[i] = TrackView{
			State:  e.rec.TrackState(i),
			Events: len(e.rec.Events(i)),
			Gain:   e.rec.Gain(i),
			Muted:  e.rec.Muted(i),
			Color:  theme.TrackColor(i),
		}
	}
	return f
}

// ghostLevel fades a ghost by its distance from the playhead, wrap-aware.
func (e *Engine) ghostLevel(at time.Duration) float64 {
	loopLen := e.rec.Clock().LoopLength()
	d := e.rec.Clock().LoopTime() - at
	if d < 0 {
		d = -d
	}
	if loopLen > 0 && loopLen-d < d {
		d = loopLen - d
	}
	if d >= GhostWindow {
		return 0
	}
	return 1 - float64(d)/float64(GhostWindow)
}
