// Package engine multiplexes the instrument's logical state machines (up
// to ten touches, the badge, six effect slots, four loop tracks) over one
// fixed-rate tick. Each tick consumes the pointer events that arrived since
// the last one, advances the transport exactly once, and emits a render
// frame. Nothing here blocks; the audio thread is reached only through the
// synth backend boundary.
package engine

import (
	"time"

	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/effects"
	"github.com/shhawkins/hex-a-theremin/gesture"
	"github.com/shhawkins/hex-a-theremin/hex"
	"github.com/shhawkins/hex-a-theremin/looper"
	"github.com/shhawkins/hex-a-theremin/pitch"
	"github.com/shhawkins/hex-a-theremin/synth"
	"github.com/shhawkins/hex-a-theremin/theme"
)

// TickRate is the target scheduling rate.
const TickRate = 60

// GhostWindow is the symmetric window around the loop time within which
// ghost events render.
const GhostWindow = 150 * time.Millisecond

// PointerKind is the raw pointer event type.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerEvent is one raw input sample. Pressure is 0 when the device
// reports none.
type PointerEvent struct {
	Kind     PointerKind
	ID       int
	Pos      hex.Point
	Pressure float64
}

// Engine owns all core state. Construct with New and drive with Pointer and
// Tick from a single goroutine.
type Engine struct {
	hexagon *hex.Hexagon
	tracker *gesture.Tracker
	badge   *gesture.Badge
	mapper  pitch.Mapper
	rack    *effects.Rack
	pool    *synth.VoicePool
	rec     *looper.Recorder
	backend synth.Backend

	pending      []PointerEvent
	rootName     string
	ghostsOn     bool
	pressureTone bool
}

// New wires an engine over the given surface and synthesis backend.
func New(h *hex.Hexagon, backend synth.Backend) *Engine {
	badge := gesture.NewBadge(h)
	e := &Engine{
		hexagon: h,
		tracker: gesture.NewTracker(h, badge),
		badge:   badge,
		mapper: pitch.Mapper{
			Root:    pitch.RootFrequency("C"),
			Octaves: 2,
		},
		rack:     effects.NewRack(backend),
		pool:     synth.NewVoicePool(backend, 32),
		rec:      looper.NewRecorder(),
		backend:  backend,
		rootName: "C",
		ghostsOn: true,
	}
	if ka, ok := backend.(synth.KindAware); ok {
		for i, k := range e.rack.Kinds() {
			ka.SetEffectKind(i, k.String())
		}
	}
	// Seed the backend with the badge's initial strengths.
	e.rack.SetStrengths(badge.Strengths())
	return e
}

// Hexagon returns the surface geometry.
func (e *Engine) Hexagon() *hex.Hexagon { return e.hexagon }

// Rack returns the effect rack.
func (e *Engine) Rack() *effects.Rack { return e.rack }

// Recorder returns the loop recorder.
func (e *Engine) Recorder() *looper.Recorder { return e.rec }

// Pointer queues a raw pointer event for the next tick. Events are
// processed in arrival order.
func (e *Engine) Pointer(ev PointerEvent) {
	e.pending = append(e.pending, ev)
}

// Tick runs one scheduling step: pointer events in arrival order, then one
// transport advance, then replay and frame assembly against the advanced
// clock.
func (e *Engine) Tick(dt time.Duration) Frame {
	for _, ev := range e.pending {
		e.handle(ev)
	}
	e.pending = e.pending[:0]

	out := e.rec.Tick(dt, GhostWindow)
	for _, g := range out.Replays {
		e.replay(g)
	}
	return e.frame(out.Ghosts)
}

func (e *Engine) handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		tc := e.tracker.Down(ev.ID, ev.Pos, ev.Pressure)
		switch tc.Role {
		case gesture.RoleBadge:
			e.applyBadge()
		case gesture.RoleNote:
			e.autoStartRecording()
			e.driveVoice(tc)
			e.record(looper.EventDown, tc)
		}
	case PointerMove:
		tc := e.tracker.Move(ev.ID, ev.Pos, ev.Pressure)
		if tc == nil {
			return
		}
		switch tc.Role {
		case gesture.RoleBadge:
			e.applyBadge()
		case gesture.RoleNote:
			e.driveVoice(tc)
			e.record(looper.EventMove, tc)
		}
	case PointerUp, PointerCancel:
		tc := e.tracker.Up(ev.ID)
		if tc == nil {
			return
		}
		if tc.Role == gesture.RoleNote {
			// Immediate release, also on cancel: no deferred cleanup.
			e.pool.Release(synth.Live(tc.ID))
			e.record(looper.EventUp, tc)
		}
	}
}

// applyBadge pushes the badge's six strengths into the rack. Within a tick
// the badge is the only writer of slot strengths; finger modulation targets
// the global tone instead, so the two can never fight over one parameter.
func (e *Engine) applyBadge() {
	e.rack.SetStrengths(e.badge.Strengths())
}

func (e *Engine) driveVoice(tc *gesture.Touch) {
	nx, ny := e.hexagon.Normalized(tc.Pos)
	m := e.mapper.Map(nx, ny)
	e.pool.Set(synth.Live(tc.ID), m.Freqs, m.Amp)
	if e.pressureTone {
		e.backend.SetGlobalTone(tc.Pressure)
	}
}

// autoStartRecording begins the take on an armed track at the first
// pointer-down, so loops start on a gesture rather than on a button press.
func (e *Engine) autoStartRecording() {
	for i := 0; i < looper.NumTracks; i++ {
		if e.rec.TrackState(i) == looper.Armed {
			if err := e.rec.StartRecording(i); err != nil {
				debug.Log("engine", "auto start on track %d: %v", i, err)
			}
			return
		}
	}
}

func (e *Engine) record(kind looper.EventKind, tc *gesture.Touch) {
	e.rec.Record(kind, tc.ID, tc.Pos, e.touchColor(tc))
}

func (e *Engine) touchColor(tc *gesture.Touch) theme.RGB {
	nx, ny := e.hexagon.Normalized(tc.Pos)
	if e.mapper.Axis == pitch.AxisY {
		return theme.TouchColor(ny)
	}
	return theme.TouchColor(nx)
}

// replay drives a recorded event through the current mapping, so loops
// follow live changes to root, scale, and octave range.
func (e *Engine) replay(g looper.Ghost) {
	owner := synth.Owner{Track: g.Track, Touch: g.Event.Touch}
	switch g.Event.Kind {
	case looper.EventUp:
		e.pool.Release(owner)
	default:
		if e.rec.Muted(g.Track) {
			return
		}
		nx, ny := e.hexagon.Normalized(g.Event.Pos)
		m := e.mapper.Map(nx, ny)
		e.pool.Set(owner, m.Freqs, m.Amp*e.rec.Gain(g.Track))
	}
}
