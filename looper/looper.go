// Package looper is the four-track gesture loop recorder. The first
// completed recording defines the session's loop length; every later
// recording phase-aligns to the shared transport and replays against it.
package looper

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/hex"
)

// NumTracks is the fixed track count.
const NumTracks = 4

// State is a track's transport state.
type State int

const (
	Idle State = iota
	Armed
	Recording
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// EventKind distinguishes the touch lifecycle phases of a recorded event.
type EventKind int

const (
	EventDown EventKind = iota
	EventMove
	EventUp
)

// Event is one recorded gesture sample, immutable once recorded. At is the
// offset from loop start.
type Event struct {
	At    time.Duration
	Touch int
	Pos   hex.Point
	Color [3]uint8
	Kind  EventKind
}

// Ghost is an event due for replay or ghost rendering, tagged with its
// track so the renderer can distinguish tracks by stable color.
type Ghost struct {
	Track int
	Event Event
}

// TickOutput is what one transport tick yields.
type TickOutput struct {
	// Replays are events whose offset the playhead crossed during this
	// tick, each emitted exactly once per loop pass, in timestamp order.
	Replays []Ghost
	// Ghosts are events within the symmetric ghost window around the
	// current loop time, for visual play-along.
	Ghosts []Ghost
}

// Error kinds, returned as values and reflected in the UI as an unarmed
// track, never surfaced as a crash.
var (
	ErrNoActiveLoop = errors.New("looper: no loop defined yet, record track 1 first")
	ErrTrackBusy    = errors.New("looper: another track is recording")
	ErrBadTrack     = errors.New("looper: track index out of range")
)

type track struct {
	state  State
	events []Event
	gain   float64
	muted  bool
}

// Recorder owns the transport clock and the four tracks.
type Recorder struct {
	clock     Clock
	tracks    [NumTracks]track
	recording int // index of the track currently recording, -1
}

// NewRecorder builds an empty recorder with an unlocked transport.
func NewRecorder() *Recorder {
	r := &Recorder{recording: -1}
	for i := range r.tracks {
		r.tracks[i].gain = 1
	}
	return r
}

// Clock exposes read access to the transport.
func (r *Recorder) Clock() *Clock { return &r.clock }

// TrackState returns track i's state.
func (r *Recorder) TrackState(i int) State {
	if i < 0 || i >= NumTracks {
		return Idle
	}
	return r.tracks[i].state
}

// Events returns track i's recorded events. Callers must not mutate them.
func (r *Recorder) Events(i int) []Event {
	if i < 0 || i >= NumTracks {
		return nil
	}
	return r.tracks[i].events
}

// Gain returns track i's playback gain.
func (r *Recorder) Gain(i int) float64 {
	if i < 0 || i >= NumTracks {
		return 0
	}
	return r.tracks[i].gain
}

// SetGain sets track i's playback gain, clamped to 0..1.
func (r *Recorder) SetGain(i int, g float64) {
	if i < 0 || i >= NumTracks {
		return
	}
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	r.tracks[i].gain = g
}

// Muted returns track i's mute flag.
func (r *Recorder) Muted(i int) bool {
	return i >= 0 && i < NumTracks && r.tracks[i].muted
}

// SetMuted sets track i's mute flag. Ghost events still render while muted.
func (r *Recorder) SetMuted(i int, m bool) {
	if i >= 0 && i < NumTracks {
		r.tracks[i].muted = m
	}
}

// checkRecordable validates the record preconditions shared by Arm and
// StartRecording.
func (r *Recorder) checkRecordable(i int) error {
	if i < 0 || i >= NumTracks {
		return ErrBadTrack
	}
	if r.recording >= 0 && r.recording != i {
		return ErrTrackBusy
	}
	if !r.clock.Locked() && i != 0 {
		// Only track 1 may define the loop length.
		return ErrNoActiveLoop
	}
	return nil
}

// Arm puts an idle or stopped track into Armed so the next gesture starts
// the recording. Rejections leave the track unchanged so the UI shows it
// unarmed.
func (r *Recorder) Arm(i int) error {
	if err := r.checkRecordable(i); err != nil {
		debug.Log("looper", "arm track %d rejected: %v", i, err)
		return err
	}
	switch r.tracks[i].state {
	case Idle, Stopped, Playing:
		r.tracks[i].state = Armed
		return nil
	case Armed:
		return nil
	default:
		return fmt.Errorf("looper: cannot arm track %d while %s", i, r.tracks[i].state)
	}
}

// Disarm returns an armed track to Idle (or Playing when it has events).
func (r *Recorder) Disarm(i int) {
	if i < 0 || i >= NumTracks || r.tracks[i].state != Armed {
		return
	}
	if len(r.tracks[i].events) > 0 {
		r.tracks[i].state = Playing
	} else {
		r.tracks[i].state = Idle
	}
}

// StartRecording begins recording on track i. The first recording of the
// session resets the transport to zero at this instant and will define the
// loop length; later recordings are phase-aligned to the running loop. Any
// previous take on the track is replaced.
func (r *Recorder) StartRecording(i int) error {
	if err := r.checkRecordable(i); err != nil {
		debug.Log("looper", "record track %d rejected: %v", i, err)
		return err
	}
	if r.recording == i {
		return nil
	}
	if !r.clock.Locked() {
		r.clock.reset()
	}
	t := &r.tracks[i]
	t.events = t.events[:0]
	t.state = Recording
	r.recording = i
	debug.Log("looper", "track %d recording (loop locked: %v)", i, r.clock.Locked())
	return nil
}

// Record appends a timestamped event to the recording track. Events are
// stamped with the clock value already advanced for the previous tick, so
// timestamps are consistent with the transport the moment the gesture was
// processed. No-op when nothing records.
func (r *Recorder) Record(kind EventKind, touch int, pos hex.Point, color [3]uint8) {
	if r.recording < 0 {
		return
	}
	t := &r.tracks[r.recording]
	t.events = append(t.events, Event{
		At:    r.clock.LoopTime(),
		Touch: touch,
		Pos:   pos,
		Color: color,
		Kind:  kind,
	})
}

// StopRecording ends track i's take. The loop-length-defining take locks
// its elapsed duration as the session loop length; every take auto-enters
// continuous playback. A defining take of zero duration is discarded.
func (r *Recorder) StopRecording(i int) error {
	if i < 0 || i >= NumTracks {
		return ErrBadTrack
	}
	t := &r.tracks[i]
	if t.state != Recording {
		return fmt.Errorf("looper: track %d is not recording", i)
	}
	r.recording = -1
	if !r.clock.Locked() {
		length := r.clock.Now()
		if length <= 0 {
			t.events = t.events[:0]
			t.state = Idle
			return nil
		}
		r.clock.lock(length)
		debug.Log("looper", "loop length locked at %v by track %d", length, i)
	}
	// A non-defining take can span several loop passes; its timestamps
	// wrapped, so restore timestamp order.
	sort.SliceStable(t.events, func(a, b int) bool {
		return t.events[a].At < t.events[b].At
	})
	t.state = Playing
	return nil
}

// TogglePlayback flips a track between Playing and Stopped without touching
// its events. Returns true when the track is playing afterwards.
func (r *Recorder) TogglePlayback(i int) bool {
	if i < 0 || i >= NumTracks {
		return false
	}
	t := &r.tracks[i]
	switch t.state {
	case Playing:
		t.state = Stopped
	case Stopped:
		t.state = Playing
	case Idle:
		if len(t.events) > 0 {
			t.state = Playing
		}
	}
	return t.state == Playing
}

// Clear empties track i. When every track is empty afterwards the loop
// length unlocks and the transport resets, ready for a fresh definition.
func (r *Recorder) Clear(i int) {
	if i < 0 || i >= NumTracks {
		return
	}
	if r.recording == i {
		r.recording = -1
	}
	r.tracks[i].events = nil
	r.tracks[i].state = Idle
	r.maybeUnlock()
}

// ClearAll empties every track, unlocking the loop length.
func (r *Recorder) ClearAll() {
	for i := range r.tracks {
		r.tracks[i].events = nil
		r.tracks[i].state = Idle
	}
	r.recording = -1
	r.maybeUnlock()
}

func (r *Recorder) maybeUnlock() {
	if r.recording >= 0 {
		return
	}
	for i := range r.tracks {
		if len(r.tracks[i].events) > 0 {
			return
		}
	}
	if r.clock.Locked() {
		debug.Log("looper", "all tracks empty, loop length unlocked")
	}
	r.clock.unlock()
}

// Tick advances the transport by dt and returns the events due now. The
// clock advances exactly once per tick, after the tick's pointer-driven
// mutations; both replay selection and ghost selection read the advanced
// value.
func (r *Recorder) Tick(dt, window time.Duration) TickOutput {
	prev := r.clock.LoopTime()
	r.clock.Advance(dt)
	cur := r.clock.LoopTime()

	var out TickOutput
	if !r.clock.Locked() {
		return out
	}
	// A tick at least as long as the loop sweeps the whole pass, which
	// crossed cannot see because prev and cur coincide.
	fullSweep := dt >= r.clock.LoopLength()
	for i := range r.tracks {
		if r.tracks[i].state != Playing {
			continue
		}
		for _, ev := range r.tracks[i].events {
			if fullSweep || crossed(prev, cur, ev.At, r.clock.LoopLength()) {
				out.Replays = append(out.Replays, Ghost{Track: i, Event: ev})
			}
			if inWindow(cur, ev.At, window, r.clock.LoopLength()) {
				out.Ghosts = append(out.Ghosts, Ghost{Track: i, Event: ev})
			}
		}
	}
	return out
}

// crossed reports whether the playhead moved past offset at during the span
// [prev, cur), accounting for wrap-around at the loop boundary. Half-open on
// the right so an event fires exactly once per pass.
func crossed(prev, cur, at, loopLen time.Duration) bool {
	if prev == cur {
		return false
	}
	if prev < cur {
		return at >= prev && at < cur
	}
	// Wrapped: [prev, loopLen] then [0, cur).
	return at >= prev || at < cur
}

// inWindow reports whether at lies within the symmetric window around
// loopTime, with wrap-around at the loop boundary.
func inWindow(loopTime, at, window, loopLen time.Duration) bool {
	d := loopTime - at
	if d < 0 {
		d = -d
	}
	if d < window {
		return true
	}
	wrapped := loopLen - d
	return wrapped < window
}
