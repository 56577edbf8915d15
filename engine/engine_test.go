package engine_test

import (
	"testing"
	"time"

	"github.com/shhawkins/hex-a-theremin/engine"
	"github.com/shhawkins/hex-a-theremin/hex"
	"github.com/shhawkins/hex-a-theremin/looper"
)

const dt = 16 * time.Millisecond

type voiceState struct {
	freqs []float64
	amp   float64
}

type fakeBackend struct {
	live  map[int]voiceState
	mixes [6]float64
	tone  float64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{live: make(map[int]voiceState)}
}

func (f *fakeBackend) SetVoice(id int, freqs []float64, amp float64) {
	cp := make([]float64, len(freqs))
	copy(cp, freqs)
	f.live[id] = voiceState{freqs: cp, amp: amp}
}

func (f *fakeBackend) ReleaseVoice(id int) { delete(f.live, id) }

func (f *fakeBackend) SetGlobalTone(v float64) { f.tone = v }

func (f *fakeBackend) SetEffectMix(slot int, strength float64) {
	if slot >= 0 && slot < 6 {
		f.mixes[slot] = strength
	}
}

func (f *fakeBackend) SetEffectParam(slot int, key string, value float64) {}

func newEngine(t *testing.T) (*engine.Engine, *fakeBackend) {
	t.Helper()
	h, err := hex.New(hex.Point{X: 500, Y: 500}, 400)
	if err != nil {
		t.Fatal(err)
	}
	be := newFakeBackend()
	return engine.New(h, be), be
}

func down(e *engine.Engine, id int, x, y float64) {
	e.Pointer(engine.PointerEvent{Kind: engine.PointerDown, ID: id, Pos: hex.Point{X: x, Y: y}})
}

func move(e *engine.Engine, id int, x, y float64) {
	e.Pointer(engine.PointerEvent{Kind: engine.PointerMove, ID: id, Pos: hex.Point{X: x, Y: y}})
}

func up(e *engine.Engine, id int) {
	e.Pointer(engine.PointerEvent{Kind: engine.PointerUp, ID: id})
}

func TestTenTouchesOneTick(t *testing.T) {
	e, be := newEngine(t)
	// Keep the row well clear of the badge at the center.
	for i := 0; i < 10; i++ {
		down(e, i, 400+float64(i)*20, 380)
	}
	f := e.Tick(dt)
	if len(f.Touches) != 10 {
		t.Fatalf("frame touches = %d, want 10", len(f.Touches))
	}
	if len(be.live) != 10 {
		t.Fatalf("backend voices = %d, want 10", len(be.live))
	}
	// Frequencies must be pairwise distinct (distinct x positions).
	seen := map[float64]bool{}
	for _, st := range be.live {
		if seen[st.freqs[0]] {
			t.Fatalf("duplicate frequency %v", st.freqs[0])
		}
		seen[st.freqs[0]] = true
	}

	// Releasing one leaves the other nine untouched.
	prev := make(map[int]voiceState, len(be.live))
	for id, st := range be.live {
		prev[id] = st
	}
	up(e, 4)
	e.Tick(dt)
	if len(be.live) != 9 {
		t.Fatalf("backend voices after release = %d, want 9", len(be.live))
	}
	for id, st := range be.live {
		was := prev[id]
		if st.freqs[0] != was.freqs[0] || st.amp != was.amp {
			t.Errorf("voice %d changed on unrelated release", id)
		}
	}
}

func TestSoundContinuesOutsideOutline(t *testing.T) {
	e, be := newEngine(t)
	down(e, 1, 650, 500)
	e.Tick(dt)

	// Square-corner region: outside the outline, inside the square.
	outside := hex.Point{X: 880, Y: 880}
	if e.Hexagon().Contains(outside) {
		t.Fatal("test point must be outside the outline")
	}
	move(e, 1, outside.X, outside.Y)
	f := e.Tick(dt)

	if len(be.live) != 1 {
		t.Fatalf("voice count = %d, want 1 (note must keep sounding)", len(be.live))
	}
	for _, st := range be.live {
		if st.amp <= 0 {
			t.Fatalf("amplitude = %v, want > 0 outside the outline", st.amp)
		}
	}
	if len(f.Touches) != 1 {
		t.Fatalf("frame touches = %d", len(f.Touches))
	}

	// Only pointer-up stops the note.
	up(e, 1)
	e.Tick(dt)
	if len(be.live) != 0 {
		t.Fatal("voice survived pointer-up")
	}
}

func TestBadgeDragDrivesEffectMixes(t *testing.T) {
	e, be := newEngine(t)
	// The badge starts at the center; grabbing it claims the badge rather
	// than starting a note.
	down(e, 1, 500, 500)
	e.Tick(dt)
	if len(be.live) != 0 {
		t.Fatal("badge grab allocated a voice")
	}

	move(e, 1, 500, 840) // toward the bottom side
	f := e.Tick(dt)

	max, min := 0, 0
	for i := range f.Strengths {
		if f.Strengths[i] > f.Strengths[max] {
			max = i
		}
		if f.Strengths[i] < f.Strengths[min] {
			min = i
		}
	}
	if f.Strengths[max] <= f.Strengths[min] {
		t.Fatalf("badge move produced flat strengths: %v", f.Strengths)
	}
	if be.mixes != f.Strengths {
		t.Fatalf("backend mixes %v diverge from frame strengths %v", be.mixes, f.Strengths)
	}
}

func TestBadgeAndNotesIndependent(t *testing.T) {
	e, be := newEngine(t)
	down(e, 1, 500, 500) // badge
	down(e, 2, 650, 500) // note
	e.Tick(dt)
	if len(be.live) != 1 {
		t.Fatalf("voices = %d, want 1", len(be.live))
	}
	var before voiceState
	for _, st := range be.live {
		before = st
	}

	move(e, 1, 700, 700) // badge drag only
	e.Tick(dt)
	for _, st := range be.live {
		if st.freqs[0] != before.freqs[0] || st.amp != before.amp {
			t.Fatal("badge drag changed the note voice")
		}
	}
}

func TestRecordLockAndReplay(t *testing.T) {
	e, be := newEngine(t)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	f := e.Tick(dt)
	if f.Tracks[0].State != looper.Armed {
		t.Fatalf("track 0 = %v, want armed", f.Tracks[0].State)
	}

	// The first gesture starts the take.
	down(e, 7, 600, 420)
	e.Tick(dt)
	if e.Recorder().TrackState(0) != looper.Recording {
		t.Fatal("gesture did not start the armed take")
	}
	for i := 0; i < 30; i++ {
		move(e, 7, 600+float64(i), 420)
		e.Tick(dt)
	}
	up(e, 7)
	e.Tick(dt)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}

	f = e.Tick(dt)
	if f.LoopLength <= 0 {
		t.Fatal("loop length not locked")
	}
	if f.Tracks[0].State != looper.Playing {
		t.Fatalf("track 0 = %v, want playing", f.Tracks[0].State)
	}
	if f.Tracks[0].Events != 32 {
		t.Fatalf("events = %d, want 32", f.Tracks[0].Events)
	}

	// The replay must raise a backend voice and release it again when
	// the recorded up event comes around.
	ticks := int(f.LoopLength / dt)
	sawVoice, sawRelease := false, false
	for i := 0; i < 2*ticks; i++ {
		e.Tick(dt)
		if len(be.live) > 0 {
			sawVoice = true
		}
		if sawVoice && len(be.live) == 0 {
			sawRelease = true
			break
		}
	}
	if !sawVoice {
		t.Fatal("playback never drove a voice")
	}
	if !sawRelease {
		t.Fatal("replay voice not released after the up event")
	}
}

func TestGhostsInFrame(t *testing.T) {
	e, _ := newEngine(t)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	down(e, 1, 600, 500)
	e.Tick(dt)
	for i := 0; i < 20; i++ {
		e.Tick(dt)
	}
	up(e, 1)
	e.Tick(dt)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}

	sawGhost := false
	ticks := int(e.Recorder().Clock().LoopLength()/dt) + 2
	for i := 0; i < ticks; i++ {
		f := e.Tick(dt)
		for _, g := range f.Ghosts {
			if g.Track != 0 {
				t.Fatalf("ghost track = %d", g.Track)
			}
			sawGhost = true
		}
	}
	if !sawGhost {
		t.Fatal("no ghosts emitted during playback")
	}

	e.SetGhostsEnabled(false)
	for i := 0; i < ticks; i++ {
		if f := e.Tick(dt); len(f.Ghosts) != 0 {
			t.Fatal("ghosts emitted while disabled")
		}
	}
}

func TestOverdubThroughEngine(t *testing.T) {
	e, _ := newEngine(t)
	// Define the loop on track 0.
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	down(e, 1, 600, 500)
	e.Tick(dt)
	for i := 0; i < 20; i++ {
		e.Tick(dt)
	}
	up(e, 1)
	e.Tick(dt)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	a := append([]looper.Event(nil), e.Recorder().Events(0)...)

	// Overdub track 1 for a different duration.
	if err := e.ToggleRecord(1); err != nil {
		t.Fatal(err)
	}
	down(e, 2, 420, 600)
	e.Tick(dt)
	for i := 0; i < 5; i++ {
		e.Tick(dt)
	}
	up(e, 2)
	e.Tick(dt)
	if err := e.ToggleRecord(1); err != nil {
		t.Fatal(err)
	}

	if got := e.Recorder().Clock().LoopLength(); got != 22*dt {
		t.Fatalf("loop length = %v, want %v", got, 22*dt)
	}
	b := e.Recorder().Events(1)
	if len(b) == 0 {
		t.Fatal("overdub recorded nothing")
	}
	after := e.Recorder().Events(0)
	if len(after) != len(a) {
		t.Fatalf("track 0 events changed: %d -> %d", len(a), len(after))
	}
	for i := range after {
		if after[i] != a[i] {
			t.Fatal("track 0 event altered by overdub")
		}
	}
}

func TestNoActiveLoopThroughEngine(t *testing.T) {
	e, _ := newEngine(t)
	if err := e.ToggleRecord(2); err == nil {
		t.Fatal("arming track 3 before any loop should fail")
	}
	if f := e.Tick(dt); f.Tracks[2].State != looper.Idle {
		t.Fatalf("track 3 = %v, want idle", f.Tracks[2].State)
	}
}

func TestReArmReleasesReplayVoices(t *testing.T) {
	e, be := newEngine(t)
	// Record a loop whose note is held for most of the pass.
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	down(e, 1, 600, 500)
	e.Tick(dt)
	for i := 0; i < 20; i++ {
		e.Tick(dt)
	}
	up(e, 1)
	e.Tick(dt)
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}

	// Wait for the replay to raise a voice, then re-arm mid-note. The
	// recorded up event will never replay; the voice must not outlive the
	// playback it belongs to.
	for i := 0; i < 100 && len(be.live) == 0; i++ {
		e.Tick(dt)
	}
	if len(be.live) == 0 {
		t.Fatal("replay never drove a voice")
	}
	if err := e.ToggleRecord(0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		e.Tick(dt)
	}
	if len(be.live) != 0 {
		t.Fatalf("backend still holds %d voice(s) after re-arm stopped playback", len(be.live))
	}
	if e.Recorder().TrackState(0) != looper.Armed {
		t.Fatalf("track 0 = %v, want armed", e.Recorder().TrackState(0))
	}
}

func TestPointerCancelReleasesImmediately(t *testing.T) {
	e, be := newEngine(t)
	down(e, 1, 600, 500)
	e.Tick(dt)
	if len(be.live) != 1 {
		t.Fatal("no voice")
	}
	e.Pointer(engine.PointerEvent{Kind: engine.PointerCancel, ID: 1})
	e.Tick(dt)
	if len(be.live) != 0 {
		t.Fatal("cancel did not release the voice")
	}
}
