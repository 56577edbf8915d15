// Package synth is the boundary to sound generation. The core computes
// control values and hands them to a Backend; backends own the actual DSP
// (the built-in oto sine bank, or a MIDI port).
package synth

import "github.com/shhawkins/hex-a-theremin/debug"

// Backend is the synthesis contract the core drives. Implementations must
// treat repeated SetVoice calls for a live id as continuous parameter
// updates, never as note retriggers.
type Backend interface {
	SetVoice(id int, freqs []float64, amp float64)
	ReleaseVoice(id int)
	SetGlobalTone(v float64)
	SetEffectMix(slot int, strength float64)
	SetEffectParam(slot int, key string, value float64)
}

// KindAware is optionally implemented by backends that specialize their DSP
// per effect kind; the engine notifies them on slot assignment.
type KindAware interface {
	SetEffectKind(slot int, kind string)
}

// Owner identifies who drives a voice: a live touch (Track < 0) or a
// replayed event on a track.
type Owner struct {
	Track int // -1 for live gestures
	Touch int
}

// Live builds the owner key for a live touch.
func Live(touch int) Owner { return Owner{Track: -1, Touch: touch} }

// VoicePool hands out stable backend voice ids per owner. One voice per
// active touch identifier and per track-replay slot; releasing one voice
// never disturbs the others.
type VoicePool struct {
	backend Backend
	voices  map[Owner]int
	free    []int
}

// NewVoicePool builds a pool of capacity voices over backend.
func NewVoicePool(backend Backend, capacity int) *VoicePool {
	p := &VoicePool{
		backend: backend,
		voices:  make(map[Owner]int),
		free:    make([]int, 0, capacity),
	}
	for id := capacity - 1; id >= 0; id-- {
		p.free = append(p.free, id)
	}
	return p
}

// Set routes control values to the owner's voice, allocating one on first
// use. When the pool is exhausted the update is dropped and logged; a
// missing frame of one voice beats corrupting another owner's voice.
func (p *VoicePool) Set(o Owner, freqs []float64, amp float64) {
	id, ok := p.voices[o]
	if !ok {
		if len(p.free) == 0 {
			debug.LogEvery(120, "voices", "pool exhausted, dropping owner %+v", o)
			return
		}
		id = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.voices[o] = id
	}
	p.backend.SetVoice(id, freqs, amp)
}

// Release frees the owner's voice, if any.
func (p *VoicePool) Release(o Owner) {
	id, ok := p.voices[o]
	if !ok {
		return
	}
	delete(p.voices, o)
	p.free = append(p.free, id)
	p.backend.ReleaseVoice(id)
}

// ReleaseTrack frees every voice owned by a track's replay. Used when a
// track stops or is cleared.
func (p *VoicePool) ReleaseTrack(track int) {
	for o := range p.voices {
		if o.Track == track {
			p.Release(o)
		}
	}
}

// ReleaseAll silences everything.
func (p *VoicePool) ReleaseAll() {
	for o := range p.voices {
		p.Release(o)
	}
}

// Active returns the number of allocated voices.
func (p *VoicePool) Active() int { return len(p.voices) }
