package synth

import (
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/shhawkins/hex-a-theremin/debug"
	"github.com/shhawkins/hex-a-theremin/effects"
)

// Pitch bend range the receiving synth is assumed to use, in semitones.
const bendRange = 12

// CC numbers carrying effect values: mix on 20..25, secondary parameters on
// 102..117 in slot-major order.
const (
	ccMixBase   = 20
	ccParamBase = 102
	ccTone      = 74
)

type midiVoice struct {
	on   bool
	note uint8
}

// MIDIOut is a Backend speaking to an external synth over a MIDI port.
// Each voice id maps to its own channel (round-robin over 1..16) so
// per-voice pitch bends stay independent; continuous frequency is note-on
// once plus pitch bend thereafter, never a retrigger.
type MIDIOut struct {
	send   func(gomidi.Message) error
	voices [maxVoices]midiVoice
	kinds  [6]effects.Kind
}

// NewMIDIOut opens the named output port, matching the name exactly. Use
// cmd/midiports to find the right name.
func NewMIDIOut(portName string) (*MIDIOut, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("synth: open midi port %q: %w", portName, err)
			}
			return &MIDIOut{send: send}, nil
		}
	}
	return nil, fmt.Errorf("synth: midi port %q not found", portName)
}

func (m *MIDIOut) channel(id int) uint8 { return uint8(id % 16) }

func (m *MIDIOut) SetVoice(id int, freqs []float64, amp float64) {
	if id < 0 || id >= maxVoices || len(freqs) == 0 {
		return
	}
	ch := m.channel(id)
	v := &m.voices[id]
	semis := 69 + 12*math.Log2(freqs[0]/440)
	if !v.on {
		v.note = clampNote(math.Round(semis))
		v.on = true
		if err := m.send(gomidi.NoteOn(ch, v.note, 100)); err != nil {
			debug.Log("midi", "note on: %v", err)
		}
	}
	// Bend relative to the struck note, clamped to the assumed range.
	bend := (semis - float64(v.note)) / bendRange
	if bend > 1 {
		bend = 1
	} else if bend < -1 {
		bend = -1
	}
	if err := m.send(gomidi.Pitchbend(ch, int16(bend*8191))); err != nil {
		debug.LogEvery(256, "midi", "pitch bend: %v", err)
	}
	if err := m.send(gomidi.ControlChange(ch, 7, uint8(clamp01(amp)*127))); err != nil {
		debug.LogEvery(256, "midi", "volume cc: %v", err)
	}
}

func (m *MIDIOut) ReleaseVoice(id int) {
	if id < 0 || id >= maxVoices {
		return
	}
	v := &m.voices[id]
	if !v.on {
		return
	}
	v.on = false
	if err := m.send(gomidi.NoteOff(m.channel(id), v.note)); err != nil {
		debug.Log("midi", "note off: %v", err)
	}
}

func (m *MIDIOut) SetGlobalTone(v float64) {
	if err := m.send(gomidi.ControlChange(0, ccTone, uint8(clamp01(v)*127))); err != nil {
		debug.LogEvery(256, "midi", "tone cc: %v", err)
	}
}

func (m *MIDIOut) SetEffectMix(slot int, strength float64) {
	if slot < 0 || slot >= 6 {
		return
	}
	if err := m.send(gomidi.ControlChange(0, uint8(ccMixBase+slot), uint8(clamp01(strength)*127))); err != nil {
		debug.LogEvery(256, "midi", "mix cc: %v", err)
	}
}

// SetEffectKind records the slot's assignment so parameter values can be
// normalized against their declared ranges before hitting the wire.
func (m *MIDIOut) SetEffectKind(slot int, kind string) {
	if slot < 0 || slot >= 6 {
		return
	}
	m.kinds[slot] = effects.KindByName(kind)
}

func (m *MIDIOut) SetEffectParam(slot int, key string, value float64) {
	if slot < 0 || slot >= 6 {
		return
	}
	idx := -1
	norm := clamp01(value)
	for i, spec := range effects.Specs(m.kinds[slot]) {
		if spec.Key == key {
			idx = i
			norm = clamp01((value - spec.Min) / (spec.Max - spec.Min))
			break
		}
	}
	if idx < 0 || idx > 1 {
		return
	}
	cc := ccParamBase + slot*2 + idx
	if err := m.send(gomidi.ControlChange(0, uint8(cc), uint8(norm*127))); err != nil {
		debug.LogEvery(256, "midi", "param cc: %v", err)
	}
}

func clampNote(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
