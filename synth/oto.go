package synth

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/hajimehoshi/oto/v2"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	maxVoices = 32
	scopeLen  = 512
)

// Wave selects the oscillator shape of the built-in synth.
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

func (w Wave) String() string {
	switch w {
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return "sine"
	}
}

// Next cycles to the following wave shape, wrapping after square.
func (w Wave) Next() Wave {
	if w >= WaveSquare || w < WaveSine {
		return WaveSine
	}
	return w + 1
}

// WaveByName maps a config name to a wave shape, defaulting to sine.
func WaveByName(name string) Wave {
	switch name {
	case "triangle":
		return WaveTriangle
	case "saw":
		return WaveSaw
	case "square":
		return WaveSquare
	default:
		return WaveSine
	}
}

type otoVoice struct {
	active    bool
	releasing bool
	nfreqs    int
	freqs     [4]float64
	phases    [4]float64
	amp       float64 // smoothed
	targetAmp float64
}

// Oto is the built-in audio backend: a small oscillator bank streamed
// through an oto player. The audio goroutine reads voice state under a
// mutex; the control side only writes targets, so glitch-free operation
// needs no lock-free machinery at this scale.
type Oto struct {
	ctx    *oto.Context
	ready  chan struct{}
	player oto.Player

	mu     sync.Mutex
	voices [maxVoices]otoVoice
	wave   Wave
	tone   float64 // 0..1 master brightness

	mix    [6]float64
	kinds  [6]string
	params [6]map[string]float64

	// processor state
	lpState   float64
	hpState   float64
	tremPhase float64
	ringPhase float64
	toneState float64

	scope [scopeLen]float32
}

// NewOto opens the audio device and starts the stream.
func NewOto(wave Wave) (*Oto, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepth)
	if err != nil {
		return nil, err
	}
	s := &Oto{ctx: ctx, ready: ready, wave: wave, tone: 0.8}
	for i := range s.params {
		s.params[i] = make(map[string]float64)
	}
	go func() {
		<-s.ready
		s.player = s.ctx.NewPlayer(s)
		s.player.Play()
	}()
	return s, nil
}

// SetWave switches the oscillator shape for all voices.
func (s *Oto) SetWave(w Wave) {
	s.mu.Lock()
	s.wave = w
	s.mu.Unlock()
}

func (s *Oto) SetVoice(id int, freqs []float64, amp float64) {
	if id < 0 || id >= maxVoices {
		return
	}
	s.mu.Lock()
	v := &s.voices[id]
	v.active = true
	v.releasing = false
	v.nfreqs = len(freqs)
	if v.nfreqs > len(v.freqs) {
		v.nfreqs = len(v.freqs)
	}
	copy(v.freqs[:], freqs[:v.nfreqs])
	v.targetAmp = amp * 0.2 // headroom across ten voices
	s.mu.Unlock()
}

func (s *Oto) ReleaseVoice(id int) {
	if id < 0 || id >= maxVoices {
		return
	}
	s.mu.Lock()
	s.voices[id].releasing = true
	s.voices[id].targetAmp = 0
	s.mu.Unlock()
}

func (s *Oto) SetGlobalTone(v float64) {
	s.mu.Lock()
	s.tone = clamp01(v)
	s.mu.Unlock()
}

func (s *Oto) SetEffectMix(slot int, strength float64) {
	if slot < 0 || slot >= 6 {
		return
	}
	s.mu.Lock()
	s.mix[slot] = clamp01(strength)
	s.mu.Unlock()
}

func (s *Oto) SetEffectParam(slot int, key string, value float64) {
	if slot < 0 || slot >= 6 {
		return
	}
	s.mu.Lock()
	s.params[slot][key] = value
	s.mu.Unlock()
}

// SetEffectKind lets the engine tell the synth which DSP a slot carries.
func (s *Oto) SetEffectKind(slot int, kind string) {
	if slot < 0 || slot >= 6 {
		return
	}
	s.mu.Lock()
	s.kinds[slot] = kind
	s.mu.Unlock()
}

// Waveform returns a copy of the most recent output block, for the level
// meter. Read-only for callers.
func (s *Oto) Waveform() []float32 {
	s.mu.Lock()
	out := make([]float32, scopeLen)
	copy(out, s.scope[:])
	s.mu.Unlock()
	return out
}

// Read renders float32 interleaved stereo frames. It implements io.Reader
// for the oto player.
func (s *Oto) Read(p []byte) (int, error) {
	frames := len(p) / (4 * channelCount)
	s.mu.Lock()
	defer s.mu.Unlock()

	for f := 0; f < frames; f++ {
		var sum float64
		for i := range s.voices {
			v := &s.voices[i]
			if !v.active {
				continue
			}
			// One-pole amplitude smoothing: continuous gesture updates
			// glide instead of clicking.
			v.amp += (v.targetAmp - v.amp) * 0.002
			if v.releasing && v.amp < 1e-4 {
				v.active = false
				v.amp = 0
				continue
			}
			for j := 0; j < v.nfreqs; j++ {
				sum += v.amp * s.osc(&v.phases[j], v.freqs[j])
			}
		}

		sum = s.applyEffects(sum)

		// Master tone: one-pole lowpass opening with tone.
		a := 0.05 + 0.9*s.tone
		s.toneState += a * (sum - s.toneState)
		sum = s.toneState

		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		mono := float32(sum)
		s.scope[f%scopeLen] = mono
		off := f * 4 * channelCount
		bits := math.Float32bits(mono)
		binary.LittleEndian.PutUint32(p[off:], bits)
		binary.LittleEndian.PutUint32(p[off+4:], bits)
	}
	return frames * 4 * channelCount, nil
}

func (s *Oto) osc(phase *float64, freq float64) float64 {
	*phase += freq / sampleRate
	if *phase >= 1 {
		*phase -= math.Floor(*phase)
	}
	ph := *phase
	switch s.wave {
	case WaveTriangle:
		return 4*math.Abs(ph-0.5) - 1
	case WaveSaw:
		return 2*ph - 1
	case WaveSquare:
		if ph < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * ph)
	}
}

// applyEffects runs the cheap per-sample processors this demo backend
// understands, in slot order. Kinds it has no DSP for only store state.
func (s *Oto) applyEffects(x float64) float64 {
	for slot := 0; slot < 6; slot++ {
		m := s.mix[slot]
		if m <= 0 {
			continue
		}
		switch s.kinds[slot] {
		case "distortion":
			drive := s.paramOr(slot, "drive", 4)
			wet := x * drive / (1 + math.Abs(x*drive))
			x = x*(1-m) + wet*m
		case "bitcrusher":
			bits := s.paramOr(slot, "bits", 8)
			levels := math.Exp2(bits)
			wet := math.Round(x*levels) / levels
			x = x*(1-m) + wet*m
		case "tremolo":
			rate := s.paramOr(slot, "rate", 5)
			s.tremPhase += rate / sampleRate
			if s.tremPhase >= 1 {
				s.tremPhase -= 1
			}
			depth := s.paramOr(slot, "depth", 0.6) * m
			x *= 1 - depth*(0.5+0.5*math.Sin(2*math.Pi*s.tremPhase))
		case "ringmod":
			freq := s.paramOr(slot, "freq", 220)
			s.ringPhase += freq / sampleRate
			if s.ringPhase >= 1 {
				s.ringPhase -= 1
			}
			x = x*(1-m) + x*math.Sin(2*math.Pi*s.ringPhase)*m
		case "lowpass":
			cutoff := s.paramOr(slot, "cutoff", 2000)
			a := 1 - math.Exp(-2*math.Pi*cutoff/sampleRate)
			s.lpState += a * (x - s.lpState)
			x = x*(1-m) + s.lpState*m
		case "highpass":
			cutoff := s.paramOr(slot, "cutoff", 300)
			a := 1 - math.Exp(-2*math.Pi*cutoff/sampleRate)
			s.hpState += a * (x - s.hpState)
			x = x*(1-m) + (x-s.hpState)*m
		}
	}
	return x
}

func (s *Oto) paramOr(slot int, key string, def float64) float64 {
	if v, ok := s.params[slot][key]; ok {
		return v
	}
	return def
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
