// Package pitch converts normalized surface positions into control values
// for the synthesis backend: an exponential frequency axis, a linear
// amplitude axis, optional scale quantization and optional chord expansion.
package pitch

import "math"

// Axis selects which normalized coordinate drives pitch; the orthogonal one
// drives amplitude.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ChordMode selects how many stacked scale degrees a touch produces.
type ChordMode int

const (
	ChordOff     ChordMode = iota
	ChordTriad             // +2, +4 scale degrees
	ChordSeventh           // +2, +4, +6 scale degrees
)

func (m ChordMode) String() string {
	switch m {
	case ChordTriad:
		return "triad"
	case ChordSeventh:
		return "seventh"
	}
	return "off"
}

// Mapper converts normalized (x,y) into frequencies and amplitude. The zero
// value is not usable; fill Root and Octaves.
type Mapper struct {
	Root    float64 // root frequency at pitch coordinate 0, Hz
	Octaves int     // octave range, 1..5
	Axis    Axis
	Scale   *Scale // nil = continuous, no quantization
	Chord   ChordMode
}

// Mapped is the control output for one touch position.
type Mapped struct {
	Freqs []float64 // 1 without chord expansion, 3 or 4 with
	Amp   float64
}

// Map converts a normalized position into control values. Frequency varies
// continuously with position; quantization introduces the only steps, and a
// moving touch crossing a quantization boundary changes the frequency of the
// existing voice rather than triggering a new one.
func (m *Mapper) Map(nx, ny float64) Mapped {
	px, pa := nx, ny
	if m.Axis == AxisY {
		px, pa = ny, nx
	}

	freq := m.Root * math.Exp2(float64(m.Octaves)*px)
	out := Mapped{Amp: clamp01(pa)}

	if m.Scale == nil {
		out.Freqs = []float64{freq}
		return out
	}

	oct, deg := m.quantize(freq)
	n := len(m.Scale.Intervals)
	offsets := chordOffsets(m.Chord)
	out.Freqs = make([]float64, 0, len(offsets))
	for _, off := range offsets {
		idx := deg + off
		semis := 12*(oct+idx/n) + m.Scale.Intervals[idx%n]
		out.Freqs = append(out.Freqs, m.Root*math.Exp2(float64(semis)/12))
	}
	return out
}

// quantize snaps freq to the nearest scale interval within its octave class,
// breaking ties toward the lower interval. It returns the octave number and
// the scale degree index.
func (m *Mapper) quantize(freq float64) (oct, degree int) {
	semis := 12 * math.Log2(freq/m.Root)
	oct = int(math.Floor(semis / 12))
	within := semis - 12*float64(oct)

	best := -1
	bestDist := math.Inf(1)
	for i, iv := range m.Scale.Intervals {
		if d := math.Abs(within - float64(iv)); d < bestDist {
			best, bestDist = i, d
		}
	}
	// The root of the next octave can be the nearest neighbour too.
	if d := math.Abs(within - 12); d < bestDist {
		return oct + 1, 0
	}
	return oct, best
}

func chordOffsets(mode ChordMode) []int {
	switch mode {
	case ChordTriad:
		return []int{0, 2, 4}
	case ChordSeventh:
		return []int{0, 2, 4, 6}
	default:
		return []int{0}
	}
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
