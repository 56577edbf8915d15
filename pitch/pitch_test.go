package pitch

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9*math.Max(1, math.Abs(b))
}

func TestFrequencyEndpoints(t *testing.T) {
	for r := 1; r <= 5; r++ {
		m := &Mapper{Root: 220, Octaves: r}
		lo := m.Map(0, 0.5)
		hi := m.Map(1, 0.5)
		if !almost(lo.Freqs[0], 220) {
			t.Errorf("R=%d: f(0) = %v, want 220", r, lo.Freqs[0])
		}
		want := 220 * math.Exp2(float64(r))
		if !almost(hi.Freqs[0], want) {
			t.Errorf("R=%d: f(1) = %v, want %v", r, hi.Freqs[0], want)
		}
	}
}

func TestAmplitudeAxis(t *testing.T) {
	m := &Mapper{Root: 220, Octaves: 2}
	if got := m.Map(0.3, 0.7).Amp; got != 0.7 {
		t.Errorf("AxisX amp = %v, want 0.7", got)
	}
	m.Axis = AxisY
	if got := m.Map(0.3, 0.7).Amp; got != 0.3 {
		t.Errorf("AxisY amp = %v, want 0.3", got)
	}
	if got := m.Map(0.3, 0.7).Freqs[0]; !almost(got, 220*math.Exp2(2*0.7)) {
		t.Errorf("AxisY freq uses y: got %v", got)
	}
}

func TestContinuityWithoutScale(t *testing.T) {
	m := &Mapper{Root: 110, Octaves: 3}
	prev := m.Map(0, 0.5).Freqs[0]
	for x := 0.001; x <= 1; x += 0.001 {
		f := m.Map(x, 0.5).Freqs[0]
		// 3 octaves over 1000 steps: each step is well under a semitone.
		if ratio := f / prev; ratio < 1 || ratio > math.Exp2(1.0/12) {
			t.Fatalf("jump at x=%v: ratio %v", x, ratio)
		}
		prev = f
	}
}

func TestQuantizeSnapsToScale(t *testing.T) {
	m := &Mapper{Root: 220, Octaves: 2, Scale: ScaleByName("major")}
	// Sweep the surface: every output must be root * 2^(k/12) with k an
	// interval of the major scale modulo 12.
	for x := 0.0; x <= 1.0; x += 0.013 {
		f := m.Map(x, 0.5).Freqs[0]
		semis := 12 * math.Log2(f/220)
		k := int(math.Round(semis))
		if math.Abs(semis-float64(k)) > 1e-6 {
			t.Fatalf("x=%v: %v semitones is not integral", x, semis)
		}
		if !intervalInScale(m.Scale, k%12) {
			t.Fatalf("x=%v: semitone %d not in major scale", x, k)
		}
	}
}

func intervalInScale(s *Scale, iv int) bool {
	for _, v := range s.Intervals {
		if v == iv {
			return true
		}
	}
	return false
}

func TestQuantizeTieBreaksLow(t *testing.T) {
	// Minor pentatonic has intervals 0 and 3 with nothing between: 1.5
	// semitones is equidistant and must snap to the lower interval.
	m := &Mapper{Root: 100, Octaves: 1, Scale: ScaleByName("minor pentatonic")}
	oct, deg := m.quantize(100 * math.Exp2(1.5/12))
	if oct != 0 || deg != 0 {
		t.Errorf("tie broke to oct=%d deg=%d, want 0,0", oct, deg)
	}
}

func TestQuantizeWrapsToNextOctave(t *testing.T) {
	// 11.6 semitones above the root is nearest the next octave's root.
	m := &Mapper{Root: 100, Octaves: 2, Scale: ScaleByName("major")}
	oct, deg := m.quantize(100 * math.Exp2(11.6/12))
	if oct != 1 || deg != 0 {
		t.Errorf("got oct=%d deg=%d, want 1,0", oct, deg)
	}
}

func TestChordTriad(t *testing.T) {
	m := &Mapper{Root: 200, Octaves: 1, Scale: ScaleByName("major"), Chord: ChordTriad}
	got := m.Map(0, 0.5)
	if len(got.Freqs) != 3 {
		t.Fatalf("triad voices = %d, want 3", len(got.Freqs))
	}
	// Root position major triad on the scale root: 0, 4, 7 semitones.
	wants := []float64{200, 200 * math.Exp2(4.0 / 12), 200 * math.Exp2(7.0 / 12)}
	for i, w := range wants {
		if !almost(got.Freqs[i], w) {
			t.Errorf("voice %d = %v, want %v", i, got.Freqs[i], w)
		}
	}
}

func TestChordSeventhWrapsOctave(t *testing.T) {
	// Degree 4 (interval 7) of the major scale: +2 -> degree 6 (interval 11),
	// +4 -> wraps to degree 1 next octave (interval 2 + 12), +6 -> degree 3
	// next octave (interval 5 + 12).
	m := &Mapper{Root: 100, Octaves: 1, Scale: ScaleByName("major"), Chord: ChordSeventh}
	// Position whose raw pitch is exactly 7 semitones: x = 7/12.
	got := m.Map(7.0/12.0, 0.5)
	if len(got.Freqs) != 4 {
		t.Fatalf("seventh voices = %d, want 4", len(got.Freqs))
	}
	wantSemis := []float64{7, 11, 14, 17}
	for i, ws := range wantSemis {
		want := 100 * math.Exp2(ws/12)
		if !almost(got.Freqs[i], want) {
			t.Errorf("voice %d = %v, want %v (%v semis)", i, got.Freqs[i], want, ws)
		}
	}
}

func TestChordWithoutScaleIsSingleVoice(t *testing.T) {
	m := &Mapper{Root: 100, Octaves: 1, Chord: ChordTriad}
	if got := m.Map(0.5, 0.5); len(got.Freqs) != 1 {
		t.Errorf("chord without a scale produced %d voices", len(got.Freqs))
	}
}

func TestRootFrequency(t *testing.T) {
	if f := RootFrequency("A"); !almost(f, 440) {
		t.Errorf("A = %v, want 440", f)
	}
	if f := RootFrequency("C"); math.Abs(f-261.6255653) > 1e-4 {
		t.Errorf("C = %v, want ~261.63", f)
	}
	if f := RootFrequency("bogus"); !almost(f, RootFrequency("C")) {
		t.Errorf("unknown note should fall back to C, got %v", f)
	}
}
