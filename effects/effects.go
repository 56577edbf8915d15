// Package effects holds the six hexagon-side effect slots: which of the
// sixteen parameter kinds each side carries, its continuously updated
// strength, and its secondary parameters. The rack never touches DSP; it
// forwards values to a sink owned by the synthesis backend.
package effects

// Kind is one of the sixteen assignable effect parameter kinds.
type Kind int

const (
	Reverb Kind = iota
	Delay
	Distortion
	BitCrusher
	Chorus
	Flanger
	Phaser
	Tremolo
	Vibrato
	Wah
	LowPass
	HighPass
	BandPass
	RingMod
	PitchShift
	Compressor

	NumKinds = 16
)

var kindNames = [NumKinds]string{
	"reverb", "delay", "distortion", "bitcrusher", "chorus", "flanger",
	"phaser", "tremolo", "vibrato", "wah", "lowpass", "highpass",
	"bandpass", "ringmod", "pitchshift", "compressor",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// KindByName returns the kind for a config name, or -1 if unknown.
func KindByName(name string) Kind {
	for i, n := range kindNames {
		if n == name {
			return Kind(i)
		}
	}
	return -1
}

// ParamSpec declares a secondary parameter and its usable range.
type ParamSpec struct {
	Key      string
	Min, Max float64
	Default  float64
}

var paramSpecs = map[Kind][]ParamSpec{
	Reverb:     {{"decay", 0.2, 8, 2.5}, {"damp", 0, 1, 0.4}},
	Delay:      {{"time", 0.02, 1.5, 0.3}, {"feedback", 0, 0.9, 0.35}},
	Distortion: {{"drive", 1, 24, 4}},
	BitCrusher: {{"bits", 2, 16, 8}, {"downsample", 1, 32, 4}},
	Chorus:     {{"rate", 0.1, 6, 0.8}, {"depth", 0, 1, 0.3}},
	Flanger:    {{"rate", 0.05, 4, 0.3}, {"feedback", 0, 0.9, 0.5}},
	Phaser:     {{"rate", 0.05, 8, 0.5}, {"stages", 2, 12, 4}},
	Tremolo:    {{"rate", 0.5, 20, 5}, {"depth", 0, 1, 0.6}},
	Vibrato:    {{"rate", 0.5, 12, 5}, {"depth", 0, 1, 0.2}},
	Wah:        {{"rate", 0.2, 8, 1.5}, {"resonance", 0, 1, 0.5}},
	LowPass:    {{"cutoff", 80, 12000, 2000}, {"resonance", 0, 1, 0.2}},
	HighPass:   {{"cutoff", 40, 8000, 300}, {"resonance", 0, 1, 0.2}},
	BandPass:   {{"center", 100, 8000, 1000}, {"width", 0.1, 4, 1}},
	RingMod:    {{"freq", 10, 4000, 220}},
	PitchShift: {{"semitones", -24, 24, 7}},
	Compressor: {{"threshold", -60, 0, -18}, {"ratio", 1, 20, 4}},
}

// Specs returns the secondary parameter declarations for a kind.
func Specs(k Kind) []ParamSpec { return paramSpecs[k] }
