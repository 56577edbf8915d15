package synth

// Null is a Backend that does nothing. Used when no audio output is
// available and by callers that only need the mapping pipeline.
type Null struct{}

func (Null) SetVoice(id int, freqs []float64, amp float64) {}

func (Null) ReleaseVoice(id int) {}

func (Null) SetGlobalTone(v float64) {}

func (Null) SetEffectMix(slot int, strength float64) {}

func (Null) SetEffectParam(slot int, key string, value float64) {}
