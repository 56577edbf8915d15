package effects

// NumSlots is one slot per hexagon side.
const NumSlots = 6

// Sink receives the values the rack computes. The synthesis backend
// implements it.
type Sink interface {
	SetEffectMix(slot int, strength float64)
	SetEffectParam(slot int, key string, value float64)
}

// Slot is one side's effect assignment.
type Slot struct {
	Kind     Kind
	Strength float64
	// ModTarget names a secondary parameter the strength is mapped into
	// instead of the mix level. Empty means strength drives the mix.
	ModTarget string
	params    map[string]float64
}

// Rack owns the six slots. Assignments are pairwise distinct at all times.
type Rack struct {
	slots [NumSlots]Slot
	sink  Sink
}

// DefaultAssignments seed the rack with six distinct kinds at startup.
var DefaultAssignments = [NumSlots]Kind{Reverb, Delay, LowPass, BitCrusher, Tremolo, Phaser}

// NewRack builds a rack with the default assignments wired to sink.
func NewRack(sink Sink) *Rack {
	r := &Rack{sink: sink}
	for i, k := range DefaultAssignments {
		r.slots[i] = Slot{Kind: k, params: defaultParams(k)}
		r.pushParams(i)
	}
	return r
}

func defaultParams(k Kind) map[string]float64 {
	m := make(map[string]float64)
	for _, s := range Specs(k) {
		m[s.Key] = s.Default
	}
	return m
}

// Slot returns a copy of slot i's current state.
func (r *Rack) Slot(i int) Slot { return r.slots[i] }

// Kinds returns the current assignment of all six slots.
func (r *Rack) Kinds() [NumSlots]Kind {
	var out [NumSlots]Kind
	for i := range r.slots {
		out[i] = r.slots[i].Kind
	}
	return out
}

// Assign puts kind k on slot i. If another slot already holds k the two
// slots swap assignments, so the six kinds stay pairwise distinct and no
// slot is ever left empty. It returns the index of the slot swapped with,
// or -1 when no conflict existed.
func (r *Rack) Assign(i int, k Kind) int {
	if i < 0 || i >= NumSlots || k < 0 || k >= NumKinds {
		return -1
	}
	if r.slots[i].Kind == k {
		return -1
	}
	swapped := -1
	for j := range r.slots {
		if j != i && r.slots[j].Kind == k {
			swapped = j
			break
		}
	}
	old := r.slots[i]
	r.slots[i] = Slot{Kind: k, Strength: old.Strength, params: defaultParams(k)}
	if swapped >= 0 {
		prev := r.slots[swapped]
		r.slots[swapped] = Slot{Kind: old.Kind, Strength: prev.Strength, params: old.params}
		if r.slots[swapped].params == nil {
			r.slots[swapped].params = defaultParams(old.Kind)
		}
		r.pushParams(swapped)
		r.pushStrength(swapped)
	}
	r.pushParams(i)
	r.pushStrength(i)
	return swapped
}

// SetStrength updates slot i's strength (clamped to 0..1) and forwards it:
// to the mix level, or mapped linearly into the ModTarget parameter's range
// when one is bound.
func (r *Rack) SetStrength(i int, s float64) {
	if i < 0 || i >= NumSlots {
		return
	}
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}
	r.slots[i].Strength = s
	r.pushStrength(i)
}

// SetStrengths updates all six slots at once, in slot order.
func (r *Rack) SetStrengths(s [NumSlots]float64) {
	for i, v := range s {
		r.SetStrength(i, v)
	}
}

// SetModTarget binds slot i's strength to a secondary parameter, or back to
// the mix level when key is empty. Unknown keys are ignored.
func (r *Rack) SetModTarget(i int, key string) {
	if i < 0 || i >= NumSlots {
		return
	}
	if key != "" && specFor(r.slots[i].Kind, key) == nil {
		return
	}
	r.slots[i].ModTarget = key
	r.pushStrength(i)
}

// SetParam sets a secondary parameter directly, clamped to its declared
// range.
func (r *Rack) SetParam(i int, key string, v float64) {
	if i < 0 || i >= NumSlots {
		return
	}
	spec := specFor(r.slots[i].Kind, key)
	if spec == nil {
		return
	}
	if v < spec.Min {
		v = spec.Min
	} else if v > spec.Max {
		v = spec.Max
	}
	r.slots[i].params[key] = v
	if r.sink != nil {
		r.sink.SetEffectParam(i, key, v)
	}
}

// Param returns a secondary parameter's current value.
func (r *Rack) Param(i int, key string) float64 {
	if i < 0 || i >= NumSlots {
		return 0
	}
	return r.slots[i].params[key]
}

func (r *Rack) pushStrength(i int) {
	if r.sink == nil {
		return
	}
	sl := &r.slots[i]
	if sl.ModTarget == "" {
		r.sink.SetEffectMix(i, sl.Strength)
		return
	}
	spec := specFor(sl.Kind, sl.ModTarget)
	if spec == nil {
		return
	}
	v := spec.Min + sl.Strength*(spec.Max-spec.Min)
	sl.params[sl.ModTarget] = v
	r.sink.SetEffectParam(i, sl.ModTarget, v)
}

func (r *Rack) pushParams(i int) {
	if r.sink == nil {
		return
	}
	sl := &r.slots[i]
	for k, v := range sl.params {
		r.sink.SetEffectParam(i, k, v)
	}
}

func specFor(k Kind, key string) *ParamSpec {
	for _, s := range Specs(k) {
		if s.Key == key {
			return &s
		}
	}
	return nil
}
