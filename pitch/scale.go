package pitch

// Scale is a set of allowed semitone intervals within one octave. Intervals
// are sorted ascending and always start at 0.
type Scale struct {
	Name      string
	Intervals []int
}

var Scales = []Scale{
	{"chromatic", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{"major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"harmonic minor", []int{0, 2, 3, 5, 7, 8, 11}},
	{"dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"mixolydian", []int{0, 2, 4, 5, 7, 9, 10}},
	{"major pentatonic", []int{0, 2, 4, 7, 9}},
	{"minor pentatonic", []int{0, 3, 5, 7, 10}},
	{"blues", []int{0, 3, 5, 6, 7, 10}},
	{"whole tone", []int{0, 2, 4, 6, 8, 10}},
}

// ScaleByName returns the named scale, or nil if unknown.
func ScaleByName(name string) *Scale {
	for i := range Scales {
		if Scales[i].Name == name {
			return &Scales[i]
		}
	}
	return nil
}
