package pitch

import "math"

// NoteNames are the twelve chromatic root names, C first.
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// RootFrequency returns the 4th-octave frequency for a chromatic note name
// in equal temperament with A4 = 440 Hz. Unknown names fall back to C.
func RootFrequency(name string) float64 {
	idx := 0
	for i, n := range NoteNames {
		if n == name {
			idx = i
			break
		}
	}
	// C4 is nine semitones below A4.
	return 440 * math.Pow(2, float64(idx-9)/12)
}
