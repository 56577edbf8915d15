package gesture

import (
	"math"
	"testing"

	"github.com/shhawkins/hex-a-theremin/hex"
)

func newSurface(t *testing.T) (*hex.Hexagon, *Badge, *Tracker) {
	t.Helper()
	h, err := hex.New(hex.Point{X: 500, Y: 500}, 400)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBadge(h)
	return h, b, NewTracker(h, b)
}

func TestDownInsideHexagonIsNote(t *testing.T) {
	_, _, tr := newSurface(t)
	tc := tr.Down(1, hex.Point{X: 650, Y: 500}, 0)
	if tc.Role != RoleNote {
		t.Fatalf("role = %v, want note", tc.Role)
	}
	if tc.Pressure != 1 {
		t.Errorf("default pressure = %v, want 1", tc.Pressure)
	}
	if tr.NoteCount() != 1 {
		t.Errorf("notes = %d, want 1", tr.NoteCount())
	}
}

func TestDownOutsideHexagonIsNone(t *testing.T) {
	h, _, tr := newSurface(t)
	// A square corner region point: inside square, outside outline.
	p := hex.Point{X: 880, Y: 880}
	if h.Contains(p) {
		t.Fatal("test point should be outside the outline")
	}
	if tc := tr.Down(1, p, 0); tc.Role != RoleNone {
		t.Fatalf("role = %v, want none", tc.Role)
	}
	if tr.NoteCount() != 0 {
		t.Errorf("notes = %d, want 0", tr.NoteCount())
	}
}

func TestDownNearBadgeClaimsBadge(t *testing.T) {
	_, b, tr := newSurface(t)
	tc := tr.Down(1, hex.Point{X: 505, Y: 495}, 0)
	if tc.Role != RoleBadge {
		t.Fatalf("role = %v, want badge", tc.Role)
	}
	// Second pointer on the badge cannot also claim it; badge center is
	// inside the hexagon so it becomes a note instead.
	tc2 := tr.Down(2, b.Pos(), 0)
	if tc2.Role != RoleNote {
		t.Fatalf("second role = %v, want note", tc2.Role)
	}
}

func TestBadgeDragIndependentOfNotes(t *testing.T) {
	_, b, tr := newSurface(t)
	tr.Down(1, hex.Point{X: 500, Y: 500}, 0) // badge
	note := tr.Down(2, hex.Point{X: 650, Y: 500}, 0)
	if note.Role != RoleNote {
		t.Fatalf("note role = %v", note.Role)
	}

	tr.Move(1, hex.Point{X: 700, Y: 700}, 0)
	if note.Pos.X != 650 || note.Pos.Y != 500 {
		t.Error("badge drag moved a note touch")
	}
	if b.Pos().X != 700 || b.Pos().Y != 700 {
		t.Errorf("badge did not follow drag: %v", b.Pos())
	}

	tr.Move(2, hex.Point{X: 660, Y: 510}, 0)
	if b.Pos().X != 700 || b.Pos().Y != 700 {
		t.Error("note move displaced the badge")
	}
}

func TestBadgeClampedToSquare(t *testing.T) {
	_, b, tr := newSurface(t)
	tr.Down(1, hex.Point{X: 500, Y: 500}, 0)
	tr.Move(1, hex.Point{X: 5000, Y: -5000}, 0)
	if b.Pos().X != 900 || b.Pos().Y != 100 {
		t.Errorf("badge = %v, want {900 100}", b.Pos())
	}
}

func TestTenSimultaneousNotes(t *testing.T) {
	_, _, tr := newSurface(t)
	for i := 0; i < MaxTouches; i++ {
		p := hex.Point{X: 400 + float64(i)*15, Y: 500}
		if tc := tr.Down(i, p, 0); tc.Role != RoleNote {
			t.Fatalf("touch %d role = %v", i, tc.Role)
		}
	}
	if tr.NoteCount() != MaxTouches {
		t.Fatalf("notes = %d, want %d", tr.NoteCount(), MaxTouches)
	}
	// The eleventh is refused.
	if tc := tr.Down(99, hex.Point{X: 500, Y: 600}, 0); tc.Role != RoleNone {
		t.Fatalf("11th touch role = %v, want none", tc.Role)
	}
	// Releasing one frees a slot.
	tr.Up(3)
	if tc := tr.Down(100, hex.Point{X: 500, Y: 600}, 0); tc.Role != RoleNote {
		t.Fatalf("post-release touch role = %v, want note", tc.Role)
	}
}

func TestMoveKeepsSoundingOutsideOutline(t *testing.T) {
	h, _, tr := newSurface(t)
	tr.Down(1, hex.Point{X: 500, Y: 500}, 0)
	out := hex.Point{X: 880, Y: 880} // outside outline, inside square
	tc := tr.Move(1, out, 0)
	if tc == nil {
		t.Fatal("move lost the touch")
	}
	if tc.Role != RoleNote {
		t.Fatalf("role changed to %v", tc.Role)
	}
	if h.Contains(tc.Pos) {
		t.Fatal("expected position outside the outline")
	}
	if !h.InSquare(tc.Pos) {
		t.Fatal("expected position inside the square")
	}
}

func TestUnknownIdentifierIgnored(t *testing.T) {
	_, _, tr := newSurface(t)
	if tc := tr.Move(42, hex.Point{X: 500, Y: 500}, 0); tc != nil {
		t.Error("move for unknown id returned a touch")
	}
	if tc := tr.Up(42); tc != nil {
		t.Error("up for unknown id returned a touch")
	}
}

func TestTrailBounded(t *testing.T) {
	_, _, tr := newSurface(t)
	tr.Down(1, hex.Point{X: 500, Y: 500}, 0)
	for i := 0; i < TrailLen*3; i++ {
		a := float64(i) * 0.05
		tr.Move(1, hex.Point{X: 500 + 100*math.Cos(a), Y: 500 + 100*math.Sin(a)}, 0)
	}
	tc := tr.Move(1, hex.Point{X: 500, Y: 500}, 0)
	if len(tc.Trail()) != TrailLen {
		t.Errorf("trail len = %d, want %d", len(tc.Trail()), TrailLen)
	}
	last := tc.Trail()[TrailLen-1]
	if last.X != 500 || last.Y != 500 {
		t.Errorf("newest sample = %v, want latest position", last)
	}
}

func TestBadgeStrengths(t *testing.T) {
	h, b, _ := newSurface(t)
	// At the center all six distances equal the apothem.
	s := b.MoveTo(h.Center())
	want := 1 - math.Sqrt(3)/2
	for i, v := range s {
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("side %d strength = %v, want %v", i, v, want)
		}
	}
	// Near one side its strength rises and the opposite side's falls to 0.
	s = b.MoveTo(hex.Point{X: 500, Y: 840})
	min, max := 0, 0
	for i := range s {
		if s[i] < s[min] {
			min = i
		}
		if s[i] > s[max] {
			max = i
		}
	}
	if s[max] <= s[min] || s[min] != 0 {
		t.Errorf("expected a saturated near side and a zero far side: %v", s)
	}
}
