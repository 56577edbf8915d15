package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shhawkins/hex-a-theremin/engine"
	"github.com/shhawkins/hex-a-theremin/looper"
	"github.com/shhawkins/hex-a-theremin/pitch"
	"github.com/shhawkins/hex-a-theremin/synth"
	"github.com/shhawkins/hex-a-theremin/theme"
	"github.com/shhawkins/hex-a-theremin/widgets"
)

const (
	tickInterval = time.Second / engine.TickRate
	canvasRows   = 23
)

// layoutBounds holds cached layout info
type layoutBounds struct {
	canvasTop  int
	canvasLeft int
}

type Model struct {
	Engine *engine.Engine
	Styles *theme.Styles

	// Waveform, when set, feeds the level meter from the audio backend's
	// most recent output block.
	Waveform func() []float32

	// SetWave, when set, switches the built-in synth's oscillator shape;
	// Wave tracks the current selection.
	SetWave func(synth.Wave)
	Wave    synth.Wave

	canvas   *widgets.Canvas
	frame    engine.Frame
	selected int
	dragging bool
	status   string
	quitting bool
	bounds   *layoutBounds
}

type tickMsg time.Time

func NewModel(e *engine.Engine, styles *theme.Styles) Model {
	return Model{
		Engine: e,
		Styles: styles,
		canvas: widgets.NewCanvas(e.Hexagon(), canvasRows, styles),
		frame:  e.Tick(0),
		// The header is a single line; View keeps this current if the
		// layout ever grows.
		bounds: &layoutBounds{canvasTop: 1},
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame = m.Engine.Tick(tickInterval)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "1", "2", "3", "4":
		m.selected = int(msg.String()[0] - '1')

	case "r":
		if err := m.Engine.ToggleRecord(m.selected); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}

	case "p":
		m.Engine.TogglePlay(m.selected)

	case "m":
		m.Engine.ToggleMute(m.selected)

	case "c":
		m.Engine.ClearTrack(m.selected)

	case "X":
		m.Engine.ClearAll()

	case "g":
		m.Engine.SetGhostsEnabled(!m.Engine.Settings().Ghosts)

	case "s":
		m.Engine.SetScale(nextScale(m.Engine.Settings().Scale))

	case "a":
		if m.Engine.Settings().Axis == pitch.AxisX {
			m.Engine.SetPitchAxis(pitch.AxisY)
		} else {
			m.Engine.SetPitchAxis(pitch.AxisX)
		}

	case "o":
		switch m.Engine.Settings().Chord {
		case pitch.ChordOff:
			m.Engine.SetChord(pitch.ChordTriad)
		case pitch.ChordTriad:
			m.Engine.SetChord(pitch.ChordSeventh)
		default:
			m.Engine.SetChord(pitch.ChordOff)
		}

	case "n":
		m.Engine.SetRootNote(nextNote(m.Engine.Settings().RootNote))

	case "v":
		if m.SetWave != nil {
			m.Wave = m.Wave.Next()
			m.SetWave(m.Wave)
		}

	case "+", "=":
		m.Engine.SetOctaveRange(m.Engine.Settings().OctaveRange + 1)

	case "-", "_":
		m.Engine.SetOctaveRange(m.Engine.Settings().OctaveRange - 1)
	}

	return m, nil
}

// handleMouse turns terminal mouse events into pointer events. The terminal
// gives us one pointer; multitouch comes from a real touch surface driving
// the engine directly.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := msg.X - m.bounds.canvasLeft
	y := msg.Y - m.bounds.canvasTop
	inCanvas := x >= 0 && x < m.canvas.Cols() && y >= 0 && y < m.canvas.Rows()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inCanvas {
			return
		}
		m.dragging = true
		m.Engine.Pointer(engine.PointerEvent{
			Kind: engine.PointerDown,
			Pos:  m.canvas.ToSpace(x, y),
		})

	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		m.Engine.Pointer(engine.PointerEvent{
			Kind: engine.PointerMove,
			Pos:  m.canvas.ToSpace(x, y),
		})

	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.Engine.Pointer(engine.PointerEvent{Kind: engine.PointerUp})
	}
}

// nextScale cycles continuous -> each named scale -> continuous.
func nextScale(cur string) string {
	if cur == "" {
		return pitch.Scales[0].Name
	}
	for i := range pitch.Scales {
		if pitch.Scales[i].Name == cur {
			if i+1 < len(pitch.Scales) {
				return pitch.Scales[i+1].Name
			}
			return ""
		}
	}
	return ""
}

func nextNote(cur string) string {
	for i, n := range pitch.NoteNames {
		if n == cur {
			return pitch.NoteNames[(i+1)%len(pitch.NoteNames)]
		}
	}
	return pitch.NoteNames[0]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.header()
	canvasView := m.canvas.Render(m.frame)
	slots := m.slotLine()
	meter := m.meterLine()
	tracks := m.trackLines()
	help := m.Styles.Muted.Render("1-4:track  r:rec  p:play  m:mute  c:clear  X:clear-all  s:scale  a:axis  o:chord  n:root  +/-:oct  v:wave  g:ghosts  q:quit")

	m.bounds.canvasTop = lipgloss.Height(header)
	m.bounds.canvasLeft = 0

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(canvasView)
	out.WriteString(slots)
	out.WriteString("\n")
	if meter != "" {
		out.WriteString(meter)
		out.WriteString("\n")
	}
	out.WriteString(tracks)
	out.WriteString("\n")
	out.WriteString(help)
	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(m.Styles.Rec.Render(m.status))
	}
	return out.String()
}

func (m Model) header() string {
	s := m.Engine.Settings()
	scale := s.Scale
	if scale == "" {
		scale = "continuous"
	}
	loop := "loop --/--"
	if m.frame.LoopLength > 0 {
		loop = fmt.Sprintf("loop %4.1f/%4.1fs",
			m.frame.LoopTime.Seconds(), m.frame.LoopLength.Seconds())
	}
	wave := ""
	if m.SetWave != nil {
		wave = fmt.Sprintf("  wave:%s", m.Wave)
	}
	return m.Styles.Status.Render(fmt.Sprintf(
		"hex-a-theremin  %s  root:%s  oct:%d  axis:%s  scale:%s  chord:%s%s",
		loop, s.RootNote, s.OctaveRange, s.Axis, scale, s.Chord, wave))
}

// slotLine renders the six effect slots with their live strengths, colored
// to match the hexagon side each slot belongs to.
func (m Model) slotLine() string {
	parts := make([]string, 0, len(m.frame.Strengths))
	for i, strength := range m.frame.Strengths {
		kind := m.Engine.Rack().Slot(i).Kind
		st := lipgloss.NewStyle().Foreground(theme.Lipgloss(m.frame.SideColors[i]))
		parts = append(parts, st.Render(fmt.Sprintf("%s:%.2f", kind, strength)))
	}
	return strings.Join(parts, "  ")
}

// meterLine renders a peak meter over the backend's last output block, or
// nothing when no waveform feed is wired.
func (m Model) meterLine() string {
	if m.Waveform == nil {
		return ""
	}
	var peak float32
	for _, s := range m.Waveform() {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	const width = 32
	filled := int(peak * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("▮", filled) + strings.Repeat("·", width-filled)
	return m.Styles.Play.Render("out ") + m.Styles.Status.Render(bar)
}

func (m Model) trackLines() string {
	var out strings.Builder
	for i, tv := range m.frame.Tracks {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		line := fmt.Sprintf("%sT%d %-9s %3d events  gain %.1f", marker, i+1, tv.State, tv.Events, tv.Gain)
		if tv.Muted {
			line += "  [mute]"
		}
		style := m.Styles.Status
		switch {
		case tv.Muted:
			style = m.Styles.Muted
		case tv.State == looper.Armed:
			style = m.Styles.Armed
		case tv.State == looper.Recording:
			style = m.Styles.Rec
		case tv.State == looper.Playing:
			style = m.Styles.Play
		}
		out.WriteString(style.Render(line))
		if i < len(m.frame.Tracks)-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}
