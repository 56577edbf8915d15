// Package theme derives every color the renderer needs: per-touch colors
// from pitch position, stable per-track loop colors, ghost dimming, and the
// lipgloss styles of the terminal UI.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a renderer-facing color triple.
type RGB [3]uint8

// TrackHues are the stable per-track identities, degrees on the HSV wheel.
var TrackHues = [4]float64{16, 130, 205, 285}

// TouchColor maps a normalized pitch position to a hue sweep, so a touch's
// color tracks where it sits on the surface.
func TouchColor(norm float64) RGB {
	if norm < 0 {
		norm = 0
	} else if norm > 1 {
		norm = 1
	}
	return fromColorful(colorful.Hsv(300*norm, 0.75, 1))
}

// TrackColor is track i's identity color at full intensity.
func TrackColor(i int) RGB {
	return fromColorful(colorful.Hsv(TrackHues[i%len(TrackHues)], 0.85, 1))
}

// GhostColor dims a track color for ghost rendering; level 0..1 scales with
// how close the ghost is to its recorded instant.
func GhostColor(track int, level float64) RGB {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	return fromColorful(colorful.Hsv(TrackHues[track%len(TrackHues)], 0.85, 0.25+0.75*level))
}

// SideColor colors hexagon side i by its current effect strength.
func SideColor(i int, strength float64) RGB {
	if strength < 0 {
		strength = 0
	} else if strength > 1 {
		strength = 1
	}
	hue := float64(i) * 60
	return fromColorful(colorful.Hsv(hue, 0.6, 0.2+0.8*strength))
}

// BadgeColor is the modulation badge's fixed color.
func BadgeColor() RGB { return RGB{255, 214, 64} }

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Lipgloss converts an RGB to a lipgloss color.
func Lipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// Styles are the fixed terminal styles.
type Styles struct {
	Outline lipgloss.Style
	Surface lipgloss.Style
	Status  lipgloss.Style
	Armed   lipgloss.Style
	Rec     lipgloss.Style
	Play    lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the style set.
func NewStyles() *Styles {
	return &Styles{
		Outline: lipgloss.NewStyle().Foreground(lipgloss.Color("#6b5b95")),
		Surface: lipgloss.NewStyle().Foreground(lipgloss.Color("#2e2a3f")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#b8b4cc")),
		Armed:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd640")),
		Rec:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4040")).Bold(true),
		Play:    lipgloss.NewStyle().Foreground(lipgloss.Color("#40ff8c")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#55506a")),
	}
}
