package player

import (
	"math"
	"math/cmplx"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mjibson/go-dsp/fft"
)

const (
	// VizWindow is the sample window the tap keeps for analysis.
	VizWindow  = 2048
	vizSectors = 120 // angular bars around the circle
)

// Visualizer renders a circular frequency-domain visualization from the
// engine's sample tap. It is a pure rendering side effect: it reads the tap
// every frame and never mutates playback or queue state. Without a tap (no
// audio graph) it renders nothing.
type Visualizer struct {
	tap      *Tap
	smoothed []float64
	inner    lipgloss.Color
	outer    lipgloss.Color
}

// NewVisualizer binds the visualizer to a sample tap. tap may be nil.
func NewVisualizer(tap *Tap) *Visualizer {
	return &Visualizer{
		tap:      tap,
		smoothed: make([]float64, vizSectors),
		inner:    lipgloss.Color("#ff9f7a"),
		outer:    lipgloss.Color("#7cffcc"),
	}
}

// SetAccent overrides the inner gradient stop, typically from the user's
// accent setting.
func (v *Visualizer) SetAccent(hex string) {
	if _, err := colorful.Hex(hex); err == nil {
		v.inner = lipgloss.Color(hex)
	}
}

// Frame computes the current sector magnitudes, each in [0,1]. Magnitudes
// decay smoothly between loud frames so the circle breathes instead of
// flickering.
func (v *Visualizer) Frame() []float64 {
	if v.tap == nil {
		return nil
	}
	window := v.tap.Window(VizWindow)
	if len(window) == 0 {
		return nil
	}

	// Hann window keeps bin leakage from smearing the circle.
	for i := range window {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(window)-1)))
		window[i] *= w
	}

	spectrum := fft.FFTReal(window)
	bins := len(spectrum) / 2
	if bins == 0 {
		return nil
	}

	frame := make([]float64, vizSectors)
	for i := 0; i < vizSectors; i++ {
		idx := i * bins / vizSectors
		mag := cmplx.Abs(spectrum[idx]) * 2 / float64(len(window))
		// Perceptual-ish curve; raw magnitudes of music hug zero.
		val := math.Sqrt(math.Min(1, mag*24))
		if val > v.smoothed[i] {
			v.smoothed[i] = val
		} else {
			v.smoothed[i] *= 0.82
		}
		frame[i] = v.smoothed[i]
	}
	return frame
}

// Render draws the circular visualization into a width x height cell grid.
// Radial bars start at an inner ring and extend outward with the sector's
// magnitude, colored along a two-stop gradient. An empty frame yields blank
// space of the same size, so the layout never jumps.
func (v *Visualizer) Render(width, height int) string {
	frame := v.Frame()
	return renderCircle(frame, width, height, v.inner, v.outer)
}

func renderCircle(frame []float64, width, height int, inner, outer lipgloss.Color) string {
	if width < 4 || height < 2 {
		return ""
	}

	from, errFrom := colorful.Hex(string(inner))
	to, errTo := colorful.Hex(string(outer))
	gradient := errFrom == nil && errTo == nil

	// Terminal cells are roughly twice as tall as wide.
	cx := float64(width) / 2
	cy := float64(height) / 2
	minDim := math.Min(float64(width), float64(height)*2)
	baseRadius := minDim * 0.18
	maxLen := minDim * 0.38

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) - cx
			dy := (float64(y) - cy) * 2
			r := math.Hypot(dx, dy)

			if frame == nil || r < baseRadius-0.5 {
				b.WriteByte(' ')
				continue
			}

			angle := math.Atan2(dy, dx)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			sector := int(angle / (2 * math.Pi) * float64(len(frame)))
			if sector >= len(frame) {
				sector = len(frame) - 1
			}

			barEnd := baseRadius + frame[sector]*maxLen
			if r > barEnd {
				b.WriteByte(' ')
				continue
			}

			if !gradient {
				b.WriteRune('█')
				continue
			}
			pos := (r - baseRadius) / maxLen
			if pos < 0 {
				pos = 0
			} else if pos > 1 {
				pos = 1
			}
			c := from.BlendLuv(to, pos)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
