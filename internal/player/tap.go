package player

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap copies mono samples out of the playback chain into a ring buffer for
// the visualizer. It is a pure observer: it never alters the samples and
// adds no latency. Rebinding the same tap to a new source as tracks change
// is cheap; the ring simply keeps filling.
type Tap struct {
	mu  sync.Mutex
	buf []float64
	pos int
}

// NewTap creates a tap holding the most recent size samples.
func NewTap(size int) *Tap {
	if size <= 0 {
		size = 4096
	}
	return &Tap{buf: make([]float64, size)}
}

// Bind splices the tap into a streamer chain.
func (t *Tap) Bind(src beep.Streamer) beep.Streamer {
	return &tapStreamer{tap: t, src: src}
}

func (t *Tap) push(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range samples {
		t.buf[t.pos] = (s[0] + s[1]) / 2
		t.pos = (t.pos + 1) % len(t.buf)
	}
}

// Window returns the latest n samples, oldest first. When fewer samples than
// n have ever been pushed the leading part is zero, which renders as silence.
func (t *Tap) Window(n int) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > len(t.buf) {
		n = len(t.buf)
	}
	out := make([]float64, n)
	start := t.pos - n
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i+len(t.buf))%len(t.buf)]
	}
	return out
}

// Reset zeroes the ring, used when playback stops.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.buf {
		t.buf[i] = 0
	}
	t.pos = 0
}

type tapStreamer struct {
	tap *Tap
	src beep.Streamer
}

func (s *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.src.Stream(samples)
	if n > 0 {
		s.tap.push(samples[:n])
	}
	return n, ok
}

func (s *tapStreamer) Err() error {
	return s.src.Err()
}
