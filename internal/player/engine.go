package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/omnimedia/omnihub/internal/domain"
)

// Ensure Engine implements Backend at compile time
var _ Backend = (*Engine)(nil)

type commandType int

const (
	cmdPlay commandType = iota
	cmdPause
	cmdResume
	cmdStop
	cmdSeek
	cmdVolume
	cmdMute
)

type command struct {
	typ    commandType
	track  domain.Track
	pos    time.Duration
	volume float64
	muted  bool
}

// Engine drives the speaker through beep. Commands are serialized on a
// single goroutine; state reads go through the mutex.
type Engine struct {
	logger *slog.Logger
	tap    *Tap
	client *http.Client

	commands chan command
	events   chan Event

	mu         sync.RWMutex
	streamer   beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	sampleRate beep.SampleRate
	// Rate the speaker was last initialized at; 0 until the first play. A
	// track decoded at a different rate re-initializes the speaker, else it
	// would keep pulling samples at the old rate and shift pitch.
	speakerRate beep.SampleRate
	trackID    string
	playing    bool
	vol        float64
	muted      bool
	tmpFile    string
}

// NewEngine creates the audio engine. The tap may be nil when no visualizer
// is attached.
func NewEngine(tap *Tap, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		tap:      tap,
		client:   &http.Client{Timeout: 60 * time.Second},
		commands: make(chan command, 10),
		events:   make(chan Event, 20),
		vol:      1,
	}
}

// Start begins the command loop and the position ticker.
func (e *Engine) Start(ctx context.Context) {
	go e.run(ctx)
	go e.trackPosition(ctx)
}

func (e *Engine) Events() <-chan Event {
	return e.events
}

func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.stopPlayback()
			return

		case cmd := <-e.commands:
			switch cmd.typ {
			case cmdPlay:
				if err := e.playTrack(cmd.track); err != nil {
					e.emit(Event{Type: EventError, TrackID: cmd.track.ID, Err: err})
				}

			case cmdPause:
				e.mu.Lock()
				if e.ctrl != nil {
					speaker.Lock()
					e.ctrl.Paused = true
					speaker.Unlock()
					e.playing = false
				}
				e.mu.Unlock()

			case cmdResume:
				e.mu.Lock()
				if e.ctrl != nil {
					speaker.Lock()
					e.ctrl.Paused = false
					speaker.Unlock()
					e.playing = true
				}
				e.mu.Unlock()

			case cmdStop:
				e.stopPlayback()

			case cmdSeek:
				e.seekTo(cmd.pos)

			case cmdVolume:
				e.mu.Lock()
				e.vol = cmd.volume
				if e.volume != nil {
					speaker.Lock()
					e.volume.Volume = cmd.volume*2 - 1
					speaker.Unlock()
				}
				e.mu.Unlock()

			case cmdMute:
				e.mu.Lock()
				e.muted = cmd.muted
				if e.volume != nil {
					speaker.Lock()
					e.volume.Silent = cmd.muted
					speaker.Unlock()
				}
				e.mu.Unlock()
			}
		}
	}
}

func (e *Engine) trackPosition(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.RLock()
			if e.playing && e.streamer != nil {
				pos := e.sampleRate.D(e.streamer.Position())
				id := e.trackID
				e.mu.RUnlock()
				e.emit(Event{Type: EventPositionUpdate, TrackID: id, Position: pos})
				continue
			}
			e.mu.RUnlock()
		}
	}
}

// emit never blocks; a full channel drops the event. Position updates are
// periodic and lifecycle events are re-derived from state, so drops are safe.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Engine) playTrack(t domain.Track) error {
	src := t.Source()
	if src == "" {
		return domain.ErrUnplayable
	}

	f, tmp, err := e.openSource(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	streamer, format, err := decodeAudio(f, src)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", src, err)
	}

	e.stopPlayback()

	e.mu.Lock()
	e.streamer = streamer
	e.sampleRate = format.SampleRate
	e.trackID = t.ID
	e.tmpFile = tmp
	e.ctrl = &beep.Ctrl{Streamer: streamer, Paused: false}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   e.vol*2 - 1,
		Silent:   e.muted,
	}
	chain := beep.Streamer(e.volume)
	if e.tap != nil {
		chain = e.tap.Bind(chain)
	}
	e.playing = true
	if needsSpeakerInit(e.speakerRate, format.SampleRate) {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			e.playing = false
			e.mu.Unlock()
			return fmt.Errorf("speaker init: %w", err)
		}
		e.speakerRate = format.SampleRate
	}
	id := t.ID
	e.mu.Unlock()

	speaker.Play(beep.Seq(chain, beep.Callback(func() {
		e.emit(Event{Type: EventTrackEnded, TrackID: id})
	})))

	e.emit(Event{Type: EventTrackStarted, TrackID: id})
	return nil
}

// needsSpeakerInit reports whether the speaker must be (re)initialized for
// a track decoded at the given rate.
func needsSpeakerInit(active, next beep.SampleRate) bool {
	return active != next
}

// openSource opens a local file directly; remote sources are spooled to a
// temp file first because the decoders need seeking.
func (e *Engine) openSource(src string) (io.ReadSeekCloser, string, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		return f, "", err
	}

	resp, err := e.client.Get(src)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "omnihub-media-*"+sourceExt(src))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, "", err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, "", err
	}
	return tmp, tmp.Name(), nil
}

func (e *Engine) stopPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.speakerRate != 0 {
		speaker.Clear()
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.tmpFile != "" {
		os.Remove(e.tmpFile)
		e.tmpFile = ""
	}
	e.ctrl = nil
	e.volume = nil
	e.playing = false
	e.trackID = ""
	if e.tap != nil {
		e.tap.Reset()
	}
}

func (e *Engine) seekTo(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}
	n := e.sampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if n >= e.streamer.Len() {
		n = e.streamer.Len() - 1
	}
	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		e.logger.Warn("seek failed", "pos", pos, "error", err)
	}
}

// === Backend ===

func (e *Engine) Play(t domain.Track) error {
	if !t.Playable() {
		return domain.ErrUnplayable
	}
	e.commands <- command{typ: cmdPlay, track: t}
	return nil
}

func (e *Engine) Pause() {
	e.commands <- command{typ: cmdPause}
}

func (e *Engine) Resume() {
	e.commands <- command{typ: cmdResume}
}

func (e *Engine) Stop() {
	e.commands <- command{typ: cmdStop}
}

func (e *Engine) Seek(pos time.Duration) {
	e.commands <- command{typ: cmdSeek, pos: pos}
}

func (e *Engine) SetVolume(v float64) {
	if v < 0 || v > 1 {
		return
	}
	e.commands <- command{typ: cmdVolume, volume: v}
}

func (e *Engine) SetMuted(muted bool) {
	e.commands <- command{typ: cmdMute, muted: muted}
}

func (e *Engine) Position() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.streamer == nil {
		return 0
	}
	return e.sampleRate.D(e.streamer.Position())
}

func (e *Engine) Duration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.streamer == nil {
		return 0
	}
	return e.sampleRate.D(e.streamer.Len())
}
