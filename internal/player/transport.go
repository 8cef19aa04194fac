package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/lyrics"
	"github.com/omnimedia/omnihub/internal/queue"
	"github.com/omnimedia/omnihub/internal/store"
)

// Status is the transport's visible playback state.
type Status int

const (
	StatusEmpty Status = iota
	StatusPaused
	StatusPlaying
)

func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	default:
		return "empty"
	}
}

// Transport owns the audio backend and exposes the player controls. The
// queue is the source of truth for what should be playing; the transport's
// own flags are re-derived from backend events and never persisted as truth.
//
// Every transport operation re-persists the queue snapshot and current track
// so a restart resumes at the same track and index. The exact playback
// offset is not restored.
type Transport struct {
	backend Backend
	queue   *queue.Model
	st      *store.Store
	loader  *lyrics.Loader
	logger  *slog.Logger

	mu      sync.Mutex
	status  Status
	engaged bool // backend has a wired source for the loaded track
	loop    bool
	muted   bool
	volume  float64
	loaded  domain.Track
	lyr     lyrics.Lyrics
}

// NewTransport restores transport preferences and, when the queue resumed
// with a current entry, loads it paused.
func NewTransport(backend Backend, q *queue.Model, st *store.Store, loader *lyrics.Loader, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Transport{
		backend: backend,
		queue:   q,
		st:      st,
		loader:  loader,
		logger:  logger,
		volume:  1,
		lyr:     lyrics.Lyrics{Plain: lyrics.Placeholder},
	}

	if prefs, ok := st.GetPlayerPrefs(); ok {
		if prefs.Volume >= 0 && prefs.Volume <= 1 {
			t.volume = prefs.Volume
		}
		t.muted = prefs.Muted
		t.loop = prefs.Loop
	}
	backend.SetVolume(t.volume)
	backend.SetMuted(t.muted)

	if cur := q.Current(); cur != nil {
		t.loadLocked(*cur)
	}
	return t
}

// SetDefaultVolume applies the settings default when no preference was
// stored yet.
func (t *Transport) SetDefaultVolume(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.st.GetPlayerPrefs(); ok {
		return
	}
	if v < 0 || v > 1 {
		return
	}
	t.volume = v
	t.backend.SetVolume(v)
	t.persistPrefsLocked()
}

func (t *Transport) persistLocked() {
	// Queue mutations persist the snapshot themselves; the current-track
	// snapshot is refreshed here so transport-only ops keep it current.
	if cur := t.queue.Current(); cur != nil {
		t.st.SaveCurrentTrack(*cur)
	}
}

func (t *Transport) persistPrefsLocked() {
	t.st.SavePlayerPrefs(store.PlayerPrefs{Volume: t.volume, Muted: t.muted, Loop: t.loop})
}

// loadLocked wires a track as the loaded entry: display metadata, lyric
// load, paused state. The backend source is wired lazily on Play; an
// unplayable track stays display-only.
func (t *Transport) loadLocked(track domain.Track) {
	t.loaded = track
	t.status = StatusPaused
	t.engaged = false
	t.lyr = lyrics.Lyrics{Plain: lyrics.Placeholder}
	t.persistLocked()

	if t.loader == nil || track.Lyrics == "" {
		return
	}
	// Best effort in the background; a stale result is dropped when the
	// loaded track has moved on by the time it arrives.
	id := track.ID
	url := track.Lyrics
	go func() {
		l := t.loader.Load(context.Background(), url)
		t.mu.Lock()
		if t.loaded.ID == id {
			t.lyr = l
		}
		t.mu.Unlock()
	}()
}

// startLocked starts or resumes the backend for the loaded track. Start
// failure is swallowed: the transport stays paused and the failure is
// logged, matching the fire-and-forget play contract.
func (t *Transport) startLocked() {
	if !t.loaded.Playable() {
		t.logger.Info("track has no media source, staying paused", "title", t.loaded.DisplayTitle())
		return
	}
	if t.engaged {
		t.backend.Resume()
		t.status = StatusPlaying
		return
	}
	if err := t.backend.Play(t.loaded); err != nil {
		t.logger.Warn("playback start rejected", "track", t.loaded.ID, "error", err)
		t.status = StatusPaused
		return
	}
	t.engaged = true
	t.status = StatusPlaying
}

// Play resolves the current queue entry and starts playback. With an empty
// queue this is a no-op: no source is wired and the state stays not-playing.
func (t *Transport) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == StatusEmpty || t.loaded.ID != currentID(t.queue) {
		cur := t.queue.Current()
		if cur == nil {
			return
		}
		t.loadLocked(*cur)
	}
	t.startLocked()
	t.persistLocked()
}

func currentID(q *queue.Model) string {
	if cur := q.Current(); cur != nil {
		return cur.ID
	}
	return ""
}

// Pause pauses playback. No-op unless playing.
func (t *Transport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusPlaying {
		return
	}
	t.backend.Pause()
	t.status = StatusPaused
	t.persistLocked()
}

// Toggle flips between playing and paused.
func (t *Transport) Toggle() {
	t.mu.Lock()
	playing := t.status == StatusPlaying
	t.mu.Unlock()
	if playing {
		t.Pause()
	} else {
		t.Play()
	}
}

// Next moves to the next queue entry and plays it. At the last index this is
// a no-op; there is no wraparound.
func (t *Transport) Next() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.queue.Advance() {
		return
	}
	t.jumpLocked()
}

// Previous moves to the previous queue entry and plays it. At index 0 this
// is a no-op.
func (t *Transport) Previous() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.queue.Retreat() {
		return
	}
	t.jumpLocked()
}

// JumpTo plays the queue entry at index.
func (t *Transport) JumpTo(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.queue.JumpTo(index) {
		return
	}
	t.jumpLocked()
}

func (t *Transport) jumpLocked() {
	t.backend.Stop()
	cur := t.queue.Current()
	if cur == nil {
		t.status = StatusEmpty
		return
	}
	t.loadLocked(*cur)
	t.startLocked()
	t.persistLocked()
}

// PlayTracks replaces the queue with the given tracks and starts playback
// at the chosen index. Used when a playlist is played into a fresh queue.
func (t *Transport) PlayTracks(tracks []domain.Track, start int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.Stop()
	t.queue.Replace(tracks, start)
	cur := t.queue.Current()
	if cur == nil {
		t.status = StatusEmpty
		t.engaged = false
		t.loaded = domain.Track{}
		return
	}
	t.loadLocked(*cur)
	t.startLocked()
	t.persistLocked()
}

// Stop halts playback and unloads the source, used when the queue is
// cleared.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.Stop()
	t.status = StatusEmpty
	t.engaged = false
	t.loaded = domain.Track{}
	t.lyr = lyrics.Lyrics{Plain: lyrics.Placeholder}
}

// SeekFraction seeks to a fraction of the media duration. A no-op until the
// duration is known.
func (t *Transport) SeekFraction(frac float64) {
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	d := t.backend.Duration()
	if d <= 0 {
		return
	}
	t.backend.Seek(time.Duration(float64(d) * frac))
}

// SeekBy shifts the playhead by delta, clamped by the backend.
func (t *Transport) SeekBy(delta time.Duration) {
	d := t.backend.Duration()
	if d <= 0 {
		return
	}
	pos := t.backend.Position() + delta
	if pos < 0 {
		pos = 0
	}
	if pos > d {
		pos = d
	}
	t.backend.Seek(pos)
}

// SetVolume sets the playback volume within [0,1] and persists it.
func (t *Transport) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return domain.ErrInvalidVolume
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.volume = v
	t.backend.SetVolume(v)
	t.persistPrefsLocked()
	return nil
}

// ToggleMute flips the mute flag and persists it.
func (t *Transport) ToggleMute() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = !t.muted
	t.backend.SetMuted(t.muted)
	t.persistPrefsLocked()
	return t.muted
}

// ToggleLoop flips the replay-current-track flag and persists it.
func (t *Transport) ToggleLoop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loop = !t.loop
	t.persistPrefsLocked()
	return t.loop
}

// HandleEvent consumes a backend event and returns a user-facing notice
// ("" when there is nothing to announce). Events carrying a track id other
// than the loaded track are stale completions from before a track change
// and are dropped.
func (t *Transport) HandleEvent(ev Event) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.TrackID != t.loaded.ID {
		return ""
	}

	switch ev.Type {
	case EventTrackStarted:
		t.status = StatusPlaying

	case EventTrackEnded:
		return t.handleEndedLocked()

	case EventError:
		t.logger.Warn("playback error", "track", ev.TrackID, "error", ev.Err)
		t.status = StatusPaused
		t.engaged = false
		return "Playback failed"
	}
	return ""
}

// handleEndedLocked resolves end-of-track: loop replays the same entry,
// otherwise the cursor advances and the next entry auto-plays; at the end of
// the queue playback halts without advancing.
func (t *Transport) handleEndedLocked() string {
	if t.loop {
		t.engaged = false
		t.startLocked()
		return ""
	}
	if t.queue.Advance() {
		cur := t.queue.Current()
		if cur == nil {
			t.status = StatusEmpty
			return ""
		}
		t.loadLocked(*cur)
		t.startLocked()
		return ""
	}
	t.status = StatusPaused
	t.engaged = false
	return "Queue ended"
}

// === Read accessors for the UI ===

func (t *Transport) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Transport) IsPlaying() bool {
	return t.Status() == StatusPlaying
}

func (t *Transport) Loop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loop
}

func (t *Transport) Muted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.muted
}

func (t *Transport) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

// Current returns the loaded track, or nil when nothing is loaded.
func (t *Transport) Current() *domain.Track {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusEmpty {
		return nil
	}
	track := t.loaded
	return &track
}

func (t *Transport) Position() time.Duration {
	return t.backend.Position()
}

func (t *Transport) Duration() time.Duration {
	return t.backend.Duration()
}

// Lyrics returns the parsed lyrics for the loaded track (placeholder until
// the background load resolves).
func (t *Transport) Lyrics() lyrics.Lyrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lyr
}

// ActiveLyricIndex resolves the active lyric line for the current playhead.
func (t *Transport) ActiveLyricIndex() int {
	l := t.Lyrics()
	return l.ActiveIndex(t.backend.Position().Seconds())
}
