package player

import (
	"errors"
	"testing"
	"time"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/queue"
	"github.com/omnimedia/omnihub/internal/store"
)

// fakeBackend records calls and lets tests script failures and durations.
type fakeBackend struct {
	events   chan Event
	playErr  error
	playing  []string // ids passed to Play, in order
	paused   int
	resumed  int
	stopped  int
	seeks    []time.Duration
	volume   float64
	muted    bool
	duration time.Duration
	position time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{events: make(chan Event, 20), volume: 1}
}

func (f *fakeBackend) Play(t domain.Track) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = append(f.playing, t.ID)
	return nil
}
func (f *fakeBackend) Pause()                  { f.paused++ }
func (f *fakeBackend) Resume()                 { f.resumed++ }
func (f *fakeBackend) Stop()                   { f.stopped++ }
func (f *fakeBackend) Seek(pos time.Duration)  { f.seeks = append(f.seeks, pos) }
func (f *fakeBackend) SetVolume(v float64)     { f.volume = v }
func (f *fakeBackend) SetMuted(m bool)         { f.muted = m }
func (f *fakeBackend) Position() time.Duration { return f.position }
func (f *fakeBackend) Duration() time.Duration { return f.duration }
func (f *fakeBackend) Events() <-chan Event    { return f.events }

func track(id string) domain.Track {
	return domain.Track{ID: id, Title: "Track " + id, Src: "/music/" + id + ".mp3"}
}

func setup(t *testing.T, tracks ...domain.Track) (*Transport, *fakeBackend, *queue.Model, *store.Store) {
	t.Helper()
	st := store.NewMemory(nil)
	q := queue.New(st, nil)
	for _, tr := range tracks {
		q.Append(tr)
	}
	b := newFakeBackend()
	tr := NewTransport(b, q, st, nil, nil)
	return tr, b, q, st
}

func TestPlay_EmptyQueueIsNoOp(t *testing.T) {
	tr, b, _, _ := setup(t)

	tr.Play()

	if tr.IsPlaying() {
		t.Error("isPlaying must stay false on an empty queue")
	}
	if len(b.playing) != 0 {
		t.Errorf("no media source should be set, got plays %v", b.playing)
	}
	if tr.Status() != StatusEmpty {
		t.Errorf("status = %v, want empty", tr.Status())
	}
}

func TestPlayPauseCycle(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)

	tr.Play()
	if !tr.IsPlaying() {
		t.Fatal("expected playing after Play")
	}
	if len(b.playing) != 1 || b.playing[0] != "a" {
		t.Fatalf("backend plays = %v, want [a]", b.playing)
	}

	tr.Pause()
	if tr.IsPlaying() {
		t.Error("expected paused after Pause")
	}
	if b.paused != 1 {
		t.Errorf("backend pauses = %d, want 1", b.paused)
	}

	// Resuming must not re-wire the source
	tr.Play()
	if !tr.IsPlaying() {
		t.Error("expected playing after resume")
	}
	if len(b.playing) != 1 {
		t.Errorf("resume should not call Play again, plays = %v", b.playing)
	}
	if b.resumed != 1 {
		t.Errorf("backend resumes = %d, want 1", b.resumed)
	}
}

func TestPlay_StartRejectionStaysPaused(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"))
	q.JumpTo(0)
	b.playErr = errors.New("autoplay policy")

	tr.Play()

	if tr.IsPlaying() {
		t.Error("rejected start must leave the transport paused")
	}
	if tr.Status() != StatusPaused {
		t.Errorf("status = %v, want paused", tr.Status())
	}
}

func TestPlay_UnplayableTrackEmitsNoAudio(t *testing.T) {
	tr, b, q, _ := setup(t, domain.Track{ID: "x", Title: "Display Only"})
	q.JumpTo(0)

	tr.Play()

	if len(b.playing) != 0 {
		t.Errorf("unplayable track must not reach the backend, plays = %v", b.playing)
	}
	if tr.IsPlaying() {
		t.Error("unplayable track must not report playing")
	}
	if cur := tr.Current(); cur == nil || cur.Title != "Display Only" {
		t.Errorf("title should still display, got %v", cur)
	}
}

func TestNext_LoadsFollowingTrack(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)
	tr.Play()

	tr.Next()

	if q.Index() != 1 {
		t.Errorf("cursor = %d, want 1", q.Index())
	}
	if cur := tr.Current(); cur == nil || cur.ID != "b" {
		t.Errorf("loaded track = %v, want b", cur)
	}
	if b.playing[len(b.playing)-1] != "b" {
		t.Errorf("backend plays = %v, want b last", b.playing)
	}
}

func TestNext_AtLastIndexIsNoOp(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(1)
	tr.Play()
	plays := len(b.playing)

	tr.Next()

	if q.Index() != 1 {
		t.Errorf("cursor moved to %d, want 1", q.Index())
	}
	if len(b.playing) != plays {
		t.Error("no-op Next must not reload the source")
	}
}

func TestPrevious_AtZeroIsNoOp(t *testing.T) {
	tr, _, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)
	tr.Play()

	tr.Previous()

	if q.Index() != 0 {
		t.Errorf("cursor moved to %d, want 0", q.Index())
	}
}

func TestEnded_LoopReplaysWithoutAdvancing(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)
	tr.Play()
	tr.ToggleLoop()

	msg := tr.HandleEvent(Event{Type: EventTrackEnded, TrackID: "a"})

	if msg != "" {
		t.Errorf("msg = %q, want none", msg)
	}
	if q.Index() != 0 {
		t.Errorf("loop replay must not advance, cursor = %d", q.Index())
	}
	if !tr.IsPlaying() {
		t.Error("loop replay should be playing")
	}
	if b.playing[len(b.playing)-1] != "a" {
		t.Errorf("backend plays = %v, want a replayed", b.playing)
	}
}

func TestEnded_AdvancesExactlyOnce(t *testing.T) {
	tr, _, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)
	tr.Play()

	tr.HandleEvent(Event{Type: EventTrackEnded, TrackID: "a"})

	if q.Index() != 1 {
		t.Errorf("cursor = %d, want 1", q.Index())
	}
	if !tr.IsPlaying() {
		t.Error("auto-advance should be playing")
	}
	if cur := tr.Current(); cur == nil || cur.ID != "b" {
		t.Errorf("loaded = %v, want b", cur)
	}
}

func TestEnded_AtQueueEndHalts(t *testing.T) {
	tr, _, q, _ := setup(t, track("a"))
	q.JumpTo(0)
	tr.Play()

	msg := tr.HandleEvent(Event{Type: EventTrackEnded, TrackID: "a"})

	if msg != "Queue ended" {
		t.Errorf("msg = %q, want Queue ended", msg)
	}
	if q.Index() != 0 {
		t.Errorf("cursor must not advance past the end, got %d", q.Index())
	}
	if tr.IsPlaying() {
		t.Error("playback should halt at queue end")
	}
}

func TestHandleEvent_StaleTrackDropped(t *testing.T) {
	tr, _, q, _ := setup(t, track("a"), track("b"))
	q.JumpTo(0)
	tr.Play()
	tr.Next() // loaded is now b

	// A late end event from the previous track must not advance again.
	tr.HandleEvent(Event{Type: EventTrackEnded, TrackID: "a"})

	if q.Index() != 1 {
		t.Errorf("stale event advanced the cursor to %d", q.Index())
	}
	if cur := tr.Current(); cur == nil || cur.ID != "b" {
		t.Errorf("loaded = %v, want b", cur)
	}
}

func TestPlayTracks_ReplacesQueueAndStarts(t *testing.T) {
	tr, b, q, _ := setup(t, track("old1"), track("old2"))
	q.JumpTo(0)
	tr.Play()

	tr.PlayTracks([]domain.Track{track("p1"), track("p2"), track("p3")}, 1)

	if q.Len() != 3 || q.Index() != 1 {
		t.Fatalf("queue len/index = %d/%d, want 3/1", q.Len(), q.Index())
	}
	if last := b.playing[len(b.playing)-1]; last != "p2" {
		t.Errorf("backend playing %q, want p2", last)
	}
	if !tr.IsPlaying() {
		t.Error("expected playing after playlist handoff")
	}
}

func TestPlayTracks_EmptySetClearsPlayback(t *testing.T) {
	tr, _, q, _ := setup(t, track("a"))
	q.JumpTo(0)
	tr.Play()

	tr.PlayTracks(nil, 0)

	if q.Len() != 0 || q.Index() != -1 {
		t.Fatalf("queue len/index = %d/%d, want 0/-1", q.Len(), q.Index())
	}
	if tr.Status() != StatusEmpty {
		t.Errorf("status = %v, want empty", tr.Status())
	}
}

func TestSeek_NoOpWithoutDuration(t *testing.T) {
	tr, b, q, _ := setup(t, track("a"))
	q.JumpTo(0)
	tr.Play()

	tr.SeekFraction(0.5)
	if len(b.seeks) != 0 {
		t.Errorf("seek before metadata must be a no-op, got %v", b.seeks)
	}

	b.duration = 100 * time.Second
	tr.SeekFraction(0.5)
	if len(b.seeks) != 1 || b.seeks[0] != 50*time.Second {
		t.Errorf("seeks = %v, want [50s]", b.seeks)
	}
}

func TestVolumeMutePersisted(t *testing.T) {
	tr, b, _, st := setup(t, track("a"))

	if err := tr.SetVolume(1.5); err == nil {
		t.Error("volume above 1 should be rejected")
	}
	if err := tr.SetVolume(0.3); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if b.volume != 0.3 {
		t.Errorf("backend volume = %v, want 0.3", b.volume)
	}

	tr.ToggleMute()
	if !b.muted {
		t.Error("backend should be muted")
	}

	prefs, ok := st.GetPlayerPrefs()
	if !ok {
		t.Fatal("prefs should persist")
	}
	if prefs.Volume != 0.3 || !prefs.Muted {
		t.Errorf("prefs = %+v", prefs)
	}
}

func TestRestart_ResumesTrackIdentityAndIndex(t *testing.T) {
	st := store.NewMemory(nil)
	q := queue.New(st, nil)
	q.Append(track("a"))
	q.Append(track("b"))
	q.JumpTo(1)
	b := newFakeBackend()
	tr := NewTransport(b, q, st, nil, nil)
	tr.Play()
	tr.SetVolume(0.4)
	tr.ToggleLoop()

	// Fresh components over the same store stand in for a page reload.
	q2 := queue.New(st, nil)
	b2 := newFakeBackend()
	tr2 := NewTransport(b2, q2, st, nil, nil)

	if q2.Index() != 1 {
		t.Errorf("restored cursor = %d, want 1", q2.Index())
	}
	if cur := tr2.Current(); cur == nil || cur.ID != "b" {
		t.Errorf("restored track = %v, want b", cur)
	}
	if tr2.IsPlaying() {
		t.Error("restore loads paused, not playing")
	}
	if tr2.Volume() != 0.4 || !tr2.Loop() {
		t.Errorf("restored prefs: volume=%v loop=%v", tr2.Volume(), tr2.Loop())
	}
	if saved, ok := st.GetCurrentTrack(); !ok || saved.ID != "b" {
		t.Errorf("current track snapshot = %+v, %v", saved, ok)
	}
}
