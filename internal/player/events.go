package player

import (
	"time"

	"github.com/omnimedia/omnihub/internal/domain"
)

// EventType identifies an audio backend event.
type EventType int

const (
	EventTrackStarted EventType = iota
	EventTrackEnded
	EventPositionUpdate
	EventError
)

// Event is emitted by the audio backend. Every event carries the id of the
// track that produced it so consumers can drop stale completions after the
// queue has moved on.
type Event struct {
	Type     EventType
	TrackID  string
	Position time.Duration
	Err      error
}

// Backend is the single media element of the application. It is exclusively
// owned by the Transport; no other component may set its source.
type Backend interface {
	// Play wires the track as the current source and starts playback.
	// Returns domain.ErrUnplayable for tracks without a media source.
	Play(t domain.Track) error
	Pause()
	Resume()
	Stop()
	// Seek moves the playhead. No-op until the media duration is known.
	Seek(pos time.Duration)
	SetVolume(v float64)
	SetMuted(muted bool)
	Position() time.Duration
	// Duration returns 0 while no media is loaded or metadata is unknown.
	Duration() time.Duration
	Events() <-chan Event
}
