package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrTrackNotFound indicates the requested track does not exist
	ErrTrackNotFound = errors.New("track not found")

	// ErrPlaylistNotFound indicates the requested playlist does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrEmptyPlaylistName indicates a playlist was saved without a name
	ErrEmptyPlaylistName = errors.New("playlist name must not be empty")

	// ErrEmptyQueue indicates an operation needed a loaded queue entry
	ErrEmptyQueue = errors.New("playback queue is empty")

	// ErrInvalidVolume indicates a volume outside [0,1]
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")

	// ErrInvalidRole indicates an unknown session role
	ErrInvalidRole = errors.New("role must be admin, developer or user")

	// ErrInvalidJSON indicates a user-supplied import payload that did not parse
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrUnplayable indicates a track with no media source
	ErrUnplayable = errors.New("track has no playable source")
)
