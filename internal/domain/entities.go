package domain

import (
	"strings"
	"time"
)

// Track is the unit carried in queues and playlists. It is a value type:
// copies stored in different containers are independent.
type Track struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title"`
	Artist  string  `json:"artist,omitempty"`
	Album   string  `json:"album,omitempty"`
	Genre   string  `json:"genre,omitempty"`
	Cover   string  `json:"cover,omitempty"`
	Src     string  `json:"src,omitempty"`
	File    string  `json:"file,omitempty"`
	Preview string  `json:"preview,omitempty"`
	Lyrics  string  `json:"lyrics,omitempty"`
	Seconds float64 `json:"duration,omitempty"`
}

// Source returns the playable media location, preferring src over file over
// preview. Empty means the track is unplayable (display only).
func (t Track) Source() string {
	if t.Src != "" {
		return t.Src
	}
	if t.File != "" {
		return t.File
	}
	return t.Preview
}

// Playable reports whether the track has any media source at all.
func (t Track) Playable() bool {
	return t.Source() != ""
}

// DisplayTitle returns the title, falling back to "Unknown".
func (t Track) DisplayTitle() string {
	if strings.TrimSpace(t.Title) == "" {
		return "Unknown"
	}
	return t.Title
}

// DisplayArtist returns the artist, falling back to "Unknown".
func (t Track) DisplayArtist() string {
	if strings.TrimSpace(t.Artist) == "" {
		return "Unknown"
	}
	return t.Artist
}

// Same reports whether two tracks refer to the same catalog entry. Tracks
// without an id compare by title, matching how manually entered tracks are
// referenced from playlists.
func (t Track) Same(other Track) bool {
	if t.ID != "" || other.ID != "" {
		return t.ID == other.ID
	}
	return t.Title == other.Title
}

// Playlist is a named, independently persisted collection of tracks,
// distinct from the live queue.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tracks    []Track   `json:"tracks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role gates which dashboard a signed-in user lands on.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleUser:
		return true
	}
	return false
}

// Session identifies the signed-in user for the lifetime chosen at login.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings is the user-facing preferences object. It is data, stored in the
// store, not application configuration.
type Settings struct {
	Theme             string  `json:"theme"`
	Accent            string  `json:"accent"`
	DefaultVolume     float64 `json:"defaultVolume"`
	Autoplay          bool    `json:"autoplay"`
	CrossfadeSeconds  int     `json:"crossfade"`
	Quality           string  `json:"quality"`
	ExplicitAllowed   bool    `json:"explicitAllowed"`
	MiniPlayerEnabled bool    `json:"miniPlayerEnabled"`
	Language          string  `json:"language"`
	Analytics         bool    `json:"analytics"`
}

// DefaultSettings returns the settings applied when nothing is stored yet.
func DefaultSettings() Settings {
	return Settings{
		Theme:             "dark",
		Accent:            "#8be7ff",
		DefaultVolume:     0.8,
		Autoplay:          true,
		CrossfadeSeconds:  3,
		Quality:           "320",
		ExplicitAllowed:   true,
		MiniPlayerEnabled: true,
		Language:          "en",
		Analytics:         false,
	}
}

// Normalize clamps and defaults invalid fields in place. Records read from
// the store pass through here so invalid values never propagate.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	switch s.Theme {
	case "dark", "light", "system":
	default:
		s.Theme = def.Theme
	}
	if !strings.HasPrefix(s.Accent, "#") || (len(s.Accent) != 4 && len(s.Accent) != 7) {
		s.Accent = def.Accent
	}
	if s.DefaultVolume < 0 || s.DefaultVolume > 1 {
		s.DefaultVolume = def.DefaultVolume
	}
	if s.CrossfadeSeconds < 0 || s.CrossfadeSeconds > 12 {
		s.CrossfadeSeconds = def.CrossfadeSeconds
	}
	switch s.Quality {
	case "128", "256", "320", "lossless":
	default:
		s.Quality = def.Quality
	}
	if s.Language == "" {
		s.Language = def.Language
	}
}
