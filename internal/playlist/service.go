// Package playlist manages named track collections, persisted independently
// of the live playback queue.
package playlist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

// Service provides playlist CRUD over the store. Mutations persist the full
// playlist list synchronously, the same write discipline as the queue.
type Service struct {
	st     *store.Store
	logger *slog.Logger

	mu        sync.RWMutex
	playlists []domain.Playlist
}

// NewService restores the playlist list from the store.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{st: st, logger: logger}
	if playlists, ok := st.GetPlaylists(); ok {
		s.playlists = playlists
	}
	return s
}

func (s *Service) persistLocked() {
	s.st.SavePlaylists(s.playlists)
}

func (s *Service) indexOfLocked(id string) int {
	for i := range s.playlists {
		if s.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

// All returns a copy of every playlist.
func (s *Service) All() []domain.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// Get returns a copy of the playlist with the given id.
func (s *Service) Get(id string) (domain.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.Playlist{}, domain.ErrPlaylistNotFound
	}
	p := s.playlists[i]
	p.Tracks = append([]domain.Track(nil), p.Tracks...)
	return p, nil
}

// Create makes a new empty playlist. The name must be non-empty.
func (s *Service) Create(name string) (domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Playlist{}, domain.ErrEmptyPlaylistName
	}

	now := time.Now()
	p := domain.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		Tracks:    []domain.Track{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = append(s.playlists, p)
	s.persistLocked()
	return p, nil
}

// Rename changes a playlist's name. The new name must be non-empty.
func (s *Service) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyPlaylistName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.ErrPlaylistNotFound
	}
	s.playlists[i].Name = name
	s.playlists[i].UpdatedAt = time.Now()
	s.persistLocked()
	return nil
}

// Delete removes a playlist by id.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.ErrPlaylistNotFound
	}
	s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
	s.persistLocked()
	return nil
}

// AddTrack appends a copy of the track to the playlist. The stored copy is
// independent of the queue's copy.
func (s *Service) AddTrack(id string, t domain.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.ErrPlaylistNotFound
	}
	s.playlists[i].Tracks = append(s.playlists[i].Tracks, t)
	s.playlists[i].UpdatedAt = time.Now()
	s.persistLocked()
	return nil
}

// RemoveTrackAt removes the track at index from the playlist.
func (s *Service) RemoveTrackAt(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.ErrPlaylistNotFound
	}
	tracks := s.playlists[i].Tracks
	if index < 0 || index >= len(tracks) {
		return domain.ErrTrackNotFound
	}
	s.playlists[i].Tracks = append(tracks[:index], tracks[index+1:]...)
	s.playlists[i].UpdatedAt = time.Now()
	s.persistLocked()
	return nil
}

// Reorder moves the track at from to position to, the same remove-and-insert
// semantics as the queue.
func (s *Service) Reorder(id string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.ErrPlaylistNotFound
	}
	tracks := s.playlists[i].Tracks
	if from < 0 || from >= len(tracks) || to < 0 || to >= len(tracks) || from == to {
		return nil
	}
	item := tracks[from]
	tracks = append(tracks[:from], tracks[from+1:]...)

	rest := make([]domain.Track, 0, len(tracks)+1)
	rest = append(rest, tracks[:to]...)
	rest = append(rest, item)
	rest = append(rest, tracks[to:]...)
	s.playlists[i].Tracks = rest
	s.playlists[i].UpdatedAt = time.Now()
	s.persistLocked()
	return nil
}

// Tracks returns a copy of a playlist's tracks, ready to be played into a
// fresh queue. The caller hands the copy to the queue; the playlist itself
// is untouched by subsequent queue mutations.
func (s *Service) Tracks(id string) ([]domain.Track, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return p.Tracks, nil
}

// Import merges a JSON array of playlists. Malformed JSON aborts the whole
// import with no partial write. Entries missing an id receive a fresh unique
// id that cannot collide with existing playlist ids.
func (s *Service) Import(raw []byte) (int, error) {
	var incoming []domain.Playlist
	if err := json.Unmarshal(raw, &incoming); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidJSON, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.playlists))
	for _, p := range s.playlists {
		seen[p.ID] = true
	}

	now := time.Now()
	for i := range incoming {
		p := &incoming[i]
		if p.ID == "" || seen[p.ID] {
			p.ID = uuid.NewString()
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Name) == "" {
			p.Name = "Imported playlist"
		}
		if p.Tracks == nil {
			p.Tracks = []domain.Track{}
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	}

	s.playlists = append(s.playlists, incoming...)
	s.persistLocked()
	return len(incoming), nil
}
