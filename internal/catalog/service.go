// Package catalog manages the seeded content collections (movies, tracks,
// artists, admin records) over the store. Every collection reads back as
// empty when missing or malformed; readers never fail.
package catalog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

// Collection keys within the catalog bucket.
const (
	KeyMovies        = "movies"
	KeyTracks        = "music"
	KeyArtists       = "artists"
	KeyPlaylists     = "playlists"
	KeyGenres        = "genres"
	KeyTrending      = "trending"
	KeyUsers         = "users"
	KeyPayments      = "payments"
	KeyPlans         = "plans"
	KeyLogs          = "logs"
	KeyNotifications = "notifications"
)

// Service reads and writes catalog collections.
type Service struct {
	st     *store.Store
	logger *slog.Logger
	client *http.Client
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		st:     st,
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Movies returns the movie collection, empty when absent.
func (s *Service) Movies() []domain.Movie {
	var movies []domain.Movie
	s.st.GetCollection(KeyMovies, &movies)
	return movies
}

// Tracks returns the music collection, empty when absent.
func (s *Service) Tracks() []domain.Track {
	var tracks []domain.Track
	s.st.GetCollection(KeyTracks, &tracks)
	return tracks
}

// Artists returns the artist collection, empty when absent.
func (s *Service) Artists() []domain.Artist {
	var artists []domain.Artist
	s.st.GetCollection(KeyArtists, &artists)
	return artists
}

// Genres returns the genre collection, empty when absent.
func (s *Service) Genres() []domain.Genre {
	var genres []domain.Genre
	s.st.GetCollection(KeyGenres, &genres)
	return genres
}

// Trending returns the front-page highlight ids.
func (s *Service) Trending() domain.Trending {
	var trending domain.Trending
	s.st.GetCollection(KeyTrending, &trending)
	return trending
}

// Users returns the account records, empty when absent.
func (s *Service) Users() []domain.User {
	var users []domain.User
	s.st.GetCollection(KeyUsers, &users)
	return users
}

// Payments returns the simulated payment records.
func (s *Service) Payments() []domain.Payment {
	var payments []domain.Payment
	s.st.GetCollection(KeyPayments, &payments)
	return payments
}

// Plans returns the subscription plans.
func (s *Service) Plans() []domain.Plan {
	var plans []domain.Plan
	s.st.GetCollection(KeyPlans, &plans)
	return plans
}

// Logs returns the developer-console log records.
func (s *Service) Logs() []domain.LogEntry {
	var logs []domain.LogEntry
	s.st.GetCollection(KeyLogs, &logs)
	return logs
}

// Notifications returns the user notices.
func (s *Service) Notifications() []domain.Notification {
	var notes []domain.Notification
	s.st.GetCollection(KeyNotifications, &notes)
	return notes
}

// SaveTracks replaces the music collection.
func (s *Service) SaveTracks(tracks []domain.Track) {
	s.st.SaveCollection(KeyTracks, tracks)
}

// AppendLog records a developer-console entry. Best effort, like every
// store write.
func (s *Service) AppendLog(level, message string) {
	logs := s.Logs()
	logs = append(logs, domain.LogEntry{
		ID:        newID(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	s.st.SaveCollection(KeyLogs, logs)
}
