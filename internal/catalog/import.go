package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/omnimedia/omnihub/internal/domain"
)

func newID() string {
	return uuid.NewString()
}

// SeedSources maps collection keys to the static JSON resources they are
// seeded from (http URLs or local paths).
type SeedSources struct {
	Movies    string `mapstructure:"movies"`
	Music     string `mapstructure:"music"`
	Artists   string `mapstructure:"artists"`
	Playlists string `mapstructure:"playlists"`
	Genres    string `mapstructure:"genres"`
	Trending  string `mapstructure:"trending"`
}

// ImportReport records the per-resource outcome of a seed import.
type ImportReport struct {
	Loaded map[string]int   // collection key -> record count
	Failed map[string]error // collection key -> fetch/parse error
}

// ImportSeed loads the seed catalog once at first run. Each resource is
// fetched independently; a failure degrades that one collection to empty
// without aborting the others. Records are normalized at the boundary:
// missing ids are backfilled, titles and names fall back to each other.
func (s *Service) ImportSeed(ctx context.Context, src SeedSources) ImportReport {
	report := ImportReport{Loaded: map[string]int{}, Failed: map[string]error{}}

	importInto(s, ctx, &report, KeyMovies, src.Movies, normalizeMovies)
	importInto(s, ctx, &report, KeyTracks, src.Music, normalizeTracks)
	importInto(s, ctx, &report, KeyArtists, src.Artists, normalizeArtists)
	importInto(s, ctx, &report, KeyPlaylists, src.Playlists, normalizePlaylists)
	importInto(s, ctx, &report, KeyGenres, src.Genres, normalizeGenres)
	importInto(s, ctx, &report, KeyTrending, src.Trending, func(t domain.Trending) domain.Trending { return t })

	s.st.MarkSeeded()
	return report
}

// importInto fetches, parses, normalizes and stores one collection. On any
// failure the collection is written as its zero value so readers see an
// empty list rather than stale or missing data.
func importInto[T any](s *Service, ctx context.Context, report *ImportReport, key, source string, normalize func(T) T) {
	var zero T
	if source == "" {
		s.st.SaveCollection(key, zero)
		return
	}

	raw, err := s.fetch(ctx, source)
	if err == nil {
		var parsed T
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidJSON, jsonErr)
		} else {
			parsed = normalize(parsed)
			s.st.SaveCollection(key, parsed)
			report.Loaded[key] = countOf(parsed)
			return
		}
	}

	s.logger.Warn("seed resource unavailable, degrading to empty", "collection", key, "source", source, "error", err)
	report.Failed[key] = err
	s.st.SaveCollection(key, zero)
}

func countOf(v any) int {
	switch vv := v.(type) {
	case []domain.Movie:
		return len(vv)
	case []domain.Track:
		return len(vv)
	case []domain.Artist:
		return len(vv)
	case []domain.Playlist:
		return len(vv)
	case []domain.Genre:
		return len(vv)
	default:
		return 1
	}
}

func (s *Service) fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}

func normalizeMovies(movies []domain.Movie) []domain.Movie {
	for i := range movies {
		if movies[i].ID == "" {
			movies[i].ID = newID()
		}
		if strings.TrimSpace(movies[i].Title) == "" {
			movies[i].Title = "Untitled"
		}
		if movies[i].Genre == "" {
			movies[i].Genre = "Misc"
		}
	}
	return movies
}

func normalizeTracks(tracks []domain.Track) []domain.Track {
	for i := range tracks {
		if tracks[i].ID == "" {
			tracks[i].ID = newID()
		}
		if strings.TrimSpace(tracks[i].Title) == "" {
			tracks[i].Title = "Untitled"
		}
		if tracks[i].Genre == "" {
			tracks[i].Genre = "Misc"
		}
	}
	return tracks
}

func normalizeArtists(artists []domain.Artist) []domain.Artist {
	for i := range artists {
		if artists[i].ID == "" {
			artists[i].ID = newID()
		}
		if strings.TrimSpace(artists[i].Name) == "" {
			artists[i].Name = "Unknown"
		}
	}
	return artists
}

func normalizePlaylists(playlists []domain.Playlist) []domain.Playlist {
	for i := range playlists {
		if playlists[i].ID == "" {
			playlists[i].ID = newID()
		}
		if strings.TrimSpace(playlists[i].Name) == "" {
			playlists[i].Name = "Untitled playlist"
		}
		if playlists[i].Tracks == nil {
			playlists[i].Tracks = []domain.Track{}
		}
	}
	return playlists
}

func normalizeGenres(genres []domain.Genre) []domain.Genre {
	out := genres[:0]
	for _, g := range genres {
		if g.Name == "" {
			continue
		}
		if g.Color == "" {
			g.Color = "#8be7ff"
		}
		out = append(out, g)
	}
	return out
}

// RegisterLocalFile adds a local audio file to the track catalog, probing
// embedded tags for metadata. Missing tags fall back to the file name.
func (s *Service) RegisterLocalFile(path string) (domain.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Track{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t := domain.Track{
		ID:    newID(),
		Title: baseName(path),
		File:  path,
	}
	if meta, err := tag.ReadFrom(f); err == nil {
		if meta.Title() != "" {
			t.Title = meta.Title()
		}
		t.Artist = meta.Artist()
		t.Album = meta.Album()
		t.Genre = meta.Genre()
	}

	tracks := s.Tracks()
	tracks = append(tracks, t)
	s.SaveTracks(tracks)
	return t, nil
}

func baseName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
