package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omnimedia/omnihub/internal/domain"
)

// SearchResults groups ranked matches across the media collections.
type SearchResults struct {
	Tracks []domain.Track
	Movies []domain.Movie
}

// Search runs a fuzzy match over track and movie metadata and returns
// results ordered by match quality. An empty query returns nothing.
func (s *Service) Search(query string) SearchResults {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResults{}
	}
	return SearchResults{
		Tracks: searchTracks(query, s.Tracks()),
		Movies: searchMovies(query, s.Movies()),
	}
}

func searchTracks(query string, tracks []domain.Track) []domain.Track {
	type scored struct {
		rank  int
		track domain.Track
	}
	var matches []scored
	for _, t := range tracks {
		target := t.Title + " " + t.Artist + " " + t.Album
		ranks := fuzzy.RankFindFold(query, []string{target})
		if len(ranks) == 0 {
			continue
		}
		matches = append(matches, scored{rank: ranks[0].Distance, track: t})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	out := make([]domain.Track, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.track)
	}
	return out
}

func searchMovies(query string, movies []domain.Movie) []domain.Movie {
	type scored struct {
		rank  int
		movie domain.Movie
	}
	var matches []scored
	for _, m := range movies {
		target := m.Title + " " + m.Genre
		ranks := fuzzy.RankFindFold(query, []string{target})
		if len(ranks) == 0 {
			continue
		}
		matches = append(matches, scored{rank: ranks[0].Distance, movie: m})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	out := make([]domain.Movie, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.movie)
	}
	return out
}
