package catalog

import "github.com/omnimedia/omnihub/internal/domain"

// KeyFavorites stores the user's favorited media ids.
const KeyFavorites = "favorites"

// Favorites returns the favorited ids, empty when nothing was favorited.
func (s *Service) Favorites() domain.Favorites {
	var favs domain.Favorites
	s.st.GetCollection(KeyFavorites, &favs)
	return favs
}

// IsFavoriteTrack reports whether a track id is favorited.
func (s *Service) IsFavoriteTrack(id string) bool {
	return contains(s.Favorites().Songs, id)
}

// ToggleFavoriteTrack adds or removes a track id and reports the new state.
func (s *Service) ToggleFavoriteTrack(id string) bool {
	if id == "" {
		return false
	}
	favs := s.Favorites()
	favs.Songs, _ = toggle(favs.Songs, id)
	s.st.SaveCollection(KeyFavorites, favs)
	return contains(favs.Songs, id)
}

// ToggleFavoriteMovie adds or removes a movie id and reports the new state.
func (s *Service) ToggleFavoriteMovie(id string) bool {
	if id == "" {
		return false
	}
	favs := s.Favorites()
	favs.Movies, _ = toggle(favs.Movies, id)
	s.st.SaveCollection(KeyFavorites, favs)
	return contains(favs.Movies, id)
}

// FavoriteTracks resolves the favorited song ids against the track catalog,
// in favorited order. Ids no longer present in the catalog are skipped.
func (s *Service) FavoriteTracks() []domain.Track {
	tracks := s.Tracks()
	byID := make(map[string]domain.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}
	var out []domain.Track
	for _, id := range s.Favorites().Songs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// toggle removes id when present, appends it otherwise. The second return
// reports whether the id ended up in the list.
func toggle(ids []string, id string) ([]string, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}
