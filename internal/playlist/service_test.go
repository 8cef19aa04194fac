package playlist

import (
	"errors"
	"testing"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.NewMemory(nil)
	return NewService(st, nil), st
}

func TestCreate_RequiresName(t *testing.T) {
	s, _ := newService(t)

	for _, name := range []string{"", "   ", "\t"} {
		if _, err := s.Create(name); !errors.Is(err, domain.ErrEmptyPlaylistName) {
			t.Errorf("Create(%q) error = %v, want ErrEmptyPlaylistName", name, err)
		}
	}

	p, err := s.Create("Road Trip")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Error("created playlist must have an id")
	}
	if len(p.Tracks) != 0 {
		t.Error("created playlist starts empty")
	}
}

func TestRenameDelete(t *testing.T) {
	s, _ := newService(t)
	p, _ := s.Create("Old")

	if err := s.Rename(p.ID, "New"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, _ := s.Get(p.ID)
	if got.Name != "New" {
		t.Errorf("Name = %q, want New", got.Name)
	}

	if err := s.Rename("missing", "x"); !errors.Is(err, domain.ErrPlaylistNotFound) {
		t.Errorf("Rename missing = %v, want ErrPlaylistNotFound", err)
	}

	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(p.ID); !errors.Is(err, domain.ErrPlaylistNotFound) {
		t.Errorf("Get after delete = %v, want ErrPlaylistNotFound", err)
	}
}

func TestTrackOperations(t *testing.T) {
	s, _ := newService(t)
	p, _ := s.Create("Mix")

	for _, id := range []string{"a", "b", "c"} {
		if err := s.AddTrack(p.ID, domain.Track{ID: id, Title: id}); err != nil {
			t.Fatalf("AddTrack(%s): %v", id, err)
		}
	}

	if err := s.Reorder(p.ID, 0, 2); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got, _ := s.Get(p.ID)
	want := []string{"b", "c", "a"}
	for i, w := range want {
		if got.Tracks[i].ID != w {
			t.Fatalf("tracks = %v, want %v", got.Tracks, want)
		}
	}

	if err := s.RemoveTrackAt(p.ID, 1); err != nil {
		t.Fatalf("RemoveTrackAt: %v", err)
	}
	got, _ = s.Get(p.ID)
	if len(got.Tracks) != 2 || got.Tracks[1].ID != "a" {
		t.Errorf("tracks after remove = %v", got.Tracks)
	}

	if err := s.RemoveTrackAt(p.ID, 9); !errors.Is(err, domain.ErrTrackNotFound) {
		t.Errorf("out-of-range remove = %v, want ErrTrackNotFound", err)
	}
}

func TestPlaylistIndependentOfQueueCopies(t *testing.T) {
	s, _ := newService(t)
	p, _ := s.Create("Mix")
	s.AddTrack(p.ID, domain.Track{ID: "a", Title: "Original"})

	tracks, err := s.Tracks(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	tracks[0].Title = "Mutated"

	got, _ := s.Get(p.ID)
	if got.Tracks[0].Title != "Original" {
		t.Error("mutating the handed-off copy must not touch the stored playlist")
	}
}

func TestPersistReload(t *testing.T) {
	st := store.NewMemory(nil)
	s := NewService(st, nil)
	p, _ := s.Create("Keep")
	s.AddTrack(p.ID, domain.Track{ID: "a"})

	s2 := NewService(st, nil)
	got, err := s2.Get(p.ID)
	if err != nil {
		t.Fatalf("reloaded service lost the playlist: %v", err)
	}
	if got.Name != "Keep" || len(got.Tracks) != 1 {
		t.Errorf("reloaded playlist = %+v", got)
	}
}

func TestImport_MalformedJSONAborts(t *testing.T) {
	s, _ := newService(t)
	s.Create("Existing")

	if _, err := s.Import([]byte("{broken")); !errors.Is(err, domain.ErrInvalidJSON) {
		t.Errorf("Import error = %v, want ErrInvalidJSON", err)
	}
	if len(s.All()) != 1 {
		t.Error("failed import must not partially write")
	}
}

func TestImport_BackfillsUniqueIDs(t *testing.T) {
	s, _ := newService(t)
	existing, _ := s.Create("Existing")

	raw := []byte(`[
		{"name": "No ID", "tracks": []},
		{"name": "Also no ID"},
		{"id": "` + existing.ID + `", "name": "Collides"}
	]`)
	n, err := s.Import(raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d, want 3", n)
	}

	seen := map[string]bool{}
	for _, p := range s.All() {
		if p.ID == "" {
			t.Errorf("playlist %q has empty id", p.Name)
		}
		if seen[p.ID] {
			t.Errorf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct playlists, got %d", len(seen))
	}
}
