package store

import (
	"testing"

	"github.com/omnimedia/omnihub/internal/domain"
)

func TestGetCollection_MissingKey(t *testing.T) {
	s := NewMemory(nil)

	tracks := []domain.Track{{Title: "fallback"}}
	if ok := s.GetCollection("tracks", &tracks); ok {
		t.Error("GetCollection on missing key should report false")
	}
	if len(tracks) != 1 || tracks[0].Title != "fallback" {
		t.Errorf("fallback value was modified: %+v", tracks)
	}
}

func TestGetCollection_MalformedValue(t *testing.T) {
	s := NewMemory(nil)
	s.SetRaw("tracks", []byte("{not json"))

	tracks := []domain.Track{{Title: "fallback"}}
	if ok := s.GetCollection("tracks", &tracks); ok {
		t.Error("GetCollection on malformed value should report false")
	}
	if len(tracks) != 1 || tracks[0].Title != "fallback" {
		t.Errorf("fallback value was modified: %+v", tracks)
	}
}

func TestGet_MistypedFieldLeavesFallbackUntouched(t *testing.T) {
	s := NewMemory(nil)
	// Valid JSON overall, one field with the wrong type: items decode fine
	// before the cursor field fails.
	s.cache["playback:queue"] = []byte(`{"items":[{"id":"x","title":"X"}],"currentIndex":"oops"}`)

	snap := QueueSnapshot{Items: []domain.Track{{ID: "fallback"}}, Current: -1}
	if ok := s.get(bucketPlayback, "queue", &snap); ok {
		t.Error("mistyped field should report false")
	}
	if len(snap.Items) != 1 || snap.Items[0].ID != "fallback" {
		t.Errorf("fallback items were modified: %+v", snap.Items)
	}
	if snap.Current != -1 {
		t.Errorf("Current = %d, want -1", snap.Current)
	}
}

func TestQueueRoundTrip(t *testing.T) {
	s := NewMemory(nil)

	in := QueueSnapshot{
		Items: []domain.Track{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
			{ID: "a", Title: "A"}, // duplicates allowed
		},
		Current: 2,
	}
	s.SaveQueue(in)

	out, ok := s.GetQueue()
	if !ok {
		t.Fatal("GetQueue should find the saved queue")
	}
	if out.Current != 2 {
		t.Errorf("Current = %d, want 2", out.Current)
	}
	if len(out.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(out.Items))
	}
	for i, item := range out.Items {
		if item.ID != in.Items[i].ID {
			t.Errorf("Items[%d].ID = %q, want %q", i, item.ID, in.Items[i].ID)
		}
	}
}

func TestGetQueue_DefaultCursor(t *testing.T) {
	s := NewMemory(nil)
	snap, ok := s.GetQueue()
	if ok {
		t.Error("empty store should report no queue")
	}
	if snap.Current != -1 {
		t.Errorf("default cursor = %d, want -1", snap.Current)
	}
}

func TestSettingsNormalizedOnRead(t *testing.T) {
	s := NewMemory(nil)
	s.SaveSettings(domain.Settings{
		Theme:         "neon",
		Accent:        "blue",
		DefaultVolume: 4.2,
		Quality:       "ultra",
	})

	settings, ok := s.GetSettings()
	if !ok {
		t.Fatal("settings should be present")
	}
	def := domain.DefaultSettings()
	if settings.Theme != def.Theme {
		t.Errorf("Theme = %q, want %q", settings.Theme, def.Theme)
	}
	if settings.Accent != def.Accent {
		t.Errorf("Accent = %q, want %q", settings.Accent, def.Accent)
	}
	if settings.DefaultVolume != def.DefaultVolume {
		t.Errorf("DefaultVolume = %v, want %v", settings.DefaultVolume, def.DefaultVolume)
	}
	if settings.Quality != def.Quality {
		t.Errorf("Quality = %q, want %q", settings.Quality, def.Quality)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewMemory(nil)

	if _, ok := s.GetSession(); ok {
		t.Error("no session expected on a fresh store")
	}

	s.SaveSession(domain.Session{ID: "u1", Name: "Ada", Role: domain.RoleAdmin})
	sess, ok := s.GetSession()
	if !ok || sess.ID != "u1" || sess.Role != domain.RoleAdmin {
		t.Errorf("GetSession = %+v, %v", sess, ok)
	}

	s.ClearSession()
	if _, ok := s.GetSession(); ok {
		t.Error("session should be gone after ClearSession")
	}
}

func TestDurableRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.SaveCollection("movies", []domain.Movie{{ID: "m1", Title: "Solaris"}})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify the write survived
	s2, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var movies []domain.Movie
	if !s2.GetCollection("movies", &movies) {
		t.Fatal("movies collection should survive a reopen")
	}
	if len(movies) != 1 || movies[0].Title != "Solaris" {
		t.Errorf("movies = %+v", movies)
	}
}
