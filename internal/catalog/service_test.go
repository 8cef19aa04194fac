package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMemory(nil), nil)
}

func TestCollectionsDefaultEmpty(t *testing.T) {
	svc := newTestService(t)
	if got := svc.Tracks(); len(got) != 0 {
		t.Fatalf("expected empty tracks, got %d", len(got))
	}
	if got := svc.Movies(); len(got) != 0 {
		t.Fatalf("expected empty movies, got %d", len(got))
	}
}

func TestImportSeedPerResourceDegradation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/music.json":
			w.Write([]byte(`[{"title":"Aurora Drift","artist":"Nova"},{"id":"t2","title":"Night Signal"}]`))
		case "/movies.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/genres.json":
			w.Write([]byte(`not json at all`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := newTestService(t)
	report := svc.ImportSeed(context.Background(), SeedSources{
		Music:  srv.URL + "/music.json",
		Movies: srv.URL + "/movies.json",
		Genres: srv.URL + "/genres.json",
	})

	if report.Loaded[KeyTracks] != 2 {
		t.Fatalf("expected 2 tracks loaded, got %d", report.Loaded[KeyTracks])
	}
	if _, ok := report.Failed[KeyMovies]; !ok {
		t.Fatal("expected movies resource to fail")
	}
	if _, ok := report.Failed[KeyGenres]; !ok {
		t.Fatal("expected genres resource to fail on malformed JSON")
	}

	tracks := svc.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("expected 2 stored tracks, got %d", len(tracks))
	}
	if tracks[0].ID == "" {
		t.Error("expected missing track id to be backfilled")
	}
	if tracks[1].ID != "t2" {
		t.Errorf("expected provided id kept, got %q", tracks[1].ID)
	}
	if len(svc.Movies()) != 0 {
		t.Error("expected failed movies resource to store empty collection")
	}
	if len(svc.Genres()) != 0 {
		t.Error("expected malformed genres resource to store empty collection")
	}
	if !svc.st.Seeded() {
		t.Error("expected seed marker set even with partial failures")
	}
}

func TestImportSeedFromLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "music.json")
	if err := os.WriteFile(path, []byte(`[{"id":"t1","title":"","genre":""}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newTestService(t)
	svc.ImportSeed(context.Background(), SeedSources{Music: path})

	tracks := svc.Tracks()
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
	if tracks[0].Title != "Untitled" {
		t.Errorf("expected blank title normalized to Untitled, got %q", tracks[0].Title)
	}
	if tracks[0].Genre != "Misc" {
		t.Errorf("expected blank genre normalized to Misc, got %q", tracks[0].Genre)
	}
}

func TestSearchRanksCloserMatchesFirst(t *testing.T) {
	svc := newTestService(t)
	svc.SaveTracks([]domain.Track{
		{ID: "a", Title: "Midnight Radio", Artist: "Static Bloom"},
		{ID: "b", Title: "Radio", Artist: "Nova"},
		{ID: "c", Title: "Completely Unrelated", Artist: "Nobody"},
	})

	results := svc.Search("radio")
	if len(results.Tracks) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results.Tracks))
	}
	if results.Tracks[0].ID != "b" {
		t.Errorf("expected exact title match first, got %q", results.Tracks[0].ID)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestService(t)
	svc.SaveTracks([]domain.Track{{ID: "a", Title: "Anything"}})
	if results := svc.Search("   "); len(results.Tracks) != 0 {
		t.Fatal("expected blank query to return nothing")
	}
}

func TestAppendLog(t *testing.T) {
	svc := newTestService(t)
	svc.AppendLog("info", "seed complete")
	svc.AppendLog("error", "playback failed")

	logs := svc.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[0].Message != "seed complete" || logs[1].Level != "error" {
		t.Errorf("unexpected log contents: %+v", logs)
	}
	if logs[0].ID == logs[1].ID {
		t.Error("expected distinct log ids")
	}
}
