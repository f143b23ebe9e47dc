package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pulsehub-api/internal/model"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/upstream"
)

func testStore(t *testing.T) *repository.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := repository.Open("sqlite", filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testUpstreamClient builds a transport pointed at a test server with an
// effectively unlimited rate so tests never wait on the limiter.
func testUpstreamClient(name string) *upstream.Client {
	return upstream.NewClient(name, 5*time.Second, 600000, 0)
}

func detailJSON(id int64, title string) string {
	return fmt.Sprintf(`{
		"id": %d, "title": %q, "overview": "o", "runtime": 120,
		"release_date": "2026-01-15", "vote_average": 7.5, "vote_count": 900,
		"popularity": 55.5, "genres": [{"name": "Drama"}],
		"release_dates": {"results": [
			{"iso_3166_1": "US", "release_dates": [{"type": 3, "release_date": "2026-01-20T00:00:00.000Z"}]}
		]}
	}`, id, title)
}

func TestGetMoviesByCategoryRefreshAndCache(t *testing.T) {
	var listCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/popular":
			listCalls.Add(1)
			fmt.Fprint(w, `{"results": [{"id": 11}, {"id": 22}]}`)
		case "/movie/11":
			fmt.Fprint(w, detailJSON(11, "First"))
		case "/movie/22":
			fmt.Fprint(w, detailJSON(22, "Second"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store := testStore(t)
	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), srv.URL, "token")
	svc := NewMovieService(repository.NewMovieRepo(store), tmdb, time.Hour, 720*time.Hour)

	result, err := svc.GetMoviesByCategory(context.Background(), "popular")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Source != model.SourceAPI {
		t.Errorf("expected api source, got %s", result.Source)
	}
	if len(result.Movies) != 2 || result.Movies[0].ID != 11 || result.Movies[1].ID != 22 {
		t.Fatalf("wrong movies or order: %+v", result.Movies)
	}
	if result.Movies[0].Title != "First" {
		t.Errorf("detail not persisted: %q", result.Movies[0].Title)
	}

	// Second read inside the TTL must come from the store without
	// touching the API.
	result, err = svc.GetMoviesByCategory(context.Background(), "popular")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if result.Source != model.SourceDB {
		t.Errorf("expected db source, got %s", result.Source)
	}
	if got := listCalls.Load(); got != 1 {
		t.Errorf("expected 1 upstream list call, got %d", got)
	}
}

func TestGetMoviesByCategoryBackfillsShortList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/popular":
			fmt.Fprint(w, `{"results": [{"id": 11}]}`)
		case "/movie/11":
			fmt.Fprint(w, detailJSON(11, "Fresh"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store := testStore(t)
	repo := repository.NewMovieRepo(store)
	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), srv.URL, "token")
	svc := NewMovieService(repo, tmdb, time.Hour, 720*time.Hour)

	// Pre-seed cached movies that qualify as popular backfill.
	now := time.Now().UTC().Truncate(time.Second)
	for i, pop := range []float64{30, 80} {
		released := now.Add(-200 * 24 * time.Hour)
		m := &model.Movie{
			ID: int64(100 + i), Title: fmt.Sprintf("Seed %d", i), MediaType: "movie",
			ReleaseDate: &released, Popularity: pop, VoteCount: 500,
			CachedAt: now, ExpireAt: now.Add(720 * time.Hour),
		}
		if err := repo.Upsert(context.Background(), m); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := svc.GetMoviesByCategory(context.Background(), "popular")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(result.Movies) != 3 {
		t.Fatalf("expected api movie plus 2 backfilled, got %d", len(result.Movies))
	}
	// API ordering first, then backfill by popularity.
	if result.Movies[0].ID != 11 || result.Movies[1].ID != 101 || result.Movies[2].ID != 100 {
		t.Errorf("wrong order: %d %d %d", result.Movies[0].ID, result.Movies[1].ID, result.Movies[2].ID)
	}
}

func TestGetMoviesByCategoryDateWindowDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/popular":
			// No dates object in the listing.
			fmt.Fprint(w, `{"results": [{"id": 11}]}`)
		case "/movie/11":
			fmt.Fprint(w, detailJSON(11, "Only"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store := testStore(t)
	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), srv.URL, "token")
	listTTL := 24 * time.Hour
	svc := NewMovieService(repository.NewMovieRepo(store), tmdb, listTTL, 720*time.Hour)

	result, err := svc.GetMoviesByCategory(context.Background(), "popular")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	now := time.Now()
	if result.MinDate != now.Format("2006-01-02") {
		t.Errorf("expected min date to default to today, got %q", result.MinDate)
	}
	if result.MaxDate != now.Add(listTTL).Format("2006-01-02") {
		t.Errorf("expected max date to default to today plus the list window, got %q", result.MaxDate)
	}
}

func TestGetMoviesByCategoryFallsBackToStaleList(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		switch r.URL.Path {
		case "/movie/popular":
			fmt.Fprint(w, `{"results": [{"id": 11}]}`)
		case "/movie/11":
			fmt.Fprint(w, detailJSON(11, "Only"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store := testStore(t)
	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), srv.URL, "token")
	// Negative list TTL: the saved list is stale immediately.
	svc := NewMovieService(repository.NewMovieRepo(store), tmdb, -time.Second, 720*time.Hour)

	if _, err := svc.GetMoviesByCategory(context.Background(), "popular"); err != nil {
		t.Fatalf("initial get: %v", err)
	}

	fail.Store(true)
	result, err := svc.GetMoviesByCategory(context.Background(), "popular")
	if err != nil {
		t.Fatalf("fallback get: %v", err)
	}
	if result.Source != model.SourceFallback {
		t.Errorf("expected fallback source, got %s", result.Source)
	}
	if len(result.Movies) != 1 || result.Movies[0].ID != 11 {
		t.Errorf("stale list not served: %+v", result.Movies)
	}
}

func TestGetMoviesByCategoryUnknownCategory(t *testing.T) {
	store := testStore(t)
	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), "http://127.0.0.1:0", "token")
	svc := NewMovieService(repository.NewMovieRepo(store), tmdb, time.Hour, 720*time.Hour)

	_, err := svc.GetMoviesByCategory(context.Background(), "bogus")
	if _, ok := err.(*upstream.ErrUnknownCategory); !ok {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestPreferredReleaseDate(t *testing.T) {
	detail := func(generic string, regions ...upstream.TMDBRegionReleases) *upstream.TMDBMovieDetail {
		d := &upstream.TMDBMovieDetail{ReleaseDate: generic}
		d.ReleaseDates.Results = regions
		return d
	}
	region := func(code string, events ...upstream.TMDBReleaseEvent) upstream.TMDBRegionReleases {
		return upstream.TMDBRegionReleases{Region: code, Releases: events}
	}

	t.Run("earliest qualifying event wins", func(t *testing.T) {
		d := detail("2026-05-01",
			region("US",
				upstream.TMDBReleaseEvent{Type: 4, ReleaseDate: "2026-03-10T00:00:00.000Z"},
				upstream.TMDBReleaseEvent{Type: 3, ReleaseDate: "2026-02-01T00:00:00.000Z"},
			),
			region("IN",
				upstream.TMDBReleaseEvent{Type: 2, ReleaseDate: "2026-02-15T00:00:00.000Z"},
			),
		)
		got := preferredReleaseDate(d)
		if got == nil || got.Format("2006-01-02") != "2026-02-01" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("other regions are ignored", func(t *testing.T) {
		d := detail("2026-05-01",
			region("FR", upstream.TMDBReleaseEvent{Type: 3, ReleaseDate: "2026-01-01T00:00:00.000Z"}),
		)
		got := preferredReleaseDate(d)
		if got == nil || got.Format("2006-01-02") != "2026-05-01" {
			t.Errorf("expected generic fallback, got %v", got)
		}
	})

	t.Run("non-qualifying types are ignored", func(t *testing.T) {
		d := detail("2026-05-01",
			region("US", upstream.TMDBReleaseEvent{Type: 1, ReleaseDate: "2026-01-01T00:00:00.000Z"}),
		)
		got := preferredReleaseDate(d)
		if got == nil || got.Format("2006-01-02") != "2026-05-01" {
			t.Errorf("expected generic fallback, got %v", got)
		}
	})

	t.Run("nothing at all", func(t *testing.T) {
		if got := preferredReleaseDate(detail("")); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestParseTMDBDate(t *testing.T) {
	if got := parseTMDBDate("2026-01-15"); got == nil || got.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("date-only parse failed: %v", got)
	}
	if got := parseTMDBDate("2026-01-15T00:00:00.000Z"); got == nil {
		t.Error("timestamped parse failed")
	}
	if got := parseTMDBDate("not a date"); got != nil {
		t.Errorf("expected nil for garbage, got %v", got)
	}
}
