package repository

import (
	"context"
	"testing"
	"time"

	"pulsehub-api/internal/model"
)

func seedMovie(t *testing.T, repo *MovieRepo, id int64, popularity float64, released time.Time, voteCount int64, voteAverage float64) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	m := &model.Movie{
		ID:          id,
		Title:       "Movie",
		MediaType:   "movie",
		ReleaseDate: &released,
		VoteAverage: voteAverage,
		VoteCount:   voteCount,
		Popularity:  popularity,
		Genres:      []string{"Drama"},
		CachedAt:    now,
		ExpireAt:    now.Add(24 * time.Hour),
	}
	if err := repo.Upsert(context.Background(), m); err != nil {
		t.Fatalf("seed movie %d: %v", id, err)
	}
}

func TestMovieUpsertRoundTrip(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	released := now.Add(-30 * 24 * time.Hour)

	poster := "https://img.example/p.webp"
	m := &model.Movie{
		ID:          603,
		Title:       "The Matrix",
		Overview:    "A hacker discovers reality is simulated.",
		Runtime:     136,
		PosterPath:  &poster,
		MediaType:   "movie",
		ReleaseDate: &released,
		VoteAverage: 8.2,
		VoteCount:   25000,
		Popularity:  80.5,
		Genres:      []string{"Action", "Science Fiction"},
		CachedAt:    now,
		ExpireAt:    now.Add(24 * time.Hour),
	}
	if err := repo.Upsert(ctx, m); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, 603)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected movie, got nil")
	}
	if got.Title != "The Matrix" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.PosterPath == nil || *got.PosterPath != poster {
		t.Errorf("poster path: got %v", got.PosterPath)
	}
	if got.ReleaseDate == nil || !got.ReleaseDate.Equal(released) {
		t.Errorf("release date: got %v want %v", got.ReleaseDate, released)
	}
	if len(got.Genres) != 2 || got.Genres[1] != "Science Fiction" {
		t.Errorf("genres: got %v", got.Genres)
	}

	// Full overwrite on second upsert.
	m.Title = "The Matrix Reloaded"
	m.PosterPath = nil
	if err := repo.Upsert(ctx, m); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = repo.GetByID(ctx, 603)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if got.Title != "The Matrix Reloaded" {
		t.Errorf("overwrite missed title: %q", got.Title)
	}
	if got.PosterPath != nil {
		t.Errorf("overwrite should clear poster, got %v", *got.PosterPath)
	}
}

func TestMovieListRoundTripKeepsOrder(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	list := &model.MovieList{
		Category: "now_playing",
		MovieIDs: []int64{30, 10, 20},
		MinDate:  "2026-07-15",
		MaxDate:  "2026-08-31",
		CachedAt: now,
		ExpireAt: now.Add(24 * time.Hour),
	}
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetList(ctx, "now_playing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected list, got nil")
	}
	for i, want := range []int64{30, 10, 20} {
		if got.MovieIDs[i] != want {
			t.Errorf("id %d: got %d want %d", i, got.MovieIDs[i], want)
		}
	}
	if got.MinDate != "2026-07-15" || got.MaxDate != "2026-08-31" {
		t.Errorf("date window: got %s..%s", got.MinDate, got.MaxDate)
	}
}

func TestBackfillPopularOrdersByPopularity(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	now := time.Now().UTC()
	old := now.Add(-100 * 24 * time.Hour)

	seedMovie(t, repo, 1, 10.0, old, 500, 7.0)
	seedMovie(t, repo, 2, 90.0, old, 500, 7.0)
	seedMovie(t, repo, 3, 50.0, old, 500, 7.0)

	ids, err := repo.BackfillIDs(context.Background(), "popular", []int64{3}, now, 5)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("expected [2 1], got %v", ids)
	}
}

func TestBackfillUpcomingIsFutureAscending(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	now := time.Now().UTC()

	seedMovie(t, repo, 1, 10, now.Add(-24*time.Hour), 100, 6.0) // past: excluded
	seedMovie(t, repo, 2, 10, now.Add(20*24*time.Hour), 100, 6.0)
	seedMovie(t, repo, 3, 10, now.Add(5*24*time.Hour), 100, 6.0)

	ids, err := repo.BackfillIDs(context.Background(), "upcoming", nil, now, 5)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Errorf("expected [3 2], got %v", ids)
	}
}

func TestBackfillNowPlayingWindow(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	now := time.Now().UTC()

	seedMovie(t, repo, 1, 10, now.Add(-60*24*time.Hour), 100, 6.0) // too old
	seedMovie(t, repo, 2, 10, now.Add(-10*24*time.Hour), 100, 6.0)
	seedMovie(t, repo, 3, 10, now.Add(40*24*time.Hour), 100, 6.0) // too far out

	ids, err := repo.BackfillIDs(context.Background(), "now_playing", nil, now, 5)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected [2], got %v", ids)
	}
}

func TestBackfillTopRatedRequiresVotes(t *testing.T) {
	repo := NewMovieRepo(testStore(t))
	now := time.Now().UTC()
	old := now.Add(-100 * 24 * time.Hour)

	seedMovie(t, repo, 1, 10, old, 50, 9.9) // too few votes
	seedMovie(t, repo, 2, 10, old, 300, 8.0)
	seedMovie(t, repo, 3, 10, old, 300, 8.8)

	ids, err := repo.BackfillIDs(context.Background(), "top_rated", nil, now, 5)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Errorf("expected [3 2], got %v", ids)
	}
}

func TestBackfillUnknownCategoryIsEmpty(t *testing.T) {
	repo := NewMovieRepo(testStore(t))

	ids, err := repo.BackfillIDs(context.Background(), "trending", nil, time.Now(), 5)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no backfill for trending, got %v", ids)
	}
}
