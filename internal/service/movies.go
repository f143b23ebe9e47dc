package service

import (
	"context"
	"log"
	"time"

	"pulsehub-api/internal/metrics"
	"pulsehub-api/internal/model"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/upstream"
)

const (
	movieListTarget  = 20
	movieBatchSize   = 5
	moviePosterWidth = 500
)

// MovieService caches TMDB movies per category. Listings carry only IDs,
// so each refresh tops the list up from already cached records and pulls
// full detail for entities that are missing or stale.
type MovieService struct {
	repo *repository.MovieRepo
	tmdb *upstream.TMDBClient

	listTTL   time.Duration
	entityTTL time.Duration
}

// NewMovieService creates the movie orchestrator.
func NewMovieService(repo *repository.MovieRepo, tmdb *upstream.TMDBClient, listTTL, entityTTL time.Duration) *MovieService {
	return &MovieService{repo: repo, tmdb: tmdb, listTTL: listTTL, entityTTL: entityTTL}
}

// GetMoviesByCategory returns the movie list for one category. A fresh
// cached list is served from the store; otherwise the category is
// refreshed from the API. If the API fails and a stale list exists, the
// stale list is served with source "fallback".
func (s *MovieService) GetMoviesByCategory(ctx context.Context, category string) (*model.MoviesResult, error) {
	now := time.Now()

	list, err := s.repo.GetList(ctx, category)
	if err != nil {
		return nil, err
	}

	if list != nil && list.ExpireAt.After(now) {
		movies, err := s.moviesInOrder(ctx, list.MovieIDs)
		if err != nil {
			return nil, err
		}
		return &model.MoviesResult{
			Movies:  movies,
			MinDate: list.MinDate,
			MaxDate: list.MaxDate,
			Source:  model.SourceDB,
		}, nil
	}

	result, err := s.refreshCategory(ctx, category, now)
	if err == nil {
		return result, nil
	}

	// Unknown categories are a caller error, not an upstream outage.
	if _, ok := err.(*upstream.ErrUnknownCategory); ok {
		return nil, err
	}

	if list != nil {
		log.Printf("[MovieService] Refresh failed for %s, serving stale list: %v", category, err)
		metrics.FallbackServes.WithLabelValues("movies").Inc()
		movies, dbErr := s.moviesInOrder(ctx, list.MovieIDs)
		if dbErr != nil {
			return nil, dbErr
		}
		return &model.MoviesResult{
			Movies:  movies,
			MinDate: list.MinDate,
			MaxDate: list.MaxDate,
			Source:  model.SourceFallback,
		}, nil
	}
	return nil, err
}

func (s *MovieService) refreshCategory(ctx context.Context, category string, now time.Time) (*model.MoviesResult, error) {
	log.Printf("[MovieService] Fetching fresh %s movies", category)
	metrics.ListRefreshes.WithLabelValues("movies").Inc()

	resp, err := s.tmdb.ListMovies(ctx, category, now)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(resp.Results))
	seen := make(map[int64]bool, len(resp.Results))
	for _, item := range resp.Results {
		if item.ID == 0 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	// Listings sometimes come back short; pad from records we already
	// hold, using a category-appropriate ordering.
	if len(ids) < movieListTarget {
		extra, err := s.repo.BackfillIDs(ctx, category, ids, now, movieListTarget-len(ids))
		if err != nil {
			return nil, err
		}
		ids = append(ids, extra...)
	}

	errs := forEachBatch(ctx, ids, movieBatchSize, func(ctx context.Context, id int64) error {
		return s.ensureDetail(ctx, id, now)
	})
	for i, err := range errs {
		if err != nil {
			log.Printf("[MovieService] Failed to ensure movie %d: %v", ids[i], err)
		}
	}

	list := &model.MovieList{
		Category: category,
		MovieIDs: ids,
		CachedAt: now,
		ExpireAt: now.Add(s.listTTL),
	}
	if resp.Dates != nil {
		list.MinDate = resp.Dates.Minimum
		list.MaxDate = resp.Dates.Maximum
	}
	// Listings without a dates object still carry a window.
	if list.MinDate == "" {
		list.MinDate = now.Format("2006-01-02")
	}
	if list.MaxDate == "" {
		list.MaxDate = now.Add(s.listTTL).Format("2006-01-02")
	}
	if err := s.repo.SaveList(ctx, list); err != nil {
		return nil, err
	}

	movies, err := s.moviesInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.MoviesResult{
		Movies:  movies,
		MinDate: list.MinDate,
		MaxDate: list.MaxDate,
		Source:  model.SourceAPI,
	}, nil
}

// GetMovieDetail returns one movie, refreshing from the API past the
// entity TTL and serving a stale record when the API fails.
func (s *MovieService) GetMovieDetail(ctx context.Context, id int64) (*model.Movie, error) {
	now := time.Now()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ExpireAt.After(now) {
		return existing, nil
	}

	detail, err := s.tmdb.MovieDetail(ctx, id)
	if err != nil {
		if existing != nil {
			log.Printf("[MovieService] Detail refresh failed for %d, serving stale: %v", id, err)
			metrics.FallbackServes.WithLabelValues("movies").Inc()
			return existing, nil
		}
		return nil, err
	}

	movie := s.movieFromDetail(detail, now)
	if err := s.repo.Upsert(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// ensureDetail fetches and stores the full record for a movie unless a
// fresh one is already cached.
func (s *MovieService) ensureDetail(ctx context.Context, id int64, now time.Time) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil && existing.ExpireAt.After(now) {
		return nil
	}

	detail, err := s.tmdb.MovieDetail(ctx, id)
	if err != nil {
		// A stale record beats a hole in the list.
		if existing != nil {
			return nil
		}
		return err
	}
	return s.repo.Upsert(ctx, s.movieFromDetail(detail, now))
}

func (s *MovieService) movieFromDetail(d *upstream.TMDBMovieDetail, now time.Time) *model.Movie {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	return &model.Movie{
		ID:            d.ID,
		Title:         d.Title,
		Overview:      d.Overview,
		Tagline:       d.Tagline,
		Status:        d.Status,
		Runtime:       d.Runtime,
		IMDBID:        d.IMDBID,
		Homepage:      d.Homepage,
		Budget:        d.Budget,
		Revenue:       d.Revenue,
		PosterPath:    proxyTMDBImage(d.PosterPath, moviePosterWidth),
		BackdropPath:  proxyTMDBImage(d.BackdropPath, 1280),
		MediaType:     "movie",
		ReleaseDate:   preferredReleaseDate(d),
		OriginalLang:  d.OriginalLang,
		OriginalTitle: d.OriginalTitle,
		VoteAverage:   d.VoteAverage,
		VoteCount:     d.VoteCount,
		Popularity:    d.Popularity,
		Genres:        genres,
		CachedAt:      now,
		ExpireAt:      now.Add(s.entityTTL),
	}
}

// preferredReleaseDate picks the earliest theatrical (3), limited (2) or
// digital (4) release in the US or IN regions. When neither region has a
// qualifying event it falls back to the generic release_date.
func preferredReleaseDate(d *upstream.TMDBMovieDetail) *time.Time {
	var best *time.Time
	for _, region := range d.ReleaseDates.Results {
		if region.Region != "US" && region.Region != "IN" {
			continue
		}
		for _, ev := range region.Releases {
			if ev.Type != 3 && ev.Type != 2 && ev.Type != 4 {
				continue
			}
			t := parseTMDBDate(ev.ReleaseDate)
			if t == nil {
				continue
			}
			if best == nil || t.Before(*best) {
				best = t
			}
		}
	}
	if best != nil {
		return best
	}
	return parseTMDBDate(d.ReleaseDate)
}

// parseTMDBDate handles both timestamped release events and the
// date-only generic release_date.
func parseTMDBDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// moviesInOrder loads movies and restores the list ordering.
func (s *MovieService) moviesInOrder(ctx context.Context, ids []int64) ([]model.Movie, error) {
	movies, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	out := make([]model.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
