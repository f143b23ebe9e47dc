package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pulsehub-api/internal/model"
)

// MovieRepo persists movies and their category lists.
type MovieRepo struct {
	db *sql.DB
	d  dialect
}

// NewMovieRepo creates a movie repository on the shared store.
func NewMovieRepo(s *Store) *MovieRepo {
	return &MovieRepo{db: s.db, d: s.d}
}

const movieColumns = `id, title, overview, tagline, status, runtime, imdb_id,
	homepage, budget, revenue, poster_path, backdrop_path, media_type,
	release_date, original_lang, original_title, vote_average, vote_count,
	popularity, genres, cached_at, expire_at`

var movieColumnList = []string{"id", "title", "overview", "tagline", "status",
	"runtime", "imdb_id", "homepage", "budget", "revenue", "poster_path",
	"backdrop_path", "media_type", "release_date", "original_lang",
	"original_title", "vote_average", "vote_count", "popularity", "genres",
	"cached_at", "expire_at"}

// Upsert writes a full movie record, overwriting all fields.
func (r *MovieRepo) Upsert(ctx context.Context, m *model.Movie) error {
	genres, err := encodeIDs(m.Genres)
	if err != nil {
		return err
	}

	var releaseDate sql.NullTime
	if m.ReleaseDate != nil {
		releaseDate = sql.NullTime{Time: m.ReleaseDate.UTC(), Valid: true}
	}

	query := r.d.upsert("movies", "id", movieColumnList, movieColumnList[1:])

	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.Title, m.Overview, m.Tagline, m.Status, m.Runtime, m.IMDBID,
		m.Homepage, m.Budget, m.Revenue, nullString(m.PosterPath),
		nullString(m.BackdropPath), m.MediaType, releaseDate, m.OriginalLang,
		m.OriginalTitle, m.VoteAverage, m.VoteCount, m.Popularity, genres,
		m.CachedAt.UTC(), m.ExpireAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert movie %d: %w", m.ID, err)
	}
	return nil
}

// GetByID returns one movie, or nil if unknown.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)

	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return m, nil
}

// GetByIDs returns all movies matching the given IDs, in no particular order.
func (r *MovieRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id IN ("+inPlaceholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// BackfillIDs returns up to limit cached movie IDs suitable for topping up
// a short category list, excluding the IDs already selected. Ordering is
// category-specific: popularity for popular, soonest-first future dates
// for upcoming, a bounded recency window for now_playing, and vote
// average (with a minimum vote count) for top_rated. Categories without a
// sensible freshness signal get no backfill.
func (r *MovieRepo) BackfillIDs(ctx context.Context, category string, exclude []int64, now time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		return nil, nil
	}

	args := make([]any, 0, len(exclude)+4)
	for _, id := range exclude {
		args = append(args, id)
	}
	if len(exclude) == 0 {
		args = append(args, int64(-1))
	}
	notIn := "id NOT IN (" + inPlaceholders(len(exclude)) + ")"

	var query string
	switch category {
	case "popular":
		query = "SELECT id FROM movies WHERE " + notIn + " ORDER BY popularity DESC"
	case "upcoming":
		query = "SELECT id FROM movies WHERE " + notIn +
			" AND release_date >= ? ORDER BY release_date ASC"
		args = append(args, now.UTC())
	case "now_playing":
		query = "SELECT id FROM movies WHERE " + notIn +
			" AND release_date >= ? AND release_date <= ? ORDER BY release_date DESC"
		args = append(args, now.Add(-45*24*time.Hour).UTC(), now.Add(30*24*time.Hour).UTC())
	case "top_rated":
		query = "SELECT id FROM movies WHERE " + notIn +
			" AND vote_count >= 200 ORDER BY vote_average DESC"
	default:
		return nil, nil
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to backfill %s: %w", category, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetList returns the cached list for a category, or nil if none exists.
func (r *MovieRepo) GetList(ctx context.Context, category string) (*model.MovieList, error) {
	var (
		l   model.MovieList
		raw string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT category, movie_ids, min_date, max_date, cached_at, expire_at FROM movie_lists WHERE category = ?",
		category).Scan(&l.Category, &raw, &l.MinDate, &l.MaxDate, &l.CachedAt, &l.ExpireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie list %s: %w", category, err)
	}

	l.MovieIDs, err = decodeIDs[int64](raw)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveList fully overwrites the list for a category.
func (r *MovieRepo) SaveList(ctx context.Context, l *model.MovieList) error {
	raw, err := encodeIDs(l.MovieIDs)
	if err != nil {
		return err
	}

	query := r.d.upsert("movie_lists", "category",
		[]string{"category", "movie_ids", "min_date", "max_date", "cached_at", "expire_at"},
		[]string{"movie_ids", "min_date", "max_date", "cached_at", "expire_at"})

	if _, err := r.db.ExecContext(ctx, query,
		l.Category, raw, l.MinDate, l.MaxDate, l.CachedAt.UTC(), l.ExpireAt.UTC()); err != nil {
		return fmt.Errorf("failed to save movie list %s: %w", l.Category, err)
	}
	return nil
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var (
		m           model.Movie
		poster      sql.NullString
		backdrop    sql.NullString
		releaseDate sql.NullTime
		genres      string
	)

	err := row.Scan(&m.ID, &m.Title, &m.Overview, &m.Tagline, &m.Status,
		&m.Runtime, &m.IMDBID, &m.Homepage, &m.Budget, &m.Revenue,
		&poster, &backdrop, &m.MediaType, &releaseDate, &m.OriginalLang,
		&m.OriginalTitle, &m.VoteAverage, &m.VoteCount, &m.Popularity,
		&genres, &m.CachedAt, &m.ExpireAt)
	if err != nil {
		return nil, err
	}

	m.PosterPath = stringPtr(poster)
	m.BackdropPath = stringPtr(backdrop)
	m.ReleaseDate = timePtr(releaseDate)
	m.Genres, err = decodeIDs[string](genres)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
