package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pulsehub-api/internal/model"
)

// NewsRepo persists news articles and their category lists. Articles are
// keyed by a content hash computed upstream; the robust match search and
// the create/refresh split implement the optimistic dedup protocol: an
// insert that loses a race returns ErrDuplicate and the caller re-queries.
type NewsRepo struct {
	db *sql.DB
	d  dialect
}

// NewNewsRepo creates a news repository on the shared store.
func NewNewsRepo(s *Store) *NewsRepo {
	return &NewsRepo{db: s.db, d: s.d}
}

const newsColumns = `id, url, title, description, content, source_name,
	source_url, author, image_url, published_at, categories, cached_at, expire_at`

// Create inserts a brand-new article row. Returns ErrDuplicate when a
// concurrent insert won the race on id or url.
func (r *NewsRepo) Create(ctx context.Context, a *model.NewsArticle) error {
	categories, err := encodeIDs(a.Categories)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO news_articles (`+newsColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.URL, a.Title, a.Description, a.Content, a.SourceName,
		a.SourceURL, nullString(a.Author), nullString(a.ImageURL),
		a.PublishedAt.UTC(), categories, a.CachedAt.UTC(), a.ExpireAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create article %s: %w", a.ID, err)
	}
	return nil
}

// Refresh updates only the merge-relevant fields of an existing article:
// the accumulated category set and the freshness stamps. URL and identity
// are preserved so unique constraints cannot drift.
func (r *NewsRepo) Refresh(ctx context.Context, id string, categories []string, cachedAt, expireAt time.Time) error {
	raw, err := encodeIDs(categories)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE news_articles SET categories = ?, cached_at = ?, expire_at = ? WHERE id = ?",
		raw, cachedAt.UTC(), expireAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to refresh article %s: %w", id, err)
	}
	return nil
}

// FindMatch searches for an existing article by any of: computed id,
// upstream URL, exact title, or content-prefix equality. The broad search
// guards against near-duplicates whose normalized hash differs across
// fetch cycles due to minor provider-side edits. Empty title or
// contentPrefix disables that clause. Returns nil when nothing matches.
func (r *NewsRepo) FindMatch(ctx context.Context, id, url, title, contentPrefix string) (*model.NewsArticle, error) {
	conds := []string{"id = ?", "url = ?"}
	args := []any{id, url}

	if title != "" {
		conds = append(conds, "title = ?")
		args = append(args, title)
	}
	if contentPrefix != "" {
		conds = append(conds, "substr(content, 1, ?) = ?")
		args = append(args, len(contentPrefix), contentPrefix)
	}

	query := "SELECT " + newsColumns + " FROM news_articles WHERE " + conds[0]
	for _, c := range conds[1:] {
		query += " OR " + c
	}
	query += " LIMIT 1"

	row := r.db.QueryRowContext(ctx, query, args...)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match article: %w", err)
	}
	return a, nil
}

// GetByIDs returns all articles matching the given IDs, in no particular order.
func (r *NewsRepo) GetByIDs(ctx context.Context, ids []string) ([]model.NewsArticle, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+newsColumns+" FROM news_articles WHERE id IN ("+inPlaceholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// BackfillIDs returns up to limit unexpired article IDs in the category,
// newest first, excluding IDs already selected.
func (r *NewsRepo) BackfillIDs(ctx context.Context, category string, exclude []string, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	args := make([]any, 0, len(exclude)+3)
	for _, id := range exclude {
		args = append(args, id)
	}
	if len(exclude) == 0 {
		args = append(args, "__none__")
	}
	args = append(args, categoryPattern(category), now.UTC(), limit)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM news_articles
		 WHERE id NOT IN (`+inPlaceholders(len(exclude))+`)
		   AND categories LIKE ? AND expire_at > ?
		 ORDER BY published_at DESC LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to backfill news %s: %w", category, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecentByCategory returns unexpired articles for a category, newest
// first. Used as the best-effort fallback when the upstream API fails.
func (r *NewsRepo) RecentByCategory(ctx context.Context, category string, now time.Time, limit int) ([]model.NewsArticle, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+newsColumns+` FROM news_articles
		 WHERE categories LIKE ? AND expire_at > ?
		 ORDER BY published_at DESC LIMIT ?`,
		categoryPattern(category), now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent news %s: %w", category, err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// GetList returns the cached list for a category, or nil if none exists.
func (r *NewsRepo) GetList(ctx context.Context, category string) (*model.NewsList, error) {
	var (
		l   model.NewsList
		raw string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT category, article_ids, cached_at, expire_at FROM news_lists WHERE category = ?",
		category).Scan(&l.Category, &raw, &l.CachedAt, &l.ExpireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news list %s: %w", category, err)
	}

	l.ArticleIDs, err = decodeIDs[string](raw)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveList fully overwrites the list for a category.
func (r *NewsRepo) SaveList(ctx context.Context, l *model.NewsList) error {
	raw, err := encodeIDs(l.ArticleIDs)
	if err != nil {
		return err
	}

	query := r.d.upsert("news_lists", "category",
		[]string{"category", "article_ids", "cached_at", "expire_at"},
		[]string{"article_ids", "cached_at", "expire_at"})

	if _, err := r.db.ExecContext(ctx, query, l.Category, raw, l.CachedAt.UTC(), l.ExpireAt.UTC()); err != nil {
		return fmt.Errorf("failed to save news list %s: %w", l.Category, err)
	}
	return nil
}

// categoryPattern matches one category inside the JSON-encoded categories
// column. Category names are plain lowercase words, so a quoted LIKE
// pattern cannot false-positive.
func categoryPattern(category string) string {
	return `%"` + category + `"%`
}

func collectArticles(rows *sql.Rows) ([]model.NewsArticle, error) {
	var out []model.NewsArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanArticle(row rowScanner) (*model.NewsArticle, error) {
	var (
		a          model.NewsArticle
		author     sql.NullString
		imageURL   sql.NullString
		categories string
	)

	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Description, &a.Content,
		&a.SourceName, &a.SourceURL, &author, &imageURL, &a.PublishedAt,
		&categories, &a.CachedAt, &a.ExpireAt)
	if err != nil {
		return nil, err
	}

	a.Author = stringPtr(author)
	a.ImageURL = stringPtr(imageURL)
	a.Categories, err = decodeIDs[string](categories)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
