package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pulsehub-api/internal/model"
)

// MusicRepo persists music tracks and their tag lists.
type MusicRepo struct {
	db *sql.DB
	d  dialect
}

// NewMusicRepo creates a music repository on the shared store.
func NewMusicRepo(s *Store) *MusicRepo {
	return &MusicRepo{db: s.db, d: s.d}
}

const trackColumns = `id, title, artist, image, audio, duration, share_url,
	license, released_date, cached_at`

// Upsert writes a full track record, overwriting all fields.
func (r *MusicRepo) Upsert(ctx context.Context, t *model.MusicTrack) error {
	cols := []string{"id", "title", "artist", "image", "audio", "duration",
		"share_url", "license", "released_date", "cached_at"}

	query := r.d.upsert("music_tracks", "id", cols, cols[1:])

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Artist, t.Image, t.Audio, t.Duration,
		t.ShareURL, t.License, t.ReleasedDate, t.CachedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert track %s: %w", t.ID, err)
	}
	return nil
}

// GetByIDs returns all tracks matching the given IDs, in no particular order.
func (r *MusicRepo) GetByIDs(ctx context.Context, ids []string) ([]model.MusicTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+trackColumns+" FROM music_tracks WHERE id IN ("+inPlaceholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var out []model.MusicTrack
	for rows.Next() {
		var t model.MusicTrack
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Image, &t.Audio,
			&t.Duration, &t.ShareURL, &t.License, &t.ReleasedDate, &t.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetList returns the cached list for a tag, or nil if none exists.
func (r *MusicRepo) GetList(ctx context.Context, category string) (*model.MusicList, error) {
	var (
		l   model.MusicList
		raw string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT category, track_ids, cached_at, expire_at FROM music_lists WHERE category = ?",
		category).Scan(&l.Category, &raw, &l.CachedAt, &l.ExpireAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get music list %s: %w", category, err)
	}

	l.TrackIDs, err = decodeIDs[string](raw)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveList fully overwrites the list for a tag.
func (r *MusicRepo) SaveList(ctx context.Context, l *model.MusicList) error {
	raw, err := encodeIDs(l.TrackIDs)
	if err != nil {
		return err
	}

	query := r.d.upsert("music_lists", "category",
		[]string{"category", "track_ids", "cached_at", "expire_at"},
		[]string{"track_ids", "cached_at", "expire_at"})

	if _, err := r.db.ExecContext(ctx, query, l.Category, raw, l.CachedAt.UTC(), l.ExpireAt.UTC()); err != nil {
		return fmt.Errorf("failed to save music list %s: %w", l.Category, err)
	}
	return nil
}
