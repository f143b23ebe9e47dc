package service

import (
	"context"
	"log"
	"strings"
	"time"

	"pulsehub-api/internal/metrics"
	"pulsehub-api/internal/model"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/upstream"
)

// MusicService caches Jamendo tracks per tag. Tags are normalized to
// lowercase so "Rock" and "rock" share one cache entry.
type MusicService struct {
	repo  *repository.MusicRepo
	music *upstream.MusicClient

	listTTL time.Duration
}

// NewMusicService creates the music orchestrator.
func NewMusicService(repo *repository.MusicRepo, music *upstream.MusicClient, listTTL time.Duration) *MusicService {
	return &MusicService{repo: repo, music: music, listTTL: listTTL}
}

// GetTracksByTag returns the popular tracks for one tag: from the store
// while the cached list is fresh, otherwise refreshed from the API. An
// empty upstream result is returned as-is without overwriting a cached
// list, so one thin response cannot wipe a good one.
func (s *MusicService) GetTracksByTag(ctx context.Context, tag string) (*model.MusicResult, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	now := time.Now()

	list, err := s.repo.GetList(ctx, tag)
	if err != nil {
		return nil, err
	}

	if list != nil && list.ExpireAt.After(now) {
		tracks, err := s.tracksInOrder(ctx, list.TrackIDs)
		if err != nil {
			return nil, err
		}
		return &model.MusicResult{Tracks: tracks, Source: model.SourceDB}, nil
	}

	log.Printf("[MusicService] Fetching fresh %s tracks", tag)
	metrics.ListRefreshes.WithLabelValues("music").Inc()

	resp, err := s.music.Tracks(ctx, tag)
	if err != nil {
		if list != nil {
			log.Printf("[MusicService] Refresh failed for %s, serving stale list: %v", tag, err)
			metrics.FallbackServes.WithLabelValues("music").Inc()
			tracks, dbErr := s.tracksInOrder(ctx, list.TrackIDs)
			if dbErr != nil {
				return nil, dbErr
			}
			return &model.MusicResult{Tracks: tracks, Source: model.SourceFallback}, nil
		}
		return nil, err
	}

	if len(resp.Results) == 0 {
		return &model.MusicResult{Tracks: []model.MusicTrack{}, Source: model.SourceAPI}, nil
	}

	ids := make([]string, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.ID == "" {
			continue
		}
		ids = append(ids, item.ID)

		track := &model.MusicTrack{
			ID:           item.ID,
			Title:        item.Name,
			Artist:       item.ArtistName,
			Image:        item.AlbumImage,
			Audio:        item.Audio,
			Duration:     item.Duration,
			ShareURL:     item.ShareURL,
			License:      item.LicenseCCURL,
			ReleasedDate: item.ReleaseDate,
			CachedAt:     now,
		}
		if err := s.repo.Upsert(ctx, track); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveList(ctx, &model.MusicList{
		Category: tag,
		TrackIDs: ids,
		CachedAt: now,
		ExpireAt: now.Add(s.listTTL),
	}); err != nil {
		return nil, err
	}

	tracks, err := s.tracksInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.MusicResult{Tracks: tracks, Source: model.SourceAPI}, nil
}

// tracksInOrder loads tracks and restores the list ordering.
func (s *MusicService) tracksInOrder(ctx context.Context, ids []string) ([]model.MusicTrack, error) {
	tracks, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.MusicTrack, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}
	out := make([]model.MusicTrack, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
