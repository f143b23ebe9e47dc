package repository

import (
	"context"
	"testing"
	"time"

	"pulsehub-api/internal/model"
)

func TestMusicUpsertAndListOrder(t *testing.T) {
	repo := NewMusicRepo(testStore(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	tracks := []*model.MusicTrack{
		{ID: "t3", Title: "Third", Artist: "A", Duration: 200, CachedAt: now},
		{ID: "t1", Title: "First", Artist: "B", Duration: 180, CachedAt: now},
		{ID: "t2", Title: "Second", Artist: "C", Duration: 240, CachedAt: now},
	}
	for _, tr := range tracks {
		if err := repo.Upsert(ctx, tr); err != nil {
			t.Fatalf("upsert %s: %v", tr.ID, err)
		}
	}

	list := &model.MusicList{
		Category: "lofi",
		TrackIDs: []string{"t3", "t1", "t2"},
		CachedAt: now,
		ExpireAt: now.Add(24 * time.Hour),
	}
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}

	got, err := repo.GetList(ctx, "lofi")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got == nil {
		t.Fatal("expected list, got nil")
	}
	for i, want := range []string{"t3", "t1", "t2"} {
		if got.TrackIDs[i] != want {
			t.Errorf("id %d: got %s want %s", i, got.TrackIDs[i], want)
		}
	}

	loaded, err := repo.GetByIDs(ctx, got.TrackIDs)
	if err != nil {
		t.Fatalf("get tracks: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(loaded))
	}

	// Upsert overwrites in place.
	tracks[0].Title = "Third Remastered"
	if err := repo.Upsert(ctx, tracks[0]); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	loaded, err = repo.GetByIDs(ctx, []string{"t3"})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "Third Remastered" {
		t.Errorf("upsert did not overwrite: %+v", loaded)
	}
}
