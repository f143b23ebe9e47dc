package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pulsehub-api/internal/model"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/upstream"
)

func headlinesJSON(articles ...string) string {
	out := `{"totalArticles": ` + fmt.Sprint(len(articles)) + `, "articles": [`
	for i, a := range articles {
		if i > 0 {
			out += ","
		}
		out += a
	}
	return out + "]}"
}

func headline(title, content, articleURL string) string {
	return fmt.Sprintf(`{
		"title": %q, "description": "d", "content": %q, "url": %q,
		"image": "https://img.example/a.jpg", "publishedAt": "2026-08-30T10:00:00Z",
		"source": {"name": "Example Wire", "url": "https://wire.example"}
	}`, title, content, articleURL)
}

func newsService(t *testing.T, srvURL string, listTTL time.Duration) (*NewsService, *repository.NewsRepo) {
	t.Helper()
	store := testStore(t)
	repo := repository.NewNewsRepo(store)
	client := upstream.NewNewsClient(testUpstreamClient("news"), srvURL, "key")
	return NewNewsService(repo, client, listTTL, 168*time.Hour), repo
}

func TestGetNewsByCategoryIngestsAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, headlinesJSON(
			headline("Rates Rise Again", "The central bank moved rates up for the third time.", "https://wire.example/rates"),
			headline("Chip Exports Surge", "Semiconductor exports hit a record high this quarter.", "https://wire.example/chips"),
		))
	}))
	t.Cleanup(srv.Close)

	svc, _ := newsService(t, srv.URL, time.Hour)

	result, err := svc.GetNewsByCategory(context.Background(), "business")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Source != model.SourceAPI {
		t.Errorf("expected api source, got %s", result.Source)
	}
	if len(result.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(result.Articles))
	}
	if result.Articles[0].Title != "Rates Rise Again" {
		t.Errorf("upstream order lost: %q", result.Articles[0].Title)
	}
	if result.Articles[0].ImageURL == nil {
		t.Error("image url not rewritten and stored")
	}

	result, err = svc.GetNewsByCategory(context.Background(), "business")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if result.Source != model.SourceDB {
		t.Errorf("expected db source, got %s", result.Source)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestNewsDedupMergesCategoriesAcrossFetches(t *testing.T) {
	// The same story comes back under two categories with a slightly
	// edited payload; it must converge to one row carrying both.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("category") {
		case "business":
			fmt.Fprint(w, headlinesJSON(
				headline("Merger Approved", "Regulators cleared the merger after a long review period.", "https://wire.example/merger"),
			))
		case "technology":
			fmt.Fprint(w, headlinesJSON(
				headline("Merger Approved!", "Regulators cleared the merger after a long review, analysts said.", "https://wire.example/merger-tech"),
			))
		default:
			fmt.Fprint(w, headlinesJSON())
		}
	}))
	t.Cleanup(srv.Close)

	svc, repo := newsService(t, srv.URL, time.Hour)
	ctx := context.Background()

	first, err := svc.GetNewsByCategory(ctx, "business")
	if err != nil {
		t.Fatalf("business get: %v", err)
	}
	second, err := svc.GetNewsByCategory(ctx, "technology")
	if err != nil {
		t.Fatalf("technology get: %v", err)
	}

	if len(first.Articles) != 1 || len(second.Articles) != 1 {
		t.Fatalf("expected 1 article each, got %d and %d", len(first.Articles), len(second.Articles))
	}
	if first.Articles[0].ID != second.Articles[0].ID {
		t.Fatalf("duplicate rows created: %s vs %s", first.Articles[0].ID, second.Articles[0].ID)
	}

	got, err := repo.GetByIDs(ctx, []string{first.Articles[0].ID})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(got))
	}
	cats := got[0].Categories
	if len(cats) != 2 || cats[0] != "business" || cats[1] != "technology" {
		t.Errorf("categories not merged: %v", cats)
	}
	// The original row wins; the later near-duplicate must not replace
	// its identity fields.
	if got[0].Title != "Merger Approved" {
		t.Errorf("identity fields changed on merge: %q", got[0].Title)
	}
}

func TestGetNewsByCategoryBackfillsShortList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, headlinesJSON(
			headline("Only Fresh Story", "A single new story arrived in this fetch cycle today.", "https://wire.example/only"),
		))
	}))
	t.Cleanup(srv.Close)

	svc, repo := newsService(t, srv.URL, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	// Seed older unexpired articles in the same category.
	for i := 0; i < 3; i++ {
		a := &model.NewsArticle{
			ID:          fmt.Sprintf("seed%d", i),
			URL:         fmt.Sprintf("https://wire.example/seed%d", i),
			Title:       fmt.Sprintf("Seed Story %d", i),
			Content:     fmt.Sprintf("Older story number %d with plenty of body text.", i),
			SourceName:  "Example Wire",
			SourceURL:   "https://wire.example",
			PublishedAt: now.Add(-time.Duration(i+1) * time.Hour),
			Categories:  []string{"business"},
			CachedAt:    now,
			ExpireAt:    now.Add(168 * time.Hour),
		}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := svc.GetNewsByCategory(ctx, "business")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(result.Articles) != 4 {
		t.Fatalf("expected fresh + 3 backfilled, got %d", len(result.Articles))
	}
	if result.Articles[0].Title != "Only Fresh Story" {
		t.Errorf("fresh article must lead the list: %q", result.Articles[0].Title)
	}
	// Backfill is newest-published first.
	if result.Articles[1].ID != "seed0" || result.Articles[3].ID != "seed2" {
		t.Errorf("backfill order wrong: %s .. %s", result.Articles[1].ID, result.Articles[3].ID)
	}
}

func TestGetNewsByCategoryFallbackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	svc, repo := newsService(t, srv.URL, time.Hour)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	a := &model.NewsArticle{
		ID: "old1", URL: "https://wire.example/old1", Title: "Old But Valid",
		Content: "Still within its entity freshness window.", SourceName: "Example Wire",
		SourceURL: "https://wire.example", PublishedAt: now.Add(-2 * time.Hour),
		Categories: []string{"sports"}, CachedAt: now, ExpireAt: now.Add(168 * time.Hour),
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.GetNewsByCategory(ctx, "sports")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Source != model.SourceFallback {
		t.Errorf("expected fallback source, got %s", result.Source)
	}
	if len(result.Articles) != 1 || result.Articles[0].ID != "old1" {
		t.Errorf("fallback articles wrong: %+v", result.Articles)
	}
}

// raceyNewsStore simulates a concurrent writer whose insert lands after
// the dedup search misses but before the optimistic create runs.
type raceyNewsStore struct {
	*repository.NewsRepo
	rival *model.NewsArticle
}

func (s *raceyNewsStore) FindMatch(ctx context.Context, id, url, title, contentPrefix string) (*model.NewsArticle, error) {
	match, err := s.NewsRepo.FindMatch(ctx, id, url, title, contentPrefix)
	if err != nil || match != nil {
		return match, err
	}
	// First miss: the rival wins the insert, and this caller still
	// observes the pre-insert state.
	if s.rival != nil {
		rival := s.rival
		s.rival = nil
		if err := s.NewsRepo.Create(ctx, rival); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func TestIngestArticleRecoversFromInsertRace(t *testing.T) {
	store := testStore(t)
	repo := repository.NewNewsRepo(store)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	title := "Storm Closes Ports"
	content := "Shipping halted along the coast as the storm made landfall overnight."
	rival := &model.NewsArticle{
		ID:          articleID(title, content),
		URL:         "https://wire.example/storm",
		Title:       title,
		Content:     content,
		SourceName:  "Example Wire",
		SourceURL:   "https://wire.example",
		PublishedAt: now.Add(-time.Hour),
		Categories:  []string{"technology"},
		CachedAt:    now,
		ExpireAt:    now.Add(168 * time.Hour),
	}
	svc := NewNewsService(&raceyNewsStore{NewsRepo: repo, rival: rival}, nil, time.Hour, 168*time.Hour)

	item := upstream.ArticleItem{
		Title:       title,
		Content:     content,
		URL:         "https://wire.example/storm",
		PublishedAt: "2026-08-30T10:00:00Z",
	}
	id, err := svc.ingestArticle(ctx, item, "business", now)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if id != rival.ID {
		t.Errorf("expected the winning row's id %s, got %s", rival.ID, id)
	}

	got, err := repo.GetByIDs(ctx, []string{rival.ID})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(got))
	}
	cats := got[0].Categories
	if len(cats) != 2 || cats[0] != "technology" || cats[1] != "business" {
		t.Errorf("categories not merged after race recovery: %v", cats)
	}
}

func TestGetNewsByCategoryEmptyFallbackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	svc, _ := newsService(t, srv.URL, time.Hour)

	// Nothing cached for the category: still a fallback result, not an
	// error surfaced to the route.
	result, err := svc.GetNewsByCategory(context.Background(), "sports")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Source != model.SourceFallback {
		t.Errorf("expected fallback source, got %s", result.Source)
	}
	if result.Articles == nil || len(result.Articles) != 0 {
		t.Errorf("expected empty article slice, got %+v", result.Articles)
	}
}
