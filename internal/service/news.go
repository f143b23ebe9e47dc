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
	newsListTarget   = 10
	newsBatchSize    = 6
	newsContentMatch = 20
	newsImageWidth   = 800
)

// NewsStore is the slice of the article repository the service needs.
// Satisfied by *repository.NewsRepo.
type NewsStore interface {
	Create(ctx context.Context, a *model.NewsArticle) error
	Refresh(ctx context.Context, id string, categories []string, cachedAt, expireAt time.Time) error
	FindMatch(ctx context.Context, id, url, title, contentPrefix string) (*model.NewsArticle, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.NewsArticle, error)
	BackfillIDs(ctx context.Context, category string, exclude []string, now time.Time, limit int) ([]string, error)
	RecentByCategory(ctx context.Context, category string, now time.Time, limit int) ([]model.NewsArticle, error)
	GetList(ctx context.Context, category string) (*model.NewsList, error)
	SaveList(ctx context.Context, l *model.NewsList) error
}

// NewsService caches headlines per category with content-based dedup.
// The same story arrives repeatedly across fetch cycles and categories
// with slightly different payloads, so every incoming article is matched
// against the store before insert, and matches merge category sets
// instead of creating new rows.
type NewsService struct {
	repo NewsStore
	news *upstream.NewsClient

	listTTL    time.Duration
	articleTTL time.Duration
}

// NewNewsService creates the news orchestrator.
func NewNewsService(repo NewsStore, news *upstream.NewsClient, listTTL, articleTTL time.Duration) *NewsService {
	return &NewsService{repo: repo, news: news, listTTL: listTTL, articleTTL: articleTTL}
}

// GetNewsByCategory returns the headlines for one category: from the
// store while the cached list is fresh, otherwise refreshed from the
// API. When the API fails, whatever unexpired articles the store holds
// for the category are served with source "fallback", empty included.
func (s *NewsService) GetNewsByCategory(ctx context.Context, category string) (*model.NewsResult, error) {
	now := time.Now()

	list, err := s.repo.GetList(ctx, category)
	if err != nil {
		return nil, err
	}

	if list != nil && list.ExpireAt.After(now) {
		articles, err := s.articlesInOrder(ctx, list.ArticleIDs)
		if err != nil {
			return nil, err
		}
		return &model.NewsResult{Articles: articles, Source: model.SourceDB}, nil
	}

	result, err := s.refreshCategory(ctx, category, now)
	if err == nil {
		return result, nil
	}

	log.Printf("[NewsService] Refresh failed for %s, serving fallback: %v", category, err)
	fallback, dbErr := s.repo.RecentByCategory(ctx, category, now, newsListTarget)
	if dbErr != nil {
		return nil, dbErr
	}
	if fallback == nil {
		fallback = []model.NewsArticle{}
	}
	metrics.FallbackServes.WithLabelValues("news").Inc()
	return &model.NewsResult{Articles: fallback, Source: model.SourceFallback}, nil
}

func (s *NewsService) refreshCategory(ctx context.Context, category string, now time.Time) (*model.NewsResult, error) {
	log.Printf("[NewsService] Fetching fresh %s headlines", category)
	metrics.ListRefreshes.WithLabelValues("news").Inc()

	resp, err := s.news.TopHeadlines(ctx, category)
	if err != nil {
		return nil, err
	}

	// Each article resolves to the canonical stored ID, which may differ
	// from its own hash when it merges into an earlier near-duplicate.
	resolved := forEachBatch(ctx, resp.Articles, newsBatchSize, func(ctx context.Context, item upstream.ArticleItem) string {
		id, err := s.ingestArticle(ctx, item, category, now)
		if err != nil {
			log.Printf("[NewsService] Failed to ingest article %q: %v", item.Title, err)
			return ""
		}
		return id
	})

	ids := make([]string, 0, len(resolved))
	seen := make(map[string]bool, len(resolved))
	for _, id := range resolved {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) < newsListTarget {
		extra, err := s.repo.BackfillIDs(ctx, category, ids, now, newsListTarget-len(ids))
		if err != nil {
			return nil, err
		}
		ids = append(ids, extra...)
	}

	if err := s.repo.SaveList(ctx, &model.NewsList{
		Category:   category,
		ArticleIDs: ids,
		CachedAt:   now,
		ExpireAt:   now.Add(s.listTTL),
	}); err != nil {
		return nil, err
	}

	articles, err := s.articlesInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.NewsResult{Articles: articles, Source: model.SourceAPI}, nil
}

// ingestArticle dedups one incoming headline against the store and
// returns the canonical article ID. A match merges the category into the
// stored row; a miss inserts a new row. A concurrent insert losing the
// id/url race re-queries and merges into the winner.
func (s *NewsService) ingestArticle(ctx context.Context, item upstream.ArticleItem, category string, now time.Time) (string, error) {
	if item.Title == "" {
		return "", nil
	}

	id := articleID(item.Title, item.Content)
	prefix := contentMatchPrefix(item.Content)

	match, err := s.repo.FindMatch(ctx, id, item.URL, item.Title, prefix)
	if err != nil {
		return "", err
	}
	if match != nil {
		return match.ID, s.mergeCategory(ctx, match, category, now)
	}

	article := &model.NewsArticle{
		ID:          id,
		URL:         item.URL,
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		SourceName:  item.Source.Name,
		SourceURL:   item.Source.URL,
		ImageURL:    proxyImageURL(item.Image, newsImageWidth),
		PublishedAt: parsePublishedAt(item.PublishedAt, now),
		Categories:  []string{category},
		CachedAt:    now,
		ExpireAt:    now.Add(s.articleTTL),
	}

	err = s.repo.Create(ctx, article)
	if err == nil {
		return id, nil
	}
	if err != repository.ErrDuplicate {
		return "", err
	}

	// Lost the insert race; the winner holds the row now.
	match, err = s.repo.FindMatch(ctx, id, item.URL, item.Title, prefix)
	if err != nil {
		return "", err
	}
	if match == nil {
		return "", repository.ErrDuplicate
	}
	return match.ID, s.mergeCategory(ctx, match, category, now)
}

// mergeCategory adds the category to the stored article's set and bumps
// its freshness stamps.
func (s *NewsService) mergeCategory(ctx context.Context, a *model.NewsArticle, category string, now time.Time) error {
	categories := a.Categories
	found := false
	for _, c := range categories {
		if c == category {
			found = true
			break
		}
	}
	if !found {
		categories = append(categories, category)
	}
	return s.repo.Refresh(ctx, a.ID, categories, now, now.Add(s.articleTTL))
}

// contentMatchPrefix returns the raw content prefix used for the broad
// match search, or "" when the content is too short to match reliably.
func contentMatchPrefix(content string) string {
	if len(content) < newsContentMatch {
		return ""
	}
	return content[:newsContentMatch]
}

func parsePublishedAt(raw string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	return fallback
}

// articlesInOrder loads articles and restores the list ordering.
func (s *NewsService) articlesInOrder(ctx context.Context, ids []string) ([]model.NewsArticle, error) {
	articles, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.NewsArticle, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	out := make([]model.NewsArticle, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
