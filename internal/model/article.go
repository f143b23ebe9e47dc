package model

import "time"

// News result provenance values. Callers use these for staleness
// messaging, so they are part of the wire contract.
const (
	SourceDB       = "db"
	SourceAPI      = "api"
	SourceFallback = "fallback"
)

// NewsArticle is a cached headline. The primary key is a deterministic
// hash of normalized title + content prefix, not the provider's article
// ID: providers do not give stable IDs and the same story recurs across
// fetches with slightly different payloads. Categories accumulates every
// category the article has ever qualified for.
type NewsArticle struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	SourceName  string    `json:"sourceName"`
	SourceURL   string    `json:"sourceUrl"`
	Author      *string   `json:"author"`
	ImageURL    *string   `json:"imageUrl"`
	PublishedAt time.Time `json:"publishedAt"`
	Categories  []string  `json:"categories"`
	CachedAt    time.Time `json:"cachedAt"`
	ExpireAt    time.Time `json:"expireAt"`
}

// NewsList is the cached ordering of article IDs for one category.
type NewsList struct {
	Category   string    `json:"category"`
	ArticleIDs []string  `json:"articleIds"`
	CachedAt   time.Time `json:"cachedAt"`
	ExpireAt   time.Time `json:"expireAt"`
}

// NewsResult is the news read model served to the frontend.
type NewsResult struct {
	Articles []NewsArticle `json:"articles"`
	Source   string        `json:"source"`
}
