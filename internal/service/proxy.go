package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"pulsehub-api/internal/cache"
	"pulsehub-api/internal/upstream"
)

// ErrUnknownProvider is returned for proxy requests naming a provider
// the service has no client for.
type ErrUnknownProvider struct{ Provider string }

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unknown proxy provider: %s", e.Provider)
}

// ProxyService serves cached passthrough reads against the upstream
// providers. Responses are cached verbatim under the request path, so
// repeated frontend reads of the same provider URL cost one upstream
// call per TTL window.
type ProxyService struct {
	cache cache.Cache
	ttl   time.Duration

	tmdb    *upstream.TMDBClient
	av      *upstream.AlphaVantageClient
	news    *upstream.NewsClient
	jamendo *upstream.MusicClient
}

// NewProxyService creates the passthrough proxy.
func NewProxyService(c cache.Cache, ttl time.Duration, tmdb *upstream.TMDBClient, av *upstream.AlphaVantageClient, news *upstream.NewsClient, jamendo *upstream.MusicClient) *ProxyService {
	return &ProxyService{cache: c, ttl: ttl, tmdb: tmdb, av: av, news: news, jamendo: jamendo}
}

// Fetch returns the provider response for pathAndQuery, from the cache
// when present. Cache write failures are logged and swallowed: a broken
// cache degrades to proxying, not to errors.
func (s *ProxyService) Fetch(ctx context.Context, provider, pathAndQuery string) ([]byte, error) {
	key := provider + ":" + pathAndQuery

	if cached, err := s.cache.Get(ctx, key); err == nil {
		return cached, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("[ProxyService] Cache read failed for %s: %v", key, err)
	}

	var (
		body []byte
		err  error
	)
	switch provider {
	case "tmdb":
		body, err = s.tmdb.Passthrough(ctx, pathAndQuery)
	case "stocks":
		body, err = s.av.Passthrough(ctx, pathAndQuery)
	case "news":
		body, err = s.news.Passthrough(ctx, pathAndQuery)
	case "jamendo":
		body, err = s.jamendo.Passthrough(ctx, pathAndQuery)
	default:
		return nil, &ErrUnknownProvider{Provider: provider}
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, body, s.ttl); err != nil {
		log.Printf("[ProxyService] Cache write failed for %s: %v", key, err)
	}
	return body, nil
}
