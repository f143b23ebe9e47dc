package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pulsehub-api/internal/cache"
	"pulsehub-api/internal/upstream"
)

func TestProxyFetchCachesPerKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprintf(w, `{"path": %q}`, r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })

	tmdb := upstream.NewTMDBClient(testUpstreamClient("tmdb"), srv.URL, "token")
	svc := NewProxyService(c, time.Hour, tmdb, nil, nil, nil)
	ctx := context.Background()

	first, err := svc.Fetch(ctx, "tmdb", "/search/movie?query=dune")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second, err := svc.Fetch(ctx, "tmdb", "/search/movie?query=dune")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("cached body differs: %s vs %s", first, second)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}

	// Different path is a different cache key.
	if _, err := svc.Fetch(ctx, "tmdb", "/search/movie?query=alien"); err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 upstream calls, got %d", got)
	}
}

func TestProxyFetchUnknownProvider(t *testing.T) {
	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })
	svc := NewProxyService(c, time.Hour, nil, nil, nil, nil)

	_, err := svc.Fetch(context.Background(), "bogus", "/x")
	if _, ok := err.(*ErrUnknownProvider); !ok {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
