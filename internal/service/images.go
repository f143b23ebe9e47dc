package service

import (
	"fmt"
	"net/url"
)

// Poster and article images are rewritten through the wsrv.nl image
// proxy so the frontend gets resized webp regardless of what the
// provider hosts.

// proxyImageURL wraps an absolute image URL. Returns nil for empty input
// so the field stays NULL in storage.
func proxyImageURL(raw string, width int) *string {
	if raw == "" {
		return nil
	}
	out := fmt.Sprintf("https://wsrv.nl/?url=%s&w=%d&output=webp&q=85",
		url.QueryEscape(raw), width)
	return &out
}

// proxyTMDBImage wraps a TMDB image path, which is relative to the TMDB
// image host at a fixed width.
func proxyTMDBImage(path string, width int) *string {
	if path == "" {
		return nil
	}
	out := fmt.Sprintf("https://wsrv.nl/?url=https://image.tmdb.org/t/p/w%d%s&output=webp&q=85",
		width, path)
	return &out
}
