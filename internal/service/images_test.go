package service

import (
	"strings"
	"testing"
)

func TestProxyImageURL(t *testing.T) {
	got := proxyImageURL("https://cdn.example/pic.jpg?size=big", 800)
	if got == nil {
		t.Fatal("expected url, got nil")
	}
	if !strings.HasPrefix(*got, "https://wsrv.nl/?url=") {
		t.Errorf("not routed through image proxy: %s", *got)
	}
	if !strings.Contains(*got, "w=800") || !strings.Contains(*got, "output=webp") {
		t.Errorf("missing resize params: %s", *got)
	}
	// The source URL must be escaped so its query does not leak into ours.
	if strings.Contains(*got, "size=big") {
		t.Errorf("source query not escaped: %s", *got)
	}

	if proxyImageURL("", 800) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestProxyTMDBImage(t *testing.T) {
	got := proxyTMDBImage("/abc123.jpg", 500)
	if got == nil {
		t.Fatal("expected url, got nil")
	}
	if !strings.Contains(*got, "image.tmdb.org/t/p/w500/abc123.jpg") {
		t.Errorf("tmdb path not expanded: %s", *got)
	}

	if proxyTMDBImage("", 500) != nil {
		t.Error("expected nil for empty path")
	}
}
