package service

import "testing"

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  Multiple   spaces\tand\ntabs  ", "multiple spaces and tabs"},
		{"Café résumé naïve", "cafe resume naive"},
		{"UPPER lower MiXeD", "upper lower mixed"},
		{"numbers 123 stay", "numbers 123 stay"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := normalizeText(tc.in); got != tc.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestArticleIDIsStable(t *testing.T) {
	a := articleID("Fed Raises Rates", "The Federal Reserve raised interest rates today.")
	b := articleID("Fed Raises Rates", "The Federal Reserve raised interest rates today.")
	if a != b {
		t.Errorf("same input produced different ids: %s vs %s", a, b)
	}
}

func TestArticleIDIgnoresFormattingNoise(t *testing.T) {
	a := articleID("Fed Raises Rates!", "The Federal Reserve raised interest rates today.")
	b := articleID("fed raises rates", "The  Federal—Reserve raised interest rates today???")
	if a != b {
		t.Errorf("formatting noise changed identity: %s vs %s", a, b)
	}
}

func TestArticleIDIgnoresTrailingContentEdits(t *testing.T) {
	// Only the first 20 normalized characters of content participate.
	a := articleID("Fed Raises Rates", "The Federal Reserve raised rates. Markets rallied.")
	b := articleID("Fed Raises Rates", "The Federal Reserve raised rates. Markets fell sharply.")
	if a != b {
		t.Errorf("trailing edit changed identity: %s vs %s", a, b)
	}
}

func TestArticleIDDistinguishesDifferentStories(t *testing.T) {
	a := articleID("Fed Raises Rates", "The Federal Reserve raised interest rates.")
	b := articleID("Fed Cuts Rates", "The Federal Reserve cut interest rates.")
	if a == b {
		t.Errorf("different stories collided: %s", a)
	}
}

func TestToBase62(t *testing.T) {
	if got := toBase62(0); got != "0" {
		t.Errorf("toBase62(0) = %q", got)
	}
	if got := toBase62(61); got != "Z" {
		t.Errorf("toBase62(61) = %q", got)
	}
	if got := toBase62(62); got != "10" {
		t.Errorf("toBase62(62) = %q", got)
	}
}
