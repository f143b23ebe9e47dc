package service

import "strings"

// Article identity is a deterministic fingerprint of normalized title +
// a short normalized content prefix, because providers neither give
// stable IDs nor stable payloads: the same story recurs across fetches
// and categories with edited trailing paragraphs. The prefix is
// truncated to 20 characters so trailing edits cannot change identity.

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// articleID computes the content-hash identity for an upstream article.
func articleID(title, content string) string {
	return toBase62(fnv1a(articleHashKey(title, content)))
}

// articleHashKey builds the normalized dedup key.
func articleHashKey(title, content string) string {
	t := normalizeText(title)
	c := normalizeText(content)
	if len(c) > 20 {
		c = c[:20]
	}
	return t + "|" + c
}

// normalizeText lowercases, strips combining diacritics, and collapses
// every non-alphanumeric run into a single space.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	space := false
	for _, r := range strings.ToLower(text) {
		r = foldDiacritic(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		if r >= 0x0300 && r <= 0x036f {
			// Combining mark: drop without breaking the word.
			continue
		}
		space = true
	}
	return b.String()
}

// foldDiacritic maps the precomposed Latin letters the news providers
// actually emit onto their base ASCII letter.
func foldDiacritic(r rune) rune {
	switch {
	case r >= 'à' && r <= 'å':
		return 'a'
	case r == 'ç':
		return 'c'
	case r >= 'è' && r <= 'ë':
		return 'e'
	case r >= 'ì' && r <= 'ï':
		return 'i'
	case r == 'ñ':
		return 'n'
	case r >= 'ò' && r <= 'ö':
		return 'o'
	case r >= 'ù' && r <= 'ü':
		return 'u'
	case r == 'ý' || r == 'ÿ':
		return 'y'
	}
	return r
}

// fnv1a is the 32-bit FNV-1a hash over the key's bytes.
func fnv1a(s string) uint32 {
	hash := uint32(0x811c9dc5)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// toBase62 encodes a hash compactly for use as a primary key.
func toBase62(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [6]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(buf[i:])
}
