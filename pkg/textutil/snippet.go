package textutil

import (
	"regexp"
	"unicode/utf8"
)

// DefaultSnippetLength is the preview length stored on every page.
const DefaultSnippetLength = 100

var markupTag = regexp.MustCompile(`<.*?>`)

// StripTags removes every <...> span, including self-closing and malformed tags.
func StripTags(html string) string {
	return markupTag.ReplaceAllString(html, "")
}

// Snippet returns a plain-text preview of html. The length bound is taken from
// the tagged input, min(len(html), maxLen), and then applied to the prefix of
// the stripped text. Lengths count runes.
func Snippet(html string, maxLen int) string {
	if maxLen <= 0 || html == "" {
		return ""
	}
	limit := utf8.RuneCountInString(html)
	if limit > maxLen {
		limit = maxLen
	}

	plain := []rune(StripTags(html))
	if len(plain) > limit {
		plain = plain[:limit]
	}
	return string(plain)
}
