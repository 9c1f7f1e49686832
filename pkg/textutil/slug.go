// Package textutil holds the pure text transforms used by the content core:
// slug normalization and plain-text snippets of HTML content.
package textutil

import (
	"regexp"
	"strings"
)

// reservedPrefix is the route prefix a slug must never start with.
const reservedPrefix = "page/"

var (
	placeholders    = strings.NewReplacer(" ", "_", "-", "_", ".", "_")
	unsafeSlugChars = regexp.MustCompile(`[^a-z0-9_/]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Slugify turns an arbitrary string into a lowercase, hyphen-separated path.
// Slashes survive as pseudo-directory separators, so "/People//Jane_Doe/"
// becomes "people/jane-doe".
//
//	"[Some] _ Article's Title--" → "some-articles-title"
//	"page/foo"                   → "page-foo"
//
// The result only contains [a-z0-9/-], never starts or ends with "/", never
// repeats "/" and is stable under a second pass.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = placeholders.Replace(s)
	s = unsafeSlugChars.ReplaceAllString(s, "")

	segments := strings.Split(s, "/")
	kept := segments[:0]
	for _, seg := range segments {
		seg = strings.ReplaceAll(seg, "_", " ")
		seg = whitespaceRuns.ReplaceAllString(seg, " ")
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		kept = append(kept, strings.ReplaceAll(seg, " ", "-"))
	}
	s = strings.Join(kept, "/")

	if strings.HasPrefix(s, reservedPrefix) {
		s = "page-" + strings.TrimPrefix(s, reservedPrefix)
	}
	return s
}
