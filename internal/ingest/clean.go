package ingest

import (
	"strings"
	"unicode"
)

// CleanText collapses every run of whitespace to a single space and trims the
// ends. Chunking operates on the cleaned form so window boundaries do not
// depend on the source format's line breaks.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	wasSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteByte(' ')
				wasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		wasSpace = false
	}
	return b.String()
}
