package content

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a title: lowercased, non-word
// characters stripped, whitespace and hyphen runs collapsed to single
// hyphens, leading and trailing hyphens trimmed.
//
// Slugify is pure; slug uniqueness within a content table is the caller's
// responsibility.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		default:
			// stripped
		}
	}

	return strings.Trim(b.String(), "-")
}
