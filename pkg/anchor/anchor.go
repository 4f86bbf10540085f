// Package anchor derives in-page link targets from heading text.
//
// The same function is used for heading ids and for menu links, so a menu
// entry whose text equals a heading's text always points at that heading.
package anchor

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Slug turns text into an anchor id. Letters, digits and combining marks of
// any script are kept (Thai vowels and tone marks are combining marks),
// whitespace, hyphens and underscores collapse into a single hyphen, and
// everything else is dropped. Equal texts always yield equal slugs; no
// de-duplication suffix is added. The result may be empty.
func Slug(text string) string {
	s := folder.String(norm.NFC.String(text))

	var sb strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.In(r, unicode.Mn, unicode.Mc):
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			pendingHyphen = true
		}
	}
	return sb.String()
}

// Href returns the in-page link for text ("#" + slug), or "" when the slug is
// empty.
func Href(text string) string {
	if s := Slug(text); s != "" {
		return "#" + s
	}
	return ""
}
