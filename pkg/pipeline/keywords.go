package pipeline

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Family is a set of equivalent keywords (Thai and English spellings of the
// same marker). Matching is case-insensitive.
type Family []string

func family(words ...string) Family {
	f := Family(words)
	// longest first so "table of contents" wins over "contents"
	sort.SliceStable(f, func(i, j int) bool { return len(f[i]) > len(f[j]) })
	return f
}

// Keyword families recognised in paragraph and heading text.
var (
	tocKeywords        = family("สารบัญ", "table of contents", "contents")
	referenceKeywords  = family("อ้างอิง", "แหล่งอ้างอิง", "เอกสารอ้างอิง", "references", "reference", "sources")
	summaryKeywords    = family("สรุป", "summary", "conclusion")
	qaKeywords         = family("q&a", "faq", "คำถามที่พบบ่อย", "ถาม-ตอบ", "ถามตอบ")
	readMoreKeywords   = family("อ่านเพิ่มเติม", "อ่านต่อ", "read more", "see also")
	headlineKeywords   = family("headline", "ไฮไลท์", "highlight")
	headlinePrefix     = family("headline:")
	ctaKeywords        = family("ปรึกษาแพทย์", "นัดหมายแพทย์", "สอบถามเพิ่มเติม", "book an appointment", "contact us")
	clickKeywords      = family("คลิกที่นี่", "คลิก", "click here", "click")
	altKeywords        = family("alt:", "alt :", "alt text:", "alt-text:", "alt tag:")
	landingKeywords    = family("landing:", "link:")
	readMorePrefixText = "อ่านเพิ่มเติม: "
)

// Prefix reports whether text starts with one of the keywords and returns the
// remainder with separators trimmed. A keyword ending in a letter must not be
// followed directly by another Latin letter, so "contents" does not match
// "contentsfoo"; Thai has no word spacing and is matched as a plain prefix.
func (f Family) Prefix(text string) (rest string, ok bool) {
	text = strings.TrimSpace(text)
	for _, kw := range f {
		if len(text) < len(kw) || !strings.EqualFold(text[:len(kw)], kw) {
			continue
		}
		after := text[len(kw):]
		if r, _ := utf8.DecodeRuneInString(after); after != "" && r < unicode.MaxASCII && unicode.IsLetter(r) && endsWithLetter(kw) {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(after, " :：-–—")), true
	}
	return "", false
}

// Has reports whether text starts with one of the keywords.
func (f Family) Has(text string) bool {
	_, ok := f.Prefix(text)
	return ok
}

// Exact reports whether text equals one of the keywords, ignoring case and a
// trailing colon.
func (f Family) Exact(text string) bool {
	text = strings.TrimRight(strings.TrimSpace(text), " :：")
	for _, kw := range f {
		if strings.EqualFold(text, kw) {
			return true
		}
	}
	return false
}

func endsWithLetter(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r)
}

// guardFamilies are the keyword families whose paragraphs are never merged
// with a neighbour.
var guardFamilies = []Family{
	tocKeywords, referenceKeywords, summaryKeywords, qaKeywords, readMoreKeywords,
	headlineKeywords, headlinePrefix, ctaKeywords, clickKeywords, altKeywords, landingKeywords,
}

// anyKeyword reports whether text starts with a keyword of any guarded family.
func anyKeyword(text string) bool {
	for _, f := range guardFamilies {
		if f.Has(text) {
			return true
		}
	}
	return false
}
