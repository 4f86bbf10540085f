package blocks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// Dialect serialises blocks into one target publishing format and answers the
// format-specific questions the cleanup passes ask about existing markup.
type Dialect interface {
	// Name returns the dialect identifier used in configuration.
	Name() string

	// Render serialises a block sequence.
	Render(bs []*Block) string

	// RenderBlock serialises a single block.
	RenderBlock(b *Block) string

	// TableWrapped reports whether a table element already sits inside this
	// dialect's table wrapper.
	TableWrapped(table *html.Node) bool

	// EmbedSelector matches the dialect's video embed wrapper, or is empty
	// when the dialect has no element-level wrapper.
	EmbedSelector() string

	// RewriteLinkTargets rewrites link targets carried in shortcode
	// attributes of a text run. external reports whether a URL leaves the site.
	RewriteLinkTargets(text string, external func(string) bool) string
}

// Dialect names.
const (
	NameGutenberg = "gutenberg"
	NameFusion    = "fusion"
	NameShortcode = "shortcode"
	NameHTML      = "html"
)

var registry = map[string]Dialect{
	NameGutenberg: Gutenberg{},
	NameFusion:    Fusion{},
	NameShortcode: Shortcode{},
	NameHTML:      HTMLDialect{},
}

// Lookup returns the dialect registered under name (case-insensitive).
func Lookup(name string) (Dialect, bool) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Dialect {
	d, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("blocks: unknown dialect %q", name))
	}
	return d
}

// Names lists the registered dialects in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsBracket reports whether d writes bracket-tag shortcodes.
func IsBracket(d Dialect) bool {
	switch d.Name() {
	case NameFusion, NameShortcode:
		return true
	}
	return false
}

var brTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// breaksToNewlines turns line-break tags into newline characters.
func breaksToNewlines(s string) string {
	return brTag.ReplaceAllString(s, "\n")
}

// bracketTarget matches the link/target pair bracket dialects emit.
var bracketTarget = regexp.MustCompile(`\b(link|url)="([^"]*)"(\s+(?:link)?target=")_self"`)

func rewriteBracketTargets(text string, external func(string) bool) string {
	return bracketTarget.ReplaceAllStringFunc(text, func(m string) string {
		sub := bracketTarget.FindStringSubmatch(m)
		if !external(sub[2]) {
			return m
		}
		return sub[1] + `="` + sub[2] + `"` + sub[3] + `_blank"`
	})
}

// lastBracketTag returns the last "[name" or "[/name" token in s, without the
// bracket, or "".
func lastBracketTag(s string) string {
	i := strings.LastIndex(s, "[")
	if i < 0 {
		return ""
	}
	rest := s[i+1:]
	end := strings.IndexAny(rest, " ]\n")
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// bracketTableWrapped reports whether the closest shortcode before table is
// the opening tag named open.
func bracketTableWrapped(table *html.Node, prefix, open string) bool {
	marker := document.PrevMarker(table, func(n *html.Node) bool {
		return n.Type == html.TextNode && strings.Contains(n.Data, "["+prefix) || n.Type == html.TextNode && strings.Contains(n.Data, "[/"+prefix)
	})
	if marker == nil {
		return false
	}
	return lastBracketTag(marker.Data) == open
}

func attrPair(key, val string) string {
	if val == "" {
		return ""
	}
	return " " + key + `="` + document.EscapeAttr(val) + `"`
}

// markupAttrPair writes an attribute whose value is already escaped markup.
// Only quotes and the closing bracket are escaped so entities are not doubled.
func markupAttrPair(key, val string) string {
	if val == "" {
		return ""
	}
	return " " + key + `="` + markupAttrEscaper.Replace(val) + `"`
}

var markupAttrEscaper = strings.NewReplacer(`"`, "&quot;", "]", "&#93;")

func classAttr(classes ...string) string {
	var parts []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return ` class="` + document.EscapeAttr(strings.Join(parts, " ")) + `"`
}

func alignStyle(align string) string {
	if align == "" {
		return ""
	}
	return "text-align: " + align + ";"
}

// columnFraction returns "1_2" style widths for n columns joined by sep.
func columnFraction(n int, sep string) string {
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("1%s%d", sep, n)
}
