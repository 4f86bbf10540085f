package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// Tunables for the classification heuristics.
const (
	captionMinRunes       = 3
	captionMaxRunes       = 200
	mergeMaxRunes         = 100
	boldLabelMaxRunes     = 100
	boldLabelLookahead    = 3
	twoColumnThreshold    = 5
	anchorTargetSkipLevel = 2
)

var (
	centerStyle    = regexp.MustCompile(`(?i)text-align\s*:\s*center`)
	italicStyle    = regexp.MustCompile(`(?i)font-style\s*:\s*italic`)
	boldStyle      = regexp.MustCompile(`(?i)font-weight\s*:\s*(bold|[6-9]00)`)
	underlineStyle = regexp.MustCompile(`(?i)text-decoration(-line)?\s*:[^;]*underline`)
	urlLike        = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	firstURL       = regexp.MustCompile(`(?i)^https?://\S+`)
)

// IsCentered is the strict centering check: the element itself carries
// center alignment through the align attribute, an inline text-align style
// or a centering class.
func IsCentered(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if strings.EqualFold(document.Attr(n, "align"), "center") {
		return true
	}
	if centerStyle.MatchString(document.Attr(n, "style")) {
		return true
	}
	for _, c := range document.Classes(n) {
		switch c {
		case "has-text-align-center", "text-center", "aligncenter", "center":
			return true
		}
	}
	return false
}

// IsCenteredLenient also accepts centering on the parent or on any
// descendant element. It is only used when deciding whether a paragraph
// below an image is its caption.
func IsCenteredLenient(n *html.Node) bool {
	if IsCentered(n) || IsCentered(n.Parent) {
		return true
	}
	return len(document.Collect(n, IsCentered)) > 0
}

func images(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	if document.IsElement(n, "img") {
		return []*html.Node{n}
	}
	return document.Elements(n, "img")
}

func hasImage(n *html.Node) bool {
	return len(images(n)) > 0
}

func links(n *html.Node) []*html.Node {
	return document.Collect(n, func(d *html.Node) bool {
		return document.IsElement(d, "a") && document.Attr(d, "href") != ""
	})
}

func isInsideTable(n *html.Node) bool {
	return document.Closest(n, "table", "td", "th") != nil
}

// styledWithin reports whether every non-blank text node below n has an
// ancestor (up to and including n) accepted by pred.
func styledWithin(n *html.Node, pred func(*html.Node) bool) bool {
	found := false
	ok := true
	document.Walk(n, func(d *html.Node) bool {
		if !ok {
			return false
		}
		if d.Type != html.TextNode || document.IsBlank(d) {
			return true
		}
		found = true
		for p := d.Parent; p != nil; p = p.Parent {
			if pred(p) {
				return true
			}
			if p == n {
				break
			}
		}
		ok = false
		return false
	})
	return found && ok
}

func isItalicNode(n *html.Node) bool {
	return document.IsElement(n, "em", "i") || (n.Type == html.ElementNode && italicStyle.MatchString(document.Attr(n, "style")))
}

func isBoldNode(n *html.Node) bool {
	return document.IsElement(n, "strong", "b") || (n.Type == html.ElementNode && boldStyle.MatchString(document.Attr(n, "style")))
}

func isUnderlineNode(n *html.Node) bool {
	if document.IsElement(n, "u") || document.HasClass(n, "underline") {
		return true
	}
	return n.Type == html.ElementNode && underlineStyle.MatchString(document.Attr(n, "style"))
}

// isItalic reports whether all text of n is emphasised.
func isItalic(n *html.Node) bool {
	return styledWithin(n, isItalicNode)
}

// isBoldUnderlined reports whether all text of n is both bold and underlined.
func isBoldUnderlined(n *html.Node) bool {
	return styledWithin(n, isBoldNode) && styledWithin(n, isUnderlineNode)
}

// isURLLike reports whether text contains a web address.
func isURLLike(text string) bool {
	return urlLike.MatchString(text)
}

// leadingVideoURL returns the video URL that text starts with, or "".
func leadingVideoURL(text string) string {
	m := firstURL.FindString(strings.TrimSpace(text))
	if m == "" || !blocks.IsVideoURL(m) {
		return ""
	}
	return m
}

// validCaption applies the caption constraints: length bounds, no web
// address and no keyword prefix.
func validCaption(text string) bool {
	n := document.RuneLen(text)
	if n < captionMinRunes || n > captionMaxRunes {
		return false
	}
	return !isURLLike(text) && !anyKeyword(text)
}

// endsWithBreak reports whether the last non-blank child of n is a <br>.
func endsWithBreak(n *html.Node) bool {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if document.IsBlank(c) {
			continue
		}
		return document.IsElement(c, "br")
	}
	return false
}

// inlineCaption returns the emphasised text that follows the last line break
// in n, together with the nodes that hold it. ok is false when there is no
// such run or it fails validation.
func inlineCaption(n *html.Node) (text string, nodes []*html.Node, ok bool) {
	var lastBr *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if document.IsElement(c, "br") {
			lastBr = c
		}
	}
	if lastBr == nil {
		return "", nil, false
	}
	var sb strings.Builder
	for c := lastBr.NextSibling; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
		if document.IsBlank(c) {
			continue
		}
		if !isItalicNode(c) && !(c.Type == html.ElementNode && isItalic(c)) {
			return "", nil, false
		}
		sb.WriteString(document.RawText(c))
	}
	text = document.Collapse(sb.String())
	if text == "" || !validCaption(text) {
		return "", nil, false
	}
	for _, c := range nodes {
		if len(links(c)) > 0 || document.IsElement(c, "a") {
			return "", nil, false
		}
	}
	return text, nodes, true
}

// emphasisText returns the concatenated text of the em/i elements in n.
func emphasisText(n *html.Node) string {
	var parts []string
	for _, e := range document.Elements(n, "em", "i") {
		if document.Closest(e, "em", "i") != nil {
			continue
		}
		parts = append(parts, document.RawText(e))
	}
	return document.Collapse(strings.Join(parts, " "))
}

// altText returns the alt description given by an "alt:" line in n or in the
// paragraph right after it.
func altText(n *html.Node) string {
	for _, line := range document.Lines(n) {
		if rest, ok := altKeywords.Prefix(line); ok {
			return rest
		}
	}
	if next := document.NextElement(n); document.IsElement(next, "p") && !hasImage(next) {
		if rest, ok := altKeywords.Prefix(document.Text(next)); ok {
			return rest
		}
	}
	return ""
}

// imageFollows reports whether an image comes next, skipping at most blanks
// empty paragraphs. Any other element in between ends the search.
func imageFollows(n *html.Node, blanks int) bool {
	s := n
	for i := 0; i <= blanks; i++ {
		s = document.NextElement(s)
		if s == nil {
			return false
		}
		if hasImage(s) {
			return true
		}
		if !document.IsElement(s, "p") || document.Text(s) != "" {
			return false
		}
	}
	return false
}

func nextIsTable(n *html.Node) bool {
	return document.IsElement(document.NextElement(n), "table")
}
