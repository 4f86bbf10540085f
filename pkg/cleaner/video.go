package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

var bareURL = regexp.MustCompile(`(?i)^https?://\S+$`)

// VideoLinks embeds video links that survived classification as plain
// paragraphs, adopting an emphasised paragraph right after them as the
// caption, and collapses embed wrappers nested inside one another.
type VideoLinks struct {
	dialect blocks.Dialect
}

// NewVideoLinks creates the video-link pass for d.
func NewVideoLinks(d blocks.Dialect) *VideoLinks {
	return &VideoLinks{dialect: d}
}

// Clean embeds stray video links.
func (c *VideoLinks) Clean(markup string) (string, error) {
	return cleanTree(c, markup)
}

// Name returns the pass name.
func (c *VideoLinks) Name() string {
	return "video-links"
}

// CleanTree embeds stray video links and merges nested embeds.
func (c *VideoLinks) CleanTree(tree *document.Tree) int {
	changed := 0
	for _, p := range document.Elements(tree.Root, "p") {
		if p.Parent == nil || document.Closest(p, "table", "figure", "li") != nil {
			continue
		}
		link := videoLink(p)
		if link == "" {
			continue
		}
		caption := ""
		if next := document.NextElement(p); next != nil && isCaption(next) {
			caption = document.EscapeText(document.Text(next))
			unwrapBlock(next)
			document.Remove(next)
		}
		unwrapBlock(p)
		if err := replaceWithMarkup(p, c.dialect.RenderBlock(&blocks.Block{Type: blocks.Embed, URL: link, Caption: caption})); err != nil {
			continue
		}
		changed++
	}
	return changed + c.mergeNested(tree)
}

// videoLink returns the video URL p consists of: a bare URL, or a single
// link to a video page whose text is the whole paragraph.
func videoLink(p *html.Node) string {
	if len(document.Elements(p, "img", "iframe")) > 0 {
		return ""
	}
	text := document.Text(p)
	links := document.Elements(p, "a")
	switch {
	case len(links) == 0 && bareURL.MatchString(text) && blocks.IsVideoURL(text):
		return text
	case len(links) == 1 && document.Text(links[0]) == text:
		if href := document.Attr(links[0], "href"); blocks.IsVideoURL(href) {
			return href
		}
	}
	return ""
}

// isCaption reports whether n is a short paragraph whose text is all
// emphasised and holds no link.
func isCaption(n *html.Node) bool {
	if !document.IsElement(n, "p") || len(document.Elements(n, "a", "img")) > 0 {
		return false
	}
	text := document.Text(n)
	if l := document.RuneLen(text); l < 3 || l > 200 || strings.Contains(text, "://") {
		return false
	}
	var emphasised []string
	for _, e := range document.Elements(n, "em", "i") {
		if document.Closest(e, "em", "i") == nil {
			emphasised = append(emphasised, document.RawText(e))
		}
	}
	return document.Collapse(strings.Join(emphasised, " ")) == text
}

// mergeNested replaces an embed wrapper that contains another embed wrapper
// with the inner one.
func (c *VideoLinks) mergeNested(tree *document.Tree) int {
	sel := c.dialect.EmbedSelector()
	if sel == "" {
		return 0
	}
	merged := 0
	tree.Find(sel).Each(func(_ int, s *goquery.Selection) {
		inner := s.Find(sel)
		if inner.Length() == 0 {
			return
		}
		outer := s.Get(0)
		if outer.Parent == nil {
			return
		}
		innermost := inner.Last().Get(0)
		document.Remove(innermost)
		document.ReplaceWith(outer, innermost)
		merged++
	})
	return merged
}
