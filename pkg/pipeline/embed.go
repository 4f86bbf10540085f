package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// embedBlock builds a video embed for url and adopts a caption for it.
func embedBlock(ctx *Context, n *html.Node, url string) *blocks.Block {
	return &blocks.Block{
		Type:    blocks.Embed,
		URL:     strings.TrimSpace(url),
		Caption: adoptCaption(ctx, n),
	}
}

// adoptCaption finds the caption of a video paragraph. An emphasised run after
// a line break inside the paragraph wins; otherwise the next paragraph's
// emphasised text, or its whole text, is used. The caption must be 3-200
// runes, carry no link, not look like a web address and not start with a
// keyword. A caption taken from the next paragraph consumes that paragraph.
func adoptCaption(ctx *Context, n *html.Node) string {
	if text, _, ok := inlineCaption(n); ok {
		return document.EscapeText(text)
	}

	next := document.NextElement(n)
	if !document.IsElement(next, "p") || hasImage(next) || len(links(next)) > 0 {
		return ""
	}
	text := emphasisText(next)
	if text == "" {
		text = document.Text(next)
	}
	if !validCaption(text) || leadingVideoURL(text) != "" {
		return ""
	}
	document.Remove(next)
	ctx.drop("caption-adopted", next)
	return document.EscapeText(text)
}
