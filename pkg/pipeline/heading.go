package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/anchor"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// Writers tag headings with their intended level ("H2", "(H3)",
// "Header Tag 2"); the tags are removed from the heading text.
var (
	levelMarkerLead = regexp.MustCompile(`(?i)^(?:[(\[]\s*(?:header\s*tag|h)\s*[1-6]\s*[)\]]\s*[:：\-–]?\s*|(?:header\s*tag\s*|h)[1-6](?:\s*[:：\-–]\s*|\s+))`)
	levelMarkerTail = regexp.MustCompile(`(?i)(?:\s*[(\[]\s*(?:header\s*tag|h)\s*[1-6]\s*[)\]]|\s*[:：\-–]\s*(?:header\s*tag\s*|h)[1-6])\s*$`)
)

// stripLevelMarkers removes writer level tags from heading text.
func stripLevelMarkers(text string) string {
	text = levelMarkerLead.ReplaceAllString(text, "")
	text = levelMarkerTail.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func headingLevel(n *html.Node) int {
	if len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6' {
		return int(n.Data[1] - '0')
	}
	return 2
}

// buildHeading turns a heading into a separator, an anchor target and the
// heading itself. Images inside the heading are emitted after it, unless a
// table follows, in which case the table builder claims them. A heading with
// images but no text yields only the images.
func buildHeading(ctx *Context, n *html.Node) []*blocks.Block {
	imgs := images(n)
	for _, a := range document.Elements(n, "a") {
		document.Unwrap(a)
	}

	text := stripLevelMarkers(document.Text(n))
	nextTable := nextIsTable(n)

	switch {
	case text == "" && (len(imgs) == 0 || nextTable):
		return nil
	case text == "":
		return ctx.imageBlocks(imgs, altText(n), "")
	}

	out := headingBlocks(ctx, n, headingLevel(n), text)
	if len(imgs) > 0 && !nextTable {
		out = append(out, ctx.imageBlocks(imgs, "", "")...)
	}
	return out
}

func headingBlocks(ctx *Context, n *html.Node, level int, text string) []*blocks.Block {
	index := ctx.HeadingIndex
	ctx.HeadingIndex++

	slug := anchor.Slug(text)
	isSummary := summaryKeywords.Has(text)
	isQA := qaKeywords.Has(text)

	var out []*blocks.Block
	if index > 0 || isSummary {
		out = append(out, &blocks.Block{Type: blocks.Separator})
	}
	h := &blocks.Block{
		Type:   blocks.Heading,
		Level:  level,
		Anchor: slug,
		Inner:  document.EscapeText(text),
	}
	// The anchor target carries the id alone so it stays unique.
	if index > 0 && level != anchorTargetSkipLevel && slug != "" {
		out = append(out, &blocks.Block{Type: blocks.AnchorTarget, Anchor: slug})
		h.Anchor = ""
	}
	switch {
	case isQA:
		h.ClassName = "qa-title"
		h.Align = blocks.AlignCenter
	case isSummary:
		h.ClassName = "summary-title"
		h.Align = alignOf(n)
	default:
		h.ClassName = ctx.headingClass()
		h.Align = alignOf(n)
	}
	return append(out, h)
}
