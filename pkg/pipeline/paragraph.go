package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// paragraphRules is the ordered paragraph table. Keyword rules precede the
// image rule so a keyword paragraph that happens to hold an image keeps its
// keyword meaning.
func paragraphRules() []Rule {
	return []Rule{
		{Name: "guard", Kind: KindParagraph, Match: matchGuard, Build: dropNode},
		{Name: "video-thumbnail", Kind: KindParagraph, Match: matchVideoThumbnail, Build: buildVideoThumbnail},
		{Name: "caption", Kind: KindParagraph, Match: matchCaption, Build: buildCaption},
		{Name: "image-title", Kind: KindParagraph, Match: matchImageTitle, Build: buildImageTitle},
		{Name: "toc-title", Kind: KindParagraph, Match: matchKeyword(tocKeywords), Build: buildTOCTitle},
		{Name: "empty", Kind: KindParagraph, Match: matchEmpty, Build: dropNode},
		{Name: "read-more", Kind: KindParagraph, Match: matchKeyword(readMoreKeywords), Build: buildReadMore},
		{Name: "summary", Kind: KindParagraph, Match: matchKeyword(summaryKeywords), Build: buildSummary},
		{Name: "references", Kind: KindParagraph, Match: matchKeyword(referenceKeywords), Build: buildReferences},
		{Name: "headline", Kind: KindParagraph, Match: matchHeadline, Build: buildHeadline},
		{Name: "video-url", Kind: KindParagraph, Match: matchVideoURL, Build: buildVideoURL},
		{Name: "video-link", Kind: KindParagraph, Match: matchVideoLink, Build: buildVideoLink},
		{Name: "image", Kind: KindParagraph, Match: matchImage, Build: buildImage},
		{Name: "quote", Kind: KindParagraph, Match: matchQuote, Build: buildQuote},
		{Name: "cta", Kind: KindParagraph, Match: matchKeyword(ctaKeywords), Build: buildCTA},
		{Name: "paragraph", Kind: KindParagraph, Match: always, Build: buildParagraph},
	}
}

func dropNode(*Context, *html.Node) []*blocks.Block { return nil }

func matchKeyword(f Family) func(*Context, *html.Node) bool {
	return func(_ *Context, n *html.Node) bool {
		return f.Has(document.Text(n))
	}
}

// 1. paragraphs inside tables, and image paragraphs introducing a table, are
// handled by the table builder.
func matchGuard(_ *Context, n *html.Node) bool {
	return isInsideTable(n) || (hasImage(n) && nextIsTable(n))
}

// 2. an image that links to a video page becomes an embed of that video.
func matchVideoThumbnail(_ *Context, n *html.Node) bool {
	return videoThumbnailLink(n) != ""
}

func videoThumbnailLink(n *html.Node) string {
	for _, a := range links(n) {
		href := document.Attr(a, "href")
		if blocks.IsVideoURL(href) && hasImage(a) {
			return href
		}
	}
	return ""
}

func buildVideoThumbnail(ctx *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{embedBlock(ctx, n, videoThumbnailLink(n))}
}

// 3. an emphasised paragraph right after an image or video is its caption.
func matchCaption(ctx *Context, n *html.Node) bool {
	last := ctx.last()
	if last == nil || hasImage(n) || len(links(n)) > 0 {
		return false
	}
	switch last.Type {
	case blocks.Image, blocks.Embed, blocks.Columns:
	default:
		return false
	}
	return isItalic(n) && validCaption(document.Text(n))
}

func buildCaption(_ *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{{
		Type:      blocks.Paragraph,
		Align:     blocks.AlignCenter,
		ClassName: "image-caption",
		Inner:     "<em>" + document.EscapeText(document.Text(n)) + "</em>",
	}}
}

// 4. a short bold-underlined line just above an image is the image's title.
func matchImageTitle(_ *Context, n *html.Node) bool {
	text := document.Text(n)
	return text != "" && !hasImage(n) && document.RuneLen(text) <= boldLabelMaxRunes &&
		isBoldUnderlined(n) && imageFollows(n, boldLabelLookahead)
}

func buildImageTitle(_ *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{{
		Type:      blocks.Paragraph,
		Align:     blocks.AlignCenter,
		ClassName: "image-title",
		Inner:     "<strong>" + document.EscapeText(document.Text(n)) + "</strong>",
	}}
}

// 5. the table-of-contents title; a bare keyword is forced bold.
func buildTOCTitle(_ *Context, n *html.Node) []*blocks.Block {
	text := document.Text(n)
	inner := document.InnerHTML(n)
	if tocKeywords.Exact(text) {
		inner = "<strong>" + document.EscapeText(text) + "</strong>"
	}
	return []*blocks.Block{{Type: blocks.Paragraph, ClassName: "toc-title", Inner: inner}}
}

// 6. empty paragraphs and alt-text lines produce nothing.
func matchEmpty(_ *Context, n *html.Node) bool {
	text := document.Text(n)
	if text == "" && !hasImage(n) {
		return true
	}
	return !hasImage(n) && altKeywords.Has(text)
}

// 7. read-more lines are rebuilt as a fixed prefix and a single link.
func buildReadMore(_ *Context, n *html.Node) []*blocks.Block {
	rest, _ := readMoreKeywords.Prefix(document.Text(n))
	inner := strings.TrimSpace(readMorePrefixText)
	if ls := links(n); len(ls) > 0 {
		a := ls[0]
		label := document.Text(a)
		if label == "" || readMoreKeywords.Exact(label) {
			label = rest
		}
		if label == "" {
			label = document.Attr(a, "href")
		}
		inner = readMorePrefixText + `<a href="` + document.EscapeAttr(document.Attr(a, "href")) + `">` + document.EscapeText(label) + "</a>"
	} else if rest != "" {
		inner = readMorePrefixText + document.EscapeText(rest)
	}
	return []*blocks.Block{{Type: blocks.Paragraph, ClassName: "read-more", Inner: inner}}
}

// 8. summary paragraphs are kept as written.
func buildSummary(_ *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{paragraphBlock(n, "summary")}
}

// 9. the references title is set off by a separator and switches later
// paragraphs and lists to the references style.
func buildReferences(ctx *Context, n *html.Node) []*blocks.Block {
	ctx.ReferencesActive = true
	return []*blocks.Block{
		{Type: blocks.Separator},
		paragraphBlock(n, "references-title"),
	}
}

// 10. headline markers become a centered level-3 heading.
func matchHeadline(_ *Context, n *html.Node) bool {
	text := document.Text(n)
	return headlineKeywords.Exact(text) || headlinePrefix.Has(text)
}

func buildHeadline(_ *Context, n *html.Node) []*blocks.Block {
	text := document.Text(n)
	if rest, ok := headlinePrefix.Prefix(text); ok && rest != "" {
		text = rest
	}
	return []*blocks.Block{headlineBlock(text)}
}

func headlineBlock(text string) *blocks.Block {
	return &blocks.Block{
		Type:      blocks.Heading,
		Level:     3,
		Align:     blocks.AlignCenter,
		ClassName: "headline",
		Inner:     document.EscapeText(text),
	}
}

// 11. a paragraph that starts with a video address and has no image nearby.
func matchVideoURL(_ *Context, n *html.Node) bool {
	if hasImage(n) || hasImage(document.NextElement(n)) {
		return false
	}
	return leadingVideoURL(document.Text(n)) != ""
}

func buildVideoURL(ctx *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{embedBlock(ctx, n, leadingVideoURL(document.Text(n)))}
}

// 12. a paragraph consisting of one link to a video.
func matchVideoLink(_ *Context, n *html.Node) bool {
	return !hasImage(n) && isVideoLinkParagraph(n)
}

func isVideoLinkParagraph(n *html.Node) bool {
	ls := links(n)
	if len(ls) != 1 || !blocks.IsVideoURL(document.Attr(ls[0], "href")) {
		return false
	}
	text := document.Text(n)
	return text == document.Text(ls[0]) || strings.HasPrefix(text, document.Text(ls[0]))
}

func buildVideoLink(ctx *Context, n *html.Node) []*blocks.Block {
	return []*blocks.Block{embedBlock(ctx, n, document.Attr(links(n)[0], "href"))}
}

// 13. image paragraphs.
func matchImage(_ *Context, n *html.Node) bool {
	return hasImage(n)
}

func buildImage(ctx *Context, n *html.Node) []*blocks.Block {
	alt := altText(n)
	imgs := images(n)

	caption := ""
	if text, nodes, ok := inlineCaption(n); ok {
		caption = document.EscapeText(text)
		for _, c := range nodes {
			document.Remove(c)
		}
	} else if next := document.NextElement(n); document.IsElement(next, "p") && !hasImage(next) &&
		len(links(next)) == 0 && isItalic(next) && IsCenteredLenient(next) && validCaption(document.Text(next)) {
		caption = document.EscapeText(document.Text(next))
		document.Remove(next)
		ctx.drop("caption-adopted", next)
	}

	out := ctx.imageBlocks(imgs, alt, caption)

	// text sharing the paragraph with the images, minus alt lines
	for _, img := range imgs {
		if a := document.Closest(img, "a"); a != nil && document.Closest(a, "p") == n {
			document.Remove(a)
			continue
		}
		document.Remove(img)
	}
	var rest []string
	for _, line := range document.Lines(n) {
		if !altKeywords.Has(line) {
			rest = append(rest, document.EscapeText(line))
		}
	}
	if len(rest) > 0 {
		out = append(out, &blocks.Block{Type: blocks.Paragraph, Align: alignOf(n), Inner: strings.Join(rest, "<br>")})
	}
	return out
}

// 14. a paragraph wrapped in quotation marks becomes a quote block.
func matchQuote(_ *Context, n *html.Node) bool {
	return isQuotation(document.Text(n))
}

var quotePairs = map[rune]rune{'"': '"', '“': '”', '«': '»', '„': '“', '「': '」'}

func isQuotation(text string) bool {
	r := []rune(text)
	if len(r) < 3 {
		return false
	}
	closeQ, ok := quotePairs[r[0]]
	return ok && r[len(r)-1] == closeQ
}

func buildQuote(_ *Context, n *html.Node) []*blocks.Block {
	r := []rune(document.Text(n))
	inner := strings.TrimSpace(string(r[1 : len(r)-1]))
	return []*blocks.Block{{Type: blocks.Quote, Inner: document.EscapeText(inner)}}
}

// 15. call-to-action phrases become a headline followed by a button.
func buildCTA(ctx *Context, n *html.Node) []*blocks.Block {
	text := document.Text(n)
	url := ctx.ctaURL()
	label := text
	if ls := links(n); len(ls) > 0 {
		url = document.Attr(ls[0], "href")
		if t := document.Text(ls[0]); t != "" {
			label = t
		}
	}
	out := []*blocks.Block{headlineBlock(text)}
	if url == "" {
		ctx.warn("classify", "call-to-action without link or profile url; button omitted", n)
		return out
	}
	return append(out, &blocks.Block{
		Type:  blocks.Buttons,
		Align: blocks.AlignCenter,
		Children: []*blocks.Block{{
			Type:  blocks.Button,
			URL:   url,
			Text:  document.EscapeText(label),
			Color: ctx.buttonColor(),
		}},
	})
}

// 16. everything else is an ordinary paragraph.
func buildParagraph(ctx *Context, n *html.Node) []*blocks.Block {
	b := paragraphBlock(n, "")
	if ctx.ReferencesActive {
		b.AddClass("references")
	}
	return []*blocks.Block{b}
}

func paragraphBlock(n *html.Node, class string) *blocks.Block {
	return &blocks.Block{
		Type:      blocks.Paragraph,
		Align:     alignOf(n),
		ClassName: class,
		Inner:     strings.TrimSpace(document.InnerHTML(n)),
	}
}

func alignOf(n *html.Node) string {
	if IsCentered(n) {
		return blocks.AlignCenter
	}
	return ""
}
