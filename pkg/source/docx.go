package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/gabriel-vasile/mimetype"

	"github.com/jmylchreest/docxpress/internal/logger"
)

// DOCX renders Word documents with go-docx. Heading and title styles become
// h1-h6, numbered paragraphs become list items, run formatting becomes
// strong/em/underline spans, and embedded pictures become images.
type DOCX struct{}

// Type returns "docx".
func (d *DOCX) Type() string { return "docx" }

// Load reads the whole document into memory and renders its body.
func (d *DOCX) Load(ctx context.Context, r io.Reader, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", conversionError("read docx", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", conversionError("parse docx", err)
	}

	w := &docxWriter{doc: doc, opts: opts}
	for _, item := range doc.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch it := item.(type) {
		case *docx.Paragraph:
			w.paragraph(it)
		case *docx.Table:
			w.closeList()
			w.table(it)
		}
	}
	w.closeList()
	logger.Debug("loaded docx", "bytes", len(data), "images", w.images, "output_bytes", w.sb.Len())
	return w.sb.String(), nil
}

type docxWriter struct {
	doc    *docx.Docx
	opts   Options
	sb     strings.Builder
	inList bool
	images int
}

func (w *docxWriter) paragraph(p *docx.Paragraph) {
	inner := w.inline(p)
	if isListParagraph(p) {
		if !w.inList {
			w.sb.WriteString("<ul>")
			w.inList = true
		}
		fmt.Fprintf(&w.sb, "<li>%s</li>", inner)
		return
	}
	w.closeList()

	tag := "p"
	if level := headingLevel(p); level > 0 {
		tag = fmt.Sprintf("h%d", level)
	}
	fmt.Fprintf(&w.sb, "<%s%s>%s</%s>\n", tag, alignAttr(p), inner, tag)
}

func (w *docxWriter) closeList() {
	if w.inList {
		w.sb.WriteString("</ul>\n")
		w.inList = false
	}
}

func (w *docxWriter) table(t *docx.Table) {
	w.sb.WriteString("<table>")
	for _, row := range t.TableRows {
		w.sb.WriteString("<tr>")
		for _, cell := range row.TableCells {
			lines := make([]string, 0, len(cell.Paragraphs))
			for _, p := range cell.Paragraphs {
				if s := w.inline(p); s != "" {
					lines = append(lines, s)
				}
			}
			fmt.Fprintf(&w.sb, "<td>%s</td>", strings.Join(lines, "<br>"))
		}
		w.sb.WriteString("</tr>")
	}
	w.sb.WriteString("</table>\n")
}

// inline renders the runs and hyperlinks of a paragraph.
func (w *docxWriter) inline(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			sb.WriteString(w.run(c))
		case *docx.Hyperlink:
			text := w.run(&c.Run)
			if text == "" {
				text = html.EscapeString(c.Run.InstrText)
			}
			target, err := w.doc.ReferTarget(c.ID)
			if err != nil || target == "" {
				sb.WriteString(text)
				continue
			}
			fmt.Fprintf(&sb, `<a href="%s">%s</a>`, html.EscapeString(target), text)
		}
	}
	return sb.String()
}

func (w *docxWriter) run(r *docx.Run) string {
	var sb strings.Builder
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			sb.WriteString(html.EscapeString(c.Text))
		case *docx.Tab:
			sb.WriteString(" ")
		case *docx.BarterRabbet:
			sb.WriteString("<br>")
		case *docx.Drawing:
			sb.WriteString(w.image(c))
		}
	}
	text := sb.String()
	if text == "" || r.RunProperties == nil {
		return text
	}

	rp := r.RunProperties
	if rp.Underline != nil && rp.Underline.Val != "" && rp.Underline.Val != "none" {
		text = `<span style="text-decoration: underline">` + text + "</span>"
	}
	if rp.Italic != nil {
		text = "<em>" + text + "</em>"
	}
	if rp.Bold != nil {
		text = "<strong>" + text + "</strong>"
	}
	return text
}

var blipEmbed = regexp.MustCompile(`r:embed="([^"]+)"`)

// image resolves the picture of a drawing through the document relationships.
// The relationship id is read from the encoded drawing, which covers inline
// and anchored pictures alike.
func (w *docxWriter) image(d *docx.Drawing) string {
	encoded, err := xml.Marshal(d)
	if err != nil {
		return ""
	}
	m := blipEmbed.FindSubmatch(encoded)
	if m == nil {
		return ""
	}
	target, err := w.doc.ReferTarget(string(m[1]))
	if err != nil {
		logger.Warn("unresolved image relationship", "id", string(m[1]), "error", err)
		return ""
	}
	w.images++

	if w.opts.ExportMode {
		return fmt.Sprintf(`<img src="%s">`, html.EscapeString(target))
	}
	media := w.doc.Media(path.Base(target))
	if media == nil {
		media = w.doc.Media(target)
	}
	if media == nil {
		logger.Warn("image media missing", "target", target)
		return ""
	}
	mtype := mimetype.Detect(media.Data).String()
	return fmt.Sprintf(`<img src="data:%s;base64,%s">`, mtype, base64.StdEncoding.EncodeToString(media.Data))
}

// headingLevel maps Heading1-6 (or "heading 1") and Title styles to a level.
func headingLevel(p *docx.Paragraph) int {
	if p.Properties == nil || p.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(p.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func isListParagraph(p *docx.Paragraph) bool {
	if p.Properties == nil {
		return false
	}
	if p.Properties.NumProperties != nil {
		return true
	}
	return p.Properties.Style != nil && strings.EqualFold(p.Properties.Style.Val, "ListParagraph")
}

func alignAttr(p *docx.Paragraph) string {
	if p.Properties == nil || p.Properties.Justification == nil {
		return ""
	}
	switch p.Properties.Justification.Val {
	case "center":
		return ` style="text-align: center"`
	case "right", "end":
		return ` style="text-align: right"`
	}
	return ""
}
