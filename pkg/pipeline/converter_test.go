package pipeline

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// convert runs a full conversion and fails the test on error.
func convert(t *testing.T, cfg *Config, input string) *Result {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := c.ConvertWithStats(input)
	if err != nil {
		t.Fatalf("ConvertWithStats() error = %v", err)
	}
	return result
}

// htmlConfig returns a plain-HTML configuration without cleanup or
// finalization, so block records can be inspected directly.
func htmlConfig() *Config {
	cfg := PresetRaw()
	cfg.Dialect = blocks.NameHTML
	return cfg
}

func gutenbergConfig() *Config {
	cfg := DefaultConfig()
	cfg.Profile = "clinic"
	return cfg
}

func ofType(bs []*blocks.Block, typ blocks.Type) []*blocks.Block {
	var out []*blocks.Block
	for _, b := range bs {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

func types(bs []*blocks.Block) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = string(b.Type)
	}
	return strings.Join(parts, ",")
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want error
	}{
		{"unknown dialect", &Config{Dialect: "markdown", EndMarker: DefaultEndMarker}, ErrUnknownDialect},
		{"unknown profile", &Config{Dialect: "gutenberg", Profile: "nope", EndMarker: DefaultEndMarker}, ErrUnknownProfile},
		{"missing dialect", &Config{EndMarker: DefaultEndMarker}, ErrInvalidConfig},
		{"missing end marker", &Config{Dialect: "html"}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	if c.Dialect().Name() != blocks.NameGutenberg {
		t.Errorf("dialect = %q, want gutenberg", c.Dialect().Name())
	}
	if c.Profile() != nil {
		t.Error("expected no profile by default")
	}
}

func TestConvert_Preconditions(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *Config
		input string
		want  error
	}{
		{"empty input", gutenbergConfig(), "", ErrNoDocument},
		{"whitespace input", htmlConfig(), " \n\t", ErrNoDocument},
		{"gutenberg without profile", DefaultConfig(), "<h1>T</h1>", ErrNoProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			result, err := c.ConvertWithStats(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if result != nil {
				t.Error("expected no partial result")
			}
		})
	}

	t.Run("bracket dialect without profile", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dialect = blocks.NameFusion
		result := convert(t, cfg, "<h1>T</h1><p>body</p>")
		if !strings.Contains(result.Content, "[fusion_text]<p>body</p>[/fusion_text]") {
			t.Errorf("unexpected content %q", result.Content)
		}
	})
}

func TestScenario_SingleHeading(t *testing.T) {
	result := convert(t, htmlConfig(), "<h1>Title</h1><p>Intro</p><p>สรุป</p>")

	headings := ofType(result.Blocks, blocks.Heading)
	if len(headings) != 1 {
		t.Fatalf("got %d headings, want 1 (%s)", len(headings), types(result.Blocks))
	}
	if result.Blocks[0].Type != blocks.Heading {
		t.Errorf("first block = %s, want heading", result.Blocks[0].Type)
	}
	if n := len(ofType(result.Blocks, blocks.Separator)); n != 0 {
		t.Errorf("got %d separators, want 0", n)
	}
	if got := types(result.Blocks); got != "heading,paragraph,paragraph" {
		t.Errorf("blocks = %s", got)
	}
	if result.Blocks[2].ClassName != "summary" {
		t.Errorf("summary paragraph class = %q", result.Blocks[2].ClassName)
	}
}

func TestScenario_VideoCaption(t *testing.T) {
	result := convert(t, htmlConfig(), "<h1>T</h1><p>https://youtu.be/AbCdEfGhIjK</p><p>วิธีใช้งานเบื้องต้น</p>")

	if got := types(result.Blocks); got != "heading,embed" {
		t.Fatalf("blocks = %s, want heading,embed", got)
	}
	embed := result.Blocks[1]
	if embed.URL != "https://youtu.be/AbCdEfGhIjK" {
		t.Errorf("URL = %q", embed.URL)
	}
	if embed.Caption != "วิธีใช้งานเบื้องต้น" {
		t.Errorf("Caption = %q", embed.Caption)
	}
	if strings.Contains(result.Content, "<p>วิธีใช้งานเบื้องต้น</p>") {
		t.Error("caption paragraph still present in output")
	}
	if result.Stats.NodesDropped["caption-adopted"] != 1 {
		t.Errorf("caption-adopted drops = %d", result.Stats.NodesDropped["caption-adopted"])
	}
}

func TestConvert_Gutenberg(t *testing.T) {
	input := `<p>preamble that is trimmed</p>` +
		`<h1>บทความ</h1>` +
		`<p>อ่าน <a href="https://www.clinic.example/a">ภายใน</a> และ <a href="https://other.example/b">ภายนอก</a></p>` +
		`<h2>หัวข้อ</h2>` +
		`<p>เนื้อหา</p>` +
		`<p>Note SEO Writer</p>` +
		`<p>after the end marker</p>`

	result := convert(t, gutenbergConfig(), input)

	contains := []string{
		"<!-- wp:heading {\"level\":1,\"className\":\"article-heading\"} -->",
		`<a href="https://www.clinic.example/a">ภายใน</a>`,
		`<a href="https://other.example/b" target="_blank" rel="noopener noreferrer">ภายนอก</a>`,
		"<!-- wp:separator",
		"\n\n<!-- wp:block {\"ref\":1201} /-->",
	}
	excludes := []string{"preamble", "Note SEO", "after the end marker"}

	for _, want := range contains {
		if !strings.Contains(result.Content, want) {
			t.Errorf("output missing %q\ngot: %s", want, result.Content)
		}
	}
	for _, bad := range excludes {
		if strings.Contains(result.Content, bad) {
			t.Errorf("output contains %q", bad)
		}
	}
	if !strings.HasSuffix(result.Content, `<!-- wp:block {"ref":1201} /-->`) {
		t.Error("trailing block is not last")
	}
	if result.Stats.LinksRewritten != 1 {
		t.Errorf("LinksRewritten = %d, want 1", result.Stats.LinksRewritten)
	}
	if result.Stats.NodesTrimmed != 3 {
		t.Errorf("NodesTrimmed = %d, want 3", result.Stats.NodesTrimmed)
	}
}

func TestConvert_AllDialects(t *testing.T) {
	input := "<h1>T</h1><p>x</p><ul><li>a</li></ul><table><tr><td>1</td><td>2</td></tr></table>"
	for _, name := range blocks.Names() {
		t.Run(name, func(t *testing.T) {
			cfg := gutenbergConfig()
			cfg.Dialect = name
			result := convert(t, cfg, input)
			if result.Content == "" {
				t.Fatal("empty content")
			}
			if result.Stats.TotalBlocks() == 0 {
				t.Error("no blocks recorded")
			}
			if result.Stats.RulesFired["heading"] != 1 || result.Stats.RulesFired["table"] != 1 {
				t.Errorf("rules fired = %v", result.Stats.RulesFired)
			}
		})
	}
}

func TestConverter_Clean(t *testing.T) {
	c, err := New(htmlConfig())
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "docxpress:html" {
		t.Errorf("Name() = %q", c.Name())
	}
	out, err := c.Clean("<h1>T</h1><p>body</p>")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(out, "<p>body</p>") {
		t.Errorf("Clean() = %q", out)
	}
	if c.Stats() == nil || c.Stats().InputBytes == 0 {
		t.Error("stats not recorded")
	}
}

func TestConvert_ExportModeImages(t *testing.T) {
	cfg := htmlConfig()
	cfg.ExportMode = true
	input := `<h1>T</h1><p><img src="data:image/png;base64,AAAA"></p><p>gap</p><p><img src="data:image/jpeg;base64,BBBB"></p>`

	result := convert(t, cfg, input)
	imgs := ofType(result.Blocks, blocks.Image)
	if len(imgs) != 2 {
		t.Fatalf("got %d images (%s)", len(imgs), types(result.Blocks))
	}
	if imgs[0].URL != "image-01.png" {
		t.Errorf("first src = %q", imgs[0].URL)
	}
	if !strings.HasPrefix(imgs[1].URL, "image-02.") {
		t.Errorf("second src = %q", imgs[1].URL)
	}
	if strings.Contains(result.Content, "base64") {
		t.Error("image data left in output")
	}
}

// firstNode parses markup and returns the first element matching tag.
func firstNode(t *testing.T, markup, tag string) *html.Node {
	t.Helper()
	tree, err := document.Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	nodes := document.Elements(tree.Root, tag)
	if len(nodes) == 0 {
		t.Fatalf("no <%s> in %q", tag, markup)
	}
	return nodes[0]
}
