package cleaner

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input string
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"block_markup", "<!-- wp:paragraph -->\n<p>Hi</p>\n<!-- /wp:paragraph -->"},
		{"whitespace", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	c := NewNoop()
	if got := c.Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_SingleCleaner(t *testing.T) {
	c := NewChain(NewNoop())

	input := "test content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_SharedTreeMatchesSequential(t *testing.T) {
	input := `<p><font>Intro</font></p><p></p><p><u>key</u> term</p><table><tr><th>A</th></tr><tr><th>B</th></tr></table>`
	passes := []Cleaner{NewNoise(), NewTableRescue(blocks.HTMLDialect{}), NewTableNormalizer(), NewUnderlineStyle()}

	chained, err := NewChain(passes...).Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	sequential := input
	for _, p := range passes {
		if sequential, err = p.Clean(sequential); err != nil {
			t.Fatalf("%s: %v", p.Name(), err)
		}
	}

	if chained != sequential {
		t.Errorf("chain output differs from sequential output\nchain:      %q\nsequential: %q", chained, sequential)
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoise(), &errorCleaner{}, NewNoop())

	_, err := c.Clean("<p>test</p>")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("expected error containing 'test error', got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"double", []Cleaner{NewNoise(), NewUnderlineStyle()}, "chain(noise->underline-style)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Idempotence ---

func TestPasses_Idempotent(t *testing.T) {
	inputs := map[string]string{
		"gutenberg": "<!-- wp:paragraph -->\n<p><span lang=\"th\">สวัสดี</span> <u>ขีดเส้นใต้</u></p>\n<!-- /wp:paragraph -->\n\n" +
			"<!-- wp:paragraph -->\n<p> </p>\n<!-- /wp:paragraph -->\n\n" +
			"<table><thead><tr><th>H1</th></tr><tr><th>H2</th></tr></thead><tbody><tr><th>x</th></tr></tbody></table>\n\n" +
			"<!-- wp:paragraph -->\n<p>https://youtu.be/AbCdEfGhIjK</p>\n<!-- /wp:paragraph -->\n\n" +
			"<!-- wp:paragraph -->\n<p><em>คำบรรยายวิดีโอ</em></p>\n<!-- /wp:paragraph -->",
		"fusion": "[fusion_text]<p><font color=\"red\">Hello</font></p>[/fusion_text]\n[fusion_text]<p></p>[/fusion_text]\n" +
			"<table><tr><td><span style=\"color:red\">a</span></td><td>b</td></tr></table>",
		"shortcode": "[text]<p>https://www.youtube.com/watch?v=AbCdEfGhIjK</p>[/text]\n[text]<p><span class=\"underline\">u</span></p>[/text]",
		"html": "<p>x</p><style>p{}</style><table><tr><td>1</td></tr><tr><td>2</td></tr></table>" +
			`<figure class="video-embed"><figure class="video-embed"><iframe src="https://www.youtube.com/embed/x"></iframe></figure></figure>`,
	}

	for dialect, input := range inputs {
		d := blocks.MustLookup(dialect)
		passes := []Cleaner{
			NewNoise(),
			NewUnderlineStyle(),
			NewTableRescue(d),
			NewTableNormalizer(),
			NewVideoLinks(d),
			DefaultChain(d),
		}
		for _, p := range passes {
			t.Run(dialect+"/"+p.Name(), func(t *testing.T) {
				once, err := p.Clean(input)
				if err != nil {
					t.Fatalf("first Clean() error = %v", err)
				}
				twice, err := p.Clean(once)
				if err != nil {
					t.Fatalf("second Clean() error = %v", err)
				}
				if once != twice {
					t.Errorf("not idempotent\nonce:  %q\ntwice: %q", once, twice)
				}
			})
		}
	}
}

// --- Noise ---

func TestNoise_Clean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "strips style and script",
			input:    `<style>p{color:red}</style><p>Keep</p><script>alert(1)</script>`,
			contains: []string{"<p>Keep</p>"},
			excludes: []string{"<style", "<script", "alert"},
		},
		{
			name:     "unwraps font and bare span",
			input:    `<p><font face="Tahoma"><span>text</span></font></p>`,
			contains: []string{"<p>text</p>"},
			excludes: []string{"<font", "<span"},
		},
		{
			name:     "keeps styled span",
			input:    `<p><span style="text-decoration: underline">u</span></p>`,
			contains: []string{`<span style="text-decoration: underline">u</span>`},
		},
		{
			name:     "drops language attributes",
			input:    `<p lang="th-TH"><span lang="en" class="x">hi</span></p>`,
			contains: []string{`<p><span class="x">hi</span></p>`},
			excludes: []string{"lang="},
		},
		{
			name:     "unwraps paragraph holding only a comment",
			input:    "<p><!-- wp:separator --></p>",
			contains: []string{"<!-- wp:separator -->"},
			excludes: []string{"<p>"},
		},
		{
			name:     "drops empty block paragraph with delimiters",
			input:    "<!-- wp:paragraph -->\n<p> </p>\n<!-- /wp:paragraph -->\n\n<!-- wp:paragraph -->\n<p>Body</p>\n<!-- /wp:paragraph -->",
			contains: []string{"<!-- wp:paragraph -->\n<p>Body</p>\n<!-- /wp:paragraph -->"},
		},
		{
			name:     "drops empty bracket paragraph with its tags",
			input:    "[fusion_text]<p></p>[/fusion_text]\n[fusion_text]<p>Body</p>[/fusion_text]",
			contains: []string{"[fusion_text]<p>Body</p>[/fusion_text]"},
			excludes: []string{"[fusion_text][/fusion_text]"},
		},
		{
			name:     "drops empty list items",
			input:    "<ul><li>one</li><li> </li><li><br></li></ul>",
			contains: []string{"<ul><li>one</li></ul>"},
		},
		{
			name:     "keeps image paragraph",
			input:    `<p><img src="a.png"></p>`,
			contains: []string{`<img src="a.png">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNoise().Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q\ngot: %q", bad, got)
				}
			}
		})
	}
}

// --- Underline ---

func TestUnderlineStyle_Clean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"u tag", "<p><u>a</u></p>", `<p><u style="text-decoration: underline;">a</u></p>`},
		{"class", `<span class="underline">a</span>`, `<span class="underline" style="text-decoration: underline;">a</span>`},
		{"existing style kept", `<u style="color: red">a</u>`, `<u style="color: red; text-decoration: underline;">a</u>`},
		{"already underlined", `<u style="text-decoration: underline">a</u>`, `<u style="text-decoration: underline">a</u>`},
		{"untouched", "<p>a</p>", "<p>a</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewUnderlineStyle().Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Tables ---

func TestNormalizeTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "promotes first row",
			input: "<table><tr><td>H</td></tr><tr><td>b</td></tr></table>",
			want:  "<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>b</td></tr></tbody></table>",
		},
		{
			name:  "moves excess header rows",
			input: "<table><thead><tr><th>H1</th></tr><tr><th>H2</th></tr></thead><tbody><tr><th>b</th></tr></tbody></table>",
			want:  "<table><thead><tr><th>H1</th></tr></thead><tbody><tr><td>H2</td></tr><tr><td>b</td></tr></tbody></table>",
		},
		{
			name:  "single row gets empty body",
			input: "<table><tr><td>only</td></tr></table>",
			want:  "<table><thead><tr><th>only</th></tr></thead><tbody></tbody></table>",
		},
		{
			name:  "already normal",
			input: "<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>b</td></tr></tbody></table>",
			want:  "<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>b</td></tr></tbody></table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := document.Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			table := document.Elements(tree.Root, "table")[0]
			NormalizeTable(table)
			if got := tree.HTML(); got != tt.want {
				t.Errorf("NormalizeTable() = %q, want %q", got, tt.want)
			}
			if NormalizeTable(table) {
				t.Error("second NormalizeTable() reported a change")
			}
		})
	}
}

func TestTableRescue_Clean(t *testing.T) {
	bare := `<table><tr><td><span style="color:red"><a href="/x">Name</a></span></td><td><strong>Dose</strong></td></tr><tr><td>A</td><td>1</td></tr></table>`

	tests := []struct {
		dialect  string
		input    string
		contains []string
		excludes []string
	}{
		{
			dialect:  blocks.NameGutenberg,
			input:    bare,
			contains: []string{`<!-- wp:table {"hasFixedLayout":true} -->`, `<figure class="wp-block-table">`, "<th>Name</th>", "<th><strong>Dose</strong></th>", "<td>A</td>"},
			excludes: []string{"<span", "<a "},
		},
		{
			dialect:  blocks.NameFusion,
			input:    bare,
			contains: []string{`[fusion_table fusion_table_type="1"]`, "[/fusion_table]"},
		},
		{
			dialect:  blocks.NameShortcode,
			input:    bare,
			contains: []string{"[table]", "[/table]"},
		},
		{
			dialect:  blocks.NameHTML,
			input:    bare,
			contains: []string{`style="table-layout: fixed;"`},
		},
		{
			dialect:  blocks.NameGutenberg,
			input:    "<!-- wp:table {\"hasFixedLayout\":true} -->\n<figure class=\"wp-block-table\"><table class=\"has-fixed-layout\"><tbody><tr><td><span style=\"color:red\">kept</span></td></tr></tbody></table></figure>\n<!-- /wp:table -->",
			contains: []string{`<span style="color:red">kept</span>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			got, err := NewTableRescue(blocks.MustLookup(tt.dialect)).Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q\ngot: %q", bad, got)
				}
			}
		})
	}
}

// --- Video links ---

func TestVideoLinks_Clean(t *testing.T) {
	tests := []struct {
		name     string
		dialect  string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:    "bare url with caption",
			dialect: blocks.NameGutenberg,
			input: "<!-- wp:paragraph -->\n<p>https://youtu.be/AbCdEfGhIjK</p>\n<!-- /wp:paragraph -->\n\n" +
				"<!-- wp:paragraph -->\n<p><em>วิธีใช้งาน</em></p>\n<!-- /wp:paragraph -->",
			contains: []string{"<!-- wp:embed", `"providerNameSlug":"youtube"`, `<figcaption class="wp-element-caption">วิธีใช้งาน</figcaption>`},
			excludes: []string{"wp:paragraph", "<p>"},
		},
		{
			name:     "single video link",
			dialect:  blocks.NameShortcode,
			input:    `[text]<p><a href="https://vimeo.com/123456">Watch</a></p>[/text]`,
			contains: []string{`[video url="https://vimeo.com/123456"`},
			excludes: []string{"[text]", "<a "},
		},
		{
			name:     "non-video link untouched",
			dialect:  blocks.NameHTML,
			input:    `<p><a href="https://example.com">https://example.com</a></p>`,
			contains: []string{`<p><a href="https://example.com">https://example.com</a></p>`},
		},
		{
			name:     "nested embeds merged",
			dialect:  blocks.NameHTML,
			input:    `<figure class="video-embed"><figure class="video-embed"><iframe src="https://www.youtube.com/embed/x"></iframe></figure></figure>`,
			contains: []string{`<figure class="video-embed"><iframe src="https://www.youtube.com/embed/x"></iframe></figure>`},
			excludes: []string{`<figure class="video-embed"><figure`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVideoLinks(blocks.MustLookup(tt.dialect)).Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %q", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q\ngot: %q", bad, got)
				}
			}
		})
	}
}
