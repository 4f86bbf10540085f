package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jmylchreest/docxpress/pkg/anchor"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
	"github.com/jmylchreest/docxpress/pkg/profile"
)

// --- Headings ---

func TestStripLevelMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"H2 วิธีดูแล", "วิธีดูแล"},
		{"h3: Aftercare", "Aftercare"},
		{"(H2) Section", "Section"},
		{"[h4] Detail", "Detail"},
		{"Header Tag 2 - Overview", "Overview"},
		{"Overview (H2)", "Overview"},
		{"Overview - H3", "Overview"},
		{"H2O levels", "H2O levels"},
		{"Plain heading", "Plain heading"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := stripLevelMarkers(tt.in); got != tt.want {
				t.Errorf("stripLevelMarkers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildHeading_Sequence(t *testing.T) {
	input := "<h1>Title</h1><p>x</p><h2>H2 Section</h2><p>y</p><h3>(H3) Detail</h3><p>z</p><h2>สรุป</h2><p>end</p><h2>FAQ</h2>"
	result := convert(t, htmlConfig(), input)

	want := "heading,paragraph," +
		"separator,heading,paragraph," +
		"separator,anchor,heading,paragraph," +
		"separator,heading,paragraph," +
		"separator,heading"
	if got := types(result.Blocks); got != want {
		t.Fatalf("blocks =\n%s\nwant\n%s", got, want)
	}

	headings := ofType(result.Blocks, blocks.Heading)
	checks := []struct {
		level  int
		text   string
		class  string
		align  string
		anchor string
	}{
		{1, "Title", "", "", anchor.Slug("Title")},
		{2, "Section", "", "", anchor.Slug("Section")},
		{3, "Detail", "", "", ""},
		{2, "สรุป", "summary-title", "", anchor.Slug("สรุป")},
		{2, "FAQ", "qa-title", blocks.AlignCenter, anchor.Slug("FAQ")},
	}
	for i, c := range checks {
		h := headings[i]
		if h.Level != c.level || h.Inner != c.text || h.ClassName != c.class || h.Align != c.align {
			t.Errorf("heading %d = level %d %q class %q align %q, want %+v", i, h.Level, h.Inner, h.ClassName, h.Align, c)
		}
		if h.Anchor != c.anchor {
			t.Errorf("heading %d anchor = %q, want %q", i, h.Anchor, c.anchor)
		}
	}
	if a := ofType(result.Blocks, blocks.AnchorTarget); len(a) != 1 || a[0].Anchor != "detail" {
		t.Errorf("anchor targets = %+v", a)
	}
}

func TestBuildHeading_UniqueIDs(t *testing.T) {
	input := "<h1>Title</h1><p>x</p><h3>Part Two</h3><p>y</p><h4>Part Three</h4><p>z</p>"
	for _, cfg := range []*Config{htmlConfig(), gutenbergConfig()} {
		t.Run(cfg.Dialect, func(t *testing.T) {
			result := convert(t, cfg, input)
			for _, id := range []string{"part-two", "part-three"} {
				if got := strings.Count(result.Content, `id="`+id+`"`); got != 1 {
					t.Errorf("id %q appears %d times\ngot: %s", id, got, result.Content)
				}
			}
		})
	}
}

func TestBuildHeading_SummaryFirst(t *testing.T) {
	result := convert(t, htmlConfig(), "<h1>สรุป</h1><p>x</p>")
	if got := types(result.Blocks); got != "separator,heading,paragraph" {
		t.Errorf("blocks = %s", got)
	}
}

func TestBuildHeading_Images(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"image after heading", `<h1>T</h1><h2>ภาพ<img src="a.png"></h2>`, "heading,separator,heading,image"},
		{"image only", `<h1>T</h1><h2><img src="a.png"></h2>`, "heading,image"},
		{"empty heading", `<h1>T</h1><h2> </h2>`, "heading"},
		{"table claims images", `<h1>T</h1><h2>ภาพ<img src="a.png"></h2><table><tr><td><img src="b.png"></td><td><img src="c.png"></td></tr></table>`,
			"heading,separator,heading,columns,columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convert(t, htmlConfig(), tt.input)
			if got := types(result.Blocks); got != tt.want {
				t.Errorf("blocks = %s, want %s", got, tt.want)
			}
		})
	}
}

// --- Lists ---

func TestMenuList_AnchorRoundTrip(t *testing.T) {
	input := `<h1>T</h1>` +
		`<ul><li><a href="https://elsewhere.example/x">ข้อดี ของ การรักษา</a></li><li>Side Effects!</li><li>H2 ราคา</li></ul>` +
		`<h2>ข้อดี ของ การรักษา</h2><p>a</p><h3>Side Effects!</h3><p>b</p><h2>H2 ราคา</h2>`

	result := convert(t, htmlConfig(), input)
	lists := ofType(result.Blocks, blocks.List)
	if len(lists) != 1 || lists[0].ClassName != "menu-list" {
		t.Fatalf("lists = %+v", lists)
	}

	tree, err := document.Parse(lists[0].Inner)
	if err != nil {
		t.Fatal(err)
	}
	var hrefs []string
	for _, a := range document.Elements(tree.Root, "a") {
		hrefs = append(hrefs, document.Attr(a, "href"))
	}

	headings := ofType(result.Blocks, blocks.Heading)[1:]
	if len(hrefs) != len(headings) {
		t.Fatalf("hrefs = %v, headings = %d", hrefs, len(headings))
	}
	for i, h := range headings {
		if want := "#" + anchor.Slug(h.Inner); hrefs[i] != want {
			t.Errorf("menu link %d = %q, want %q", i, hrefs[i], want)
		}
	}
}

func TestContentList_TwoColumnThreshold(t *testing.T) {
	for _, items := range []int{5, 6} {
		t.Run(fmt.Sprintf("%d items", items), func(t *testing.T) {
			var sb strings.Builder
			sb.WriteString("<h1>T</h1><ul><li>menu</li></ul><p>x</p><ul>")
			for i := 0; i < items; i++ {
				fmt.Fprintf(&sb, "<li>item %d</li>", i)
			}
			sb.WriteString("</ul>")

			result := convert(t, htmlConfig(), sb.String())
			lists := ofType(result.Blocks, blocks.List)
			if len(lists) != 2 {
				t.Fatalf("lists = %d", len(lists))
			}
			two := strings.Contains(lists[1].ClassName, "two-column")
			if two != (items > twoColumnThreshold) {
				t.Errorf("two-column = %v for %d items", two, items)
			}
		})
	}

	t.Run("nested items count", func(t *testing.T) {
		input := "<h1>T</h1><ul><li>menu</li></ul><p>x</p>" +
			"<ul><li>a<ul><li>a1</li><li>a2</li></ul></li><li>b<ul><li>b1</li><li>b2</li></ul></li></ul>"
		result := convert(t, htmlConfig(), input)
		lists := ofType(result.Blocks, blocks.List)
		if !strings.Contains(lists[1].ClassName, "two-column") {
			t.Errorf("class = %q, want two-column", lists[1].ClassName)
		}
	})
}

func TestContentList_Shape(t *testing.T) {
	tests := []struct {
		name  string
		list  string
		inner string
		class string
	}{
		{
			name:  "nested flattened",
			list:  "<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>",
			inner: "<li>a<br>b</li><li>c</li>",
		},
		{
			name:  "list directly in list",
			list:  "<ul><li>a</li><ul><li>b</li></ul><li>c</li></ul>",
			inner: "<li>a<br>b</li><li>c</li>",
		},
		{
			name:  "dash list",
			list:  "<ul><li>- one</li><li>- <strong>two</strong></li></ul>",
			inner: "<li>one</li><li><strong>two</strong></li>",
			class: "dash-list",
		},
		{
			name:  "nested dash list",
			list:  "<ul><li>- one<ul><li>- nested</li><li>- <em>deeper</em></li></ul></li><li>- two -5°C</li></ul>",
			inner: "<li>one<br>nested<br><em>deeper</em></li><li>two -5°C</li>",
			class: "dash-list",
		},
		{
			name:  "ordered",
			list:  "<ol><li>one</li></ol>",
			inner: "<li>one</li>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convert(t, htmlConfig(), "<h1>T</h1><ul><li>menu</li></ul><p>x</p>"+tt.list)
			l := ofType(result.Blocks, blocks.List)[1]
			if l.Inner != tt.inner {
				t.Errorf("Inner = %q, want %q", l.Inner, tt.inner)
			}
			if l.ClassName != tt.class {
				t.Errorf("ClassName = %q, want %q", l.ClassName, tt.class)
			}
			if l.Ordered != strings.HasPrefix(tt.list, "<ol") {
				t.Errorf("Ordered = %v", l.Ordered)
			}
		})
	}
}

func TestMenuList_DashNotStripped(t *testing.T) {
	result := convert(t, htmlConfig(), "<h1>T</h1><ul><li>- one</li><li>- two</li></ul>")
	l := ofType(result.Blocks, blocks.List)[0]
	if strings.Contains(l.ClassName, "dash-list") {
		t.Error("menu list got dash-list class")
	}
}

func TestContentList_ProfileClass(t *testing.T) {
	cfg := htmlConfig()
	cfg.Profile = "clinic"
	result := convert(t, cfg, "<h1>T</h1><ul><li>menu</li></ul><p>x</p><ul><li>a</li></ul>")
	if got := ofType(result.Blocks, blocks.List)[1].ClassName; got != "article-list" {
		t.Errorf("ClassName = %q", got)
	}
}

// --- Tables ---

func TestScenario_ImageTable(t *testing.T) {
	input := `<h1>T</h1><table>` +
		`<tr><td><img src="1.png"></td><td><img src="2.png"></td></tr>` +
		`<tr><td><img src="3.png"></td><td><img src="4.png"></td></tr>` +
		`</table>`
	result := convert(t, htmlConfig(), input)

	rows := ofType(result.Blocks, blocks.Columns)
	if len(rows) != 2 {
		t.Fatalf("rows = %d (%s)", len(rows), types(result.Blocks))
	}
	for i, row := range rows {
		if len(row.Children) != 2 {
			t.Errorf("row %d has %d columns", i, len(row.Children))
		}
	}
	if n := len(ofType(result.Blocks, blocks.Table)); n != 0 {
		t.Errorf("got %d table blocks", n)
	}
	if got := rows[1].Children[1].Children[0].URL; got != "4.png" {
		t.Errorf("last image = %q", got)
	}
}

func TestImageTable_ThreeColumns(t *testing.T) {
	input := `<h1>T</h1><table><tr>` +
		`<td><img src="1.png"></td><td><img src="2.png"></td><td><img src="3.png"></td>` +
		`</tr><tr><td><img src="4.png"></td><td></td><td></td></tr></table>`
	result := convert(t, htmlConfig(), input)
	rows := ofType(result.Blocks, blocks.Columns)
	if len(rows) != 2 || len(rows[0].Children) != 3 || len(rows[1].Children) != 1 {
		t.Errorf("rows = %s", types(result.Blocks))
	}
}

func TestScenario_ButtonTable(t *testing.T) {
	input := `<h1>T</h1><table><tr><td><a href="https://book.example/now">คลิกที่นี่</a></td><td>รายละเอียด</td></tr></table>`
	result := convert(t, htmlConfig(), input)

	if got := types(result.Blocks); got != "heading,buttons" {
		t.Fatalf("blocks = %s, want heading,buttons", got)
	}
	group := result.Blocks[1]
	if len(group.Children) != 1 {
		t.Fatalf("buttons = %d, want 1", len(group.Children))
	}
	if b := group.Children[0]; b.URL != "https://book.example/now" || b.Text != "คลิกที่นี่" {
		t.Errorf("button = %+v", b)
	}
}

func TestTable_Generic(t *testing.T) {
	input := `<h1>T</h1><table><tr><th style="width:50%">ชื่อ</th><th>ขนาด</th></tr><tr><td>A</td><td>1</td></tr></table>`
	result := convert(t, htmlConfig(), input)
	tables := ofType(result.Blocks, blocks.Table)
	if len(tables) != 1 {
		t.Fatalf("blocks = %s", types(result.Blocks))
	}
	want := "<thead><tr><th>ชื่อ</th><th>ขนาด</th></tr></thead><tbody><tr><td>A</td><td>1</td></tr></tbody>"
	if tables[0].Inner != want {
		t.Errorf("Inner = %q, want %q", tables[0].Inner, want)
	}
	if !strings.Contains(result.Content, `style="table-layout: fixed;"`) {
		t.Errorf("missing fixed layout: %s", result.Content)
	}
}

func TestTable_Dropped(t *testing.T) {
	tests := []struct {
		name  string
		table string
		warn  bool
	}{
		{"one content cell", "<table><tr><td>only</td><td> </td></tr></table>", false},
		{"no rows", "<table></table>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convert(t, htmlConfig(), "<h1>T</h1>"+tt.table)
			if got := types(result.Blocks); got != "heading" {
				t.Errorf("blocks = %s", got)
			}
			if result.Stats.NodesDropped["table"] != 1 {
				t.Errorf("drops = %v", result.Stats.NodesDropped)
			}
			if result.HasWarnings() != tt.warn {
				t.Errorf("warnings = %v", result.Warnings)
			}
		})
	}
}

func TestTable_CellGrammar(t *testing.T) {
	input := `<h1>T</h1><table><tr>` +
		`<td><img src="a.png"><br>alt: แมวส้ม<br>link: https://shop.example/cat<br><em>แมวส้มน่ารัก</em></td>` +
		`<td><a href="https://x.example/dog"><img src="b.png"></a><br>หมา</td>` +
		`</tr></table>`
	result := convert(t, htmlConfig(), input)

	rows := ofType(result.Blocks, blocks.Columns)
	if len(rows) != 1 || len(rows[0].Children) != 2 {
		t.Fatalf("blocks = %s", types(result.Blocks))
	}

	first := rows[0].Children[0].Children
	if len(first) != 2 {
		t.Fatalf("first column = %d blocks", len(first))
	}
	if img := first[0]; img.Alt != "แมวส้ม" || img.Link != "https://shop.example/cat" {
		t.Errorf("image = %+v", img)
	}
	if c := first[1]; c.ClassName != "image-caption" || c.Inner != "<em>แมวส้มน่ารัก</em>" || c.Align != blocks.AlignCenter {
		t.Errorf("caption = %+v", c)
	}

	second := rows[0].Children[1].Children
	if img := second[0]; img.Link != "https://x.example/dog" {
		t.Errorf("linked image = %+v", img)
	}
	if c := second[1]; c.ClassName != "" || c.Inner != "หมา" {
		t.Errorf("plain caption = %+v", c)
	}
}

// --- Finalizer ---

func builtinProfile(id string) (*profile.Profile, error) {
	return profile.Builtin().Lookup(id)
}

func TestFinalizer_Links(t *testing.T) {
	p, err := builtinProfile("clinic")
	if err != nil {
		t.Fatal(err)
	}
	f := NewFinalizer(blocks.Gutenberg{}, p)
	input := "<!-- wp:paragraph -->\n<p>" +
		`<a href="https://www.clinic.example/a">in</a> ` +
		`<a href="https://clinic.example/b">bare host</a> ` +
		`<a href="https://blog.clinic.example/c">alias</a> ` +
		`<a href="/rel">rel</a> ` +
		`<a href="https://other.example/b">out</a> ` +
		`<a href="//cdn.other.example/x" target="_self">proto</a>` +
		"</p>\n<!-- /wp:paragraph -->"

	out, err := f.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	contains := []string{
		`<a href="https://www.clinic.example/a">in</a>`,
		`<a href="https://clinic.example/b">bare host</a>`,
		`<a href="https://blog.clinic.example/c">alias</a>`,
		`<a href="/rel">rel</a>`,
		`<a href="https://other.example/b" target="_blank" rel="noopener noreferrer">out</a>`,
		`<a href="//cdn.other.example/x" target="_blank" rel="noopener noreferrer">proto</a>`,
	}
	for _, want := range contains {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\ngot: %s", want, out)
		}
	}
	if f.LinksRewritten() != 2 {
		t.Errorf("LinksRewritten = %d, want 2", f.LinksRewritten())
	}

	again, err := f.Clean(out)
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Errorf("finalize not idempotent\nonce:  %q\ntwice: %q", out, again)
	}
	if strings.Count(again, `<!-- wp:block {"ref":1201} /-->`) != 1 {
		t.Error("trailing block duplicated")
	}
}

func TestFinalizer_BracketTargets(t *testing.T) {
	p, err := builtinProfile("clinic")
	if err != nil {
		t.Fatal(err)
	}
	input := `[button url="https://other.example/x" target="_self" color="primary"]Go[/button]` + "\n" +
		`[button url="https://www.clinic.example/y" target="_self"]Here[/button]`

	out, err := NewFinalizer(blocks.Shortcode{}, p).Clean(input)
	if err != nil {
		t.Fatal(err)
	}
	want := `[button url="https://other.example/x" target="_blank" color="primary"]Go[/button]` + "\n" +
		`[button url="https://www.clinic.example/y" target="_self"]Here[/button]` + "\n" +
		`[block id="1201"]`
	if out != want {
		t.Errorf("Clean() =\n%s\nwant\n%s", out, want)
	}
}

func TestFinalizer_NoProfile(t *testing.T) {
	in := `<p><a href="https://other.example">x</a></p>`
	out, err := NewFinalizer(blocks.HTMLDialect{}, nil).Clean(in)
	if err != nil || out != in {
		t.Errorf("Clean() = %q, %v", out, err)
	}
}
