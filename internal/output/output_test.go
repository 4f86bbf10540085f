package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/pipeline"
)

func sampleReport() *Report {
	stats := pipeline.NewStats()
	stats.InputBytes = 120
	stats.OutputBytes = 80
	stats.RulesFired["heading"] = 1
	res := &pipeline.Result{
		Content: "<!-- wp:paragraph -->\n<p>a &amp; b</p>\n<!-- /wp:paragraph -->",
		Blocks:  []*blocks.Block{{Type: blocks.Paragraph, Inner: "a &amp; b"}},
		Stats:   stats,
	}
	res.AddWarning("classify", "image without source", "<img>")
	return NewReport("article.docx", "docx", "gutenberg", "clinic", res, nil)
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := fmt.Sprintf("%T", w); got != tt.want {
				t.Errorf("NewWriter() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := NewWriter(&bytes.Buffer{}, Format("csv")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"jsonl", FormatJSONL, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(&Report{Error: "boom"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := "<!-- wp:paragraph -->\n<p>a &amp; b</p>\n<!-- /wp:paragraph -->\n\nerror: boom\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestJSONWriter_Single(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")
	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got["dialect"] != "gutenberg" || got["file"] != "article.docx" {
		t.Errorf("report = %v", got)
	}
	if !strings.Contains(buf.String(), "<p>a &amp; b</p>") {
		t.Error("markup was HTML-escaped")
	}
	stats := got["stats"].(map[string]any)
	if stats["input_bytes"].(float64) != 120 {
		t.Errorf("stats = %v", stats)
	}
}

func TestJSONWriter_Multiple(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	if err := w.WriteAll([]any{sampleReport(), sampleReport()}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	var got []Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d reports, want 2", len(got))
	}

	buf.Reset()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("second flush wrote %q", buf.String())
	}
}

func TestJSONLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)
	for i := 0; i < 3; i++ {
		if err := w.Write(sampleReport()); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		var r Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d: %v", i, err)
		}
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)
	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if got["profile"] != "clinic" || got["source"] != "docx" {
		t.Errorf("report = %v", got)
	}
	warnings, ok := got["warnings"].([]any)
	if !ok || len(warnings) != 1 {
		t.Errorf("warnings = %v", got["warnings"])
	}
}

func TestNewReport(t *testing.T) {
	t.Run("options", func(t *testing.T) {
		r := sampleReport()
		WithoutContent()(r)
		WithoutBlocks()(r)
		if r.Content != "" || r.Blocks != nil {
			t.Errorf("report not trimmed: %+v", r)
		}
		if r.Stats == nil {
			t.Error("stats dropped")
		}
	})

	t.Run("error", func(t *testing.T) {
		r := NewReport("x.pdf", "", "html", "", nil, errors.New("unsupported input format: .pdf"))
		if r.Error == "" || r.Stats != nil || r.Content != "" {
			t.Errorf("report = %+v", r)
		}
	})
}
