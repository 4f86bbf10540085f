package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmylchreest/docxpress/pkg/blocks"
)

// Stats captures what a conversion did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Classification
	RulesFired    map[string]int `json:"rules_fired" yaml:"rules_fired"`       // rule -> count
	NodesDropped  map[string]int `json:"nodes_dropped" yaml:"nodes_dropped"`   // reason -> count
	BlocksEmitted map[string]int `json:"blocks_emitted" yaml:"blocks_emitted"` // block type -> count

	// Normalisation
	NodesTrimmed     int `json:"nodes_trimmed" yaml:"nodes_trimmed"`
	ParagraphsMerged int `json:"paragraphs_merged" yaml:"paragraphs_merged"`
	UnderlinesMarked int `json:"underlines_marked" yaml:"underlines_marked"`

	// Finalisation
	LinksRewritten int `json:"links_rewritten" yaml:"links_rewritten"`

	// Timing
	ParseDuration     time.Duration `json:"parse_duration_ms" yaml:"parse_duration_ms"`
	NormalizeDuration time.Duration `json:"normalize_duration_ms" yaml:"normalize_duration_ms"`
	ClassifyDuration  time.Duration `json:"classify_duration_ms" yaml:"classify_duration_ms"`
	RenderDuration    time.Duration `json:"render_duration_ms" yaml:"render_duration_ms"`
	CleanupDuration   time.Duration `json:"cleanup_duration_ms" yaml:"cleanup_duration_ms"`
	FinalizeDuration  time.Duration `json:"finalize_duration_ms" yaml:"finalize_duration_ms"`
	TotalDuration     time.Duration `json:"total_duration_ms" yaml:"total_duration_ms"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		RulesFired:    make(map[string]int),
		NodesDropped:  make(map[string]int),
		BlocksEmitted: make(map[string]int),
	}
}

// RecordRule records that a classification rule handled a node.
func (s *Stats) RecordRule(name string) {
	s.RulesFired[name]++
}

// RecordDrop records that a node was discarded.
func (s *Stats) RecordDrop(reason string) {
	s.NodesDropped[reason]++
}

// RecordBlocks counts emitted blocks, including nested ones.
func (s *Stats) RecordBlocks(bs []*blocks.Block) {
	for _, b := range bs {
		s.BlocksEmitted[string(b.Type)]++
		s.RecordBlocks(b.Children)
	}
}

// TotalBlocks returns the number of emitted blocks.
func (s *Stats) TotalBlocks() int {
	return sum(s.BlocksEmitted)
}

// TotalDropped returns the number of discarded nodes.
func (s *Stats) TotalDropped() int {
	return sum(s.NodesDropped)
}

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes\n", s.InputBytes, s.OutputBytes))
	sb.WriteString(fmt.Sprintf("Blocks: %d emitted, %d nodes dropped, %d trimmed\n",
		s.TotalBlocks(), s.TotalDropped(), s.NodesTrimmed))

	if len(s.RulesFired) > 0 {
		sb.WriteString("Rules: ")
		sb.WriteString(formatCounts(s.RulesFired))
		sb.WriteString("\n")
	}
	if len(s.NodesDropped) > 0 {
		sb.WriteString("Dropped: ")
		sb.WriteString(formatCounts(s.NodesDropped))
		sb.WriteString("\n")
	}

	if s.ParagraphsMerged > 0 {
		sb.WriteString(fmt.Sprintf("Paragraphs merged: %d\n", s.ParagraphsMerged))
	}
	if s.LinksRewritten > 0 {
		sb.WriteString(fmt.Sprintf("External links rewritten: %d\n", s.LinksRewritten))
	}

	sb.WriteString(fmt.Sprintf("Timing: parse=%v, normalize=%v, classify=%v, render=%v, cleanup=%v, finalize=%v, total=%v\n",
		s.ParseDuration.Round(time.Microsecond),
		s.NormalizeDuration.Round(time.Microsecond),
		s.ClassifyDuration.Round(time.Microsecond),
		s.RenderDuration.Round(time.Microsecond),
		s.CleanupDuration.Round(time.Microsecond),
		s.FinalizeDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`     // "parse", "normalize", "classify", "cleanup", "finalize"
	Message string `json:"message" yaml:"message"` // Human-readable description
	Context string `json:"context" yaml:"context"` // Node excerpt or rule name
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a conversion.
type Result struct {
	// Content is the final markup.
	Content string `json:"content" yaml:"content"`

	// Blocks are the classified blocks before rendering.
	Blocks []*blocks.Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
