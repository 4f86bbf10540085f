// docxpress-inspect is a standalone tool for developing the conversion rules.
// It runs one document through the pipeline and reports what each phase did.
//
// Usage:
//
//	docxpress-inspect [options] <file>
//
// Examples:
//
//	# Convert and show stats
//	docxpress-inspect -profile clinic article.docx
//
//	# Only classify and render, no cleanup or link policy
//	docxpress-inspect -preset raw -profile clinic article.docx
//
//	# Show only stats as JSON
//	docxpress-inspect -stats-only -json -profile clinic article.html
//
//	# Compare presets
//	docxpress-inspect -compare -profile clinic article.docx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/pkg/pipeline"
	"github.com/jmylchreest/docxpress/pkg/source"
)

var (
	// Config options
	preset      = flag.String("preset", "", "Use preset: preview, raw (default: publish)")
	dialect     = flag.String("dialect", "", "Output dialect (overrides the preset)")
	profileID   = flag.String("profile", "", "Site profile id")
	startMarker = flag.String("start", "", "Start marker paragraph text")
	endMarker   = flag.String("end", "", "End marker paragraph text")
	export      = flag.Bool("export", false, "Reference images by file name")

	// Output options
	outputFile = flag.String("o", "", "Write converted output to file")
	statsOnly  = flag.Bool("stats-only", false, "Only show stats, don't output content")
	jsonStats  = flag.Bool("json", false, "Output stats as JSON")
	verbose    = flag.Bool("v", false, "Verbose output (show warnings and per-rule debug logs)")
	quiet      = flag.Bool("q", false, "Quiet mode (no stats, only content)")

	// Compare mode
	compare = flag.Bool("compare", false, "Compare the presets")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "docxpress-inspect - Test tool for the conversion pipeline\n\n")
		fmt.Fprintf(os.Stderr, "Usage: docxpress-inspect [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  docxpress-inspect -profile clinic article.docx\n")
		fmt.Fprintf(os.Stderr, "  docxpress-inspect -preset preview article.md\n")
		fmt.Fprintf(os.Stderr, "  docxpress-inspect -compare -profile clinic article.docx\n")
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	logger.Init(logger.Options{Debug: *verbose, Quiet: !*verbose})

	markup, err := load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *compare {
		runComparison(markup, path)
		return
	}

	cfg := buildConfig()
	conv, err := pipeline.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	result, err := conv.ConvertWithStats(markup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Output stats
	if !*quiet {
		if *jsonStats {
			outputJSONStats(result, path)
		} else {
			outputTextStats(result, path)
		}
	}

	// Output warnings
	if *verbose && result.HasWarnings() {
		fmt.Fprintf(os.Stderr, "\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "  %s\n", w.String())
		}
	}

	// Output content
	if !*statsOnly {
		if *outputFile != "" {
			if err := os.WriteFile(*outputFile, []byte(result.Content), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
				os.Exit(1)
			}
			if !*quiet {
				fmt.Fprintf(os.Stderr, "\nWritten to %s\n", *outputFile)
			}
		} else if !*quiet {
			fmt.Println("\n--- Converted Content ---")
			fmt.Println(result.Content)
		} else {
			fmt.Println(result.Content)
		}
	}
}

func presetConfig(name string) *pipeline.Config {
	switch name {
	case "preview":
		return pipeline.PresetPreview()
	case "raw":
		return pipeline.PresetRaw()
	default:
		return pipeline.DefaultConfig()
	}
}

func buildConfig() *pipeline.Config {
	return presetConfig(*preset).Merge(&pipeline.Config{
		Dialect:     *dialect,
		Profile:     *profileID,
		StartMarker: *startMarker,
		EndMarker:   *endMarker,
		ExportMode:  *export,
		Debug:       *verbose,
	})
}

// load renders any supported input into HTML. Unknown extensions are read
// as HTML.
func load(path string) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- CLI tool reads a user-specified file
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	src, err := source.ForFile(path)
	if err != nil {
		data, err := io.ReadAll(f)
		return string(data), err
	}
	return src.Load(context.Background(), f, source.Options{ExportMode: *export})
}

func outputTextStats(result *pipeline.Result, path string) {
	fmt.Fprintf(os.Stderr, "\n=== Conversion Stats ===\n")
	fmt.Fprintf(os.Stderr, "Source: %s\n", path)
	fmt.Fprintf(os.Stderr, "%s", result.Stats.String())
}

func outputJSONStats(result *pipeline.Result, path string) {
	stats := struct {
		Source   string             `json:"source"`
		Stats    *pipeline.Stats    `json:"stats"`
		Warnings []pipeline.Warning `json:"warnings,omitempty"`
	}{
		Source:   path,
		Stats:    result.Stats,
		Warnings: result.Warnings,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(stats)
}

func runComparison(markup string, path string) {
	overrides := &pipeline.Config{Profile: *profileID, Dialect: *dialect}
	presets := []struct {
		name string
		cfg  *pipeline.Config
	}{
		{"publish", pipeline.DefaultConfig().Merge(overrides)},
		{"preview", pipeline.PresetPreview().Merge(overrides)},
		{"raw", pipeline.PresetRaw().Merge(overrides)},
	}

	fmt.Printf("\n=== Preset Comparison for %s ===\n", path)
	fmt.Printf("Input size: %d bytes\n\n", len(markup))
	fmt.Printf("%-10s %10s %8s %8s %8s %10s\n", "Preset", "Output", "Blocks", "Dropped", "Links", "Time")
	fmt.Printf("%-10s %10s %8s %8s %8s %10s\n", "------", "------", "------", "-------", "-----", "----")

	for _, p := range presets {
		conv, err := pipeline.New(p.cfg)
		if err != nil {
			fmt.Printf("%-10s (error: %v)\n", p.name, err)
			continue
		}
		result, err := conv.ConvertWithStats(markup)
		if err != nil {
			fmt.Printf("%-10s (error: %v)\n", p.name, err)
			continue
		}

		fmt.Printf("%-10s %10d %8d %8d %8d %10v\n",
			p.name,
			result.Stats.OutputBytes,
			result.Stats.TotalBlocks(),
			result.Stats.TotalDropped(),
			result.Stats.LinksRewritten,
			result.Stats.TotalDuration.Round(time.Millisecond))
	}

	fmt.Println()
}
