// docxpress-compare converts one document into every dialect and prints a
// size and timing table.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/docxpress/internal/output"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/docxpress"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: docxpress-compare <file> [profile]\n")
		os.Exit(1)
	}

	input := os.Args[1]
	profileID := "clinic"
	if len(os.Args) > 2 {
		profileID = os.Args[2]
	}

	info, err := os.Stat(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Input: %s (%s), profile %s\n\n", input, humanize.Bytes(uint64(info.Size())), profileID)
	fmt.Printf("%-22s %10s %8s %8s %10s\n", "Dialect", "Output", "Blocks", "Warns", "Time")
	fmt.Printf("%-22s %10s %8s %8s %10s\n", "-------", "------", "------", "-----", "----")

	variants := []struct {
		name string
		opts []docxpress.Option
	}{
		{"html (raw)", []docxpress.Option{
			docxpress.WithDialect(blocks.NameHTML),
			docxpress.WithCleanup(false),
			docxpress.WithFinalize(false),
			docxpress.WithMergeParagraphs(false),
		}},
	}
	for _, name := range blocks.Names() {
		variants = append(variants, struct {
			name string
			opts []docxpress.Option
		}{name, []docxpress.Option{docxpress.WithDialect(name), docxpress.WithProfile(profileID)}})
	}

	// Reports go to stderr as JSONL when DOCXPRESS_COMPARE_JSONL is set.
	var reports output.Writer
	if os.Getenv("DOCXPRESS_COMPARE_JSONL") != "" {
		reports = output.NewJSONLWriter(os.Stderr)
		defer func() { _ = reports.Close() }()
	}

	ctx := context.Background()
	for _, v := range variants {
		d, err := docxpress.New(v.opts...)
		if err != nil {
			fmt.Printf("%-22s %10s %8s %8s %10s (error: %v)\n", v.name, "ERROR", "-", "-", "-", err)
			continue
		}

		start := time.Now()
		res, err := d.ConvertFile(ctx, input)
		duration := time.Since(start)

		if err != nil {
			fmt.Printf("%-22s %10s %8s %8s %10v (error: %v)\n",
				v.name, "ERROR", "-", "-", duration.Round(time.Millisecond), err)
			continue
		}

		fmt.Printf("%-22s %10s %8d %8d %10v\n",
			v.name, humanize.Bytes(uint64(len(res.Content))), res.Stats.TotalBlocks(),
			len(res.Warnings), duration.Round(time.Millisecond))

		if reports != nil {
			_ = reports.Write(output.NewReport(input, res.Source, v.name, profileID, res.Result, nil,
				output.WithoutContent()))
		}
	}
}
