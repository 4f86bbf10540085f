package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/internal/output"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/docxpress"
	"github.com/jmylchreest/docxpress/pkg/source"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert documents into publishing markup",
	Long: `Convert one or more documents (.docx, .md, .html) into the chosen dialect.

Dialects:
  gutenberg   block-comment markup (requires a profile)
  fusion      page-builder bracket tags
  shortcode   generic bracket tags
  html        plain HTML with class and style annotations

Examples:
  docxpress convert article.docx -p clinic -o article.txt
  docxpress convert *.docx -d shortcode -p dental --out-dir out/
  docxpress convert article.docx -d html --export --stats`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()

	// Target
	flags.StringP("dialect", "d", "gutenberg", "output dialect: "+strings.Join(blocks.Names(), ", "))
	flags.StringP("profile", "p", "", "site profile id (see 'docxpress profiles')")
	flags.Bool("export", false, "reference images by file name instead of embedding them")
	flags.String("source", "", "force the input type: docx, markdown, html (default: by extension)")

	// Output
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("out-dir", "", "write each converted document into this directory")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.Bool("blocks", false, "include classified blocks in json/yaml reports")
	flags.Bool("stats", false, "print conversion stats to stderr")

	// Phases
	flags.Bool("no-cleanup", false, "skip the markup cleanup passes")
	flags.Bool("no-finalize", false, "skip the site profile link policy and trailing block")
	flags.Bool("no-merge", false, "do not join short adjacent paragraphs")

	// Limits
	flags.String("max-size", "20MB", "reject inputs larger than this (e.g. 500KB, 20MB, 0=unlimited)")
	flags.IntP("concurrency", "c", 4, "documents converted at once")

	_ = viper.BindPFlag("dialect", flags.Lookup("dialect"))
	_ = viper.BindPFlag("profile", flags.Lookup("profile"))
	_ = viper.BindPFlag("export_mode", flags.Lookup("export"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flags := cmd.Flags()
	dialect := viper.GetString("dialect")
	profileID := viper.GetString("profile")

	if dialect == blocks.NameGutenberg && profileID == "" {
		return fmt.Errorf("%w: pass --profile", docxpress.ErrNoProfile)
	}

	formatStr, _ := flags.GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	maxSizeStr, _ := flags.GetString("max-size")
	var maxSize uint64
	if maxSizeStr != "" && maxSizeStr != "0" {
		if maxSize, err = humanize.ParseBytes(maxSizeStr); err != nil {
			return fmt.Errorf("invalid --max-size %q: %w", maxSizeStr, err)
		}
	}
	if err := checkInputs(args, maxSize); err != nil {
		logger.Error("input rejected", "error", err)
		return err
	}

	noCleanup, _ := flags.GetBool("no-cleanup")
	noFinalize, _ := flags.GetBool("no-finalize")
	noMerge, _ := flags.GetBool("no-merge")
	concurrency, _ := flags.GetInt("concurrency")

	opts := []docxpress.Option{
		docxpress.WithDialect(dialect),
		docxpress.WithProfile(profileID),
		docxpress.WithExportMode(viper.GetBool("export_mode")),
		docxpress.WithProfilesFile(viper.GetString("profiles_file")),
		docxpress.WithCleanup(!noCleanup),
		docxpress.WithFinalize(!noFinalize),
		docxpress.WithMergeParagraphs(!noMerge),
		docxpress.WithConcurrency(concurrency),
		docxpress.WithDebug(viper.GetBool("debug")),
	}
	if srcName, _ := flags.GetString("source"); srcName != "" {
		src, err := source.ForType(srcName)
		if err != nil {
			return err
		}
		opts = append(opts, docxpress.WithSource(src))
	}

	d, err := docxpress.New(opts...)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}

	// Setup output
	var out io.Writer = os.Stdout
	if outPath, _ := flags.GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	outDir, _ := flags.GetString("out-dir")
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		if format == output.FormatText {
			out = io.Discard
		}
	}

	writer, err := output.NewWriter(out, format)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Close() }()

	includeBlocks, _ := flags.GetBool("blocks")
	showStats, _ := flags.GetBool("stats")
	var reportOpts []output.ReportOption
	if !includeBlocks {
		reportOpts = append(reportOpts, output.WithoutBlocks())
	}
	if outDir != "" {
		reportOpts = append(reportOpts, output.WithoutContent())
	}

	logger.Info("starting conversion", "files", len(args), "dialect", dialect, "profile", profileID)

	count, errorCount := 0, 0
	for r := range d.Batch(ctx, args) {
		var res *docxpress.Result
		srcType := ""
		if r.Result != nil {
			res, srcType = r.Result, r.Result.Source
		}
		if r.Error != nil {
			errorCount++
			logger.Error("conversion failed", "file", r.Path, "error", r.Error)
			if format != output.FormatText {
				_ = writer.Write(output.NewReport(r.Path, srcType, dialect, profileID, nil, r.Error))
			}
			continue
		}
		count++

		if outDir != "" {
			path := filepath.Join(outDir, docxpress.OutputName(r.Path, dialect))
			if err := os.WriteFile(path, []byte(res.Content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logInfo("%s -> %s", r.Path, path)
		}
		for _, w := range res.Warnings {
			logger.Warn("conversion warning", "file", r.Path, "phase", w.Phase, "message", w.Message, "context", w.Context)
		}
		if showStats {
			printStats(r.Path, res)
		}
		if err := writer.Write(output.NewReport(r.Path, srcType, dialect, profileID, res.Result, nil, reportOpts...)); err != nil {
			logger.Error("failed to write output", "error", err)
			return err
		}
	}

	logger.Info("conversion complete", "converted", count, "errors", errorCount)
	if err := ctx.Err(); err != nil {
		return err
	}
	if errorCount > 0 {
		return fmt.Errorf("%d of %d documents failed", errorCount, len(args))
	}
	return nil
}

// checkInputs fails before any conversion work when an input is missing or
// larger than maxSize.
func checkInputs(paths []string, maxSize uint64) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", p)
		}
		if maxSize > 0 && uint64(info.Size()) > maxSize {
			return fmt.Errorf("%s is %s, over the %s limit",
				p, humanize.Bytes(uint64(info.Size())), humanize.Bytes(maxSize))
		}
	}
	return nil
}

func printStats(path string, res *docxpress.Result) {
	s := res.Stats
	fmt.Fprintf(os.Stderr, "%s (%s): %s -> %s, %s blocks, %d warnings, loaded in %v\n",
		path, res.Source,
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)),
		humanize.Comma(int64(s.TotalBlocks())), len(res.Warnings), res.LoadDuration.Round(time.Microsecond))
	fmt.Fprint(os.Stderr, s.String())
}
