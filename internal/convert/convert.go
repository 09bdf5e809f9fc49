// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns downloaded PDFs into Markdown files through a
// Converter backend and optionally cleans the result.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-md/internal/acquire"
	"github.com/pdiddy/arxiv-md/internal/fsutil"
	"github.com/pdiddy/arxiv-md/internal/httputil"
	"github.com/pdiddy/arxiv-md/internal/normalize"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

// Converter transforms a PDF file into Markdown text.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns the Markdown content.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// Options controls how converted Markdown is written.
type Options struct {
	// Overwrite re-converts when <stem>.md already exists.
	Overwrite bool

	// Clean runs the normalizer over the written file.
	Clean bool

	// RewriteTables converts HTML tables to Markdown tables before writing.
	RewriteTables bool

	// Frontmatter prepends a YAML block naming the source PDF.
	Frontmatter bool

	// Pause is the delay between consecutive conversions in a batch.
	Pause time.Duration
}

// OptionsFromConfig maps the conversion config onto Options.
func OptionsFromConfig(cfg types.ConversionConfig) Options {
	return Options{
		Overwrite:     cfg.Overwrite,
		Clean:         cfg.Clean,
		RewriteTables: cfg.RewriteTables,
		Pause:         cfg.Pause,
	}
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of papers processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// MarkdownPath returns <outDir>/<stem>.md for a PDF path.
func MarkdownPath(pdfPath, outDir string) string {
	return filepath.Join(outDir, stem(pdfPath)+".md")
}

// ConvertPaper converts a single PDF and writes <outDir>/<stem>.md. An
// existing Markdown file is left alone unless opts.Overwrite is set.
// Failures are reported to w and in the returned status.
func ConvertPaper(ctx context.Context, c Converter, pdfPath, outDir string, opts Options, w io.Writer) types.ConversionStatus {
	if w == nil {
		w = io.Discard
	}
	name := stem(pdfPath)
	mdPath := MarkdownPath(pdfPath, outDir)

	if !opts.Overwrite {
		if _, err := os.Stat(mdPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return types.ConversionSkipped
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converting: %s\n", name)
	content, err := c.Convert(ctx, pdfPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	if opts.RewriteTables {
		rewritten, n, err := RewriteTables(content)
		if err != nil {
			fmt.Fprintf(w, "  warning: table rewrite failed: %v\n", err)
		} else {
			content = rewritten
			if n > 0 {
				fmt.Fprintf(w, "  rewrote %d HTML tables\n", n)
			}
		}
	}

	if opts.Frontmatter {
		content = addFrontmatter(name, pdfPath, content)
	}

	if err := fsutil.WriteTextAtomic(mdPath, content); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	if opts.Clean {
		report, err := normalize.CleanFile(mdPath, nil)
		if err != nil {
			fmt.Fprintf(w, "  warning: cleanup failed: %v\n", err)
		} else {
			tail := ""
			if report.Truncated() {
				tail = ", back matter removed"
			}
			fmt.Fprintf(w, "  cleaned: %d images, %d captions, %d headings adjusted%s\n",
				report.RemovedImages, report.RemovedFigures, report.AdjustedHeadings, tail)
		}
	}

	updateSidecar(pdfPath, mdPath, w)

	fmt.Fprintf(w, "converted: %s -> %s\n", name, mdPath)
	return types.ConversionDone
}

// ConvertBatch converts pdfPaths in order. After each conversion that
// called the backend it waits opts.Pause before starting the next one.
// It continues after failures and prints a summary line.
func ConvertBatch(ctx context.Context, c Converter, pdfPaths []string, outDir string, opts Options, w io.Writer) BatchResult {
	if w == nil {
		w = io.Discard
	}
	var result BatchResult
	pacer := httputil.NewPacer(opts.Pause)

	for i, p := range pdfPaths {
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(pdfPaths), filepath.Base(p))

		if !opts.Overwrite {
			if _, err := os.Stat(MarkdownPath(p, outDir)); err == nil {
				fmt.Fprintf(w, "skipped: %s (already exists)\n", stem(p))
				result.Skipped++
				continue
			}
		}

		if err := pacer.Wait(ctx); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", stem(p), err)
			result.Failed++
			continue
		}

		status := ConvertPaper(ctx, c, p, outDir, opts, w)
		pacer.Done()

		switch status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// FindPDFs returns the .pdf files directly inside dir, sorted by name.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// updateSidecar records the conversion in the PDF's metadata file when
// one exists.
func updateSidecar(pdfPath, mdPath string, w io.Writer) {
	metaPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
	paper, err := acquire.ReadMetadata(metaPath)
	if err != nil {
		return
	}
	paper.MarkdownPath = mdPath
	paper.ConversionStatus = types.ConversionDone
	if err := acquire.WriteMetadata(paper, metaPath); err != nil {
		fmt.Fprintf(w, "  warning: could not update %s: %v\n", metaPath, err)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown content.
func addFrontmatter(id, pdfPath, body string) string {
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "paper_id: %q\n", id)
	fmt.Fprintf(&b, "source_pdf: %q\n", pdfPath)
	fmt.Fprintf(&b, "converted_at: %q\n", ts)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
