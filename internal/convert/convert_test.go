// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-md/internal/acquire"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned Markdown
// or an error, and counts calls.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Convert(_ context.Context, pdfPath string) (string, error) {
	if err, ok := s.errors[pdfPath]; ok {
		return "", err
	}
	if out, ok := s.outputs[pdfPath]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + pdfPath)
}

// setupPDF creates a temporary PDF file and returns its path and an
// output directory.
func setupPDF(t *testing.T) (pdfPath, outDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	pdfDir := filepath.Join(tmpDir, "pdfs")
	require.NoError(t, os.MkdirAll(pdfDir, 0o755))
	pdfPath = filepath.Join(pdfDir, "2301.07041.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("fake pdf"), 0o644))
	return pdfPath, filepath.Join(tmpDir, "markdown")
}

func TestConvertPaper(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		opts       Options
		wantStatus types.ConversionStatus
		wantLog    string
		wantBody   string
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "# Title\n\nContent here."},
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
			wantBody:   "# Title\n\nContent here.",
		},
		{
			name:       "skip existing markdown",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			wantStatus: types.ConversionSkipped,
			wantLog:    "skipped:",
			wantBody:   "existing",
		},
		{
			name:       "overwrite existing markdown",
			converter:  &fakeConverter{output: "# New"},
			preCreate:  true,
			opts:       Options{Overwrite: true},
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
			wantBody:   "# New",
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("service unavailable")},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfPath, outDir := setupPDF(t)
			mdPath := filepath.Join(outDir, "2301.07041.md")

			if tt.preCreate {
				require.NoError(t, os.MkdirAll(outDir, 0o755))
				require.NoError(t, os.WriteFile(mdPath, []byte("existing"), 0o644))
			}

			var log bytes.Buffer
			status := ConvertPaper(context.Background(), tt.converter, pdfPath, outDir, tt.opts, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)
			if tt.wantBody != "" {
				data, err := os.ReadFile(mdPath)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(data))
			}
			if tt.preCreate && !tt.opts.Overwrite {
				assert.Zero(t, tt.converter.calls)
			}
		})
	}
}

func TestConvertPaper_Clean(t *testing.T) {
	pdfPath, outDir := setupPDF(t)
	conv := &fakeConverter{output: "# I. Intro\ntext\n![fig](a.png)\n# References\n[1] x"}

	var log bytes.Buffer
	status := ConvertPaper(context.Background(), conv, pdfPath, outDir, Options{Clean: true}, &log)
	require.Equal(t, types.ConversionDone, status)

	data, err := os.ReadFile(filepath.Join(outDir, "2301.07041.md"))
	require.NoError(t, err)
	assert.Equal(t, "## I. Intro\ntext", string(data))
	assert.Contains(t, log.String(), "cleaned: 1 images")
	assert.Contains(t, log.String(), "headings adjusted, back matter removed")
}

func TestConvertPaper_RewriteTables(t *testing.T) {
	pdfPath, outDir := setupPDF(t)
	conv := &fakeConverter{output: "before\n<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>\nafter"}

	status := ConvertPaper(context.Background(), conv, pdfPath, outDir, Options{RewriteTables: true}, nil)
	require.Equal(t, types.ConversionDone, status)

	data, err := os.ReadFile(filepath.Join(outDir, "2301.07041.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<table")
	assert.Contains(t, string(data), "|")
	assert.True(t, strings.HasPrefix(string(data), "before\n"))
	assert.True(t, strings.HasSuffix(string(data), "\nafter"))
}

func TestConvertPaper_Frontmatter(t *testing.T) {
	pdfPath, outDir := setupPDF(t)
	conv := &fakeConverter{output: "# Paper Title\n\nSome content."}

	status := ConvertPaper(context.Background(), conv, pdfPath, outDir, Options{Frontmatter: true}, nil)
	require.Equal(t, types.ConversionDone, status)

	data, err := os.ReadFile(filepath.Join(outDir, "2301.07041.md"))
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, `paper_id: "2301.07041"`)
	assert.Contains(t, content, "source_pdf:")
	assert.Contains(t, content, "converted_at:")
	assert.Contains(t, content, "# Paper Title")
}

func TestConvertPaper_UpdatesSidecar(t *testing.T) {
	pdfPath, outDir := setupPDF(t)
	metaPath := strings.TrimSuffix(pdfPath, ".pdf") + ".yaml"
	require.NoError(t, acquire.WriteMetadata(&types.Paper{
		ID:               "2301.07041",
		PDFPath:          pdfPath,
		ConversionStatus: types.ConversionNone,
	}, metaPath))

	status := ConvertPaper(context.Background(), &fakeConverter{output: "# T"}, pdfPath, outDir, Options{}, nil)
	require.Equal(t, types.ConversionDone, status)

	paper, err := acquire.ReadMetadata(metaPath)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionDone, paper.ConversionStatus)
	assert.Equal(t, filepath.Join(outDir, "2301.07041.md"), paper.MarkdownPath)
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	pdfDir := filepath.Join(tmpDir, "pdfs")
	outDir := filepath.Join(tmpDir, "markdown")
	require.NoError(t, os.MkdirAll(pdfDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(pdfDir, name), []byte("pdf"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.md"), []byte("existing"), 0o644))

	conv := &selectiveConverter{
		outputs: map[string]string{
			filepath.Join(pdfDir, "a.pdf"): "# Paper A",
		},
		errors: map[string]error{
			filepath.Join(pdfDir, "c.pdf"): errors.New("bad pdf"),
		},
	}

	paths, err := FindPDFs(pdfDir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	var log bytes.Buffer
	result := ConvertBatch(context.Background(), conv, paths, outDir, Options{Pause: time.Millisecond}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "[1/3] a.pdf")
	assert.Contains(t, log.String(), "Batch summary: 1 converted, 1 skipped, 1 failed (total: 3)")
}

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "a.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	paths, err := FindPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, paths)

	_, err = FindPDFs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(types.ConversionConfig{
		Overwrite:     true,
		Clean:         true,
		RewriteTables: true,
		Pause:         30 * time.Second,
	})
	assert.Equal(t, Options{Overwrite: true, Clean: true, RewriteTables: true, Pause: 30 * time.Second}, opts)
}

// timedConverter sleeps for d on each call and records when calls start
// and end.
type timedConverter struct {
	d      time.Duration
	starts []time.Time
	ends   []time.Time
}

func (c *timedConverter) Convert(_ context.Context, _ string) (string, error) {
	c.starts = append(c.starts, time.Now())
	time.Sleep(c.d)
	c.ends = append(c.ends, time.Now())
	return "# Doc", nil
}

func TestConvertBatch_PauseFollowsSlowConversion(t *testing.T) {
	pdfDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "markdown")
	var paths []string
	for _, name := range []string{"a.pdf", "b.pdf"} {
		p := filepath.Join(pdfDir, name)
		require.NoError(t, os.WriteFile(p, []byte("pdf"), 0o644))
		paths = append(paths, p)
	}

	conv := &timedConverter{d: 150 * time.Millisecond}
	result := ConvertBatch(context.Background(), conv, paths, outDir, Options{Pause: 150 * time.Millisecond}, nil)

	require.Equal(t, 2, result.Converted)
	require.Len(t, conv.starts, 2)
	gap := conv.starts[1].Sub(conv.ends[0])
	assert.GreaterOrEqual(t, gap, 120*time.Millisecond, "pause must run after the previous conversion ends")
}
