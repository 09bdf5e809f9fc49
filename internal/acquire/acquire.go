// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads arXiv PDFs and records a metadata sidecar
// next to each one.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
	"github.com/pdiddy/arxiv-md/internal/httputil"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 1 * time.Second
)

// errNotPDF marks a response whose Content-Type is not a PDF. It is not
// retried.
var errNotPDF = errors.New("response is not a PDF")

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Papers     []*types.Paper
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Downloader fetches arXiv PDFs.
type Downloader struct {
	Client *http.Client
	Config types.AcquisitionConfig
}

// Download fetches the PDF for id into dir and reports success. An
// existing <slug>.pdf counts as success without a request. Failures are
// written to w and never returned as errors.
func (d *Downloader) Download(ctx context.Context, id, dir string, w io.Writer) bool {
	if w == nil {
		w = io.Discard
	}
	_, _, err := d.AcquirePaper(ctx, id, dir, w)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
		return false
	}
	return true
}

// AcquirePaper downloads one paper and writes its sidecar. The skipped
// return value indicates that the PDF was already on disk.
func (d *Downloader) AcquirePaper(ctx context.Context, identifier, dir string, w io.Writer) (paper *types.Paper, skipped bool, err error) {
	if w == nil {
		w = io.Discard
	}

	id, ok := Normalize(identifier)
	if !ok {
		return nil, false, fmt.Errorf("unrecognized arXiv identifier %q", identifier)
	}

	slug := Slug(id)
	pdfPath := filepath.Join(dir, slug+".pdf")
	metaPath := filepath.Join(dir, slug+".yaml")

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", id)
		p, readErr := ReadMetadata(metaPath)
		if readErr != nil {
			p = &types.Paper{ID: id, PDFPath: pdfPath}
		}
		return p, true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", id)

	pdfURL := PDFURL(id)
	size, err := d.downloadFile(ctx, pdfURL, pdfPath, w)
	if err != nil {
		return nil, false, err
	}

	p := &types.Paper{
		ID:               id,
		SourceURL:        pdfURL,
		PDFPath:          pdfPath,
		Bytes:            size,
		DownloadedAt:     time.Now().UTC(),
		ConversionStatus: types.ConversionNone,
	}

	pages, err := pageCount(pdfPath)
	if err != nil {
		fmt.Fprintf(w, "  warning: could not read page count: %v\n", err)
	}
	p.Pages = pages

	if err := WriteMetadata(p, metaPath); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", id, err)
	}

	fmt.Fprintf(w, "downloaded: %s (%d bytes)\n", id, size)
	return p, false, nil
}

// DownloadBatch processes identifiers in order, printing per-item status
// and returning a summary. It continues after individual failures and
// waits DownloadDelay after each download before requesting the next
// one. Skipped and malformed identifiers cause no request and no wait.
func (d *Downloader) DownloadBatch(ctx context.Context, identifiers []string, dir string, w io.Writer) BatchResult {
	if w == nil {
		w = io.Discard
	}
	var result BatchResult
	pacer := httputil.NewPacer(d.Config.DownloadDelay)

	for _, id := range identifiers {
		fetch := needsFetch(id, dir)
		if fetch {
			if err := pacer.Wait(ctx); err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
				result.Failed++
				continue
			}
		}
		paper, wasSkipped, err := d.AcquirePaper(ctx, id, dir, w)
		if fetch {
			pacer.Done()
		}
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Papers = append(result.Papers, paper)
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// needsFetch reports whether AcquirePaper would make a request for
// identifier: it is well formed and its PDF is not yet in dir.
func needsFetch(identifier, dir string) bool {
	id, ok := Normalize(identifier)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, Slug(id)+".pdf"))
	return err != nil
}

// downloadFile fetches url into destPath through a temporary file and
// returns the number of bytes written. Transport errors and non-2xx
// responses are retried with linearly growing delays; a non-PDF
// Content-Type fails immediately.
func (d *Downloader) downloadFile(ctx context.Context, url, destPath string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if d.Config.UserAgent != "" {
		req.Header.Set("User-Agent", d.Config.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	attempts := d.Config.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := d.Config.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	resp, err := httputil.DoWithLinearBackoff(ctx, d.Client, req, attempts, delay, w)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "pdf") {
		return 0, fmt.Errorf("%w (content-type: %q)", errNotPDF, contentType)
	}

	var size int64
	err = fsutil.WriteFileAtomic(destPath, func(out io.Writer) error {
		n, copyErr := io.Copy(out, resp.Body)
		size = n
		return copyErr
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

// WriteMetadata writes a Paper record to a YAML file.
func WriteMetadata(paper *types.Paper, path string) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return fsutil.WriteTextAtomic(path, string(data))
}

// ReadMetadata reads a Paper record from a YAML file.
func ReadMetadata(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}
