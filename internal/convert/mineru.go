// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-md/internal/httputil"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

// PollInterval is the delay between result queries. Tests override it.
var PollInterval = 10 * time.Second

const (
	defaultMinerUBaseURL = "https://mineru.net"
	defaultModelVersion  = "vlm"
	defaultLanguage      = "auto"
	defaultMaxWait       = 10 * time.Minute

	// apiRetries bounds retries of API calls rejected with 429.
	apiRetries = 3
)

// Task states reported by the extract-results endpoint.
const (
	stateDone       = "done"
	stateFailed     = "failed"
	stateProcessing = "processing"
	statePending    = "pending"
	stateUploaded   = "uploaded"
)

// ErrMissingToken is returned by NewMinerU when no API token is configured.
var ErrMissingToken = errors.New("MinerU API token is required (set MINERU_API_TOKEN or .secrets/mineru-api-token)")

// MinerU converts PDFs with the MinerU batch extraction API: request an
// upload URL, PUT the file, poll until the task finishes, then download
// the result archive and pick its Markdown file.
type MinerU struct {
	client *http.Client
	cfg    types.ConversionConfig
	log    io.Writer
}

// NewMinerU validates cfg and returns a converter. Progress lines are
// written to w; a nil w discards them.
func NewMinerU(client *http.Client, cfg types.ConversionConfig, w io.Writer) (*MinerU, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMinerUBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = defaultModelVersion
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if w == nil {
		w = io.Discard
	}
	return &MinerU{client: client, cfg: cfg, log: w}, nil
}

// apiResponse is the envelope shared by MinerU endpoints.
type apiResponse[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

type uploadRequest struct {
	EnableFormula bool         `json:"enable_formula"`
	Language      string       `json:"language"`
	EnableTable   bool         `json:"enable_table"`
	Files         []uploadFile `json:"files"`
	ModelVersion  string       `json:"model_version"`
}

type uploadFile struct {
	Name  string `json:"name"`
	IsOCR bool   `json:"is_ocr"`
}

type uploadData struct {
	BatchID  string   `json:"batch_id"`
	FileURLs []string `json:"file_urls"`
}

type resultData struct {
	BatchID       string        `json:"batch_id"`
	ExtractResult []resultEntry `json:"extract_result"`
}

type resultEntry struct {
	FileName   string `json:"file_name"`
	State      string `json:"state"`
	FullZipURL string `json:"full_zip_url"`
	ErrMsg     string `json:"err_msg"`
}

// Convert runs the full upload, poll, and download cycle for one PDF.
func (m *MinerU) Convert(ctx context.Context, pdfPath string) (string, error) {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return "", fmt.Errorf("PDF not found: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", pdfPath)
	}

	batchID, uploadURL, err := m.requestUpload(ctx, filepath.Base(pdfPath))
	if err != nil {
		return "", err
	}
	if err := m.upload(ctx, uploadURL, pdfPath, info.Size()); err != nil {
		return "", err
	}
	zipURL, err := m.waitForResult(ctx, batchID)
	if err != nil {
		return "", err
	}
	return m.fetchMarkdown(ctx, zipURL)
}

func (m *MinerU) requestUpload(ctx context.Context, name string) (batchID, uploadURL string, err error) {
	body, err := json.Marshal(uploadRequest{
		EnableFormula: m.cfg.EnableFormula,
		Language:      m.cfg.Language,
		EnableTable:   m.cfg.EnableTable,
		Files:         []uploadFile{{Name: name, IsOCR: m.cfg.OCR}},
		ModelVersion:  m.cfg.ModelVersion,
	})
	if err != nil {
		return "", "", fmt.Errorf("encoding upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/api/v4/file-urls/batch", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	fmt.Fprintln(m.log, "  requesting upload URL")
	var resp apiResponse[uploadData]
	if err := m.doJSON(req, &resp); err != nil {
		return "", "", fmt.Errorf("requesting upload URL: %w", err)
	}
	if resp.Code != 0 {
		return "", "", fmt.Errorf("requesting upload URL: %s", apiMessage(resp.Msg))
	}
	if resp.Data.BatchID == "" || len(resp.Data.FileURLs) == 0 {
		return "", "", errors.New("requesting upload URL: response has no batch_id or file_urls")
	}
	fmt.Fprintf(m.log, "  batch_id: %s\n", resp.Data.BatchID)
	return resp.Data.BatchID, resp.Data.FileURLs[0], nil
}

// upload PUTs the PDF to the pre-signed URL. The storage backend rejects
// a Content-Type it did not sign, so none is sent.
func (m *MinerU) upload(ctx context.Context, uploadURL, pdfPath string, size int64) error {
	f, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, f)
	if err != nil {
		return fmt.Errorf("creating upload: %w", err)
	}
	req.ContentLength = size

	fmt.Fprintln(m.log, "  uploading PDF")
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading PDF: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("uploading PDF: HTTP %d", resp.StatusCode)
	}
	return nil
}

// waitForResult polls the batch until a file is done or failed, or until
// MaxWait has elapsed.
func (m *MinerU) waitForResult(ctx context.Context, batchID string) (string, error) {
	url := m.cfg.BaseURL + "/api/v4/extract-results/batch/" + batchID
	fmt.Fprintf(m.log, "  waiting for result (max %s)\n", m.cfg.MaxWait)

	start := time.Now()
	for time.Since(start) < m.cfg.MaxWait {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("creating status request: %w", err)
		}

		var resp apiResponse[resultData]
		if err := m.doJSON(req, &resp); err != nil {
			return "", fmt.Errorf("querying status: %w", err)
		}
		if resp.Code != 0 {
			return "", fmt.Errorf("querying status: %s", apiMessage(resp.Msg))
		}

		for _, r := range resp.Data.ExtractResult {
			fmt.Fprintf(m.log, "  %s: %s\n", r.FileName, r.State)
			switch r.State {
			case stateDone:
				if r.FullZipURL == "" {
					return "", errors.New("task done but full_zip_url is empty")
				}
				return r.FullZipURL, nil
			case stateFailed:
				return "", fmt.Errorf("conversion failed: %s", apiMessage(r.ErrMsg))
			case stateProcessing, statePending, stateUploaded:
			default:
				fmt.Fprintf(m.log, "  warning: unknown state %q\n", r.State)
			}
		}

		t := time.NewTimer(PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return "", fmt.Errorf("timed out after %s", m.cfg.MaxWait)
}

// doJSON sends an authorized request and decodes a 200 response into v.
// Rate-limited calls are retried with the shared 429 backoff.
func (m *MinerU) doJSON(req *http.Request, v any) error {
	req.Header.Set("Authorization", "Bearer "+m.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if m.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", m.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(req.Context(), m.client, req, apiRetries)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func apiMessage(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
