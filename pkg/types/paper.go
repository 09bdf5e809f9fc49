// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-md pipeline.
package types

import "time"

// ConversionStatus indicates the outcome of converting one PDF to Markdown.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionDone    ConversionStatus = "converted"
	ConversionFailed  ConversionStatus = "failed"
)

// Paper is the sidecar record written next to a downloaded PDF.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041" or "hep-th/9901001").
	ID string `json:"id" yaml:"id"`

	// SourceURL is the URL from which the PDF was downloaded.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Bytes is the size of the downloaded PDF.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// Pages is the page count, zero when the PDF could not be parsed.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// DownloadedAt is when the PDF was written.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`

	// MarkdownPath is set once the paper has been converted.
	MarkdownPath string `json:"markdown_path,omitempty" yaml:"markdown_path,omitempty"`

	// ConversionStatus tracks whether the PDF has been converted to Markdown.
	ConversionStatus ConversionStatus `json:"conversion_status" yaml:"conversion_status"`
}
