// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// PageSize is the number of results requested per page: 25, 50, 100, or 200.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// Start is the zero-based result offset.
	Start int `json:"start" yaml:"start" mapstructure:"start"`
}

// AcquisitionConfig holds settings for the download stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxAttempts is the number of download attempts per paper (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// RetryDelay is the base delay between attempts; attempt n waits n*RetryDelay.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// DownloadDelay is the pause between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" mapstructure:"download_delay"`

	// PDFDir is the directory that receives <id>.pdf and <id>.yaml.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir" mapstructure:"pdf_dir"`
}

// ConversionConfig holds settings for the MinerU conversion stage.
type ConversionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the MinerU API root (default https://mineru.net).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Token is the MinerU API bearer token.
	Token string `json:"-" yaml:"-" mapstructure:"token"`

	// ModelVersion selects the MinerU model (default "vlm").
	ModelVersion string `json:"model_version" yaml:"model_version" mapstructure:"model_version"`

	// Language is the document language hint (default "auto").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	EnableFormula bool `json:"enable_formula" yaml:"enable_formula" mapstructure:"enable_formula"`
	EnableTable   bool `json:"enable_table" yaml:"enable_table" mapstructure:"enable_table"`
	OCR           bool `json:"ocr" yaml:"ocr" mapstructure:"ocr"`

	// MaxWait bounds how long a single job is polled (default 10m).
	MaxWait time.Duration `json:"max_wait" yaml:"max_wait" mapstructure:"max_wait"`

	// Pause is the delay between consecutive conversions in a batch (default 30s).
	Pause time.Duration `json:"pause" yaml:"pause" mapstructure:"pause"`

	// MarkdownDir is the directory that receives <stem>.md.
	MarkdownDir string `json:"markdown_dir" yaml:"markdown_dir" mapstructure:"markdown_dir"`

	// Clean runs the Markdown normalizer over each converted file.
	Clean bool `json:"clean" yaml:"clean" mapstructure:"clean"`

	// RewriteTables converts HTML tables in the output to Markdown tables.
	RewriteTables bool `json:"rewrite_tables" yaml:"rewrite_tables" mapstructure:"rewrite_tables"`

	// Overwrite re-converts papers whose Markdown already exists.
	Overwrite bool `json:"overwrite" yaml:"overwrite" mapstructure:"overwrite"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search      SearchConfig      `json:"search" yaml:"search" mapstructure:"search"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition" mapstructure:"acquisition"`
	Conversion  ConversionConfig  `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
}
