// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-md/internal/secrets"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; arxiv-md/0.1)"
	defaultIDFile    = "arxiv_ids.txt"
	defaultPDFDir    = "data/pdfs"
	defaultMDDir     = "data/markdown"
)

// setDefaults registers every configuration key so that config-file and
// environment values are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent)

	v.SetDefault("search.page_size", 50)
	v.SetDefault("search.start", 0)

	v.SetDefault("acquisition.max_attempts", 3)
	v.SetDefault("acquisition.retry_delay", time.Second)
	v.SetDefault("acquisition.download_delay", time.Second)
	v.SetDefault("acquisition.pdf_dir", defaultPDFDir)

	v.SetDefault("conversion.base_url", "https://mineru.net")
	v.SetDefault("conversion.token", "")
	v.SetDefault("conversion.model_version", "vlm")
	v.SetDefault("conversion.language", "auto")
	v.SetDefault("conversion.enable_formula", true)
	v.SetDefault("conversion.enable_table", true)
	v.SetDefault("conversion.ocr", true)
	v.SetDefault("conversion.max_wait", 10*time.Minute)
	v.SetDefault("conversion.pause", 30*time.Second)
	v.SetDefault("conversion.markdown_dir", defaultMDDir)
	v.SetDefault("conversion.clean", false)
	v.SetDefault("conversion.rewrite_tables", false)
	v.SetDefault("conversion.overwrite", false)
}

// loadPipelineConfig decodes v into a PipelineConfig. The shared http
// block fills any stage that does not set its own timeout or User-Agent,
// and the MinerU token falls back to the secrets directory.
func loadPipelineConfig(v *viper.Viper, secretValues secrets.Store) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	var shared types.HTTPConfig
	if err := v.UnmarshalKey("http", &shared); err != nil {
		return cfg, fmt.Errorf("decoding http configuration: %w", err)
	}
	inherit(&cfg.Search.HTTPConfig, shared)
	inherit(&cfg.Acquisition.HTTPConfig, shared)
	inherit(&cfg.Conversion.HTTPConfig, shared)

	cfg.Conversion.Token = secretValues.Token(secrets.MinerU, cfg.Conversion.Token)
	return cfg, nil
}

func inherit(dst *types.HTTPConfig, shared types.HTTPConfig) {
	if dst.Timeout <= 0 {
		dst.Timeout = shared.Timeout
	}
	if dst.UserAgent == "" {
		dst.UserAgent = shared.UserAgent
	}
}

// mustBind binds a flag to a viper key. Flag names are static, so a
// failure is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}
