// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-md/internal/convert"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert PDFs to Markdown with MinerU",
	Long: `Convert uploads each PDF to the MinerU extraction service, waits for the
result, and writes <name>.md to the output directory. With no arguments
every PDF in --input-dir (default: acquisition.pdf_dir) is converted. Papers that already have Markdown
are skipped unless --overwrite is set.

The MinerU token is read from MINERU_API_TOKEN, the conversion.token
config key, or .secrets/mineru-api-token.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("input-dir", "i", defaultPDFDir, "directory with PDFs to convert")
	convertCmd.Flags().StringP("output-dir", "d", defaultMDDir, "directory for Markdown output")
	convertCmd.Flags().Duration("max-wait", 0, "maximum time to wait for one conversion (default 10m)")
	convertCmd.Flags().Duration("pause", 0, "pause between conversions (default 30s)")
	convertCmd.Flags().Bool("clean", false, "normalize each Markdown file after conversion")
	convertCmd.Flags().Bool("tables", false, "rewrite HTML tables as Markdown tables")
	convertCmd.Flags().Bool("overwrite", false, "re-convert papers whose Markdown already exists")
	convertCmd.Flags().Bool("frontmatter", false, "prepend YAML frontmatter naming the source PDF")

	mustBind("conversion.markdown_dir", convertCmd.Flags().Lookup("output-dir"))
	mustBind("conversion.max_wait", convertCmd.Flags().Lookup("max-wait"))
	mustBind("conversion.pause", convertCmd.Flags().Lookup("pause"))
	mustBind("conversion.clean", convertCmd.Flags().Lookup("clean"))
	mustBind("conversion.rewrite_tables", convertCmd.Flags().Lookup("tables"))
	mustBind("conversion.overwrite", convertCmd.Flags().Lookup("overwrite"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	pdfs := args
	if len(pdfs) == 0 {
		inputDir := pdfInputDir(cmd.Flags(), cfg)
		pdfs, err = convert.FindPDFs(inputDir)
		if err != nil {
			return err
		}
		if len(pdfs) == 0 {
			fmt.Fprintf(os.Stdout, "No PDF files found in %s\n", inputDir)
			return nil
		}
	}

	conv, err := convert.NewMinerU(&http.Client{Timeout: cfg.Conversion.Timeout}, cfg.Conversion, os.Stdout)
	if err != nil {
		return err
	}

	opts := convert.OptionsFromConfig(cfg.Conversion)
	opts.Frontmatter, _ = cmd.Flags().GetBool("frontmatter")

	fmt.Fprintf(os.Stdout, "Converting %d PDFs to %s\n", len(pdfs), cfg.Conversion.MarkdownDir)
	result := convert.ConvertBatch(cmd.Context(), conv, pdfs, cfg.Conversion.MarkdownDir, opts, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed conversion", result.Failed)
	}
	return nil
}

// pdfInputDir returns --input-dir when given on the command line and the
// download directory from config otherwise. The flag cannot be bound to
// acquisition.pdf_dir because download --output-dir already owns that key.
func pdfInputDir(flags *pflag.FlagSet, cfg types.PipelineConfig) string {
	if flags.Changed("input-dir") || cfg.Acquisition.PDFDir == "" {
		dir, _ := flags.GetString("input-dir")
		return dir
	}
	return cfg.Acquisition.PDFDir
}
