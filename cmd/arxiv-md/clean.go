// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
	"github.com/pdiddy/arxiv-md/internal/normalize"
)

var cleanCmd = &cobra.Command{
	Use:   "clean FILE...",
	Short: "Normalize converted Markdown files in place",
	Long: `Clean removes image links and figure captions, repairs heading levels,
and cuts each document at its first References, Acknowledgements, or
Appendix heading. Files are rewritten in place unless --dry-run is set.

By default each removal is listed followed by a summary. --json and
--yaml print one machine-readable report per file instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "report what would change without writing")
	cleanCmd.Flags().Bool("json", false, "print reports as JSON")
	cleanCmd.Flags().Bool("yaml", false, "print reports as YAML")
	cleanCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(cleanCmd)
}

// fileReport pairs a cleanup report with the file it came from.
type fileReport struct {
	File      string           `json:"file" yaml:"file"`
	Truncated bool             `json:"truncated" yaml:"truncated"`
	Report    normalize.Report `json:"report" yaml:"report"`
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	out := cmd.OutOrStdout()
	var diag io.Writer = out
	if asJSON || asYAML {
		diag = nil
	}

	reports := make([]fileReport, 0, len(args))
	for _, path := range args {
		if diag != nil {
			fmt.Fprintf(diag, "==> %s\n", path)
		}
		report, err := cleanOne(path, dryRun, diag)
		if err != nil {
			return err
		}
		reports = append(reports, fileReport{File: path, Truncated: report.Truncated(), Report: report})
		if diag != nil {
			report.Summary(diag)
			if report.Truncated() {
				fmt.Fprintln(diag, "  (back matter removed)")
			}
			if dryRun {
				fmt.Fprintln(diag, "  (dry run, file not written)")
			}
		}
	}

	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case asYAML:
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(reports)
	}
	return nil
}

func cleanOne(path string, dryRun bool, w io.Writer) (normalize.Report, error) {
	if !dryRun {
		return normalize.CleanFile(path, w)
	}
	text, err := fsutil.ReadText(path)
	if err != nil {
		return normalize.Report{}, err
	}
	_, report := normalize.NormalizeText(text, w)
	return report, nil
}
