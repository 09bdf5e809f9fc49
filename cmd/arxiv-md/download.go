// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-md/internal/acquire"
	"github.com/pdiddy/arxiv-md/internal/search"
)

var downloadCmd = &cobra.Command{
	Use:   "download [ids...]",
	Short: "Download arXiv PDFs",
	Long: `Download fetches https://arxiv.org/pdf/<id>.pdf for each arXiv ID given
on the command line. Without arguments the IDs come from --query-file
(a file saved by "search --save") when set, otherwise from each line of
--input-file. Existing PDFs are skipped. Each download is retried up to three
times, and a YAML metadata file is written next to every new PDF.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("input-file", "i", defaultIDFile, "file with one arXiv ID per line")
	downloadCmd.Flags().StringP("query-file", "q", "", "saved search run to take IDs from")
	downloadCmd.Flags().StringP("output-dir", "d", defaultPDFDir, "directory for downloaded PDFs")
	downloadCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	downloadCmd.Flags().Int("attempts", 0, "download attempts per paper (default 3)")

	mustBind("acquisition.pdf_dir", downloadCmd.Flags().Lookup("output-dir"))
	mustBind("acquisition.download_delay", downloadCmd.Flags().Lookup("delay"))
	mustBind("acquisition.max_attempts", downloadCmd.Flags().Lookup("attempts"))

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	inputFile, _ := cmd.Flags().GetString("input-file")
	queryFile, _ := cmd.Flags().GetString("query-file")
	ids, err := collectIDs(args, inputFile, queryFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Downloading %d PDFs to %s\n", len(ids), cfg.Acquisition.PDFDir)

	d := &acquire.Downloader{
		Client: &http.Client{Timeout: cfg.Acquisition.Timeout},
		Config: cfg.Acquisition,
	}
	result := d.DownloadBatch(cmd.Context(), ids, cfg.Acquisition.PDFDir, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed to download", result.Failed)
	}
	return nil
}

// collectIDs picks the download list: explicit arguments first, then a
// saved query file, then the plain ID file.
func collectIDs(args []string, inputFile, queryFile string) ([]string, error) {
	ids := args
	if len(ids) == 0 && queryFile != "" {
		qf, err := search.ReadQueryFile(queryFile)
		if err != nil {
			return nil, err
		}
		ids = qf.IDs
	} else if len(ids) == 0 {
		var err error
		ids, err = search.ReadIDs(inputFile)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no arXiv IDs to download")
	}
	return ids, nil
}
