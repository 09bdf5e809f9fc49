// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-md/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search arXiv and save the matching paper IDs",
	Long: `Search reads one page of arxiv.org search results for QUERY, newest
announcements first, and writes the arXiv IDs to a file, one per line.
The page size must be 25, 50, 100, or 200; other values fall back to 50.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("size", 50, "results per page: 25, 50, 100, or 200")
	searchCmd.Flags().Int("start", 0, "zero-based result offset")
	searchCmd.Flags().StringP("output", "o", defaultIDFile, "file that receives the arXiv IDs")
	searchCmd.Flags().String("save", "", "also write a YAML record of the query and results to this file")

	mustBind("search.page_size", searchCmd.Flags().Lookup("size"))
	mustBind("search.start", searchCmd.Flags().Lookup("start"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	savePath, _ := cmd.Flags().GetString("save")
	query := args[0]

	scraper := &search.ArxivScraper{
		Client: &http.Client{Timeout: cfg.Search.Timeout},
		Config: cfg.Search,
	}

	fmt.Fprintln(os.Stdout, "Searching arXiv...")
	ids := scraper.Search(cmd.Context(), query, cfg.Search.PageSize, cfg.Search.Start, os.Stdout)
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "No IDs found.")
		return nil
	}

	if err := search.WriteIDs(output, ids); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Found %d IDs and saved them to %s\n", len(ids), output)

	if savePath != "" {
		if err := search.WriteQueryFile(savePath, query, cfg.Search.PageSize, cfg.Search.Start, ids); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Query saved to %s\n", savePath)
	}
	return nil
}
