// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-md CLI: search arXiv,
// download PDFs, convert them to Markdown with MinerU, and clean the
// result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-md/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API tokens loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the arxiv-md CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-md",
	Short: "Download arXiv papers and convert them to clean Markdown",
	Long: `arxiv-md turns an arXiv search into a folder of Markdown papers.

The pipeline has three stages, each a subcommand: search writes arXiv IDs
to a file, download fetches the PDFs, and convert sends them to the MinerU
service and writes one Markdown file per paper. clean and headings work on
Markdown files directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		loadedSecrets = secrets.Load(dir, os.Stderr)
		if names := loadedSecrets.Names(); len(names) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-md.yaml or ~/.config/arxiv-md/arxiv-md.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of API token files")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	rootCmd.PersistentFlags().String("user-agent", "", "User-Agent header for arXiv requests")

	mustBind("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	mustBind("http.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-md"))
		}
	}

	viper.SetEnvPrefix("ARXIV_MD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("conversion.token", "MINERU_API_TOKEN", "ARXIV_MD_CONVERSION_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
