// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
	"github.com/pdiddy/arxiv-md/internal/normalize"
)

var headingsCmd = &cobra.Command{
	Use:   "headings FILE",
	Short: "Show the heading structure of a Markdown file",
	Long: `Headings lists every line that starts with '#', its level, and which
numbering prefix it carries, then reports the strategy clean would use.
--outline instead shows the headings as a CommonMark renderer nests them.`,
	Args: cobra.ExactArgs(1),
	RunE: runHeadings,
}

func init() {
	headingsCmd.Flags().Bool("outline", false, "show the CommonMark outline instead of the raw analysis")
	headingsCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(headingsCmd)
}

func runHeadings(cmd *cobra.Command, args []string) error {
	outline, _ := cmd.Flags().GetBool("outline")
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	text, err := fsutil.ReadText(args[0])
	if err != nil {
		return err
	}

	var result any
	if outline {
		entries := normalize.Outline([]byte(text))
		if !asJSON {
			normalize.FormatOutline(entries, out)
			return nil
		}
		result = entries
	} else {
		analysis := normalize.Analyze(strings.Split(text, "\n"))
		if !asJSON {
			printAnalysis(analysis, out)
			return nil
		}
		result = analysis
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printAnalysis(a normalize.Analysis, w io.Writer) {
	if len(a.Headings) == 0 {
		fmt.Fprintln(w, "No headings found.")
		return
	}
	for _, h := range a.Headings {
		fmt.Fprintf(w, "%4d  L%d  %-7s %s\n", h.Line+1, h.Level, prefixKind(h), h.Content)
	}
	fmt.Fprintf(w, "\n%d headings, all level 1: %t, no numbering: %t\n",
		len(a.Headings), a.AllLevelOne, a.NoSpecialPrefix)
	if a.NeedsDefaultAdjustment {
		fmt.Fprintln(w, "strategy: default (keep the first heading, demote later level-1 headings)")
	} else {
		fmt.Fprintln(w, "strategy: pattern (roman -> level 2, letter -> level 3, numbers -> depth + 1)")
	}
}

func prefixKind(h normalize.Heading) string {
	switch {
	case h.HasRoman:
		return "roman"
	case h.HasLetter:
		return "letter"
	case h.HasNumber:
		return "number"
	}
	return "-"
}
