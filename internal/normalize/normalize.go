// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans converted paper Markdown: it drops image links
// and figure captions, repairs heading levels, and cuts the document at the
// first References, Acknowledgements, or Appendix heading.
package normalize

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
)

var (
	imageLine    = regexp.MustCompile(`(?i)!\[.*?\]\(.*?\)|<img.*?>|\[image:.*?\]`)
	figureLine   = regexp.MustCompile(`(?i)^\s*Fig\.\s*\d+\.?`)
	references   = regexp.MustCompile(`(?i)^\s*#+\s*references\s*[:.]?\s*$`)
	acknowledges = regexp.MustCompile(`(?i)^\s*#+\s*acknowledg.*\s*[:.]?\s*$`)
	appendix     = regexp.MustCompile(`(?i)^\s*#+\s*appendix.*`)
)

// previewLen bounds how much of a line diagnostics echo.
const previewLen = 50

// Report counts what a normalization pass removed or rewrote.
type Report struct {
	RemovedImages           int  `json:"removed_images" yaml:"removed_images"`
	RemovedFigures          int  `json:"removed_figures" yaml:"removed_figures"`
	AdjustedHeadings        int  `json:"adjusted_headings" yaml:"adjusted_headings"`
	RemovedReferences       bool `json:"removed_references" yaml:"removed_references"`
	RemovedAcknowledgements bool `json:"removed_acknowledgements" yaml:"removed_acknowledgements"`
	RemovedAppendix         bool `json:"removed_appendix" yaml:"removed_appendix"`

	// InputChars and OutputChars are filled by NormalizeText and CleanFile.
	InputChars  int `json:"input_chars" yaml:"input_chars"`
	OutputChars int `json:"output_chars" yaml:"output_chars"`
}

// Truncated reports whether the pass stopped at a boundary heading.
func (r Report) Truncated() bool {
	return r.RemovedReferences || r.RemovedAcknowledgements || r.RemovedAppendix
}

// Summary writes the human-readable statistics block to w.
func (r Report) Summary(w io.Writer) {
	fmt.Fprintln(w, "Cleanup summary:")
	fmt.Fprintf(w, "  images removed:       %d\n", r.RemovedImages)
	fmt.Fprintf(w, "  figure captions:      %d\n", r.RemovedFigures)
	fmt.Fprintf(w, "  headings adjusted:    %d\n", r.AdjustedHeadings)
	fmt.Fprintf(w, "  references cut:       %s\n", yesNo(r.RemovedReferences))
	fmt.Fprintf(w, "  acknowledgements cut: %s\n", yesNo(r.RemovedAcknowledgements))
	fmt.Fprintf(w, "  appendix cut:         %s\n", yesNo(r.RemovedAppendix))
	fmt.Fprintf(w, "  size:                 %d -> %d chars (-%d)\n",
		r.InputChars, r.OutputChars, r.InputChars-r.OutputChars)
}

// Normalize runs a single pass over lines and returns the surviving lines
// with a report. The heading strategy is chosen once from Analyze before
// the scan starts. Diagnostics go to w; a nil w discards them.
func Normalize(lines []string, w io.Writer) ([]string, Report) {
	if w == nil {
		w = io.Discard
	}

	analysis := Analyze(lines)
	if analysis.NeedsDefaultAdjustment {
		fmt.Fprintln(w, "all headings are level 1 without numbering: applying default adjustment")
	}

	var (
		report    Report
		out       = make([]string, 0, len(lines))
		seenFirst bool
	)

scan:
	for _, line := range lines {
		if imageLine.MatchString(line) {
			report.RemovedImages++
			fmt.Fprintf(w, "removed image: %s\n", preview(line))
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), "Figure") || figureLine.MatchString(line) {
			report.RemovedFigures++
			fmt.Fprintf(w, "removed caption: %s\n", preview(line))
			continue
		}

		var changed bool
		if analysis.NeedsDefaultAdjustment {
			if strings.HasPrefix(strings.TrimSpace(line), "#") {
				if !seenFirst {
					seenFirst = true
				} else {
					line, changed = demote(line)
				}
			}
		} else {
			line, changed = AdjustHeading(line)
		}
		if changed {
			report.AdjustedHeadings++
			fmt.Fprintf(w, "adjusted heading: %s\n", preview(line))
		}

		switch {
		case references.MatchString(line):
			report.RemovedReferences = true
		case acknowledges.MatchString(line):
			report.RemovedAcknowledgements = true
		case appendix.MatchString(line):
			report.RemovedAppendix = true
		default:
			out = append(out, line)
			continue
		}
		fmt.Fprintf(w, "truncated at: %s\n", preview(line))
		break scan
	}

	return out, report
}

// NormalizeText splits text on newlines, normalizes it, and joins the result.
func NormalizeText(text string, w io.Writer) (string, Report) {
	lines, report := Normalize(strings.Split(text, "\n"), w)
	cleaned := strings.Join(lines, "\n")
	report.InputChars = len([]rune(text))
	report.OutputChars = len([]rune(cleaned))
	return cleaned, report
}

// CleanFile normalizes the Markdown file at path in place.
func CleanFile(path string, w io.Writer) (Report, error) {
	text, err := fsutil.ReadText(path)
	if err != nil {
		return Report{}, err
	}
	cleaned, report := NormalizeText(text, w)
	if err := fsutil.WriteTextAtomic(path, cleaned); err != nil {
		return report, err
	}
	return report, nil
}

func preview(line string) string {
	r := []rune(strings.TrimSpace(line))
	if len(r) <= previewLen {
		return string(r)
	}
	return string(r[:previewLen]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
