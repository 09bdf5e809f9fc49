// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
)

// Prefix detectors run against the trimmed heading line.
var (
	romanPrefix  = regexp.MustCompile(`^\s*#+\s*([IVX]+)\.?\s+`)
	letterPrefix = regexp.MustCompile(`^\s*#+\s*([A-Z])\.?\s+`)
	numberPrefix = regexp.MustCompile(`^\s*#+\s*(\d+(?:[.\s]+\d+)*?)[.\s]*\s+`)
)

// Heading is a line whose trimmed content starts with '#'.
type Heading struct {
	// Line is the zero-based index of the heading in the document.
	Line int `json:"line" yaml:"line"`

	// Level is the number of leading '#' characters.
	Level int `json:"level" yaml:"level"`

	// Content is the trimmed heading line, hashes included.
	Content string `json:"content" yaml:"content"`

	HasRoman  bool `json:"has_roman" yaml:"has_roman"`
	HasLetter bool `json:"has_letter" yaml:"has_letter"`
	HasNumber bool `json:"has_number" yaml:"has_number"`
}

// HasSpecialPrefix reports whether the heading carries a roman, letter, or
// numeric prefix.
func (h Heading) HasSpecialPrefix() bool {
	return h.HasRoman || h.HasLetter || h.HasNumber
}

// Analysis summarizes the heading structure of a whole document.
type Analysis struct {
	Headings []Heading `json:"headings" yaml:"headings"`

	// AllLevelOne is true when every heading is level 1 (vacuously true
	// for a document without headings).
	AllLevelOne bool `json:"all_level_one" yaml:"all_level_one"`

	// NoSpecialPrefix is true when no heading has a roman, letter, or
	// numeric prefix.
	NoSpecialPrefix bool `json:"no_special_prefix" yaml:"no_special_prefix"`

	// NeedsDefaultAdjustment selects the default strategy: all headings
	// are level 1, none are prefixed, and there is more than one.
	NeedsDefaultAdjustment bool `json:"needs_default_adjustment" yaml:"needs_default_adjustment"`
}

// Analyze scans lines for headings and classifies them.
func Analyze(lines []string) Analysis {
	a := Analysis{AllLevelOne: true, NoSpecialPrefix: true}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		h := Heading{
			Line:      i,
			Level:     headingLevel(trimmed),
			Content:   trimmed,
			HasRoman:  romanPrefix.MatchString(trimmed),
			HasLetter: letterPrefix.MatchString(trimmed),
			HasNumber: numberPrefix.MatchString(trimmed),
		}
		if h.Level != 1 {
			a.AllLevelOne = false
		}
		if h.HasSpecialPrefix() {
			a.NoSpecialPrefix = false
		}
		a.Headings = append(a.Headings, h)
	}
	a.NeedsDefaultAdjustment = a.AllLevelOne && a.NoSpecialPrefix && len(a.Headings) > 1
	return a
}

// headingLevel counts the leading '#' characters of an already trimmed line.
func headingLevel(trimmed string) int {
	return len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
}
