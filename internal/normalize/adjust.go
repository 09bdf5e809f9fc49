// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
)

const (
	romanLevel  = 2
	letterLevel = 3
	maxLevel    = 5
)

var (
	romanHeading  = regexp.MustCompile(`^(#+)\s*([IVX]+)\.?\s+(.*)`)
	letterHeading = regexp.MustCompile(`^(#+)\s*([A-Z])\.?\s+(.*)`)
	numberHeading = regexp.MustCompile(`^(#+)\s*(\d+(?:[.\s]+\d+)*?)[.\s]*\s+(.*)`)
	digits        = regexp.MustCompile(`\d+`)
)

// AdjustHeading applies the pattern strategy to a single line. Roman
// numeral headings become level 2, single capital letter headings level 3,
// and numbered headings one level deeper than their number of groups
// (capped at 5). The first matching pattern decides; a line is only
// rewritten when its level differs from the target, and the second return
// value reports whether that happened. Non-heading lines come back as is.
func AdjustHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	if m := romanHeading.FindStringSubmatch(trimmed); m != nil {
		if len(m[1]) == romanLevel {
			return line, false
		}
		return hashes(romanLevel) + " " + m[2] + ". " + m[3], true
	}

	if m := letterHeading.FindStringSubmatch(trimmed); m != nil {
		if len(m[1]) == letterLevel {
			return line, false
		}
		return hashes(letterLevel) + " " + m[2] + " " + m[3], true
	}

	if m := numberHeading.FindStringSubmatch(trimmed); m != nil {
		numbers := digits.FindAllString(m[2], -1)
		level := min(len(numbers)+1, maxLevel)
		if len(m[1]) == level {
			return line, false
		}
		return hashes(level) + " " + strings.Join(numbers, ".") + " " + m[3], true
	}

	return line, false
}

// demote pushes a level-1 heading down to level 2 by inserting one '#'
// ahead of the existing marker, keeping any indentation. Other lines are
// returned unchanged.
func demote(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if headingLevel(trimmed) != 1 {
		return line, false
	}
	i := strings.IndexByte(line, '#')
	return line[:i] + "#" + line[i:], true
}

func hashes(n int) string {
	return strings.Repeat("#", n)
}
