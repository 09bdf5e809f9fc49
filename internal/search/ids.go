// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
)

// WriteIDs writes one identifier per line to path, replacing the file.
func WriteIDs(path string, ids []string) error {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	return fsutil.WriteTextAtomic(path, b.String())
}

// ReadIDs reads identifiers from path, one per line. Surrounding
// whitespace is trimmed and blank lines are skipped.
func ReadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ID file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ID file: %w", err)
	}
	return ids, nil
}
