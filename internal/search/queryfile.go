// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
)

// QueryFile is the on-disk record of one search run. It lets a later
// download step reuse the identifiers without querying arXiv again.
type QueryFile struct {
	Query     string    `yaml:"query"`
	PageSize  int       `yaml:"page_size"`
	Start     int       `yaml:"start"`
	IDs       []string  `yaml:"ids"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search run to a YAML file.
func WriteQueryFile(path, query string, pageSize, start int, ids []string) error {
	qf := QueryFile{
		Query:     query,
		PageSize:  pageSize,
		Start:     start,
		IDs:       ids,
		Timestamp: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return fsutil.WriteTextAtomic(path, string(data))
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
