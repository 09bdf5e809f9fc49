// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsutil reads and writes whole text files. Writes go through a
// temporary file in the target directory and a rename, so readers never
// observe a half-written file.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadText returns the contents of path as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// WriteTextAtomic replaces path with text.
func WriteTextAtomic(path, text string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

// WriteFileAtomic creates a temp file next to path, lets fill write its
// contents, and renames it over path. The temp file is removed on any
// failure.
func WriteFileAtomic(path string, fill func(w io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	fillErr := fill(tmpFile)
	closeErr := tmpFile.Close()
	if fillErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, fillErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
