// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-md/internal/fsutil"
)

// markdownPatterns are tried in order against paths inside the result
// archive. The first pattern with any match wins and the largest matching
// file is taken as the document.
var markdownPatterns = []struct {
	name  string
	match func(rel string) bool
}{
	{"**/full.md", func(rel string) bool { return filepath.Base(rel) == "full.md" }},
	{"**/*.md", isMarkdown},
	{"**/content.md", func(rel string) bool { return filepath.Base(rel) == "content.md" }},
	{"**/output.md", func(rel string) bool { return filepath.Base(rel) == "output.md" }},
	{"**/auto/*.md", func(rel string) bool {
		return isMarkdown(rel) && filepath.Base(filepath.Dir(rel)) == "auto"
	}},
}

func isMarkdown(rel string) bool {
	return strings.EqualFold(filepath.Ext(rel), ".md")
}

// fetchMarkdown downloads the result archive, unpacks it into a temporary
// directory, and returns the selected Markdown file's contents. All
// temporary files are removed before returning.
func (m *MinerU) fetchMarkdown(ctx context.Context, zipURL string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "arxiv-md-result-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	zipPath := filepath.Join(tmpDir, "result.zip")
	if err := m.downloadArchive(ctx, zipURL, zipPath); err != nil {
		return "", err
	}

	extractDir := filepath.Join(tmpDir, "extracted")
	if err := extractZip(zipPath, extractDir); err != nil {
		return "", err
	}

	mdPath, pattern, err := pickMarkdown(extractDir)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(m.log, "  found Markdown with pattern %s: %s\n", pattern, filepath.Base(mdPath))
	return fsutil.ReadText(mdPath)
}

func (m *MinerU) downloadArchive(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating archive request: %w", err)
	}
	fmt.Fprintln(m.log, "  downloading result archive")
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("downloading archive: HTTP %d", resp.StatusCode)
	}
	return fsutil.WriteFileAtomic(dest, func(w io.Writer) error {
		_, err := io.Copy(w, resp.Body)
		return err
	})
}

// extractZip unpacks src into dir. Entries that would land outside dir
// are rejected.
func extractZip(src, dir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, f := range r.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes extraction directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pickMarkdown applies markdownPatterns to the files under dir and returns
// the chosen path with the pattern that selected it.
func pickMarkdown(dir string) (path, pattern string, err error) {
	type candidate struct {
		rel  string
		size int64
	}
	var files []candidate
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, candidate{rel: rel, size: info.Size()})
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("scanning extracted files: %w", err)
	}

	for _, pat := range markdownPatterns {
		var best *candidate
		for i := range files {
			if !pat.match(files[i].rel) {
				continue
			}
			if best == nil || files[i].size > best.size {
				best = &files[i]
			}
		}
		if best != nil {
			return filepath.Join(dir, best.rel), pat.name, nil
		}
	}

	names := make([]string, 0, min(len(files), 10))
	for _, f := range files[:min(len(files), 10)] {
		names = append(names, f.rel)
	}
	return "", "", fmt.Errorf("no Markdown file in result archive (files: %s)", strings.Join(names, ", "))
}
