// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid PDF with the given number of blank pages and
// a correct cross-reference table.
func minimalPDF(pages int) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for range pages {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

func TestPageCount(t *testing.T) {
	for _, n := range []int{1, 3} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.pdf")
			require.NoError(t, os.WriteFile(path, minimalPDF(n), 0o644))

			got, err := pageCount(path)
			require.NoError(t, err)
			assert.Equal(t, n, got)
		})
	}
}

func TestPageCount_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := pageCount(path)
	assert.Error(t, err)

	_, err = pageCount(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestAcquirePaper_RecordsPageCount(t *testing.T) {
	doc := minimalPDF(3)
	ts := newPDFServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(doc)
	})

	dir := t.TempDir()
	var log bytes.Buffer
	paper, skipped, err := testDownloader(ts).AcquirePaper(context.Background(), "2301.07041", dir, &log)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 3, paper.Pages)
	assert.Equal(t, int64(len(doc)), paper.Bytes)
	assert.NotContains(t, log.String(), "could not read page count")

	sidecar, err := ReadMetadata(filepath.Join(dir, "2301.07041.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, sidecar.Pages)
}
