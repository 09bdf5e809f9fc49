// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arxiv_ids.txt")
	ids := []string{"2401.01234", "hep-th/9901001"}

	require.NoError(t, WriteIDs(path, ids))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2401.01234\nhep-th/9901001\n", string(data))

	got, err := ReadIDs(path)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestReadIDs_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  2401.01234  \n\n\t\n2402.00001\r\n"), 0o644))

	got, err := ReadIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2401.01234", "2402.00001"}, got)
}

func TestReadIDs_Missing(t *testing.T) {
	_, err := ReadIDs(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, WriteQueryFile(path, "diffusion models", 100, 200, []string{"2401.01234"}))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, "diffusion models", qf.Query)
	assert.Equal(t, 100, qf.PageSize)
	assert.Equal(t, 200, qf.Start)
	assert.Equal(t, []string{"2401.01234"}, qf.IDs)
	assert.False(t, qf.Timestamp.IsZero())
}

func TestReadQueryFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ids: [unclosed"), 0o644))

	_, err := ReadQueryFile(path)
	assert.Error(t, err)
}
