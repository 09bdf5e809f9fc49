// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads the token file and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MinerU.File, "  eyJ0eXAi.abc  \n")
				return dir
			},
			want: Store{MinerU.File: "eyJ0eXAi.abc"},
		},
		{
			name: "ignores files that are not known keys",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MinerU.File, "tok_real")
				writeFile(t, dir, "other-token", "xyz789")
				writeFile(t, dir, ".gitkeep", "")
				return dir
			},
			want: Store{MinerU.File: "tok_real"},
		},
		{
			name: "blank token file is unset",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MinerU.File, "   \n\t  ")
				return dir
			},
			want: Store{},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: Store{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			got := Load(tt.setup(t), &log)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, log.String())
		})
	}
}

func TestLoad_KeyIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, MinerU.File), 0o755))

	var log bytes.Buffer
	got := Load(dir, &log)
	assert.Empty(t, got)
	assert.Contains(t, log.String(), "warning: could not read secret mineru-api-token")
}

func TestLoad_NilWriter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, MinerU.File), 0o755))
	assert.NotPanics(t, func() { Load(dir, nil) })
}

func TestStoreToken(t *testing.T) {
	k := Key{File: MinerU.File, Env: "ARXIV_MD_TEST_TOKEN"}
	store := Store{MinerU.File: "from-file"}

	t.Setenv(k.Env, "")
	assert.Equal(t, "from-file", store.Token(k, ""))

	t.Setenv(k.Env, " from-env ")
	assert.Equal(t, "from-env", store.Token(k, ""))
	assert.Equal(t, "from-flag", store.Token(k, " from-flag "))

	t.Setenv(k.Env, "")
	assert.Empty(t, Store(nil).Token(k, ""))
}

func TestStoreNames(t *testing.T) {
	assert.Empty(t, Store{}.Names())
	assert.Equal(t, []string{"a-token", "b-token"}, Store{"b-token": "2", "a-token": "1"}.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
