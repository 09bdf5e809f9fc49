// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API tokens. A token is taken from an explicit
// value, then its environment variable, then a plain-text key file in the
// secrets directory.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Key names one token: the file it is stored in and the environment
// variable that overrides it.
type Key struct {
	File string
	Env  string
}

// MinerU is the MinerU extraction service API token.
var MinerU = Key{File: "mineru-api-token", Env: "MINERU_API_TOKEN"}

// Keys lists every token Load looks for.
var Keys = []Key{MinerU}

// Store maps key file names to their trimmed contents.
type Store map[string]string

// Load reads the file for each of Keys from dir. Missing files and a
// missing directory are skipped silently; other read errors are reported
// on w and the key is left unset.
func Load(dir string, w io.Writer) Store {
	if w == nil {
		w = io.Discard
	}
	store := Store{}
	for _, k := range Keys {
		data, err := os.ReadFile(filepath.Join(dir, k.File))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", k.File, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			store[k.File] = value
		}
	}
	return store
}

// Token returns the first non-empty value among explicit, the key's
// environment variable, and the key file.
func (s Store) Token(k Key, explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(k.Env)); v != "" {
		return v
	}
	return s[k.File]
}

// Names returns the loaded key file names in sorted order.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
