//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups targets that run the CLI stages against the project
// directories created by Init.
type Pipeline mg.Namespace

// Search writes arXiv IDs for query to arxiv_ids.txt.
func (Pipeline) Search(query string) error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "search", query)
}

// Download fetches the PDFs listed in arxiv_ids.txt into data/pdfs.
func (Pipeline) Download() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "download")
}

// Convert converts data/pdfs into cleaned Markdown under data/markdown.
func (Pipeline) Convert() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "convert", "--clean")
}

// All runs search, download, and convert for query.
func (p Pipeline) All(query string) error {
	if err := p.Search(query); err != nil {
		return err
	}
	if err := p.Download(); err != nil {
		return err
	}
	return p.Convert()
}
