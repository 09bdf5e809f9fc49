// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"regexp"
	"strings"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

var (
	// newStyleID matches "2301.07041" and "2301.07041v2".
	newStyleID = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)

	// oldStyleID matches "hep-th/9901001" and "math.GT/0309136v1".
	oldStyleID = regexp.MustCompile(`^[a-z][a-z\-]*(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?$`)
)

// Normalize trims whitespace and an optional "arXiv:" prefix and reports
// whether the result is a well-formed arXiv identifier.
func Normalize(identifier string) (string, bool) {
	id := strings.TrimSpace(identifier)
	if len(id) >= 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = strings.TrimSpace(id[6:])
	}
	return id, newStyleID.MatchString(id) || oldStyleID.MatchString(id)
}

// Slug returns a filesystem-safe filename stem for an arXiv identifier.
// Old-style identifiers contain a slash, which becomes an underscore.
func Slug(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

// PDFURL returns the download URL for an arXiv identifier.
func PDFURL(id string) string {
	return arxivPDFBase + id + ".pdf"
}
