// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search finds arXiv identifiers for a free-text query by reading
// the arxiv.org search results page.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/arxiv-md/internal/httputil"
	"github.com/pdiddy/arxiv-md/pkg/types"
)

// arxivSearchURL is the arXiv search page. Declared as a var so tests can
// substitute an httptest server.
var arxivSearchURL = "https://arxiv.org/search/"

// AllowedPageSizes lists the page sizes the arXiv search page accepts.
var AllowedPageSizes = []int{25, 50, 100, 200}

// DefaultPageSize replaces any page size not in AllowedPageSizes.
const DefaultPageSize = 50

const (
	// searchRetries bounds retries when arXiv answers 429.
	searchRetries = 3

	resultClass = "arxiv-result"
	idPrefix    = "arXiv:"
)

// ArxivScraper queries the arXiv search page.
type ArxivScraper struct {
	Client *http.Client
	Config types.SearchConfig
}

// Search returns the arXiv identifiers on one results page, newest
// announcements first. An unsupported size falls back to DefaultPageSize
// with a warning. Network failures and unexpected pages are reported to w
// and yield an empty list.
func (s *ArxivScraper) Search(ctx context.Context, query string, size, start int, w io.Writer) []string {
	if w == nil {
		w = io.Discard
	}
	if !slices.Contains(AllowedPageSizes, size) {
		fmt.Fprintf(w, "warning: invalid page size %d, using %d (allowed: %v)\n", size, DefaultPageSize, AllowedPageSizes)
		size = DefaultPageSize
	}
	if start < 0 {
		start = 0
	}

	params := url.Values{
		"query":      {query},
		"searchtype": {"all"},
		"abstracts":  {"show"},
		"order":      {"-announced_date_first"},
		"size":       {strconv.Itoa(size)},
		"start":      {strconv.Itoa(start)},
	}
	reqURL := arxivSearchURL + "?" + params.Encode()
	fmt.Fprintf(w, "searching: %s\n", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		fmt.Fprintf(w, "warning: creating request: %v\n", err)
		return nil
	}
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, searchRetries)
	if err != nil {
		fmt.Fprintf(w, "warning: arXiv search request: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fmt.Fprintf(w, "warning: arXiv search returned HTTP %d\n", resp.StatusCode)
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		fmt.Fprintf(w, "warning: parsing search page: %v\n", err)
		return nil
	}

	results := findAll(doc, isResult)
	if len(results) == 0 {
		fmt.Fprintln(w, "warning: no search results found; the page structure might have changed")
		return nil
	}

	var ids []string
	for _, li := range results {
		if id := resultID(li); id != "" {
			ids = append(ids, id)
		}
	}
	fmt.Fprintf(w, "found %d arXiv IDs\n", len(ids))
	return ids
}

// resultID returns the identifier from the first "arXiv:..." link inside a
// result item.
func resultID(li *html.Node) string {
	for _, a := range findAll(li, isAnchor) {
		text := strings.TrimSpace(textContent(a))
		if !strings.HasPrefix(text, idPrefix) {
			continue
		}
		return strings.TrimSpace(text[strings.LastIndex(text, ":")+1:])
	}
	return ""
}

func isResult(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Li && hasClass(n, resultClass)
}

func isAnchor(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.A
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), class) {
			return true
		}
	}
	return false
}

// findAll returns every descendant of root (root included) matching pred,
// in document order.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
