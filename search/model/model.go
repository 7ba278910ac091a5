// Package model defines MDN search results and search index entries.
package model

import (
	"strings"

	"github.com/mdnkit/go-libmdn/mdnpath"
)

// Result is one MDN search result.
type Result struct {
	// ID identifies the result. It is the same as Path.
	ID    string `json:"id"`
	Title string `json:"title"`
	// URL is the absolute document URL.
	URL string `json:"url"`
	// Path is the normalized document path, which is also the key for
	// compatibility lookups.
	Path    string       `json:"path"`
	Summary string       `json:"summary,omitempty"`
	Kind    mdnpath.Kind `json:"kind"`
}

// NewResult builds a Result from a search document's fields. It returns false
// if the title is blank.
func NewResult(title, mdnURL, summary string) (Result, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Result{}, false
	}
	p := mdnpath.ToPath(mdnURL)
	return Result{
		ID:      p,
		Title:   title,
		URL:     mdnpath.AbsoluteURL(p),
		Path:    p,
		Summary: strings.TrimSpace(summary),
		Kind:    mdnpath.DocKind(p),
	}, true
}

// Paths returns the paths of results, in order.
func Paths(results []Result) []string {
	paths := make([]string, len(results))
	for i := range results {
		paths[i] = results[i].Path
	}
	return paths
}

// IndexItem is one entry of a locale's search index.
type IndexItem struct {
	Title string `json:"title"`
	// URL is a site-relative document URL, always starting with "/".
	URL string `json:"url"`
}

// NewIndexItem builds an IndexItem, trimming both fields and adding a
// leading "/" to url. It returns false if either field is blank.
func NewIndexItem(title, url string) (IndexItem, bool) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" || url == "" {
		return IndexItem{}, false
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return IndexItem{Title: title, URL: url}, true
}
