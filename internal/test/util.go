// Package test provides a fake MDN server for tests. One server answers the
// document metadata, compatibility matrix, search index and search APIs.
package test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	BCDPath    = "/bcd/api/v0/current"
	SearchPath = "/api/v1/search"
)

// MDNServer is an httptest server that serves canned JSON bodies and counts
// requests per URL path.
type MDNServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	hits     map[string]int
	gate     chan struct{}
}

// NewMDNServer starts a server that is closed when the test ends.
func NewMDNServer(t testing.TB) *MDNServer {
	s := &MDNServer{
		bodies:   make(map[string]string),
		statuses: make(map[string]int),
		hits:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// BCDURL is the compatibility matrix base URL on this server.
func (s *MDNServer) BCDURL() string {
	return s.URL + BCDPath
}

// SearchURL is the search API URL on this server.
func (s *MDNServer) SearchURL() string {
	return s.URL + SearchPath
}

// SetDoc sets the index.json body for a document path.
func (s *MDNServer) SetDoc(docPath, body string) {
	s.set(strings.TrimRight(docPath, "/")+"/index.json", body)
}

// SetMatrix sets the compatibility matrix body for a compat key.
func (s *MDNServer) SetMatrix(compatKey, body string) {
	s.set(BCDPath+"/"+compatKey+".json", body)
}

// SetIndex sets the search index body for a locale.
func (s *MDNServer) SetIndex(locale, body string) {
	s.set("/"+locale+"/search-index.json", body)
}

// SetSearch sets the body returned for every search query.
func (s *MDNServer) SetSearch(body string) {
	s.set(SearchPath, body)
}

// SetStatus makes requests for the URL path fail with status. A status of 0
// clears the failure.
func (s *MDNServer) SetStatus(urlPath string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.statuses, urlPath)
		return
	}
	s.statuses[urlPath] = status
}

// Hold makes every request wait until Release is called.
func (s *MDNServer) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate == nil {
		s.gate = make(chan struct{})
	}
}

// Release lets held requests proceed.
func (s *MDNServer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Hits returns the number of requests received for the URL path.
func (s *MDNServer) Hits(urlPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[urlPath]
}

// DocHits returns the number of index.json requests for a document path.
func (s *MDNServer) DocHits(docPath string) int {
	return s.Hits(strings.TrimRight(docPath, "/") + "/index.json")
}

// MatrixHits returns the number of matrix requests for a compat key.
func (s *MDNServer) MatrixHits(compatKey string) int {
	return s.Hits(BCDPath + "/" + compatKey + ".json")
}

func (s *MDNServer) set(urlPath, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[urlPath] = body
}

func (s *MDNServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	gate := s.gate
	status := s.statuses[r.URL.Path]
	body, ok := s.bodies[r.URL.Path]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}
