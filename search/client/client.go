// Package client is an HTTP client for the MDN search API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/internal/httpjson"
	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/mdnkit/go-libmdn/search/model"
)

var log = logging.Logger("search/client")

// Client is an http client for the MDN search API.
type Client struct {
	c         *httpjson.Client
	searchURL *url.URL
}

// New creates a new search client.
func New(options ...Option) (*Client, error) {
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(opts.searchURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url must have http or https scheme: %s", opts.searchURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	return &Client{
		c: httpjson.New(opts.httpClient, nil, httpjson.Retry{
			Max:     opts.retryMax,
			WaitMin: opts.retryWaitMin,
			WaitMax: opts.retryWaitMax,
		}),
		searchURL: u,
	}, nil
}

type searchResponse struct {
	Documents json.RawMessage `json:"documents"`
}

type searchDocument struct {
	MDNURL  any `json:"mdn_url"`
	Title   any `json:"title"`
	Summary any `json:"summary"`
}

// Search returns the best-ranked documents matching query in the given
// locale. An empty locale means the default language. A blank query returns
// no results without making a request. Documents without a title or URL
// are skipped.
func (c *Client) Search(ctx context.Context, query, locale string) ([]model.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if locale == "" {
		locale = string(mdnpath.DefaultLanguage)
	}

	u := *c.searchURL
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "best")
	q.Set("locale", locale)
	u.RawQuery = q.Encode()

	var resp searchResponse
	if err := c.c.Get(ctx, u.String(), &resp); err != nil {
		return nil, err
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(resp.Documents, &docs); err != nil {
		log.Debugw("Search response has no document list", "query", query)
		return []model.Result{}, nil
	}

	results := make([]model.Result, 0, len(docs))
	for _, raw := range docs {
		var doc searchDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		title, ok := doc.Title.(string)
		if !ok {
			continue
		}
		mdnURL, ok := doc.MDNURL.(string)
		if !ok {
			continue
		}
		summary, _ := doc.Summary.(string)
		if r, ok := model.NewResult(title, mdnURL, summary); ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// Searcher runs one search at a time. Starting a search cancels the
// previous one if it is still running.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSearcher creates a Searcher that searches with c.
func NewSearcher(c *Client) *Searcher {
	return &Searcher{client: c}
}

// Search runs a search, canceling the search in progress, if any. A search
// that is superseded returns context.Canceled.
func (s *Searcher) Search(ctx context.Context, query, locale string) ([]model.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	results, err := s.client.Search(ctx, query, locale)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, err
}
