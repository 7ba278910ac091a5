// Package httpjson performs the JSON GET requests shared by all MDN API
// clients, optionally through a retrying transport.
package httpjson

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/mdnkit/go-libmdn/apierror"
)

// Retry configures retrying of failed requests. A zero Max disables retries.
type Retry struct {
	Max     int
	WaitMin time.Duration
	WaitMax time.Duration
}

// Client issues GET requests and decodes JSON responses.
type Client struct {
	c      *http.Client
	header http.Header
}

// New creates a Client over httpClient. If retry.Max is non-zero, requests
// go through a retryablehttp client that wraps httpClient.
func New(httpClient *http.Client, header http.Header, retry Retry) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if retry.Max != 0 {
		rclient := &retryablehttp.Client{
			HTTPClient:   httpClient,
			RetryWaitMin: retry.WaitMin,
			RetryWaitMax: retry.WaitMax,
			RetryMax:     retry.Max,
			CheckRetry:   retryablehttp.DefaultRetryPolicy,
			Backoff:      retryablehttp.DefaultBackoff,
		}
		httpClient = rclient.StandardClient()
	}
	return &Client{
		c:      httpClient,
		header: header,
	}
}

// Get fetches u and decodes the JSON body into v.
//
// A request that produces no response fails with an *apierror.Error of
// status 0, a non-2xx response with an *apierror.Error carrying the status
// and the response body as its message, and an undecodable body with an *apierror.DecodeError.
func (c *Client) Get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	for key, vals := range c.header {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.c.Do(req)
	if err != nil {
		return apierror.FromTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierror.FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierror.FromResponse(resp.StatusCode, body)
	}

	if err = json.Unmarshal(body, v); err != nil {
		return apierror.NewDecodeError(u, err)
	}
	return nil
}
