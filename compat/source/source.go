// Package source fetches compatibility data for MDN documents and
// normalizes it into model.Record values.
//
// Data comes from two endpoints. The per-document metadata endpoint
// ({docs}/{path}/index.json) supplies the Baseline classification, an
// embedded per-browser summary and the list of compatibility-group
// identifiers. When an identifier is present, the richer per-browser support
// matrix is fetched from the browser-compat-data API
// ({bcd}/{identifier}.json). Failure of that second request is never
// reported: the rows are derived from the embedded summary instead.
package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mdnkit/go-libmdn/compat/model"
	"github.com/mdnkit/go-libmdn/internal/httpjson"
	"github.com/mdnkit/go-libmdn/mdnpath"
)

var log = logging.Logger("compat/source")

// Source is the interface the compatibility cache uses to fetch data for a
// document.
type Source interface {
	// Fetch gets the compatibility record for the document at the
	// normalized path. A nil record with a nil error means the document
	// has no compatibility data.
	Fetch(ctx context.Context, docPath string) (*model.Record, error)
	// String returns a description of the source.
	String() string
}

// HTTPSource is the Source backed by the MDN and BCD HTTP APIs.
type HTTPSource struct {
	client  *httpjson.Client
	docsURL string
	bcdURL  string
}

// HTTPSource must implement Source.
var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a new Source that fetches from the MDN and BCD APIs.
func NewHTTPSource(options ...Option) (*HTTPSource, error) {
	opts, err := getOpts(options)
	if err != nil {
		return nil, err
	}

	docsURL, err := checkURL(opts.docsURL)
	if err != nil {
		return nil, err
	}
	bcdURL, err := checkURL(opts.bcdURL)
	if err != nil {
		return nil, err
	}

	return &HTTPSource{
		client: httpjson.New(opts.httpClient, opts.header, httpjson.Retry{
			Max:     opts.retryMax,
			WaitMin: opts.retryWaitMin,
			WaitMax: opts.retryWaitMax,
		}),
		docsURL: docsURL,
		bcdURL:  bcdURL,
	}, nil
}

func checkURL(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url must have http or https scheme: %s", s)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Fetch gets the compatibility record for a document. A failure of the
// metadata request is returned as an *apierror.Error or
// *apierror.DecodeError. A failure of the support-matrix request is not,
// even when it fails because ctx ended.
func (s *HTTPSource) Fetch(ctx context.Context, docPath string) (*model.Record, error) {
	p := mdnpath.ToPath(docPath)

	var payload docIndexPayload
	if err := s.client.Get(ctx, s.indexURL(p), &payload); err != nil {
		return nil, err
	}
	doc := payload.Doc
	if doc == nil {
		doc = &docPayload{}
	}

	compatKey := doc.compatKey()
	var rows []model.BrowserSupportRow
	if compatKey != "" {
		var err error
		rows, err = s.fetchMatrixRows(ctx, compatKey)
		if err != nil {
			log.Debugw("Support matrix unavailable, using baseline summary", "compatKey", compatKey, "err", err)
			rows = rowsFromSummary(doc.summary())
		}
	} else {
		rows = rowsFromSummary(doc.summary())
	}

	return buildRecord(p, doc, rows), nil
}

func (s *HTTPSource) String() string {
	return s.docsURL
}

func (s *HTTPSource) indexURL(p string) string {
	if p == "/" {
		return s.docsURL + "/index.json"
	}
	return s.docsURL + p + "/index.json"
}

func (s *HTTPSource) matrixURL(compatKey string) string {
	return s.bcdURL + "/" + url.PathEscape(compatKey) + ".json"
}

func (s *HTTPSource) fetchMatrixRows(ctx context.Context, compatKey string) ([]model.BrowserSupportRow, error) {
	var payload matrixPayload
	if err := s.client.Get(ctx, s.matrixURL(compatKey), &payload); err != nil {
		return nil, err
	}
	return rowsFromMatrix(payload.support(), payload.Browsers), nil
}

// buildRecord assembles the record, or returns nil when the document has no
// Baseline classification, no compatibility-group identifier and no rows.
func buildRecord(p string, doc *docPayload, rows []model.BrowserSupportRow) *model.Record {
	baseline := doc.baseline()
	compatKey := doc.compatKey()
	if compatKey == "" && baseline == model.BaselineNone && len(rows) == 0 {
		return nil
	}
	if compatKey == "" {
		compatKey = model.UnknownCompatKey
	}
	if rows == nil {
		rows = []model.BrowserSupportRow{}
	}
	return &model.Record{
		CompatKey:    compatKey,
		Path:         p,
		MatchType:    model.MatchExact,
		Baseline:     baseline,
		BaselineDate: doc.baselineDate(),
		Browsers:     rows,
	}
}
