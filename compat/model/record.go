// Package model defines the compatibility data resolved for MDN documents.
package model

import (
	"bytes"
	"encoding/json"
)

// Baseline classifies how broadly interoperable a feature is.
//
// The zero value, BaselineNone, means the document carries no
// classification. In JSON, BaselineLimited is the literal false and
// BaselineNone is omitted.
type Baseline string

const (
	BaselineNone    Baseline = ""
	BaselineHigh    Baseline = "high"
	BaselineLow     Baseline = "low"
	BaselineLimited Baseline = "limited"
)

func (b Baseline) MarshalJSON() ([]byte, error) {
	switch b {
	case BaselineHigh, BaselineLow:
		return json.Marshal(string(b))
	case BaselineLimited:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts "high", "low" and false. Any other value decodes as
// BaselineNone rather than failing.
func (b *Baseline) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) {
		*b = BaselineLimited
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil && (s == string(BaselineHigh) || s == string(BaselineLow)) {
		*b = Baseline(s)
		return nil
	}
	*b = BaselineNone
	return nil
}

// UnknownCompatKey is the compat key of a record that has baseline or support
// data but no compatibility-group identifier.
const UnknownCompatKey = "unknown"

// MatchExact is the only match type produced: the record describes the
// document itself rather than a parent feature.
const MatchExact = "exact"

// Record is the compatibility data resolved for one document.
type Record struct {
	// CompatKey is the dotted browser-compat-data feature path, or
	// UnknownCompatKey.
	CompatKey string `json:"compatKey"`
	// Path is the normalized document path the record was resolved for.
	Path      string   `json:"mdnPath"`
	MatchType string   `json:"matchType"`
	Baseline  Baseline `json:"baseline,omitempty"`
	// BaselineDate is set only when Baseline is BaselineHigh or BaselineLow.
	BaselineDate string `json:"baselineDate,omitempty"`
	// Browsers holds one row per browser in canonical browser order.
	Browsers []BrowserSupportRow `json:"browsers"`
}

// BrowserSupportRow is the rendered support of one browser.
type BrowserSupportRow struct {
	BrowserID   string `json:"browserId"`
	BrowserName string `json:"browserName"`
	SupportText string `json:"support"`
	Icon        string `json:"icon,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// Decorate returns a copy of r in which every row without an icon gets the
// icon for its browser. A nil record stays nil.
func (r *Record) Decorate() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Browsers = make([]BrowserSupportRow, len(r.Browsers))
	for i, row := range r.Browsers {
		if row.Icon == "" {
			row.Icon = BrowserIcon(row.BrowserID)
		}
		out.Browsers[i] = row
	}
	return &out
}

// Resolution is the outcome of looking up a document's compatibility data.
// It distinguishes three states: not yet looked up, looked up with no data,
// and looked up with a record.
type Resolution struct {
	resolved bool
	record   *Record
}

// Unresolved is the Resolution of a document not yet looked up.
func Unresolved() Resolution {
	return Resolution{}
}

// Resolved returns a resolved Resolution. A nil record means the lookup
// completed and no compatibility data exists.
func Resolved(rec *Record) Resolution {
	return Resolution{resolved: true, record: rec}
}

// IsResolved reports whether the lookup has completed.
func (r Resolution) IsResolved() bool {
	return r.resolved
}

// Record returns the resolved record. It is nil when unresolved or when no
// data exists.
func (r Resolution) Record() *Record {
	return r.record
}

// Found reports whether the lookup completed with a record.
func (r Resolution) Found() bool {
	return r.resolved && r.record != nil
}
