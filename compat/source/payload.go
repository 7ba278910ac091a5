package source

import (
	"encoding/json"

	"github.com/mdnkit/go-libmdn/compat/model"
)

// docIndexPayload is the body of {docs}/{path}/index.json. Only the fields
// used for compatibility are decoded.
type docIndexPayload struct {
	Doc *docPayload `json:"doc"`
}

type docPayload struct {
	Baseline      *baselinePayload `json:"baseline"`
	BrowserCompat []string         `json:"browserCompat"`
}

type baselinePayload struct {
	Baseline         model.Baseline             `json:"baseline"`
	BaselineLowDate  string                     `json:"baseline_low_date"`
	BaselineHighDate string                     `json:"baseline_high_date"`
	Support          map[string]json.RawMessage `json:"support"`
}

// compatKey returns the first compatibility-group identifier. The remaining
// identifiers are ignored.
func (d *docPayload) compatKey() string {
	if len(d.BrowserCompat) == 0 {
		return ""
	}
	return d.BrowserCompat[0]
}

func (d *docPayload) baseline() model.Baseline {
	if d.Baseline == nil {
		return model.BaselineNone
	}
	return d.Baseline.Baseline
}

// baselineDate returns the date matching the classification. Only high and
// low classifications have one.
func (d *docPayload) baselineDate() string {
	if d.Baseline == nil {
		return ""
	}
	switch d.Baseline.Baseline {
	case model.BaselineHigh:
		return d.Baseline.BaselineHighDate
	case model.BaselineLow:
		return d.Baseline.BaselineLowDate
	}
	return ""
}

func (d *docPayload) summary() map[string]json.RawMessage {
	if d.Baseline == nil {
		return nil
	}
	return d.Baseline.Support
}

// matrixPayload is the body of {bcd}/{compatKey}.json.
type matrixPayload struct {
	Data struct {
		Compat *struct {
			Support map[string]json.RawMessage `json:"support"`
		} `json:"__compat"`
	} `json:"data"`
	Browsers map[string]browserInfo `json:"browsers"`
}

type browserInfo struct {
	Name     string `json:"name"`
	Upstream string `json:"upstream"`
}

func (p *matrixPayload) support() map[string]json.RawMessage {
	if p.Data.Compat == nil {
		return nil
	}
	return p.Data.Compat.Support
}

// supportStatement is one BCD support statement. Fields are decoded loosely
// so that an unexpected type affects only the field, not the statement.
type supportStatement struct {
	VersionAdded          any `json:"version_added"`
	VersionRemoved        any `json:"version_removed"`
	ReleaseDate           any `json:"release_date"`
	Prefix                any `json:"prefix"`
	AlternativeName       any `json:"alternative_name"`
	PartialImplementation any `json:"partial_implementation"`
	Flags                 any `json:"flags"`
}
