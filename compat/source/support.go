package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mdnkit/go-libmdn/compat/model"
)

const (
	textNo           = "No"
	textYes          = "Yes"
	textUnknown      = "Unknown"
	textSameUpstream = "Same as upstream"

	mirrorValue = "mirror"

	releaseDateSep = " • "
)

// rowsFromSummary derives rows from the support map embedded in a document's
// Baseline data, where each value is either false or the version support
// was added in.
func rowsFromSummary(support map[string]json.RawMessage) []model.BrowserSupportRow {
	if len(support) == 0 {
		return []model.BrowserSupportRow{}
	}

	rows := make([]model.BrowserSupportRow, 0, len(support))
	for _, id := range model.OrderBrowsers(mapKeys(support)) {
		rows = append(rows, model.BrowserSupportRow{
			BrowserID:   id,
			BrowserName: browserName(id, nil),
			SupportText: summaryText(support[id]),
			Icon:        model.BrowserIcon(id),
		})
	}
	return rows
}

func summaryText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return textUnknown
	}
	switch v := v.(type) {
	case bool:
		if !v {
			return textNo
		}
	case string:
		return "Added " + v
	}
	return textUnknown
}

// rowsFromMatrix derives rows from a BCD support matrix.
func rowsFromMatrix(support map[string]json.RawMessage, browsers map[string]browserInfo) []model.BrowserSupportRow {
	if len(support) == 0 {
		return []model.BrowserSupportRow{}
	}

	rows := make([]model.BrowserSupportRow, 0, len(support))
	for _, id := range model.OrderBrowsers(mapKeys(support)) {
		text, releaseDate := resolveSupport(id, support, browsers)
		if releaseDate != "" {
			text += releaseDateSep + releaseDate
		}
		rows = append(rows, model.BrowserSupportRow{
			BrowserID:   id,
			BrowserName: browserName(id, browsers),
			SupportText: text,
			Icon:        model.BrowserIcon(id),
			ReleaseDate: releaseDate,
		})
	}
	return rows
}

// resolveSupport returns the support text and release date for a browser,
// following mirror statements to their upstream browser. Each browser is
// visited at most once, starting with browserID itself, so a mirror cycle
// ends in "Same as upstream".
func resolveSupport(browserID string, support map[string]json.RawMessage, browsers map[string]browserInfo) (string, string) {
	visited := map[string]struct{}{browserID: {}}
	var prefix strings.Builder

	id := browserID
	for {
		stmt, mirror, ok := pickStatement(support[id])
		if !ok {
			return prefix.String() + textUnknown, ""
		}
		if !mirror {
			text, releaseDate := formatStatement(stmt)
			return prefix.String() + text, releaseDate
		}

		upstream := browsers[id].Upstream
		if upstream == "" {
			return prefix.String() + textSameUpstream, ""
		}
		if _, seen := visited[upstream]; seen {
			return prefix.String() + textSameUpstream, ""
		}
		if _, known := support[upstream]; !known {
			return prefix.String() + textSameUpstream, ""
		}
		visited[upstream] = struct{}{}

		prefix.WriteString("Same as ")
		prefix.WriteString(browserName(upstream, browsers))
		prefix.WriteString(": ")
		id = upstream
	}
}

// pickStatement decodes a support value. An array yields its first
// statement; later entries describe other engines or variants and are
// ignored. The string "mirror" yields mirror=true.
func pickStatement(raw json.RawMessage) (*supportStatement, bool, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) != 0 && raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return nil, false, false
		}
		raw = bytes.TrimSpace(list[0])
	}
	if len(raw) == 0 {
		return nil, false, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s != mirrorValue {
			return nil, false, false
		}
		return nil, true, true
	case '{':
		var stmt supportStatement
		if err := json.Unmarshal(raw, &stmt); err != nil {
			return nil, false, false
		}
		return &stmt, false, true
	}
	return nil, false, false
}

// formatStatement renders a support statement as text and returns the
// statement's release date, if any.
func formatStatement(stmt *supportStatement) (string, string) {
	var text string
	switch added := stmt.VersionAdded.(type) {
	case bool:
		if added {
			text = textYes
		} else {
			text = textNo
		}
	case string:
		text = "Added " + added
	default:
		text = textUnknown
	}

	if removed, ok := stmt.VersionRemoved.(string); ok && removed != "" {
		added, ok := stmt.VersionAdded.(string)
		if !ok {
			added = "?"
		}
		text = fmt.Sprintf("Added %s, removed %s", added, removed)
	}

	var tags []string
	if partial, _ := stmt.PartialImplementation.(bool); partial {
		tags = append(tags, "partial")
	}
	if flags, _ := stmt.Flags.([]any); len(flags) != 0 {
		tags = append(tags, "flagged")
	}
	if prefix, _ := stmt.Prefix.(string); prefix != "" {
		tags = append(tags, "prefix "+prefix)
	}
	if altName, _ := stmt.AlternativeName.(string); altName != "" {
		tags = append(tags, "as "+altName)
	}
	if len(tags) != 0 {
		text = fmt.Sprintf("%s (%s)", text, strings.Join(tags, ", "))
	}

	releaseDate, _ := stmt.ReleaseDate.(string)
	return text, releaseDate
}

// browserName prefers the built-in label, then the name the matrix gives,
// then the ID.
func browserName(id string, browsers map[string]browserInfo) string {
	if label, ok := model.BrowserLabel(id); ok {
		return label
	}
	if name := browsers[id].Name; name != "" {
		return name
	}
	return id
}

func mapKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
