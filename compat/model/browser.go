package model

import "sort"

// GenericBrowserIcon is the icon of browsers without a dedicated one.
const GenericBrowserIcon = "globe"

var browserLabels = map[string]string{
	"chrome":                  "Chrome",
	"chrome_android":          "Chrome Android",
	"edge":                    "Edge",
	"firefox":                 "Firefox",
	"firefox_android":         "Firefox Android",
	"ie":                      "Internet Explorer",
	"nodejs":                  "Node.js",
	"bun":                     "Bun",
	"deno":                    "Deno",
	"oculus":                  "Oculus Browser",
	"opera":                   "Opera",
	"opera_android":           "Opera Android",
	"safari":                  "Safari",
	"safari_ios":              "Safari iOS",
	"samsunginternet_android": "Samsung Internet",
	"webview_android":         "Android WebView",
	"webview_ios":             "iOS WebView",
}

var browserIcons = map[string]string{
	"chrome":                  "browser-chrome.svg",
	"chrome_android":          "browser-chrome.svg",
	"edge":                    "browser-edge.svg",
	"firefox":                 "browser-firefox.svg",
	"firefox_android":         "browser-firefox.svg",
	"ie":                      "browser-ie.svg",
	"nodejs":                  "browser-nodejs.svg",
	"bun":                     "browser-bun.svg",
	"deno":                    "browser-deno.svg",
	"oculus":                  "browser-oculus.svg",
	"opera":                   "browser-opera.svg",
	"opera_android":           "browser-opera.svg",
	"safari":                  "browser-safari.svg",
	"safari_ios":              "browser-safari.svg",
	"samsunginternet_android": "browser-samsunginternet.svg",
	"webview_android":         "browser-android.svg",
	"webview_ios":             "browser-apple.svg",
}

// browserOrder is the canonical display priority.
var browserOrder = []string{
	"chrome",
	"edge",
	"firefox",
	"safari",
	"chrome_android",
	"firefox_android",
	"safari_ios",
	"samsunginternet_android",
	"webview_android",
	"webview_ios",
	"opera",
	"opera_android",
	"ie",
	"nodejs",
	"bun",
	"deno",
	"oculus",
}

var browserRank map[string]int

func init() {
	browserRank = make(map[string]int, len(browserOrder))
	for i, id := range browserOrder {
		browserRank[id] = i
	}
}

// BrowserLabel returns the display name of a known browser, and false for an
// unknown one.
func BrowserLabel(browserID string) (string, bool) {
	label, ok := browserLabels[browserID]
	return label, ok
}

// BrowserIcon returns the icon for the browser, or GenericBrowserIcon.
func BrowserIcon(browserID string) string {
	if icon, ok := browserIcons[browserID]; ok {
		return icon
	}
	return GenericBrowserIcon
}

// OrderBrowsers returns the browser IDs in canonical order: known browsers
// in fixed priority order followed by unknown browsers alphabetically.
// Duplicate IDs are dropped.
func OrderBrowsers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ri, iKnown := browserRank[ordered[i]]
		rj, jKnown := browserRank[ordered[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}
