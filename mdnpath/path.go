// Package mdnpath canonicalizes MDN document identifiers and classifies
// documents for display.
//
// ToPath is the cache-key normalizer: it turns an absolute URL or a relative
// path into the document path with scheme and host removed and trailing
// slashes stripped. It does not touch case or locale prefixes. StripLocale
// performs the looser normalization used when ranking and classifying
// results.
package mdnpath

import (
	"net/url"
	"regexp"
	"strings"
)

// BaseURL is the origin that relative document paths are resolved against.
const BaseURL = "https://developer.mozilla.org"

var baseURL *url.URL

var localePrefix = regexp.MustCompile(`^/[a-z]{2}(?:-[A-Z]{2})?/`)

func init() {
	var err error
	baseURL, err = url.Parse(BaseURL)
	if err != nil {
		panic(err)
	}
}

// ToPath returns the normalized document path for urlOrPath. Input that
// cannot be parsed as a URL, and input with an empty path, yields "/".
//
// ToPath is idempotent: ToPath(ToPath(x)) == ToPath(x).
func ToPath(urlOrPath string) string {
	u, err := baseURL.Parse(urlOrPath)
	if err != nil {
		return "/"
	}
	p := strings.TrimRight(u.EscapedPath(), "/")
	if p == "" {
		return "/"
	}
	return p
}

// AbsoluteURL resolves urlOrPath against BaseURL. Unparsable input resolves
// to BaseURL itself.
func AbsoluteURL(urlOrPath string) string {
	u, err := baseURL.Parse(urlOrPath)
	if err != nil {
		return baseURL.String() + "/"
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// StripLocale returns the normalized path without its leading locale segment,
// lower-cased. "/en-US/docs/Web/API" becomes "/docs/web/api".
func StripLocale(urlOrPath string) string {
	p := localePrefix.ReplaceAllString(ToPath(urlOrPath), "/")
	return strings.ToLower(p)
}

// Summary renders a breadcrumb for the document: the path segments after
// "docs", without a leading "web" segment, URL-decoded and with underscores
// shown as spaces.
func Summary(urlOrPath string) string {
	var segments []string
	for _, seg := range strings.Split(ToPath(urlOrPath), "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	for i, seg := range segments {
		if strings.ToLower(seg) == "docs" {
			segments = segments[i+1:]
			break
		}
	}
	if len(segments) != 0 && strings.ToLower(segments[0]) == "web" {
		segments = segments[1:]
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			decoded = seg
		}
		parts[i] = strings.ReplaceAll(decoded, "_", " ")
	}
	return strings.Join(parts, " / ")
}
