package mdnpath

import "regexp"

// Kind is the documentation area a document belongs to.
type Kind string

const (
	KindGuide         Kind = "guide"
	KindJS            Kind = "js"
	KindHTML          Kind = "html"
	KindCSS           Kind = "css"
	KindSVG           Kind = "svg"
	KindWasm          Kind = "wasm"
	KindHTTP          Kind = "http"
	KindXML           Kind = "xml"
	KindXPath         Kind = "xpath"
	KindXSLT          Kind = "xslt"
	KindEXSLT         Kind = "exslt"
	KindMathML        Kind = "mathml"
	KindWebExtensions Kind = "webextensions"
	KindManifest      Kind = "manifest"
	KindWebDriver     Kind = "webdriver"
)

type kindRule struct {
	kind Kind
	re   *regexp.Regexp
}

// Tutorials and guides nested under the API reference are guides, not
// reference pages, so they are matched first.
var guideOverrides = []*regexp.Regexp{
	regexp.MustCompile(`^/docs/web/api(?:/[^/]+)?/tutorials?/`),
	regexp.MustCompile(`^/docs/web/api/[^/]+/using_`),
	regexp.MustCompile(`^/docs/web/api(?:/[^/]+)?/guides?/`),
}

// Order matters: xpath, xslt and exslt must match before xml.
var kindRules = []kindRule{
	{KindCSS, regexp.MustCompile(`^/docs/web/css/reference/`)},
	{KindHTML, regexp.MustCompile(`^/docs/web/html/reference/`)},
	{KindSVG, regexp.MustCompile(`^/docs/web/svg/reference/`)},
	{KindWasm, regexp.MustCompile(`^/docs/(?:web/webassembly|webassembly)/reference/`)},
	{KindHTTP, regexp.MustCompile(`^/docs/web/http/reference/`)},
	{KindXPath, regexp.MustCompile(`^/docs/web/xml/xpath(?:/|$)`)},
	{KindXSLT, regexp.MustCompile(`^/docs/web/xml/xslt(?:/|$)`)},
	{KindEXSLT, regexp.MustCompile(`^/docs/web/xml/exslt(?:/|$)`)},
	{KindXML, regexp.MustCompile(`^/docs/web/xml(?:/|$)`)},
	{KindMathML, regexp.MustCompile(`^/docs/web/mathml/reference/`)},
	{KindWebExtensions, regexp.MustCompile(`^/docs/mozilla/add-ons/webextensions/(?:api|manifest\.json)(?:/|$)`)},
	{KindManifest, regexp.MustCompile(`^/docs/web/progressive_web_apps/manifest/reference/`)},
	{KindWebDriver, regexp.MustCompile(`^/docs/web/webdriver/reference/`)},
	{KindJS, regexp.MustCompile(`^/docs/web/javascript/reference/`)},
	{KindJS, regexp.MustCompile(`^/docs/web/api(?:/|$)`)},
}

var kindLabels = map[Kind]string{
	KindGuide:         "Guide",
	KindJS:            "JavaScript",
	KindHTML:          "HTML",
	KindCSS:           "CSS",
	KindSVG:           "SVG",
	KindWasm:          "WebAssembly",
	KindHTTP:          "HTTP",
	KindXML:           "XML",
	KindXPath:         "XPath",
	KindXSLT:          "XSLT",
	KindEXSLT:         "EXSLT",
	KindMathML:        "MathML",
	KindWebExtensions: "WebExtensions",
	KindManifest:      "Web App Manifest",
	KindWebDriver:     "WebDriver",
}

var kindIcons = map[Kind]string{
	KindGuide:         "icon.png",
	KindJS:            "kind-js.svg",
	KindCSS:           "kind-css.svg",
	KindHTML:          "kind-html.svg",
	KindSVG:           "kind-svg.svg",
	KindWasm:          "kind-wasm.svg",
	KindHTTP:          "kind-http.svg",
	KindXML:           "kind-xml.svg",
	KindXPath:         "kind-xpath.svg",
	KindXSLT:          "kind-xslt.svg",
	KindEXSLT:         "kind-exslt.svg",
	KindMathML:        "calculator",
	KindWebExtensions: "app-window",
	KindManifest:      "box",
	KindWebDriver:     "terminal",
}

// DocKind classifies a document by its locale-stripped path. Anything not
// recognized as reference material is a guide.
func DocKind(urlOrPath string) Kind {
	p := StripLocale(urlOrPath)
	for _, re := range guideOverrides {
		if re.MatchString(p) {
			return KindGuide
		}
	}
	for _, rule := range kindRules {
		if rule.re.MatchString(p) {
			return rule.kind
		}
	}
	return KindGuide
}

// Label returns the display label for the kind.
func (k Kind) Label() string {
	return kindLabels[k]
}

// Icon returns the icon name for the kind.
func (k Kind) Icon() string {
	return kindIcons[k]
}
