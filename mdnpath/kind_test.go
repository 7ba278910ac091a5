package mdnpath_test

import (
	"testing"

	"github.com/mdnkit/go-libmdn/mdnpath"
	"github.com/stretchr/testify/require"
)

func TestDocKind(t *testing.T) {
	tests := map[string]mdnpath.Kind{
		"/en-US/docs/Web/CSS/Reference/Properties/color":             mdnpath.KindCSS,
		"/en-US/docs/Web/HTML/Reference/Elements/div":                mdnpath.KindHTML,
		"/en-US/docs/Web/SVG/Reference/Element/path":                 mdnpath.KindSVG,
		"/en-US/docs/WebAssembly/Reference/Control_flow":             mdnpath.KindWasm,
		"/en-US/docs/Web/HTTP/Reference/Headers/Accept":              mdnpath.KindHTTP,
		"/en-US/docs/Web/XML/XPath/Reference/Functions":              mdnpath.KindXPath,
		"/en-US/docs/Web/XML/XSLT":                                   mdnpath.KindXSLT,
		"/en-US/docs/Web/XML/EXSLT/Reference":                        mdnpath.KindEXSLT,
		"/en-US/docs/Web/XML":                                        mdnpath.KindXML,
		"/en-US/docs/Web/MathML/Reference/Element/math":              mdnpath.KindMathML,
		"/en-US/docs/Mozilla/Add-ons/WebExtensions/API/tabs":         mdnpath.KindWebExtensions,
		"/en-US/docs/Mozilla/Add-ons/WebExtensions/manifest.json":    mdnpath.KindWebExtensions,
		"/en-US/docs/Web/Progressive_web_apps/Manifest/Reference/id": mdnpath.KindManifest,
		"/en-US/docs/Web/WebDriver/Reference/Commands":               mdnpath.KindWebDriver,
		"/en-US/docs/Web/JavaScript/Reference/Global_Objects/Array":  mdnpath.KindJS,
		"/en-US/docs/Web/API":                                        mdnpath.KindJS,
		"/en-US/docs/Web/API/fetch":                                  mdnpath.KindJS,
		"/en-US/docs/Web/API/Fetch_API/Using_Fetch":                  mdnpath.KindGuide,
		"/en-US/docs/Web/API/WebGL_API/Tutorial/Getting_started":     mdnpath.KindGuide,
		"/en-US/docs/Web/API/Web_Audio_API/Guides/Basic":             mdnpath.KindGuide,
		"/en-US/docs/Learn_web_development":                          mdnpath.KindGuide,
		"https://developer.mozilla.org/ja/docs/Web/CSS/Reference/x":  mdnpath.KindCSS,
	}
	for p, want := range tests {
		require.Equal(t, want, mdnpath.DocKind(p), "path %s", p)
	}
}

func TestKindLabelIcon(t *testing.T) {
	require.Equal(t, "JavaScript", mdnpath.KindJS.Label())
	require.Equal(t, "Web App Manifest", mdnpath.KindManifest.Label())
	require.Equal(t, "kind-css.svg", mdnpath.KindCSS.Icon())
	require.Equal(t, "terminal", mdnpath.KindWebDriver.Icon())
	require.Equal(t, "", mdnpath.Kind("nope").Label())
}

func TestMatchLanguage(t *testing.T) {
	require.Equal(t, mdnpath.Language("es"), mdnpath.MatchLanguage("es"))
	require.Equal(t, mdnpath.Language("pt-BR"), mdnpath.MatchLanguage("pt-BR"))
	require.Equal(t, mdnpath.Language("fr"), mdnpath.MatchLanguage("fr_FR.UTF-8"))
	require.Equal(t, mdnpath.Language("ja"), mdnpath.MatchLanguage("ja,en;q=0.5"))
	require.Equal(t, mdnpath.DefaultLanguage, mdnpath.MatchLanguage("de"))
	require.Equal(t, mdnpath.DefaultLanguage, mdnpath.MatchLanguage("", "  "))
	require.Equal(t, mdnpath.DefaultLanguage, mdnpath.MatchLanguage())
	require.Equal(t, mdnpath.Language("ko"), mdnpath.MatchLanguage("", "ko-KR"))
}

func TestSupportedLanguages(t *testing.T) {
	langs := mdnpath.SupportedLanguages()
	require.Len(t, langs, 9)
	require.Equal(t, mdnpath.DefaultLanguage, langs[0])

	langs[0] = "xx"
	require.Equal(t, mdnpath.DefaultLanguage, mdnpath.SupportedLanguages()[0])

	require.True(t, mdnpath.IsSupportedLanguage("zh-TW"))
	require.False(t, mdnpath.IsSupportedLanguage("zh"))
	require.False(t, mdnpath.IsSupportedLanguage("EN-US"))

	require.Equal(t, "Français", mdnpath.Language("fr").Label())
	require.Equal(t, "xx", mdnpath.Language("xx").Label())
}
