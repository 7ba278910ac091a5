package mdnpath

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is an MDN locale code.
type Language string

// DefaultLanguage is used when no preference matches a supported language.
const DefaultLanguage Language = "en-US"

var supportedLanguages = []Language{"en-US", "es", "fr", "ja", "ko", "pt-BR", "ru", "zh-CN", "zh-TW"}

var languageLabels = map[Language]string{
	"en-US": "English (US)",
	"es":    "Español",
	"fr":    "Français",
	"ja":    "日本語",
	"ko":    "한국어",
	"pt-BR": "Português (Brasil)",
	"ru":    "Русский",
	"zh-CN": "简体中文",
	"zh-TW": "繁體中文",
}

var languageMatcher language.Matcher

func init() {
	tags := make([]language.Tag, len(supportedLanguages))
	for i, lang := range supportedLanguages {
		tags[i] = language.MustParse(string(lang))
	}
	languageMatcher = language.NewMatcher(tags)
}

// SupportedLanguages returns the locales MDN content is served in.
func SupportedLanguages() []Language {
	langs := make([]Language, len(supportedLanguages))
	copy(langs, supportedLanguages)
	return langs
}

// IsSupportedLanguage reports whether value is exactly one of the supported
// locale codes.
func IsSupportedLanguage(value string) bool {
	for _, lang := range supportedLanguages {
		if string(lang) == value {
			return true
		}
	}
	return false
}

// Label returns the native display name of the language.
func (l Language) Label() string {
	if label, ok := languageLabels[l]; ok {
		return label
	}
	return string(l)
}

// MatchLanguage picks the supported language that best matches the given
// preferences. Each preference may be a single tag ("pt-PT"), a POSIX locale
// ("fr_FR.UTF-8") or an Accept-Language list. An exact supported code always
// wins. With no usable preference DefaultLanguage is returned.
func MatchLanguage(prefs ...string) Language {
	var tags []language.Tag
	for _, pref := range prefs {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		if IsSupportedLanguage(pref) {
			return Language(pref)
		}
		if !strings.ContainsAny(pref, ",;") {
			// Drop encoding and modifier from POSIX locales.
			if i := strings.IndexAny(pref, ".@"); i != -1 {
				pref = pref[:i]
			}
			pref = strings.ReplaceAll(pref, "_", "-")
		}
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return supportedLanguages[idx]
}
