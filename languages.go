package gotdt

import (
	"sort"
	"strings"
)

// SupportedLanguages maps the language tags accepted for translation to
// human-readable names.
var SupportedLanguages = map[string]string{
	"pt": "Portuguese",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// BaseLang extracts the lowercase base language ("pt" from "pt-BR" or "pt_BR").
func BaseLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// IsSupported reports whether lang (or its base language) can be translated to.
func IsSupported(lang string) bool {
	_, ok := SupportedLanguages[BaseLang(lang)]
	return ok
}

// LanguageName returns the human-readable name for a language tag.
// Falls back to the tag itself if not found.
func LanguageName(lang string) string {
	if name, ok := SupportedLanguages[BaseLang(lang)]; ok {
		return name
	}
	return lang
}

// LanguageCodes returns the supported language tags, sorted.
func LanguageCodes() []string {
	codes := make([]string, 0, len(SupportedLanguages))
	for code := range SupportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(lang string) string {
	if RTLLanguages[BaseLang(lang)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(lang string) bool {
	return GetDirection(lang) == "rtl"
}

// ToHTMLLang converts a tag to HTML lang attribute format (e.g., "pt_BR" → "pt-BR").
func ToHTMLLang(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}
