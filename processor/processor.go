// Package processor prepares document text for translation: it shields
// literal spans (code and markup) behind placeholder tokens and splits the
// shielded text into provider-sized chunks.
package processor

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder categories. Each extracted span is replaced by
// __<CATEGORY>_<index>__ where index is zero-based discovery order.
const (
	CategoryCodeBlock  = "CODE_BLOCK"
	CategoryInlineCode = "INLINE_CODE"
	CategoryHTMLBlock  = "HTML_BLOCK"
)

// placeholderPattern matches every placeholder the shield can emit.
var placeholderPattern = regexp.MustCompile(`__(CODE_BLOCK|INLINE_CODE|HTML_BLOCK)_(\d+)__`)

// Placeholder returns the token for the i-th span of a category.
func Placeholder(category string, i int) string {
	return "__" + category + "_" + strconv.Itoa(i) + "__"
}

// OnlyPlaceholders reports whether text holds nothing but placeholders and
// whitespace, i.e. there is nothing left to translate.
func OnlyPlaceholders(text string) bool {
	if !placeholderPattern.MatchString(text) {
		return false
	}
	return strings.TrimSpace(placeholderPattern.ReplaceAllString(text, "")) == ""
}

// LiteralTags contains HTML elements whose content must never be translated.
var LiteralTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
