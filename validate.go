package gotdt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateDocument checks a request before it reaches the pipeline: the text
// must be non-blank and at most maxTextLength characters (0 disables the
// limit), and both languages must be supported. The source may be AutoDetect.
func ValidateDocument(doc Document, maxTextLength int) error {
	if strings.TrimSpace(doc.Text) == "" {
		return &ValidationError{Code: CodeEmptyText, Message: "no text provided"}
	}
	if maxTextLength > 0 {
		if n := utf8.RuneCountInString(doc.Text); n > maxTextLength {
			return &ValidationError{
				Code:    CodeTextTooLong,
				Message: fmt.Sprintf("text has %d characters, the limit is %d", n, maxTextLength),
			}
		}
	}
	if doc.SourceLang != AutoDetect && !IsSupported(doc.SourceLang) {
		return &ValidationError{
			Code:    CodeUnsupportedLanguage,
			Message: fmt.Sprintf("unsupported source language %q", doc.SourceLang),
		}
	}
	if !IsSupported(doc.TargetLang) {
		return &ValidationError{
			Code:    CodeUnsupportedLanguage,
			Message: fmt.Sprintf("unsupported target language %q", doc.TargetLang),
		}
	}
	return nil
}
