package processor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// fencedCode matches a fenced block: opening fence, optional language
	// tag, newline, body, newline, closing fence. Non-greedy so each fence
	// closes at the nearest following fence.
	fencedCode = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)\\n```")

	// inlineCode matches a single-backtick span that stays on one line.
	inlineCode = regexp.MustCompile("`[^`\\n]+`")
)

// ShieldResult is a shielded document plus the spans taken out of it.
type ShieldResult struct {
	Text       string   // Text with every protected span replaced by a placeholder
	CodeBlocks []string // Fenced code blocks, in discovery order
	InlineCode []string // Inline code spans, in discovery order
	Markup     []string // Literal HTML elements, in discovery order
}

// Shielded reports whether any span was extracted.
func (r *ShieldResult) Shielded() bool {
	return len(r.CodeBlocks) > 0 || len(r.InlineCode) > 0 || len(r.Markup) > 0
}

// FormattingShield protects code and markup spans from translation.
type FormattingShield struct {
	markup bool
	tags   map[string]bool
}

// ShieldOption configures a FormattingShield.
type ShieldOption func(*FormattingShield)

// WithMarkup enables/disables shielding of literal HTML elements.
func WithMarkup(enabled bool) ShieldOption {
	return func(s *FormattingShield) {
		s.markup = enabled
	}
}

// WithLiteralTags replaces the set of HTML elements treated as literal.
func WithLiteralTags(tags []string) ShieldOption {
	return func(s *FormattingShield) {
		s.tags = make(map[string]bool, len(tags))
		for _, tag := range tags {
			s.tags[strings.ToLower(tag)] = true
		}
	}
}

// NewFormattingShield creates a shield. Markup shielding is on by default.
func NewFormattingShield(opts ...ShieldOption) *FormattingShield {
	s := &FormattingShield{
		markup: true,
		tags:   LiteralTags,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shield extracts fenced code blocks, then inline code spans, then literal
// HTML elements. Each later stage only sees the output of the earlier ones,
// so a tag quoted in backticks is never taken for markup.
func (s *FormattingShield) Shield(text string) ShieldResult {
	var result ShieldResult

	shielded := fencedCode.ReplaceAllStringFunc(text, func(block string) string {
		placeholder := Placeholder(CategoryCodeBlock, len(result.CodeBlocks))
		result.CodeBlocks = append(result.CodeBlocks, block)
		return placeholder
	})

	shielded = inlineCode.ReplaceAllStringFunc(shielded, func(span string) string {
		placeholder := Placeholder(CategoryInlineCode, len(result.InlineCode))
		result.InlineCode = append(result.InlineCode, Unshield(span, result))
		return placeholder
	})

	if s.markup && strings.Contains(shielded, "<") {
		var markup []string
		shielded, markup = shieldMarkup(shielded, s.tags)
		for _, span := range markup {
			// A markup span may enclose code placeholders; record the
			// original text so restoration stays a single pass.
			result.Markup = append(result.Markup, Unshield(span, result))
		}
	}

	result.Text = shielded
	return result
}

// Unshield restores every placeholder in text with its original span.
// Restoration is a single pass, so restored content is never rescanned.
func (s *FormattingShield) Unshield(text string, shield ShieldResult) string {
	return Unshield(text, shield)
}

// Unshield restores every placeholder in text with the span recorded in shield.
// Placeholders whose index has no recorded span are left untouched.
func Unshield(text string, shield ShieldResult) string {
	restored, _ := UnshieldRanges(text, shield)
	return restored
}

// Range is a byte range [Start, End) of a restored span.
type Range struct {
	Start, End int
}

// UnshieldRanges is Unshield that also reports where each restored span
// sits in the returned text, in order of appearance.
func UnshieldRanges(text string, shield ShieldResult) (string, []Range) {
	if !shield.Shielded() {
		return text, nil
	}

	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	var ranges []Range
	prev := 0
	for _, m := range matches {
		category := text[m[2]:m[3]]
		i, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			continue
		}

		var spans []string
		switch category {
		case CategoryCodeBlock:
			spans = shield.CodeBlocks
		case CategoryInlineCode:
			spans = shield.InlineCode
		case CategoryHTMLBlock:
			spans = shield.Markup
		}
		if i < 0 || i >= len(spans) {
			continue
		}

		b.WriteString(text[prev:m[0]])
		start := b.Len()
		b.WriteString(spans[i])
		ranges = append(ranges, Range{Start: start, End: b.Len()})
		prev = m[1]
	}
	b.WriteString(text[prev:])

	return b.String(), ranges
}
