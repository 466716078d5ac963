package processor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// markupSpan is a byte range [start, end) of the input.
type markupSpan struct {
	start, end int
}

// shieldMarkup replaces literal HTML elements with __HTML_BLOCK_<i>__
// placeholders. Offsets come from the tokenizer's raw bytes, so every
// span is copied from the input exactly as written.
func shieldMarkup(text string, tags map[string]bool) (string, []string) {
	spans := findMarkupSpans(text, tags)
	if len(spans) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	blocks := make([]string, 0, len(spans))
	prev := 0
	for i, sp := range spans {
		b.WriteString(text[prev:sp.start])
		b.WriteString(Placeholder(CategoryHTMLBlock, i))
		blocks = append(blocks, text[sp.start:sp.end])
		prev = sp.end
	}
	b.WriteString(text[prev:])

	return b.String(), blocks
}

func findMarkupSpans(text string, tags map[string]bool) []markupSpan {
	z := html.NewTokenizer(strings.NewReader(text))

	var spans []markupSpan
	offset := 0
	depth := 0
	spanStart, spanTagEnd := 0, 0
	spanTag := ""

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := strings.ToLower(string(name))

			if depth > 0 {
				if tag == spanTag && tt == html.StartTagToken {
					depth++
				}
				continue
			}

			if !tags[tag] && !(hasAttr && noTranslate(z)) {
				continue
			}

			if tt == html.SelfClosingTagToken || voidElements[tag] {
				spans = append(spans, markupSpan{start: start, end: offset})
				continue
			}

			spanStart, spanTagEnd = start, offset
			spanTag = tag
			depth = 1

		case html.EndTagToken:
			if depth == 0 {
				continue
			}
			name, _ := z.TagName()
			if strings.ToLower(string(name)) != spanTag {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, markupSpan{start: spanStart, end: offset})
			}
		}
	}

	// An element that is never closed protects only its start tag. The
	// tokenizer may have swallowed the rest as raw text, so scanning
	// resumes right after that tag.
	if depth > 0 {
		spans = append(spans, markupSpan{start: spanStart, end: spanTagEnd})
		for _, sp := range findMarkupSpans(text[spanTagEnd:], tags) {
			spans = append(spans, markupSpan{start: sp.start + spanTagEnd, end: sp.end + spanTagEnd})
		}
	}

	return spans
}

// noTranslate reports whether the current tag opts out of translation.
func noTranslate(z *html.Tokenizer) bool {
	for {
		key, val, more := z.TagAttr()
		k := strings.ToLower(string(key))
		if k == "data-no-translate" {
			return true
		}
		if k == "translate" && strings.EqualFold(string(val), "no") {
			return true
		}
		if !more {
			return false
		}
	}
}

// IsHTMLDocument reports whether text is an HTML document: its first
// token, after any doctype, comments and whitespace, is an <html> start
// tag. Prose or Markdown that merely mentions <html> is not a document.
func IsHTMLDocument(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken, html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Raw())) != "" {
				return false
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			return strings.EqualFold(string(name), "html")
		default:
			return false
		}
	}
}

// TagRanges returns the byte ranges of every tag, doctype and comment
// token in text, in order. Text between tags is not included.
func TagRanges(text string) []Range {
	if !strings.Contains(text, "<") {
		return nil
	}

	z := html.NewTokenizer(strings.NewReader(text))
	var ranges []Range
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ranges
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken,
			html.DoctypeToken, html.CommentToken:
			ranges = append(ranges, Range{Start: start, End: offset})
		}
	}
}

// SetDocumentLang sets the lang and dir attributes of the <html> element.
// Anything that is not an HTML document is returned unchanged, as is any
// document that fails to parse or serialize.
func SetDocumentLang(text, lang, dir string) string {
	if !IsHTMLDocument(text) {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() == 0 {
		return text
	}
	htmlTag.SetAttr("lang", lang)
	htmlTag.SetAttr("dir", dir)

	result, err := doc.Html()
	if err != nil {
		return text
	}

	return result
}
