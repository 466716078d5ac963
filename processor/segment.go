package processor

import (
	"strings"
	"unicode/utf8"
)

// ParagraphSeparator is the boundary chunks are split on and rejoined with.
const ParagraphSeparator = "\n\n"

// Segment splits text into chunks of at most maxChunkSize characters,
// breaking only at paragraph boundaries. A paragraph longer than
// maxChunkSize is kept whole in a chunk of its own: the bound is a soft
// target so markup is never cut mid-stream.
//
// Chunks are trimmed of surrounding whitespace; joining them with
// ParagraphSeparator yields the input paragraphs in their original order.
func Segment(text string, maxChunkSize int) []string {
	if maxChunkSize < 1 {
		maxChunkSize = 1
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, paragraph := range strings.Split(text, ParagraphSeparator) {
		n := utf8.RuneCountInString(paragraph)
		if currentLen > 0 && currentLen+n > maxChunkSize {
			flush()
		}
		current.WriteString(paragraph)
		current.WriteString(ParagraphSeparator)
		currentLen += n + len(ParagraphSeparator)
	}
	flush()

	return chunks
}

// Segmenter splits documents with a fixed maximum chunk size.
type Segmenter struct {
	MaxChunkSize int
}

// NewSegmenter creates a Segmenter with the given maximum chunk size.
func NewSegmenter(maxChunkSize int) *Segmenter {
	return &Segmenter{MaxChunkSize: maxChunkSize}
}

// Segment splits text using the configured maximum chunk size.
func (s *Segmenter) Segment(text string) []string {
	return Segment(text, s.MaxChunkSize)
}
