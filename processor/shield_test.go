package processor

import (
	"strings"
	"testing"
)

func TestShield_NoSpans(t *testing.T) {
	s := NewFormattingShield()
	text := "Plain prose without any code.\n\nSecond paragraph."

	result := s.Shield(text)

	if result.Text != text {
		t.Errorf("Expected text unchanged, got %q", result.Text)
	}
	if len(result.CodeBlocks) != 0 || len(result.InlineCode) != 0 || len(result.Markup) != 0 {
		t.Errorf("Expected no spans, got %+v", result)
	}
	if result.Shielded() {
		t.Error("Shielded() should be false when nothing was extracted")
	}
}

func TestShield_FencedCodeBlock(t *testing.T) {
	s := NewFormattingShield()
	block := "```python\nprint('hello')\n```"
	text := "Run this:\n\n" + block + "\n\nDone."

	result := s.Shield(text)

	if len(result.CodeBlocks) != 1 {
		t.Fatalf("Expected 1 code block, got %d", len(result.CodeBlocks))
	}
	if result.CodeBlocks[0] != block {
		t.Errorf("Expected block %q, got %q", block, result.CodeBlocks[0])
	}
	if !strings.Contains(result.Text, "__CODE_BLOCK_0__") {
		t.Errorf("Expected placeholder in text, got %q", result.Text)
	}
	if strings.Contains(result.Text, "print(") {
		t.Errorf("Code leaked into shielded text: %q", result.Text)
	}
}

func TestShield_FenceWithoutLanguage(t *testing.T) {
	s := NewFormattingShield()
	text := "```\nls -la\n```"

	result := s.Shield(text)

	if result.Text != "__CODE_BLOCK_0__" {
		t.Errorf("Expected single placeholder, got %q", result.Text)
	}
}

func TestShield_NonGreedyFences(t *testing.T) {
	s := NewFormattingShield()
	text := "```go\na := 1\n```\n\nbetween\n\n```go\nb := 2\n```"

	result := s.Shield(text)

	if len(result.CodeBlocks) != 2 {
		t.Fatalf("Expected 2 code blocks, got %d: %+v", len(result.CodeBlocks), result.CodeBlocks)
	}
	if !strings.Contains(result.Text, "between") {
		t.Errorf("Prose between fences should stay translatable, got %q", result.Text)
	}
	if result.Text != "__CODE_BLOCK_0__\n\nbetween\n\n__CODE_BLOCK_1__" {
		t.Errorf("Unexpected shielded text: %q", result.Text)
	}
}

func TestShield_IdenticalBlocksGetDistinctIndexes(t *testing.T) {
	s := NewFormattingShield()
	block := "```\nsame\n```"
	text := block + "\n\n" + block

	result := s.Shield(text)

	if result.Text != "__CODE_BLOCK_0__\n\n__CODE_BLOCK_1__" {
		t.Errorf("Unexpected shielded text: %q", result.Text)
	}
}

func TestShield_InlineCode(t *testing.T) {
	s := NewFormattingShield()
	text := "Call `fmt.Println` and then `os.Exit(1)`."

	result := s.Shield(text)

	if len(result.InlineCode) != 2 {
		t.Fatalf("Expected 2 inline spans, got %d", len(result.InlineCode))
	}
	if result.InlineCode[0] != "`fmt.Println`" || result.InlineCode[1] != "`os.Exit(1)`" {
		t.Errorf("Unexpected inline spans: %v", result.InlineCode)
	}
	if result.Text != "Call __INLINE_CODE_0__ and then __INLINE_CODE_1__." {
		t.Errorf("Unexpected shielded text: %q", result.Text)
	}
}

func TestShield_InlineInsideBlockNotExtracted(t *testing.T) {
	s := NewFormattingShield()
	text := "```md\nUse `inline` here\n```\n\nAnd `outside`."

	result := s.Shield(text)

	if len(result.CodeBlocks) != 1 {
		t.Fatalf("Expected 1 code block, got %d", len(result.CodeBlocks))
	}
	if len(result.InlineCode) != 1 || result.InlineCode[0] != "`outside`" {
		t.Errorf("Only the inline span outside the block should be extracted, got %v", result.InlineCode)
	}
}

func TestShield_InlineDoesNotSpanNewlines(t *testing.T) {
	s := NewFormattingShield()
	text := "a stray ` backtick\non another ` line"

	result := s.Shield(text)

	if len(result.InlineCode) != 0 {
		t.Errorf("Inline code must not span lines, got %v", result.InlineCode)
	}
}

func TestUnshield_RoundTrip(t *testing.T) {
	s := NewFormattingShield()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose", "Just words."},
		{"fence", "Intro\n\n```js\nconst a = `x`;\n```\n\nOutro"},
		{"inline", "Use `go test ./...` often"},
		{"mixed", "`a` and\n\n```\nb\n```\n\n`c` ```\nd\n``` `e`"},
		{"html", "<p>Text</p><pre>keep <b>this</b></pre><code>x</code>"},
		{"nested pre", "<pre><pre>inner</pre> tail</pre> after"},
		{"unclosed", "before <script>var a = 1;"},
		{"inline around fence", "x ` ```go\nfoo\n``` ` y"},
		{"stray backticks", "one ` two\n\nthree ``` four"},
		{"unicode", "Olá `código` mundo\n\n```\nünïcödé\n```"},
		{"markdown with tags", "Wrap it in `<pre>` or `<script>`.\n\n```html\n<pre>x</pre>\n```\n\n<pre>keep `this`</pre> then <code>open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Shield(tt.text)
			restored := s.Unshield(result.Text, result)
			if restored != tt.text {
				t.Errorf("Round trip mismatch:\n got: %q\nwant: %q", restored, tt.text)
			}
		})
	}
}

func TestUnshield_AfterTranslation(t *testing.T) {
	s := NewFormattingShield()
	text := "Run `make build` first.\n\n```sh\nmake build\n```"

	result := s.Shield(text)

	// Simulate a translation that keeps placeholders but changes prose.
	translated := strings.Replace(result.Text, "Run", "Execute", 1)
	translated = strings.Replace(translated, "first", "primeiro", 1)

	restored := Unshield(translated, result)
	want := "Execute `make build` primeiro.\n\n```sh\nmake build\n```"
	if restored != want {
		t.Errorf("Expected %q, got %q", want, restored)
	}
}

func TestUnshield_UnknownIndexLeftAsIs(t *testing.T) {
	result := ShieldResult{CodeBlocks: []string{"```\nx\n```"}}

	got := Unshield("__CODE_BLOCK_0__ __CODE_BLOCK_7__", result)

	if got != "```\nx\n``` __CODE_BLOCK_7__" {
		t.Errorf("Unexpected result: %q", got)
	}
}

func TestUnshield_NothingShielded(t *testing.T) {
	text := "literal __CODE_BLOCK_0__ text"
	if got := Unshield(text, ShieldResult{Text: text}); got != text {
		t.Errorf("Expected text unchanged, got %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder(CategoryInlineCode, 12); got != "__INLINE_CODE_12__" {
		t.Errorf("Expected __INLINE_CODE_12__, got %q", got)
	}
}

func TestUnshieldRanges(t *testing.T) {
	shield := NewFormattingShield()
	input := "Run `make` then:\n\n```sh\n./deploy.sh\n```\n\nDone."

	result := shield.Shield(input)
	restored, ranges := UnshieldRanges(result.Text, result)

	if restored != input {
		t.Fatalf("Round trip failed:\n got: %q\nwant: %q", restored, input)
	}
	if len(ranges) != 2 {
		t.Fatalf("Expected 2 ranges, got %d", len(ranges))
	}
	if got := restored[ranges[0].Start:ranges[0].End]; got != "`make`" {
		t.Errorf("First range = %q, want %q", got, "`make`")
	}
	if got := restored[ranges[1].Start:ranges[1].End]; got != "```sh\n./deploy.sh\n```" {
		t.Errorf("Second range = %q", got)
	}
}

func TestUnshieldRanges_NothingShielded(t *testing.T) {
	restored, ranges := UnshieldRanges("plain text", ShieldResult{Text: "plain text"})

	if restored != "plain text" || ranges != nil {
		t.Errorf("Expected unchanged text and no ranges, got %q %v", restored, ranges)
	}
}

func TestOnlyPlaceholders(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"__CODE_BLOCK_0__", true},
		{"  __CODE_BLOCK_0__\n\n__HTML_BLOCK_3__ ", true},
		{"See __INLINE_CODE_0__", false},
		{"", false},
		{"   ", false},
		{"__NOT_A_PLACEHOLDER_1__", false},
	}
	for _, tt := range tests {
		if got := OnlyPlaceholders(tt.text); got != tt.want {
			t.Errorf("OnlyPlaceholders(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestShield_TagInInlineCodeIsNotMarkup(t *testing.T) {
	s := NewFormattingShield()
	text := "Wrap output in `<pre>` tags.\n\nThis paragraph must be translated."

	result := s.Shield(text)

	if len(result.Markup) != 0 {
		t.Errorf("Quoted tag must not be shielded as markup, got %q", result.Markup)
	}
	if len(result.InlineCode) != 1 || result.InlineCode[0] != "`<pre>`" {
		t.Errorf("Unexpected inline spans: %q", result.InlineCode)
	}
	if result.Text != "Wrap output in __INLINE_CODE_0__ tags.\n\nThis paragraph must be translated." {
		t.Errorf("Unexpected shielded text: %q", result.Text)
	}
}

func TestShield_InlineCodeInsideMarkup(t *testing.T) {
	s := NewFormattingShield()
	text := "<pre>run `make`</pre> and `go test`"

	result := s.Shield(text)

	if len(result.Markup) != 1 || result.Markup[0] != "<pre>run `make`</pre>" {
		t.Fatalf("Markup span should hold the original text, got %q", result.Markup)
	}
	if got := Unshield(result.Text, result); got != text {
		t.Errorf("Round trip mismatch: %q", got)
	}
}
