package terms

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule replaces every whole-word, case-insensitive occurrence of Term.
type Rule struct {
	Term        string // Lowercase source term
	Replacement string // Canonical target-language form
}

// BuildRules derives the substitution table for a language pair.
//
// A source entry (term → canonical) becomes a rule when the target table
// links to its canonical form: either the target table has canonical as a
// key (the rule then yields that entry's value), or some target value equals
// canonical (the rule then yields that value). Rules are ordered longest
// term first, then lexicographically, so multi-word terms claim their text
// before any shorter term inside them can.
func BuildRules(dict Dictionary, sourceLang, targetLang string) []Rule {
	source, ok := dict[sourceLang]
	if !ok {
		return nil
	}
	target, ok := dict[targetLang]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(source))
	for term := range source {
		keys = append(keys, term)
	}
	sort.Strings(keys)

	byTerm := make(map[string]string, len(keys))
	for _, term := range keys {
		lower := strings.ToLower(strings.TrimSpace(term))
		if lower == "" {
			continue
		}
		if _, seen := byTerm[lower]; seen {
			continue
		}
		if replacement, ok := linkedForm(target, source[term]); ok {
			byTerm[lower] = replacement
		}
	}

	rules := make([]Rule, 0, len(byTerm))
	for term, replacement := range byTerm {
		rules = append(rules, Rule{Term: term, Replacement: replacement})
	}
	sort.Slice(rules, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(rules[i].Term), utf8.RuneCountInString(rules[j].Term)
		if li != lj {
			return li > lj
		}
		return rules[i].Term < rules[j].Term
	})

	return rules
}

func linkedForm(target map[string]string, canonical string) (string, bool) {
	if replacement, ok := target[canonical]; ok {
		return replacement, true
	}
	for _, value := range target {
		if value == canonical {
			return value, true
		}
	}
	return "", false
}

// Apply rewrites known source terms in text to their canonical
// target-language form. Text is returned unchanged when either language is
// missing from the dictionary.
func Apply(text, sourceLang, targetLang string, dict Dictionary) string {
	return ApplyRules(text, BuildRules(dict, sourceLang, targetLang))
}

// ApplyRules applies rules in order. Text produced by a substitution is
// locked: later rules never match inside it.
func ApplyRules(text string, rules []Rule) string {
	return ApplyRulesProtected(text, rules, nil)
}

// ApplyRulesProtected is ApplyRules with the byte ranges in protected
// ([start, end) pairs) locked from the start, so no rule matches inside them.
func ApplyRulesProtected(text string, rules []Rule, protected [][2]int) string {
	locked := make([]span, 0, len(protected))
	for _, p := range protected {
		locked = append(locked, span{start: p[0], end: p[1]})
	}
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(rule.Term))
		if err != nil {
			continue
		}
		text, locked = applyRule(text, locked, re, rule.Replacement)
	}
	return text
}

// span is a byte range [start, end).
type span struct {
	start, end int
}

// applyRule replaces word-bounded matches of re outside the locked spans and
// returns the new text with the locked spans shifted to match it.
func applyRule(text string, locked []span, re *regexp.Regexp, replacement string) (string, []span) {
	var replaced []span
	pos := 0
	for pos < len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start == end {
			break
		}

		if l, ok := overlapping(locked, start, end); ok {
			if start >= l.start {
				pos = l.end
				continue
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}

		if !wordBounded(text, start, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}

		replaced = append(replaced, span{start: start, end: end})
		pos = end
	}

	if len(replaced) == 0 {
		return text, locked
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	added := make([]span, 0, len(replaced))
	for _, r := range replaced {
		b.WriteString(text[prev:r.start])
		newStart := b.Len()
		b.WriteString(replacement)
		added = append(added, span{start: newStart, end: b.Len()})
		prev = r.end
	}
	b.WriteString(text[prev:])

	// Shift previously locked spans by the growth of every replacement
	// that precedes them.
	delta := len(replacement)
	shifted := make([]span, 0, len(locked)+len(added))
	for _, l := range locked {
		shift := 0
		for _, r := range replaced {
			if r.end <= l.start {
				shift += delta - (r.end - r.start)
			}
		}
		shifted = append(shifted, span{start: l.start + shift, end: l.end + shift})
	}
	shifted = append(shifted, added...)
	sort.Slice(shifted, func(i, j int) bool { return shifted[i].start < shifted[j].start })

	return b.String(), shifted
}

func overlapping(locked []span, start, end int) (span, bool) {
	for _, l := range locked {
		if l.start < end && start < l.end {
			return l, true
		}
	}
	return span{}, false
}

// wordBounded reports whether [start, end) sits on word boundaries: the
// wordness of each edge rune of the match must differ from its neighbour
// outside the match. Text edges count as non-word.
func wordBounded(text string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(text[start:end])
	last, _ := utf8.DecodeLastRuneInString(text[start:end])

	before := false
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		before = isWordRune(r)
	}
	after := false
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		after = isWordRune(r)
	}

	return before != isWordRune(first) && isWordRune(last) != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
