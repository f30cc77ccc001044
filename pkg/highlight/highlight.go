// Package highlight marks occurrences of query words inside a piece of text.
//
// The query is reduced to letters and spaces, split into words and compiled
// into one case-insensitive alternation. Only whole-word occurrences are
// marked. The returned fragments always concatenate back to the input text.
package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fragment is a contiguous piece of the highlighted text.
type Fragment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight splits text into matching and non-matching fragments for query.
// An empty query (or one without any letters) yields the whole text as a
// single non-matching fragment.
func Highlight(text, query string) []Fragment {
	re := compile(Tokenize(query))
	if re == nil {
		return []Fragment{{Text: text}}
	}

	var fragments []Fragment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start == end || !isBoundary(text, start, end) {
			continue
		}
		if start > last {
			fragments = append(fragments, Fragment{Text: text[last:start]})
		}
		fragments = append(fragments, Fragment{Text: text[start:end], Match: true})
		last = end
	}

	if last < len(text) || len(fragments) == 0 {
		fragments = append(fragments, Fragment{Text: text[last:]})
	}
	return fragments
}

// Tokenize strips everything but letters and whitespace from query and
// returns the remaining distinct words, lowercased, in first-seen order.
func Tokenize(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, query)

	seen := make(map[string]struct{})
	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		word = strings.ToLower(word)
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		tokens = append(tokens, word)
	}
	return tokens
}

// HasMatch reports whether any fragment is a match.
func HasMatch(fragments []Fragment) bool {
	for _, f := range fragments {
		if f.Match {
			return true
		}
	}
	return false
}

// compile builds the alternation for tokens. Longer tokens come first so a
// word is never cut short by one of its prefixes.
func compile(tokens []string) *regexp.Regexp {
	if len(tokens) == 0 {
		return nil
	}
	ordered := make([]string, len(tokens))
	copy(ordered, tokens)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})
	for i, t := range ordered {
		ordered[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(ordered, "|") + `)`)
}

// isBoundary reports whether text[start:end] is delimited by non-word runes.
// RE2's \b only understands ASCII, so the check is done by hand.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
