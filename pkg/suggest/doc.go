// Package suggest produces the autocomplete list shown under the search box.
//
// Three pieces cooperate:
//
//   - History is the persisted recency list of submitted queries. It never
//     holds duplicates; recording an existing query moves it to the front.
//   - Live tracks what the user is typing and asks the backend for
//     completions whenever the input changes. Each change bumps a generation
//     counter; a reply is applied only if its generation is still current,
//     so a slow reply for an old prefix can never overwrite a newer one.
//   - CachedFetcher sits in front of the backend, shared by every session.
//     It keeps recent replies in an expiring LRU and collapses concurrent
//     identical requests into one.
//
// Store merges History and Live into the list a view renders. A failed live
// fetch is a soft error: it is logged, the previous list stays in place and
// the input keeps working.
package suggest

import "strings"

// Size limits for suggestion lists.
const (
	MinSize     = 5
	MaxSize     = 10
	DefaultSize = MaxSize
)

// ClampSize forces n into [MinSize, MaxSize]; zero or negative selects
// DefaultSize.
func ClampSize(n int) int {
	switch {
	case n <= 0:
		return DefaultSize
	case n < MinSize:
		return MinSize
	case n > MaxSize:
		return MaxSize
	}
	return n
}

// dedupe returns the distinct, non-blank entries of lists in order, capped at
// max.
func dedupe(max int, lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, max)
	for _, list := range lists {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
			if len(out) == max {
				return out
			}
		}
	}
	return out
}
