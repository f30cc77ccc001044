// Package session holds the per-browser state shared between the search box
// and the results view.
package session

import "sync"

// QueryState is the current query text of one session. All writes go through
// SetQuery or Reset; readers call Query each time they render instead of
// keeping a copy.
type QueryState struct {
	mu      sync.RWMutex
	query   string
	version uint64
}

// Query returns the current text.
func (q *QueryState) Query() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.query
}

// SetQuery replaces the current text. It reports whether the value changed.
func (q *QueryState) SetQuery(s string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if s == q.query {
		return false
	}
	q.query = s
	q.version++
	return true
}

// Reset clears the text, as on navigating to the home view.
func (q *QueryState) Reset() {
	q.SetQuery("")
}

// Version increases on every change.
func (q *QueryState) Version() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.version
}
