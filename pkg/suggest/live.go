package suggest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rubiojr/falcony/pkg/backend"
)

// Live follows one user's input and keeps the backend completions for the
// latest value.
type Live struct {
	fetcher Fetcher
	max     int

	mu          sync.Mutex
	input       string
	generation  uint64
	suggestions []string
	// fresh is set once a reply for input has been applied.
	fresh bool
}

// NewLive returns a Live bound to f, keeping at most max entries.
func NewLive(f Fetcher, max int) *Live {
	return &Live{fetcher: f, max: ClampSize(max)}
}

// Update sets the live input to q and fetches completions for it, unless q
// is unchanged and its completions are already applied. A repeated input
// whose last fetch failed is fetched again.
//
// The returned list is the one now current. A backend failure returns the
// unchanged list together with the error; the caller should treat it as a
// soft failure. If another Update superseded this one while the request was
// in flight the reply is dropped and backend.ErrStaleResponse is returned.
func (l *Live) Update(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)

	l.mu.Lock()
	if q == l.input && (l.fresh || q == "") {
		current := l.snapshot()
		l.mu.Unlock()
		return current, nil
	}
	l.input = q
	l.fresh = false
	l.generation++
	gen := l.generation
	if q == "" {
		l.suggestions = nil
		l.mu.Unlock()
		return nil, nil
	}
	l.mu.Unlock()

	list, err := l.fetcher.Suggestions(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation || q != l.input {
		logger.Debugf("dropping stale suggestions for %q", q)
		return nil, backend.ErrStaleResponse
	}
	if err != nil {
		logger.Warnf("suggestion fetch for %q failed: %v", q, err)
		return l.snapshot(), fmt.Errorf("fetching suggestions: %w", err)
	}

	l.suggestions = dedupe(l.max, list)
	l.fresh = true
	return l.snapshot(), nil
}

// Input returns the latest input value.
func (l *Live) Input() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.input
}

// Suggestions returns the completions for the latest applied reply.
func (l *Live) Suggestions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Reset forgets the input and any in-flight request.
func (l *Live) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.input = ""
	l.fresh = false
	l.generation++
	l.suggestions = nil
}

// snapshot must be called with l.mu held.
func (l *Live) snapshot() []string {
	return append([]string(nil), l.suggestions...)
}
