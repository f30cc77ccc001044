package suggest

import (
	"context"
	"errors"
	"strings"

	"github.com/rubiojr/falcony/pkg/backend"
)

// Store is the suggestion source for one search box.
type Store struct {
	history *History
	live    *Live
	max     int
}

// NewStore combines a shared history with a per-session live source. live
// may be nil, in which case only history entries are offered.
func NewStore(history *History, live *Live) *Store {
	return &Store{history: history, live: live, max: history.Size()}
}

// RecordQuery adds a submitted query to the history.
func (s *Store) RecordQuery(q string) error {
	return s.history.Record(q)
}

// Update feeds the current input and returns the list to render. Errors are
// soft: the list returned alongside them is still valid to show. A stale
// reply yields backend.ErrStaleResponse and no list.
func (s *Store) Update(ctx context.Context, q string) ([]string, error) {
	if s.live == nil {
		return s.merge(q, nil), nil
	}

	live, err := s.live.Update(ctx, q)
	if errors.Is(err, backend.ErrStaleResponse) {
		return nil, err
	}
	return s.merge(q, live), err
}

// IsCurrent reports whether q is still the latest input.
func (s *Store) IsCurrent(q string) bool {
	if s.live == nil {
		return true
	}
	return s.live.Input() == strings.TrimSpace(q)
}

// Suggestions returns the list for the latest input.
func (s *Store) Suggestions() []string {
	if s.live == nil {
		return s.history.List()
	}
	return s.merge(s.live.Input(), s.live.Suggestions())
}

// Reset clears the live input, leaving the history alone.
func (s *Store) Reset() {
	if s.live != nil {
		s.live.Reset()
	}
}

// merge puts history entries matching the input ahead of live completions.
// With no input the whole history is offered.
func (s *Store) merge(q string, live []string) []string {
	if strings.TrimSpace(q) == "" {
		return s.history.List()
	}
	return dedupe(s.max, s.history.Matching(q), live)
}
