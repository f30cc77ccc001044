package suggest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rubiojr/falcony/pkg/storage"
)

// HistoryKey is the storage key holding the recency list.
const HistoryKey = "suggestions"

// History is the bounded, persisted list of past queries, most recent first.
type History struct {
	mu    sync.Mutex
	store storage.Store
	max   int
	items []string
}

// NewHistory loads the list saved in store. Entries past the size limit are
// dropped on load.
func NewHistory(store storage.Store, max int) (*History, error) {
	h := &History{store: store, max: ClampSize(max)}

	var saved []string
	if _, err := storage.LoadJSON(store, HistoryKey, &saved); err != nil {
		return nil, fmt.Errorf("loading suggestion history: %w", err)
	}
	h.items = dedupe(h.max, saved)
	return h, nil
}

// Record moves q to the front of the list and persists the result. Blank
// queries are ignored.
func (h *History) Record(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]string, 0, h.max)
	next = append(next, q)
	for _, item := range h.items {
		if item == q {
			continue
		}
		if len(next) == h.max {
			break
		}
		next = append(next, item)
	}

	if err := storage.SaveJSON(h.store, HistoryKey, next); err != nil {
		return fmt.Errorf("saving suggestion history: %w", err)
	}
	h.items = next
	return nil
}

// List returns a copy of the list.
func (h *History) List() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.items...)
}

// Matching returns the entries starting with prefix, ignoring case.
func (h *History) Matching(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	h.mu.Lock()
	defer h.mu.Unlock()

	var out []string
	for _, item := range h.items {
		if strings.HasPrefix(strings.ToLower(item), prefix) {
			out = append(out, item)
		}
	}
	return out
}

// Clear empties the list and removes it from storage.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(HistoryKey); err != nil {
		return fmt.Errorf("clearing suggestion history: %w", err)
	}
	h.items = nil
	return nil
}

// Size returns the configured capacity.
func (h *History) Size() int {
	return h.max
}
