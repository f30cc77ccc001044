// Package realtime fans out UI events to every connected suggestion socket.
//
// Listeners get a buffered channel each. Delivery is best effort: when a
// listener's buffer is full the event is dropped for that listener only, so a
// slow browser never blocks the handler that published the event.
package realtime

import (
	"sync"
	"time"
)

// Event kinds.
const (
	// HistoryChanged is published after a query is recorded or the history
	// is cleared.
	HistoryChanged = "history"
	// SettingsChanged is published after a settings update.
	SettingsChanged = "settings"
	// ConfigReloaded is published after the configuration file is reloaded.
	ConfigReloaded = "config"
)

// Event is the envelope sent to listeners.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// NewEvent stamps an event of the given kind with the current time.
func NewEvent(kind string) Event {
	return Event{Type: kind, At: time.Now().UTC()}
}

// Hub is an in-memory fan-out dispatcher. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with the given per-listener buffer size. A size of
// zero or less means 16.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener that has room for it.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Publish broadcasts a freshly stamped event of the given kind.
func (h *Hub) Publish(kind string) {
	h.Broadcast(NewEvent(kind))
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
