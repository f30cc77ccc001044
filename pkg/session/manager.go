package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rubiojr/falcony/pkg/log"
	"github.com/rubiojr/falcony/pkg/results"
	"github.com/rubiojr/falcony/pkg/suggest"
)

var logger = log.ForService("session")

// CookieName carries the session id.
const CookieName = "falcony_session"

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// maxSessions bounds the session table.
const maxSessions = 4096

// Session is the state of one browser.
type Session struct {
	ID          string
	Query       *QueryState
	Results     *results.Controller
	Suggestions *suggest.Store
}

// GoHome resets the query and the live suggestion input.
func (s *Session) GoHome() {
	s.Query.Reset()
	s.Suggestions.Reset()
}

// Dependencies are the shared collaborators every new session is wired to.
type Dependencies struct {
	Search  results.Fetcher
	Suggest suggest.Fetcher
	History *suggest.History
}

// Manager creates sessions and expires idle ones.
type Manager struct {
	deps     Dependencies
	sessions *expirable.LRU[string, *Session]
	ttl      time.Duration
}

// NewManager returns a manager whose sessions expire after ttl of inactivity.
func NewManager(deps Dependencies, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		deps:     deps,
		ttl:      ttl,
		sessions: expirable.NewLRU[string, *Session](maxSessions, nil, ttl),
	}
}

// New creates and registers a session with a fresh id.
func (m *Manager) New() *Session {
	s := m.build(uuid.NewString())
	m.sessions.Add(s.ID, s)
	logger.Debugf("new session %s", s.ID)
	return s
}

// Get returns the session for id and refreshes its expiry.
func (m *Manager) Get(id string) (*Session, bool) {
	s, ok := m.sessions.Get(id)
	if ok {
		m.sessions.Add(id, s)
	}
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Dependencies returns the collaborators sessions are wired to.
func (m *Manager) Dependencies() Dependencies {
	return m.deps
}

// Lookup returns the session named by the request cookie, if it is live.
func (m *Manager) Lookup(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return nil, false
	}
	return m.Get(c.Value)
}

// FromRequest returns the session named by the request cookie, creating one
// (and setting the cookie) when it is missing or expired.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if s, ok := m.Lookup(r); ok {
		return s
	}

	s := m.New()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return s
}

func (m *Manager) build(id string) *Session {
	var live *suggest.Live
	if m.deps.Suggest != nil {
		live = suggest.NewLive(m.deps.Suggest, m.deps.History.Size())
	}
	return &Session{
		ID:          id,
		Query:       &QueryState{},
		Results:     results.NewController(m.deps.Search),
		Suggestions: suggest.NewStore(m.deps.History, live),
	}
}
