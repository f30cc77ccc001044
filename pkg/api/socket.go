package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/realtime"
	"github.com/rubiojr/falcony/pkg/session"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleSuggestionSocket streams suggestions for a session's search box.
// Every "input" message updates the session query and triggers a suggestion
// update; replies for inputs that were superseded before their fetch
// finished are never sent.
func (s *Server) HandleSuggestionSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Lookup(r)
	if !ok {
		sess = s.sessions.New()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	var wmu sync.Mutex
	send := func(m SocketMessage) error {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}

	var replies replyGate

	if err := send(SocketMessage{Type: "init", Query: sess.Query.Query(), Suggestions: sess.Suggestions.Suggestions()}); err != nil {
		logger.Debugf("sending init: %v", err)
		return
	}

	if s.hub != nil {
		id, events := s.hub.Register()
		defer s.hub.Unregister(id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			forwardEvents(ctx, events, sess, send)
		}()
	}

	for {
		var in SocketMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("websocket closed: %v", err)
			}
			return
		}
		if in.Type != "input" {
			continue
		}

		sess.Query.SetQuery(in.Query)
		q := in.Query
		seq := replies.next()
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := sess.Suggestions.Update(ctx, q)
			if errors.Is(err, backend.ErrStaleResponse) {
				return
			}
			msg := SocketMessage{Type: "suggestions", Query: q, Suggestions: list}
			if err != nil {
				msg.Error = "suggestions unavailable"
			}
			sent, err := replies.deliver(seq, func() error {
				if !sess.Suggestions.IsCurrent(q) {
					return errSuperseded
				}
				return send(msg)
			})
			switch {
			case errors.Is(err, errSuperseded) || (err == nil && !sent):
				logger.Debugf("dropping suggestions for superseded input %q", q)
			case err != nil:
				logger.Debugf("sending suggestions: %v", err)
			}
		}()
	}
}

var errSuperseded = errors.New("superseded")

// replyGate orders replies to input messages on one connection. Once a
// newer input has been read, replies to older ones are dropped even if they
// finish later.
type replyGate struct {
	mu     sync.Mutex
	latest uint64
}

// next numbers a new input.
func (g *replyGate) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// deliver runs fn while holding the gate if seq is still the latest input.
// It reports whether fn ran and succeeded.
func (g *replyGate) deliver(seq uint64, fn func() error) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.latest {
		return false, nil
	}
	if err := fn(); err != nil {
		return false, err
	}
	return true, nil
}

func forwardEvents(ctx context.Context, events <-chan realtime.Event, sess *session.Session, send func(SocketMessage) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			msg := SocketMessage{Type: ev.Type}
			if ev.Type == realtime.HistoryChanged {
				msg.Suggestions = sess.Suggestions.Suggestions()
			}
			if err := send(msg); err != nil {
				return
			}
		}
	}
}
