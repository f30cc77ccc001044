package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/rubiojr/falcony/pkg/log"
	"github.com/rubiojr/falcony/pkg/realtime"
	"github.com/rubiojr/falcony/pkg/session"
)

var logger = log.ForService("api")

const defaultPageSize = 10

type Server struct {
	sessions *session.Manager
	hub      *realtime.Hub
	backend  func() string
	pageSize atomic.Int64
}

// NewServer serves the JSON API and the suggestion socket on top of the
// collaborators held by sessions. backendURL reports the current backend for
// health checks and may be nil.
func NewServer(sessions *session.Manager, hub *realtime.Hub, backendURL func() string) *Server {
	s := &Server{
		sessions: sessions,
		hub:      hub,
		backend:  backendURL,
	}
	s.pageSize.Store(defaultPageSize)
	return s
}

// SetPageSize changes the default limit used when a request carries none.
func (s *Server) SetPageSize(n int) {
	if n > 0 {
		s.pageSize.Store(int64(n))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
