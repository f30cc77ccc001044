package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/suggestions", s.HandleSuggestions)
	mux.HandleFunc("GET /ws/suggestions", s.HandleSuggestionSocket)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
