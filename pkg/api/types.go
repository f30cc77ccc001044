package api

import (
	"time"

	"github.com/rubiojr/falcony/pkg/highlight"
)

type ResultResponse struct {
	Title      string               `json:"title"`
	URL        string               `json:"url"`
	Snippet    string               `json:"snippet"`
	Images     []string             `json:"images,omitempty"`
	Highlights []highlight.Fragment `json:"highlights"`
}

type SearchResponse struct {
	Query      string           `json:"query"`
	Results    []ResultResponse `json:"results"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Pages      []string         `json:"pages"`
	HasMore    bool             `json:"has_more"`
	Elapsed    float64          `json:"elapsed_seconds"`
}

type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
	Partial     bool     `json:"partial,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Backend   string    `json:"backend,omitempty"`
	Sessions  int       `json:"sessions"`
}

// SocketMessage is exchanged over the suggestion websocket. Clients send
// {"type":"input","query":"..."}; the server answers with "init",
// "suggestions" and event messages.
type SocketMessage struct {
	Type        string   `json:"type"`
	Query       string   `json:"query,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Error       string   `json:"error,omitempty"`
}
