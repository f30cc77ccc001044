package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/highlight"
	"github.com/rubiojr/falcony/pkg/results"
	"github.com/rubiojr/falcony/pkg/suggest"
	"github.com/rubiojr/falcony/pkg/version"
)

const maxLimit = 100

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := strings.TrimSpace(params.Get("query"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'query' is required")
		return
	}

	page, err := intParam(params.Get("page"), 1)
	if err != nil || page < 1 {
		s.writeError(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return
	}
	limit, err := intParam(params.Get("limit"), int(s.pageSize.Load()))
	if err != nil || limit < 1 {
		s.writeError(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	ctrl := results.NewController(s.sessions.Dependencies().Search)
	rp, err := ctrl.Fetch(r.Context(), query, page, limit)
	if err != nil {
		var se *backend.StatusError
		status := http.StatusBadGateway
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, "Search failed", err.Error())
		return
	}

	state := ctrl.State()
	view := state.Pagination()
	pages := make([]string, len(view.Tokens))
	for i, t := range view.Tokens {
		pages[i] = t.String()
	}

	items := make([]ResultResponse, len(rp.Items))
	for i, item := range rp.Items {
		items[i] = ResultResponse{
			Title:      item.Title,
			URL:        item.URL,
			Snippet:    item.Snippet,
			Images:     item.Images,
			Highlights: highlight.Highlight(item.Snippet, query),
		}
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{
		Query:      query,
		Results:    items,
		TotalCount: rp.TotalCount,
		Page:       state.Page,
		Limit:      limit,
		TotalPages: state.TotalPages,
		Pages:      pages,
		HasMore:    view.HasNext,
		Elapsed:    rp.ElapsedSeconds,
	})
}

func (s *Server) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	deps := s.sessions.Dependencies()

	var live *suggest.Live
	if deps.Suggest != nil {
		live = suggest.NewLive(deps.Suggest, deps.History.Size())
	}
	store := suggest.NewStore(deps.History, live)

	list, err := store.Update(r.Context(), query)
	if list == nil {
		list = []string{}
	}
	s.writeJSON(w, http.StatusOK, SuggestionsResponse{
		Query:       query,
		Suggestions: list,
		Count:       len(list),
		Partial:     err != nil,
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Sessions:  s.sessions.Len(),
	}
	if s.backend != nil {
		health.Backend = s.backend()
	}

	s.writeJSON(w, http.StatusOK, health)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", raw, err)
	}
	return n, nil
}
