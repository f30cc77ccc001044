package types

import (
	"github.com/rubiojr/falcony/pkg/highlight"
	"github.com/rubiojr/falcony/pkg/pagination"
	"github.com/rubiojr/falcony/pkg/settings"
)

// PageData represents data passed to templates
type PageData struct {
	Title       string
	Query       string
	Page        int
	Settings    settings.Settings
	Languages   []settings.Language
	Suggestions []string
	Results     []WebResult
	Summary     string // "About N results (S seconds)"
	Pagination  pagination.View
	Superseded  bool // a newer search in the same session replaced this one
	Empty       bool
	Error       string
	Success     string
	Version     string // Application version (for footer display)
}

// WebResult represents a search result for web display
type WebResult struct {
	Title      []highlight.Fragment
	URL        string
	DisplayURL string
	Snippet    []highlight.Fragment
	Images     []string
}
