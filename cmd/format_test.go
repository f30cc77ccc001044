package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/highlight"
	"github.com/rubiojr/falcony/pkg/pagination"
	"github.com/rubiojr/falcony/pkg/results"
)

func TestFormatFetchError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&backend.StatusError{StatusCode: 503, Endpoint: "/search"}, "having trouble"},
		{&backend.StatusError{StatusCode: 404, Endpoint: "/search"}, "HTTP 404"},
		{fmt.Errorf("%w: %w", backend.ErrNetwork, context.DeadlineExceeded), "took too long"},
		{fmt.Errorf("%w: connection refused", backend.ErrNetwork), "could not be reached"},
		{backend.ErrEmptyQuery, "enter a search query"},
		{errors.New("odd"), "Something went wrong"},
	}
	for _, c := range cases {
		if got := formatFetchError(c.err); !strings.Contains(got, c.want) {
			t.Errorf("formatFetchError(%v) = %q, want it to mention %q", c.err, got, c.want)
		}
	}
}

func TestRenderFragmentsKeepsText(t *testing.T) {
	frags := highlight.Highlight("The Quick Fox", "quick")
	if got := renderFragments(frags); !strings.Contains(got, "Quick") || !strings.HasPrefix(got, "The ") {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestFormatResultPage(t *testing.T) {
	rp := &results.ResultPage{
		Items:          []backend.Result{{Title: "Falcon", URL: "https://example.com/falcon", Snippet: "A falcon"}},
		TotalCount:     23,
		PageSize:       10,
		ElapsedSeconds: 0.25,
	}
	state := results.State{Status: results.Success, Query: "falcon", Page: 2, PageSize: 10, Result: rp, TotalPages: 3}

	out := formatResultPage(state, rp, "falcon")
	for _, want := range []string{"About 23 results (0.25 seconds)", "11. ", "https://example.com/falcon", "Page 2 of about 3 pages"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	empty := results.State{Status: results.Success, Query: "x", Page: 1, PageSize: 10, Result: &results.ResultPage{PageSize: 10}}
	if out := formatResultPage(empty, empty.Result, "x"); !strings.Contains(out, "No results found.") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestFormatPagination(t *testing.T) {
	out := formatPagination(pagination.NewView(5, 20))
	for _, want := range []string{"1", "...", "4", "5", "6", "20", "<", ">"} {
		if !strings.Contains(out, want) {
			t.Errorf("pagination missing %q: %s", want, out)
		}
	}
	if formatPagination(pagination.NewView(1, 0)) != "" {
		t.Errorf("expected nothing for zero pages")
	}
}
