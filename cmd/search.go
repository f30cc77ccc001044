package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/results"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the backend and print a page of results",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Results page",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (defaults to page_size from the config)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the query in the search history",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			return searchBackend(ctx, c.String("config"), query, c.Int("page"), c.Int("limit"), !c.Bool("no-history"))
		},
	}
}

// searchBackend runs one fetch and prints it
func searchBackend(ctx context.Context, configPath, query string, page, limit int, record bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if limit <= 0 {
		limit = a.cfg.PageSize
	}

	if record {
		if err := a.history.Record(query); err != nil {
			fmt.Printf("Warning: failed to record query: %v\n", err)
		}
	}

	ctrl := results.NewController(a.backend)
	rp, err := ctrl.Fetch(ctx, query, page, limit)
	if err != nil {
		return fmt.Errorf("couldn't load results: %s", formatFetchError(err))
	}

	fmt.Print(formatResultPage(ctrl.State(), rp, query))
	return nil
}

// formatResultPage renders a settled fetch for the terminal
func formatResultPage(state results.State, rp *results.ResultPage, query string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Results for " + query))
	b.WriteString("\n")

	if state.IsEmpty() {
		b.WriteString(noDataStyle.Render("No results found."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(summaryStyle.Render(rp.Summary()))
	b.WriteString("\n\n")
	for i, r := range rp.Items {
		b.WriteString(formatResult((state.Page-1)*state.PageSize+i+1, r, query))
		b.WriteString("\n")
	}
	b.WriteString(formatPagination(state.Pagination()))
	b.WriteString("\n")
	return b.String()
}

// formatFetchError converts fetch errors into user-facing messages
func formatFetchError(err error) string {
	var se *backend.StatusError
	var ne net.Error
	switch {
	case errors.Is(err, backend.ErrEmptyQuery):
		return "Please enter a search query."
	case errors.As(err, &se) && se.StatusCode >= 500:
		return "The search service is having trouble right now. Please try again in a moment."
	case errors.As(err, &se):
		return fmt.Sprintf("The search service rejected the request (HTTP %d).", se.StatusCode)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "The search service took too long to respond. Please try again."
	case errors.Is(err, backend.ErrNetwork):
		return "The search service could not be reached. Check your connection and try again."
	}
	return "Something went wrong while searching. Please try again."
}
