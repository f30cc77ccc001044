// Package results owns the fetch lifecycle of a paginated result set.
//
// A Controller moves through Idle -> Loading -> Success | Failed for every
// fetch. Each fetch gets a new generation number; when it settles, its
// outcome is applied only if no newer fetch was issued in the meantime. The
// visible state therefore always corresponds to the last (query, page) pair
// requested, never to a slower earlier one.
package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/log"
	"github.com/rubiojr/falcony/pkg/pagination"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var logger = log.ForService("results")

// Status is the lifecycle phase of the latest fetch.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Fetcher retrieves one page of results.
type Fetcher interface {
	Search(ctx context.Context, query string, page, limit int) (*backend.Page, error)
}

// ResultPage is a settled page of results.
type ResultPage struct {
	Items          []backend.Result
	TotalCount     int
	PageSize       int
	ElapsedSeconds float64
}

// TotalPages is ceil(TotalCount / PageSize), 0 when there are no results.
func (p *ResultPage) TotalPages() int {
	if p == nil {
		return 0
	}
	return pagination.TotalPages(p.TotalCount, p.PageSize)
}

var printer = message.NewPrinter(language.English)

// Summary renders the results header, e.g. "About 1,230 results (0.42 seconds)".
func (p *ResultPage) Summary() string {
	if p == nil {
		return ""
	}
	noun := "results"
	if p.TotalCount == 1 {
		noun = "result"
	}
	return printer.Sprintf("About %d %s (%.2f seconds)", p.TotalCount, noun, p.ElapsedSeconds)
}

// State is a snapshot of the controller.
type State struct {
	Status     Status
	Query      string
	Page       int
	PageSize   int
	Result     *ResultPage
	TotalPages int
	Elapsed    time.Duration
	Err        error
}

// IsEmpty reports a successful fetch that found nothing. It is distinct from
// both Loading and Failed.
func (s State) IsEmpty() bool {
	return s.Status == Success && (s.Result == nil || s.Result.TotalCount == 0)
}

// Pagination returns the page controls for the state.
func (s State) Pagination() pagination.View {
	return pagination.NewView(s.Page, s.TotalPages)
}

// Controller runs fetches against a Fetcher.
type Controller struct {
	fetcher Fetcher
	now     func() time.Time

	mu         sync.Mutex
	generation uint64
	started    time.Time
	state      State
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns an idle controller.
func NewController(f Fetcher, opts ...Option) *Controller {
	c := &Controller{fetcher: f, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads page of query and blocks until the request settles.
//
// A blank query returns backend.ErrEmptyQuery without touching the state. If
// a newer Fetch was issued before this one settled, the outcome is dropped
// and backend.ErrStaleResponse is returned. Otherwise the returned page and
// error are the ones now visible through State.
func (c *Controller) Fetch(ctx context.Context, query string, page, pageSize int) (*ResultPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, backend.ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	gen := c.begin(query, page, pageSize)

	resp, err := c.fetcher.Search(ctx, query, page, pageSize)

	return c.settle(gen, resp, err)
}

// begin enters Loading for a new generation. A result for another query is
// discarded right away; one for the same query stays until the new page
// settles.
func (c *Controller) begin(query string, page, pageSize int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Query != query {
		c.state.Result = nil
		c.state.TotalPages = 0
	}

	c.generation++
	c.started = c.now()
	c.state.Status = Loading
	c.state.Query = query
	c.state.Page = page
	c.state.PageSize = pageSize
	c.state.Elapsed = 0
	c.state.Err = nil

	logger.Debugf("fetch #%d %q page=%d size=%d", c.generation, query, page, pageSize)
	return c.generation
}

func (c *Controller) settle(gen uint64, resp *backend.Page, err error) (*ResultPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		logger.Debugf("discarding stale fetch #%d (current #%d)", gen, c.generation)
		return nil, backend.ErrStaleResponse
	}

	elapsed := c.now().Sub(c.started)
	if elapsed < 0 {
		elapsed = 0
	}
	c.state.Elapsed = elapsed

	if err != nil {
		c.state.Status = Failed
		c.state.Err = err
		c.state.Result = nil
		c.state.TotalPages = 0
		if !errors.Is(err, context.Canceled) {
			logger.Warnf("fetching %q page %d: %v", c.state.Query, c.state.Page, err)
		}
		return nil, err
	}

	result := &ResultPage{
		Items:          resp.Items,
		TotalCount:     resp.TotalCount,
		PageSize:       c.state.PageSize,
		ElapsedSeconds: elapsed.Seconds(),
	}
	c.state.Status = Success
	c.state.Result = result
	c.state.TotalPages = result.TotalPages()
	return result, nil
}

// State returns a snapshot of the latest fetch.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset returns to Idle and invalidates any in-flight fetch.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = State{}
}
