// Package backend talks to the remote search API.
//
// Two endpoints are used:
//
//	GET /search?query=<q>&page=<n>&limit=<size>  -> {"total": N, "docs": [...]}
//	GET /suggestions?query=<q>                    -> ["...", "..."]
//
// Ranking and indexing live entirely on the other side; this package only
// shapes requests and normalizes replies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/falcony/pkg/log"
)

var logger = log.ForService("backend")

// DefaultTimeout bounds a single backend request when none is configured.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a reply is read.
const maxBodySize = 8 << 20

// Result is one search hit ready for display.
type Result struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Images  []string `json:"images,omitempty"`
}

// Page is one page of search hits plus the figures needed to paginate.
type Page struct {
	Query      string
	Page       int
	PageSize   int
	TotalCount int
	Items      []Result
}

// document is the wire form of a hit. Older backends send the snippet as
// "description" and may embed markup in it.
type document struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Snippet     string   `json:"snippet"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type searchResponse struct {
	Total int        `json:"total"`
	Docs  []document `json:"docs"`
}

// Client is an HTTP client for the search backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient returns a client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Search fetches one page of results for query.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return nil, fmt.Errorf("invalid page size %d", limit)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	resp, err := decodeSearch(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", ErrNetwork, err)
	}

	items := make([]Result, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		items = append(items, toResult(doc))
	}

	total := resp.Total
	if total < 0 {
		total = 0
	}

	logger.Debugf("search %q page=%d limit=%d total=%d items=%d", query, page, limit, total, len(items))

	return &Page{
		Query:      query,
		Page:       page,
		PageSize:   limit,
		TotalCount: total,
		Items:      items,
	}, nil
}

// Suggestions fetches completions for a partial query.
func (c *Client) Suggestions(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query)

	body, err := c.get(ctx, "/suggestions", params)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding suggestions: %v", ErrNetwork, err)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, maxBodySize))
		return nil, &StatusError{StatusCode: res.StatusCode, Endpoint: path}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetwork, path, err)
	}
	return body, nil
}

// decodeSearch accepts the documented object form and a bare array of
// documents, in which case the total is the array length.
func decodeSearch(body []byte) (*searchResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return &searchResponse{Total: len(docs), Docs: docs}, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func toResult(doc document) Result {
	snippet := doc.Snippet
	if snippet == "" {
		snippet = doc.Description
	}

	images := make([]string, 0, len(doc.Images))
	for _, img := range doc.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return Result{
		Title:   PlainText(doc.Title),
		URL:     strings.TrimSpace(doc.URL),
		Snippet: PlainText(snippet),
		Images:  images,
	}
}

// PlainText strips markup from s and collapses whitespace.
func PlainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
