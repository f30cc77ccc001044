package components

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/rubiojr/falcony/cmd/web/components/types"
	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/highlight"
	"github.com/rubiojr/falcony/pkg/settings"
)

// maxImages bounds the thumbnails shown per result.
const maxImages = 4

// NewWebResult prepares a backend result for rendering, highlighting the
// query words in its title and snippet.
func NewWebResult(r backend.Result, query string) types.WebResult {
	images := r.Images
	if len(images) > maxImages {
		images = images[:maxImages]
	}
	return types.WebResult{
		Title:      highlight.Highlight(r.Title, query),
		URL:        r.URL,
		DisplayURL: DisplayURL(r.URL),
		Snippet:    highlight.Highlight(r.Snippet, query),
		Images:     images,
	}
}

// DisplayURL shortens a URL to host and path for the green line under a
// result title. Unparseable input is returned unchanged.
func DisplayURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	if path == "" {
		return host
	}
	return host + " › " + strings.ReplaceAll(strings.TrimPrefix(path, "/"), "/", " › ")
}

// SearchURL links to a page of results for query.
func SearchURL(query string, page int) string {
	v := url.Values{}
	v.Set("query", query)
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	return "/search?" + v.Encode()
}

// safeHref only lets http(s) and relative links through.
func safeHref(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch u.Scheme {
	case "http", "https", "":
		return raw
	}
	return "#"
}

// themeStyle exposes the theme color to the stylesheet. The color is
// validated as #rrggbb by the settings holder.
func themeStyle(s settings.Settings) templ.SafeCSS {
	return templ.SafeCSS("--theme:" + s.ThemeColor + ";")
}

func pageTitle(data types.PageData) string {
	if data.Title == "" {
		return "Falcony"
	}
	return data.Title
}
