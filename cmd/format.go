package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/highlight"
	"github.com/rubiojr/falcony/pkg/pagination"
	"github.com/rubiojr/falcony/pkg/settings"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	resultTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("75"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	matchStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true).
				Padding(0, 1)

	pageStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// renderFragments joins highlighted fragments, styling the matches.
func renderFragments(frags []highlight.Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		if f.Match {
			b.WriteString(matchStyle.Render(f.Text))
		} else {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// formatResult renders one result as title, URL and highlighted snippet.
func formatResult(n int, r backend.Result, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", n, resultTitleStyle.Render(renderFragments(highlight.Highlight(r.Title, query))))
	fmt.Fprintf(&b, "   %s\n", urlStyle.Render(r.URL))
	if r.Snippet != "" {
		fmt.Fprintf(&b, "   %s\n", renderFragments(highlight.Highlight(r.Snippet, query)))
	}
	if len(r.Images) > 0 {
		fmt.Fprintf(&b, "   %s\n", metaStyle.Render(fmt.Sprintf("%d image(s)", len(r.Images))))
	}
	return b.String()
}

// formatPagination renders the page controls on one line.
func formatPagination(v pagination.View) string {
	if len(v.Tokens) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Tokens)+2)
	if v.HasPrev {
		parts = append(parts, pageStyle.Render("<"))
	}
	for _, t := range v.Tokens {
		if !t.Ellipsis && t.Page == v.Current {
			parts = append(parts, currentPageStyle.Render(t.String()))
			continue
		}
		parts = append(parts, pageStyle.Render(t.String()))
	}
	if v.HasNext {
		parts = append(parts, pageStyle.Render(">"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n" + metaStyle.Render(v.Caption())
}

// formatSuggestions renders a numbered suggestion list with the input
// highlighted.
func formatSuggestions(list []string, query string) string {
	if len(list) == 0 {
		return noDataStyle.Render("No suggestions.") + "\n"
	}
	var b strings.Builder
	for i, s := range list {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, renderFragments(highlight.Highlight(s, query)))
	}
	return b.String()
}

// formatSettings renders settings as aligned key/value rows.
func formatSettings(s settings.Settings) string {
	rows := [][2]string{
		{settings.KeyThemeColor, s.ThemeColor},
		{settings.KeyDarkMode, fmt.Sprint(s.DarkMode)},
		{settings.KeySafeSearch, fmt.Sprint(s.SafeSearch)},
		{settings.KeyLanguage, fmt.Sprintf("%s (%s, %s)", s.Language, s.Lang().Native, s.Dir())},
	}
	keyStyle := lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("245"))
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(keyStyle.Render(r[0]) + " " + r[1] + "\n")
	}
	return b.String()
}
