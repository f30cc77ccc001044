// Package pagination decides which page controls a results view renders.
package pagination

import "fmt"

// maxFullRange is the largest page count rendered without ellipses.
const maxFullRange = 7

// Token is one renderable page control: a page number or an ellipsis.
type Token struct {
	Page     int
	Ellipsis bool
}

// String renders the token the way the terminal output shows it.
func (t Token) String() string {
	if t.Ellipsis {
		return "..."
	}
	return fmt.Sprintf("%d", t.Page)
}

// PageToken returns a page-number token.
func PageToken(page int) Token { return Token{Page: page} }

// EllipsisToken returns an ellipsis token.
func EllipsisToken() Token { return Token{Ellipsis: true} }

// Plan returns the page controls for the given current page and page count.
//
// Up to seven pages are all listed. Past that the first and last pages are
// always present, the current page is shown with one neighbour on each side
// and gaps are collapsed into ellipses.
func Plan(current, total int) []Token {
	if total <= 0 {
		return []Token{}
	}
	if total == 1 {
		return []Token{PageToken(1)}
	}

	current = clamp(current, 1, total)

	if total <= maxFullRange {
		tokens := make([]Token, 0, total)
		for p := 1; p <= total; p++ {
			tokens = append(tokens, PageToken(p))
		}
		return tokens
	}

	tokens := []Token{PageToken(1)}
	if current > 3 {
		tokens = append(tokens, EllipsisToken())
	}

	start := max(2, current-1)
	end := min(total-1, current+1)
	for p := start; p <= end; p++ {
		tokens = append(tokens, PageToken(p))
	}

	if current < total-2 {
		tokens = append(tokens, EllipsisToken())
	}
	return append(tokens, PageToken(total))
}

// TotalPages returns ceil(totalCount/pageSize), or 0 when there is nothing to
// page through.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// View is everything a pagination control needs to render.
type View struct {
	Current int
	Total   int
	Tokens  []Token
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

// NewView builds the view for current out of total pages.
func NewView(current, total int) View {
	v := View{
		Current: current,
		Total:   total,
		Tokens:  Plan(current, total),
	}
	if total > 0 {
		v.Current = clamp(current, 1, total)
		v.HasPrev = v.Current > 1
		v.HasNext = v.Current < total
		v.Prev = v.Current - 1
		v.Next = v.Current + 1
	}
	return v
}

// Caption is the summary line shown above the controls.
func (v View) Caption() string {
	return fmt.Sprintf("Page %d of about %d pages", v.Current, v.Total)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
