package pagination

import (
	"reflect"
	"strings"
	"testing"
)

func render(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestPlan(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, "1"},
		{1, 5, "1 2 3 4 5"},
		{3, 3, "1 2 3"},
		{7, 7, "1 2 3 4 5 6 7"},
		{5, 20, "1 ... 4 5 6 ... 20"},
		{1, 20, "1 2 ... 20"},
		{2, 20, "1 2 3 ... 20"},
		{3, 20, "1 2 3 4 ... 20"},
		{4, 20, "1 ... 3 4 5 ... 20"},
		{17, 20, "1 ... 16 17 18 ... 20"},
		{18, 20, "1 ... 17 18 19 20"},
		{20, 20, "1 ... 19 20"},
		{1, 8, "1 2 ... 8"},
		{99, 8, "1 ... 7 8"},
		{0, 8, "1 2 ... 8"},
	}

	for _, tt := range tests {
		got := render(Plan(tt.current, tt.total))
		if got != tt.want {
			t.Errorf("Plan(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestPlanEmptyIsNotNil(t *testing.T) {
	got := Plan(1, 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestPlanDeterministic(t *testing.T) {
	first := Plan(9, 40)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(first, Plan(9, 40)) {
			t.Fatalf("Plan is not deterministic")
		}
	}
}

func TestPlanEndpointsAlwaysPresent(t *testing.T) {
	for total := 2; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			tokens := Plan(current, total)
			if tokens[0] != PageToken(1) {
				t.Fatalf("Plan(%d, %d) does not start with page 1", current, total)
			}
			if tokens[len(tokens)-1] != PageToken(total) {
				t.Fatalf("Plan(%d, %d) does not end with last page", current, total)
			}
			found := false
			prev := 0
			for _, tok := range tokens {
				if tok.Ellipsis {
					continue
				}
				if tok.Page <= prev {
					t.Fatalf("Plan(%d, %d) pages not increasing: %s", current, total, render(tokens))
				}
				prev = tok.Page
				if tok.Page == current {
					found = true
				}
			}
			if !found {
				t.Fatalf("Plan(%d, %d) does not contain the current page", current, total)
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestView(t *testing.T) {
	v := NewView(1, 3)
	if v.HasPrev || !v.HasNext || v.Next != 2 {
		t.Fatalf("unexpected view for first page: %+v", v)
	}
	if v.Caption() != "Page 1 of about 3 pages" {
		t.Fatalf("unexpected caption %q", v.Caption())
	}

	v = NewView(3, 3)
	if !v.HasPrev || v.HasNext || v.Prev != 2 {
		t.Fatalf("unexpected view for last page: %+v", v)
	}

	v = NewView(1, 0)
	if v.HasPrev || v.HasNext || len(v.Tokens) != 0 {
		t.Fatalf("unexpected view for no pages: %+v", v)
	}
}
