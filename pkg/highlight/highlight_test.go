package highlight

import (
	"strings"
	"testing"
)

func join(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

func matches(fragments []Fragment) []string {
	var out []string
	for _, f := range fragments {
		if f.Match {
			out = append(out, f.Text)
		}
	}
	return out
}

func TestHighlightSingleWord(t *testing.T) {
	got := Highlight("The Quick Fox", "quick")

	want := []Fragment{
		{Text: "The "},
		{Text: "Quick", Match: true},
		{Text: " Fox"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d: expected %#v, got %#v", i, want[i], got[i])
		}
	}
}

func TestHighlightEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "?!.,", "123"} {
		got := Highlight("some text", q)
		if len(got) != 1 || got[0].Text != "some text" || got[0].Match {
			t.Errorf("query %q: expected single non-matching fragment, got %#v", q, got)
		}
	}
}

func TestHighlightWholeWordsOnly(t *testing.T) {
	got := Highlight("cat catalog concat cat.", "cat")

	m := matches(got)
	if len(m) != 2 {
		t.Fatalf("expected 2 whole-word matches, got %v", m)
	}
	if join(got) != "cat catalog concat cat." {
		t.Fatalf("fragments are not lossless: %q", join(got))
	}
}

func TestHighlightMultipleTokens(t *testing.T) {
	got := Highlight("Falcon flies over the falcon nest", "FALCON nest!!")

	m := matches(got)
	want := []string{"Falcon", "falcon", "nest"}
	if strings.Join(m, ",") != strings.Join(want, ",") {
		t.Fatalf("expected matches %v, got %v", want, m)
	}
}

func TestHighlightPrefersLongerToken(t *testing.T) {
	got := Highlight("running quickly", "quick quickly")

	m := matches(got)
	if len(m) != 1 || m[0] != "quickly" {
		t.Fatalf("expected only 'quickly' to match, got %v", m)
	}
}

func TestHighlightUnicode(t *testing.T) {
	text := "Über café und Café"
	got := Highlight(text, "café")

	m := matches(got)
	if len(m) != 2 {
		t.Fatalf("expected 2 matches, got %v", m)
	}
	if join(got) != text {
		t.Fatalf("fragments are not lossless: %q", join(got))
	}
}

func TestHighlightLossless(t *testing.T) {
	texts := []string{
		"",
		"a",
		"The Quick Fox jumps over the lazy dog",
		"  leading and trailing  ",
		"punctuation, everywhere! (really?)",
		"naïve façade, mixed ünïcödé",
		"go go go",
	}
	queries := []string{"", "the", "go", "fox dog", "really", "façade", "?", "x y z"}

	for _, text := range texts {
		for _, q := range queries {
			got := Highlight(text, q)
			if join(got) != text {
				t.Errorf("Highlight(%q, %q) not lossless: %q", text, q, join(got))
			}
			for _, f := range got {
				if f.Text == "" && len(got) > 1 {
					t.Errorf("Highlight(%q, %q) produced an empty fragment", text, q)
				}
			}
		}
	}
}

func TestHighlightNoMatchReturnsWholeText(t *testing.T) {
	got := Highlight("nothing here", "falcon")
	if len(got) != 1 || got[0].Match || got[0].Text != "nothing here" {
		t.Fatalf("expected whole text, got %#v", got)
	}
	if HasMatch(got) {
		t.Fatalf("HasMatch should be false")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  Hello, WORLD! hello  c++ 42 ")
	want := []string{"hello", "world", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
