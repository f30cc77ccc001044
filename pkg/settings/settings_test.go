package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rubiojr/falcony/pkg/storage"
)

func openStore(t *testing.T, path string) storage.Store {
	t.Helper()
	s, err := storage.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestDefaults(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	defer store.Close()

	h, err := Load(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := h.Get()
	want := Settings{ThemeColor: "#4173d9", DarkMode: false, SafeSearch: true, Language: "English"}
	if got != want {
		t.Fatalf("defaults = %+v, want %+v", got, want)
	}
	if got.Dir() != "ltr" {
		t.Fatalf("expected ltr for English")
	}
}

func TestPersistAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.db")
	store := openStore(t, path)

	h, err := Load(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.SetThemeColor("#FF0000"); err != nil {
		t.Fatalf("set color: %v", err)
	}
	if err := h.SetDarkMode(true); err != nil {
		t.Fatalf("set dark mode: %v", err)
	}
	if err := h.SetSafeSearch(false); err != nil {
		t.Fatalf("set safe search: %v", err)
	}
	if err := h.SetLanguage("arabic"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	store.Close()

	store = openStore(t, path)
	defer store.Close()
	h, err = Load(store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := h.Get()
	want := Settings{ThemeColor: "#ff0000", DarkMode: true, SafeSearch: false, Language: "Arabic"}
	if got != want {
		t.Fatalf("reloaded = %+v, want %+v", got, want)
	}
	if got.Dir() != "rtl" {
		t.Fatalf("expected rtl for Arabic")
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	defer store.Close()
	h, _ := Load(store)

	for _, c := range []string{"red", "#12345", "#1234567", "4173d9", "#gggggg"} {
		if err := h.SetThemeColor(c); !errors.Is(err, ErrInvalid) {
			t.Errorf("SetThemeColor(%q) err = %v, want ErrInvalid", c, err)
		}
	}
	if err := h.SetLanguage("Klingon"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected unsupported language to fail, got %v", err)
	}
	if h.Get() != Defaults() {
		t.Fatalf("rejected values must not change settings")
	}
}

func TestSetFromText(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	defer store.Close()
	h, _ := Load(store)

	cases := []struct {
		key, value string
		wantErr    bool
	}{
		{KeyDarkMode, "true", false},
		{KeySafeSearch, "0", false},
		{KeyThemeColor, "#00aa00", false},
		{KeyLanguage, "ar", false},
		{KeyDarkMode, "maybe", true},
		{"font", "serif", true},
	}
	for _, c := range cases {
		err := h.Set(c.key, c.value)
		if (err != nil) != c.wantErr {
			t.Errorf("Set(%q, %q) err = %v, wantErr %v", c.key, c.value, err, c.wantErr)
		}
	}

	got := h.Get()
	if !got.DarkMode || got.SafeSearch || got.ThemeColor != "#00aa00" || got.Language != "Arabic" {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestInvalidStoredValuesFallBack(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "s.db"))
	defer store.Close()

	if err := storage.SaveJSON(store, keyPrefix+KeyThemeColor, "blue"); err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveJSON(store, keyPrefix+KeyLanguage, "Esperanto"); err != nil {
		t.Fatal(err)
	}

	h, err := Load(store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if h.Get() != Defaults() {
		t.Fatalf("expected defaults, got %+v", h.Get())
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.db")
	store := openStore(t, path)
	defer store.Close()
	h, _ := Load(store)

	_ = h.SetDarkMode(true)
	if err := h.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if h.Get() != Defaults() {
		t.Fatalf("expected defaults after reset")
	}
	reloaded, _ := Load(store)
	if reloaded.Get() != Defaults() {
		t.Fatalf("reset must clear stored values")
	}
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	if len(langs) != 2 || langs[0].Name != "English" || langs[1].Name != "Arabic" {
		t.Fatalf("unexpected languages %+v", langs)
	}
	if _, ok := LookupLanguage("EN"); !ok {
		t.Fatalf("expected lookup by tag")
	}
}
