// Package settings keeps the user preferences that shape the UI: theme
// color, dark mode, safe search and interface language. Every change is
// written through to storage, one key per field, so a restart picks up
// where the user left off.
package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rubiojr/falcony/pkg/log"
	"github.com/rubiojr/falcony/pkg/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var logger = log.ForService("settings")

// Setting keys, as accepted by Holder.Set and stored under keyPrefix.
const (
	KeyThemeColor = "theme_color"
	KeyDarkMode   = "dark_mode"
	KeySafeSearch = "safe_search"
	KeyLanguage   = "language"
)

const keyPrefix = "settings."

// Defaults.
const (
	DefaultThemeColor = "#4173d9"
	DefaultLanguage   = "English"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid setting")

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Language is one selectable UI language.
type Language struct {
	Name   string
	Native string
	Tag    language.Tag
	RTL    bool
}

var languages = []Language{
	newLanguage(language.English, false),
	newLanguage(language.Arabic, true),
}

func newLanguage(tag language.Tag, rtl bool) Language {
	return Language{
		Name:   display.English.Tags().Name(tag),
		Native: cases.Title(tag).String(display.Self.Name(tag)),
		Tag:    tag,
		RTL:    rtl,
	}
}

// Languages returns the supported UI languages.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LookupLanguage finds a supported language by English name, native name or
// BCP 47 tag, ignoring case.
func LookupLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range languages {
		if strings.EqualFold(s, l.Name) || strings.EqualFold(s, l.Native) || strings.EqualFold(s, l.Tag.String()) {
			return l, true
		}
	}
	return Language{}, false
}

// Settings is a snapshot of the preferences.
type Settings struct {
	ThemeColor string `json:"theme_color"`
	DarkMode   bool   `json:"dark_mode"`
	SafeSearch bool   `json:"safe_search"`
	Language   string `json:"language"`
}

// Defaults returns the out-of-the-box preferences.
func Defaults() Settings {
	return Settings{
		ThemeColor: DefaultThemeColor,
		DarkMode:   false,
		SafeSearch: true,
		Language:   DefaultLanguage,
	}
}

// Lang returns the selected language, falling back to English.
func (s Settings) Lang() Language {
	if l, ok := LookupLanguage(s.Language); ok {
		return l
	}
	return languages[0]
}

// Dir returns the text direction for the selected language.
func (s Settings) Dir() string {
	if s.Lang().RTL {
		return "rtl"
	}
	return "ltr"
}

// ValidateThemeColor checks for a #rrggbb color.
func ValidateThemeColor(c string) error {
	if !hexColor.MatchString(c) {
		return fmt.Errorf("%w: theme color %q is not #rrggbb", ErrInvalid, c)
	}
	return nil
}

// Holder is the shared, persisted settings state.
type Holder struct {
	mu      sync.RWMutex
	store   storage.Store
	current Settings
}

// Load reads each setting from store, using the default for any key that is
// missing or holds an invalid value.
func Load(store storage.Store) (*Holder, error) {
	h := &Holder{store: store, current: Defaults()}

	var color string
	if ok, err := storage.LoadJSON(store, keyPrefix+KeyThemeColor, &color); err != nil {
		return nil, fmt.Errorf("loading %s: %w", KeyThemeColor, err)
	} else if ok {
		if ValidateThemeColor(color) == nil {
			h.current.ThemeColor = strings.ToLower(color)
		} else {
			logger.Warnf("ignoring stored theme color %q", color)
		}
	}

	for key, dst := range map[string]*bool{
		KeyDarkMode:   &h.current.DarkMode,
		KeySafeSearch: &h.current.SafeSearch,
	} {
		if _, err := storage.LoadJSON(store, keyPrefix+key, dst); err != nil {
			return nil, fmt.Errorf("loading %s: %w", key, err)
		}
	}

	var lang string
	if ok, err := storage.LoadJSON(store, keyPrefix+KeyLanguage, &lang); err != nil {
		return nil, fmt.Errorf("loading %s: %w", KeyLanguage, err)
	} else if ok {
		if l, found := LookupLanguage(lang); found {
			h.current.Language = l.Name
		} else {
			logger.Warnf("ignoring stored language %q", lang)
		}
	}

	return h, nil
}

// Get returns the current settings.
func (h *Holder) Get() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// SetThemeColor validates and stores a #rrggbb color.
func (h *Holder) SetThemeColor(c string) error {
	c = strings.TrimSpace(c)
	if err := ValidateThemeColor(c); err != nil {
		return err
	}
	c = strings.ToLower(c)
	return h.update(KeyThemeColor, c, func(s *Settings) { s.ThemeColor = c })
}

// SetDarkMode toggles dark mode.
func (h *Holder) SetDarkMode(on bool) error {
	return h.update(KeyDarkMode, on, func(s *Settings) { s.DarkMode = on })
}

// SetSafeSearch toggles safe search.
func (h *Holder) SetSafeSearch(on bool) error {
	return h.update(KeySafeSearch, on, func(s *Settings) { s.SafeSearch = on })
}

// SetLanguage selects a supported UI language.
func (h *Holder) SetLanguage(name string) error {
	l, ok := LookupLanguage(name)
	if !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalid, name)
	}
	return h.update(KeyLanguage, l.Name, func(s *Settings) { s.Language = l.Name })
}

// Set applies a setting given as text, as it comes from a form or the
// command line.
func (h *Holder) Set(key, value string) error {
	switch key {
	case KeyThemeColor:
		return h.SetThemeColor(value)
	case KeyDarkMode, KeySafeSearch:
		on, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalid, key)
		}
		if key == KeyDarkMode {
			return h.SetDarkMode(on)
		}
		return h.SetSafeSearch(on)
	case KeyLanguage:
		return h.SetLanguage(value)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, key)
	}
}

// Reset restores the defaults and removes the stored values.
func (h *Holder) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range []string{KeyThemeColor, KeyDarkMode, KeySafeSearch, KeyLanguage} {
		if err := h.store.Delete(keyPrefix + key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	h.current = Defaults()
	return nil
}

func (h *Holder) update(key string, value any, apply func(*Settings)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := storage.SaveJSON(h.store, keyPrefix+key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	apply(&h.current)
	logger.Debugf("%s updated", key)
	return nil
}
