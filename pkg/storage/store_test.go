package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	badgerStore, err := NewBadgerStore("", true)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}

	stores := map[string]Store{
		DriverSQLite: sqliteStore,
		DriverBadger: badgerStore,
	}
	t.Cleanup(func() {
		for name, s := range stores {
			if err := s.Close(); err != nil {
				t.Errorf("close %s: %v", name, err)
			}
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := s.Set("theme", []byte("#4173d9")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set("theme", []byte("#000000")); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			got, err := s.Get("theme")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != "#000000" {
				t.Fatalf("expected last write to win, got %q", got)
			}

			if err := s.Delete("theme"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get("theme"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"a", "b", "c"} {
				if err := s.Set(k, []byte(k)); err != nil {
					t.Fatalf("set %s: %v", k, err)
				}
			}
			if err := s.Clear(); err != nil {
				t.Fatalf("clear: %v", err)
			}
			for _, k := range []string{"a", "b", "c"} {
				if _, err := s.Get(k); !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected %s to be cleared, got %v", k, err)
				}
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			var list []string
			found, err := LoadJSON(s, "list", &list)
			if err != nil || found {
				t.Fatalf("expected missing key, got found=%v err=%v", found, err)
			}

			if err := SaveJSON(s, "list", []string{"cats", "dogs"}); err != nil {
				t.Fatalf("save: %v", err)
			}
			found, err = LoadJSON(s, "list", &list)
			if err != nil || !found {
				t.Fatalf("expected key, got found=%v err=%v", found, err)
			}
			if len(list) != 2 || list[0] != "cats" || list[1] != "dogs" {
				t.Fatalf("unexpected list %v", list)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("darkMode", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get("darkMode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "true" {
		t.Fatalf("expected persisted value, got %q", got)
	}
}

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()

	for _, driver := range []string{DriverSQLite, DriverBadger} {
		s, err := Open(driver, filepath.Join(dir, driver))
		if err != nil {
			t.Fatalf("open %s: %v", driver, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %s: %v", driver, err)
		}
	}

	if _, err := Open("postgres", dir); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestSQLiteMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	available, err := availableMigrations()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(available) < 2 || available[0].Version != 1 || available[0].Name != "kv" {
		t.Fatalf("unexpected migrations %+v", available)
	}

	version, err := schemaVersion(s.db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	want := available[len(available)-1].Version
	if version != want {
		t.Fatalf("schema version = %d, want %d", version, want)
	}
	s.Close()

	// Reopening must not re-apply anything.
	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var applied int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != len(available) {
		t.Fatalf("expected %d applied migrations, got %d", len(available), applied)
	}
}
