package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubiojr/falcony/pkg/config"
)

func TestWatchConfigReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	write := func(url string) {
		body := "backend_url = \"" + url + "\"\nstorage_dir = \"" + filepath.ToSlash(dir) + "\"\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("http://one.example")

	applied := make(chan *config.Config, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchConfig(ctx, path, func(c *config.Config) error {
			applied <- c
			return nil
		})
		close(done)
	}()

	// Give the watcher time to register the file.
	time.Sleep(200 * time.Millisecond)
	write("http://two.example")

	select {
	case cfg := <-applied:
		if cfg.BackendURL != "http://two.example" {
			t.Fatalf("unexpected backend %s", cfg.BackendURL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not picked up")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
