package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/rubiojr/falcony/pkg/backend"
	"github.com/rubiojr/falcony/pkg/config"
	"github.com/rubiojr/falcony/pkg/settings"
	"github.com/rubiojr/falcony/pkg/storage"
	"github.com/rubiojr/falcony/pkg/suggest"
)

// app bundles the state every command works with.
type app struct {
	cfg      *config.Config
	store    storage.Store
	history  *suggest.History
	settings *settings.Holder
	backend  *backendSwitch
}

// openApp loads the configuration and opens local state and the backend
// client.
func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newApp(cfg)
}

func newApp(cfg *config.Config) (*app, error) {
	client, err := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout.Duration)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	store, err := storage.Open(cfg.StorageDriver, cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	history, err := suggest.NewHistory(store, cfg.MaxSuggestions)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading search history: %w", err)
	}

	holder, err := settings.Load(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &app{
		cfg:      cfg,
		store:    store,
		history:  history,
		settings: holder,
		backend:  newBackendSwitch(client),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Printf("Warning: failed to close storage: %v\n", err)
	}
}

// backendSwitch forwards to the current backend client so a configuration
// reload can replace it under running sessions.
type backendSwitch struct {
	mu     sync.RWMutex
	client *backend.Client
}

func newBackendSwitch(c *backend.Client) *backendSwitch {
	return &backendSwitch{client: c}
}

func (b *backendSwitch) current() *backend.Client {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.client
}

func (b *backendSwitch) Set(c *backend.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.client = c
}

func (b *backendSwitch) BaseURL() string {
	return b.current().BaseURL()
}

func (b *backendSwitch) Search(ctx context.Context, query string, page, limit int) (*backend.Page, error) {
	return b.current().Search(ctx, query, page, limit)
}

func (b *backendSwitch) Suggestions(ctx context.Context, query string) ([]string, error) {
	return b.current().Suggestions(ctx, query)
}
