package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/falcony/pkg/config"
)

// watchConfig reloads configPath on SIGHUP and whenever the file changes,
// passing each successfully parsed configuration to apply. It returns when
// ctx is done.
func watchConfig(ctx context.Context, configPath string, apply func(*config.Config) error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	var events chan fsnotify.Event
	var errs chan error
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		webLog.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				webLog.Warnf("failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			webLog.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			webLog.Infof("Watching config file for changes: %s", configPath)
		}
		events, errs = watcher.Events, watcher.Errors
	}

	reload := func(reason string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			webLog.Errorf("Failed to reload configuration after %s: %v", reason, err)
			return
		}
		if err := apply(cfg); err != nil {
			webLog.Errorf("Failed to apply configuration after %s: %v", reason, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			webLog.Infof("Received SIGHUP, reloading configuration...")
			reload("SIGHUP")
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			// Editors often replace the file instead of writing it in place.
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			webLog.Infof("Config file changed: %s (event: %s)", event.Name, event.Op.String())

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					webLog.Warnf("Config file was removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					webLog.Warnf("failed to re-add config file to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}
			reload("file change")
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			webLog.Warnf("Config file watcher error: %v", err)
		}
	}
}
