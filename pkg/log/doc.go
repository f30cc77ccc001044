// Package log provides named loggers on top of the standard library logger.
//
// Every component asks for its own logger once and keeps it in a package
// variable:
//
//	var logger = log.ForService("suggest")
//
//	logger.Infof("cache size %d", n)
//	logger.Warnf("suggestion fetch failed: %v", err)
//	logger.Debugf("live input %q", q) // only when debug is enabled
//
// Lines carry a `[name>]` marker so output from the web server, the backend
// client and the storage engine can be told apart with grep.
//
// Debug output is off by default. It can be enabled for every logger with
// SetGlobalDebug (the --debug CLI flag does this) or for a single component
// with EnableDebugFor.
//
// SetOutput redirects all loggers, including the ones already created. Tests
// use it with a bytes.Buffer to assert on log contents.
//
// A Logger also satisfies the logger interface expected by the embedded
// Badger engine (Errorf, Warningf, Infof, Debugf), so storage internals log
// through the same sink.
//
// The package name collides with the standard library "log". Alias one of
// them when both are needed:
//
//	import (
//		stdlog "log"
//
//		"github.com/rubiojr/falcony/pkg/log"
//	)
package log
