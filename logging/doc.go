// Package logging provides a minimal logging interface and adapters for the
// deliberation engine.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the controller, orchestrator and reasoning cycle use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - DebateLogger with contextual cloning and domain helpers for backend
//     calls, rounds and reasoning cycles
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	sym := symposium.New(func(o *symposium.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
