// Package logging provides structured logging for yamllist.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with request IDs, document sources and engine names
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithSource(ctx, "config.yaml")
//	logger.InfoContext(ctx, "document listed", "items", 3)
//
// Context fields are added by the handler, so they are also picked up by
// components that only hold the *slog.Logger returned by Slog.
package logging
