// Package log provides structured protocol logging for flipper.
//
// This package defines the Logger interface and Event types for capturing
// events at every layer: raw frames on the transport, decoded requests and
// responses on the wire, and bind attempts and dispatcher calls in the core.
// It is separate from operational logging (slog); protocol capture provides
// a complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For capture: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/tmp/board.flog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(adapter, fileLogger)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .flog extension.
// The flipper-log CLI views, filters and summarizes them.
package log
