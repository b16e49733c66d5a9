// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). The CLI defaults to console encoding so output
// stays readable in a terminal; json encoding is available for running under
// log collectors.
//
// # Run Correlation
//
// Every comparison run is tagged with a run id. The WithRunID helper attaches
// it to the logger so all entries produced by one run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log = logger.WithRunID(log, uuid.NewString())
//	log.Info("comparison started")
package logger
