// Package logging provides structured logging utilities for hostmap components.
//
// # Overview
//
// This package wraps the standard library slog package with hostmap-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostmap", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("querying collector", "host", "cm-1.ospool.osg-htc.org")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("hostmap", "v2.0.0", "debug")
//	logger.Info("resolver starting", "collectors", 2)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug hostmap resolve
//	LOG_LEVEL=error hostmap pool
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "host map resolved",
//	    "module": "hostmap",
//	    "version": "v1.0.0",
//	    "schedds": 412
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "resolver.(*Resolver).findCollectors",
//	        "file": "resolver.go",
//	        "line": 45
//	    },
//	    "msg": "querying collector",
//	    "module": "hostmap",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostmap", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("schedd resolved",
//	    "schedd", schedd,
//	    "collector", host,
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("query", "constraint", c) // Development/troubleshooting
//	slog.Info("host map persisted")      // Normal operations
//	slog.Warn("multiple schedd ads")     // Potential issues
//	slog.Error("snapshot write failed")  // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to query collector",
//	    "error", err,
//	    "collector", host,
//	    "run_id", runID,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/condor - Collector query logging
//   - pkg/resolver - Discovery run logging
//   - pkg/store - Snapshot persistence logging
//
// All components share consistent logging format and configuration.
package logging
