// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for development (console) and
// production (json) use and small helpers that attach request and session
// context to log entries.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context. WithSession tags entries emitted by a browsing session's list
// synchronizers so that a single user's scroll, toggle and fetch history can
// be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
