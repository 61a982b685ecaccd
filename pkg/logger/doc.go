// Package logger provides the structured logging interface used across igsaver.
//
// It wraps zerolog with a small Logger interface that supports fields and
// errors. A run logs to the console at one level and to a timestamped file
// under the logs directory at another:
//
//	log, err := logger.New(logger.Options{
//	    ConsoleLevel: "warn",
//	    FileLevel:    "debug",
//	    File:         logger.RunLogPath("logs", time.Now()),
//	})
//	log.WithField("username", "alice").Info("Session loaded")
//
// NewTestLogger captures entries for assertions in tests.
package logger
