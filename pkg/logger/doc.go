// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package and selects a JSON handler in
// production and a text handler everywhere else.
package logger
