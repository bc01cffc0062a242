package domain

import "log/slog"

// LogLevel grades log lines attached to telemetry vertices. Values are
// the standard slog levels, so adapters convert by plain conversion.
type LogLevel int

const (
	LogLevelDebug = LogLevel(slog.LevelDebug)
	LogLevelInfo  = LogLevel(slog.LevelInfo)
	LogLevelWarn  = LogLevel(slog.LevelWarn)
	LogLevelError = LogLevel(slog.LevelError)
)

// String renders the level the way slog does, e.g. "INFO".
func (l LogLevel) String() string {
	return slog.Level(l).String()
}
