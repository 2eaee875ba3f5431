package logging

import "log/slog"

// LevelTrace is below Debug and used for per-file archive output.
const LevelTrace = slog.LevelDebug - 4

// LevelFromVerbosity maps the count of -v flags onto a slog level.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelInfo
	case v == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
