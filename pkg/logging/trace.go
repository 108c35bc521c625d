package logging

import "log/slog"

// EnableTrace turns on the very chatty resolver and fan-out logs.
// Set by a TRACE log level in the config.
var EnableTrace = false

// Trace logs a message at DEBUG level, but only if EnableTrace is true.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if EnableTrace {
		logger.Debug(msg, args...)
	}
}
