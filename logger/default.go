package logger

// Log logs args at the given level using the installed logger.
// Calls made before Install are dropped.
func Log(level Level, args ...any) {
	global.current().Log(level, args...)
}

// Logf logs a formatted message at the given level using the installed logger.
func Logf(level Level, format string, args ...any) {
	global.current().Logf(level, format, args...)
}

// LogValue logs the JSON encoding of v at the given level using the installed logger.
// It panics if v cannot be encoded.
func LogValue(level Level, v any) {
	global.current().LogValue(level, v)
}

// Error logs a message at the Error level using the installed logger.
func Error(args ...any) { Log(LevelError, args...) }

// Errorf logs a formatted message at the Error level using the installed logger.
func Errorf(format string, args ...any) { Logf(LevelError, format, args...) }

// ErrorValue logs a value at the Error level using the installed logger.
func ErrorValue(v any) { LogValue(LevelError, v) }

// Warn logs a message at the Warn level using the installed logger.
func Warn(args ...any) { Log(LevelWarn, args...) }

// Warnf logs a formatted message at the Warn level using the installed logger.
func Warnf(format string, args ...any) { Logf(LevelWarn, format, args...) }

// WarnValue logs a value at the Warn level using the installed logger.
func WarnValue(v any) { LogValue(LevelWarn, v) }

// Info logs a message at the Info level using the installed logger.
func Info(args ...any) { Log(LevelInfo, args...) }

// Infof logs a formatted message at the Info level using the installed logger.
func Infof(format string, args ...any) { Logf(LevelInfo, format, args...) }

// InfoValue logs a value at the Info level using the installed logger.
func InfoValue(v any) { LogValue(LevelInfo, v) }

// Debug logs a message at the Debug level using the installed logger.
func Debug(args ...any) { Log(LevelDebug, args...) }

// Debugf logs a formatted message at the Debug level using the installed logger.
func Debugf(format string, args ...any) { Logf(LevelDebug, format, args...) }

// DebugValue logs a value at the Debug level using the installed logger.
func DebugValue(v any) { LogValue(LevelDebug, v) }

// Trace logs a message at the Trace level using the installed logger.
func Trace(args ...any) { Log(LevelTrace, args...) }

// Tracef logs a formatted message at the Trace level using the installed logger.
func Tracef(format string, args ...any) { Logf(LevelTrace, format, args...) }

// TraceValue logs a value at the Trace level using the installed logger.
func TraceValue(v any) { LogValue(LevelTrace, v) }
