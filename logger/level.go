package logger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents the severity of a record. Lower values are more severe.
type Level uint8

// Logging levels, from most to least severe.
const (
	LevelError Level = iota + 1
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

const (
	levelErrorStr = "ERROR"
	levelWarnStr  = "WARN"
	levelInfoStr  = "INFO"
	levelDebugStr = "DEBUG"
	levelTraceStr = "TRACE"
)

// ErrInvalidLevel is returned when a level cannot be parsed or is out of range.
var ErrInvalidLevel = errors.New("invalid log level")

// Levels returns every valid level, most severe first.
func Levels() []Level {
	return []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelTrace
}

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return levelErrorStr
	case LevelWarn:
		return levelWarnStr
	case LevelInfo:
		return levelInfoStr
	case LevelDebug:
		return levelDebugStr
	case LevelTrace:
		return levelTraceStr
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Enables reports whether a record at level other passes a threshold of l.
func (l Level) Enables(other Level) bool {
	return other.Valid() && other <= l
}

// ParseLevel parses a level name. Matching is case-insensitive and "warning" is accepted for WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case levelErrorStr:
		return LevelError, nil
	case levelWarnStr, "WARNING":
		return LevelWarn, nil
	case levelInfoStr:
		return LevelInfo, nil
	case levelDebugStr:
		return LevelDebug, nil
	case levelTraceStr:
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// zerologLevel maps l onto the zerolog level used for the global filter.
func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.NoLevel
	}
}

// streamFor returns the output stream a record at level l is written to.
func streamFor(l Level) Stream {
	if l == LevelError {
		return StreamStderr
	}
	return StreamStdout
}
