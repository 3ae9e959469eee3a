// Package logger provides a structured JSON logger that writes one record per line to
// stdout, or to stderr for errors, under a process-wide level threshold.
package logger

// Stream identifies the output stream a record is written to.
type Stream uint8

// Output streams.
const (
	StreamStdout Stream = iota + 1
	StreamStderr
)

// String returns the stream name.
func (s Stream) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Sink decides whether a record is emitted and writes it.
type Sink interface {
	Enabled(level Level) bool
	Emit(rec Record)
}

// ILogger is the interface for the logger.
type ILogger interface {
	Sink

	// Log joins args with fmt.Sprint and logs the result as text.
	Log(level Level, args ...any)
	// Logf formats according to format and logs the result as text.
	Logf(level Level, format string, args ...any)
	// LogValue logs the JSON encoding of v. It panics if v cannot be encoded.
	LogValue(level Level, v any)
}

// Observer is notified once for every line a Dispatcher writes.
type Observer interface {
	ObserveRecord(level Level, stream Stream)
}

type nopLogger struct{}

func (nopLogger) Enabled(Level) bool         { return false }
func (nopLogger) Emit(Record)                {}
func (nopLogger) Log(Level, ...any)          {}
func (nopLogger) Logf(Level, string, ...any) {}
func (nopLogger) LogValue(Level, any)        {}
