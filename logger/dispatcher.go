package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
)

const (
	fieldTimestamp = "timestamp"
	fieldLogLevel  = "log_level"
	fieldData      = "data"
)

var (
	// ErrWriteFailed is the panic value, wrapped, when a line cannot be written to its stream.
	ErrWriteFailed = errors.New("log write failed")
	// ErrMalformedRecord is the panic value, wrapped, when a record's data is not valid JSON.
	ErrMalformedRecord = errors.New("malformed log record")
)

// Dispatcher is a Sink that writes records as JSON lines. Error records go to stderr,
// everything else to stdout. It is safe for concurrent use.
type Dispatcher struct {
	maxLevel Level
	stdout   zerolog.Logger
	stderr   zerolog.Logger
	now      func() time.Time
	observer Observer
}

type dispatcherConfig struct {
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

// WithStdout sets the writer used in place of os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(cfg *dispatcherConfig) {
		if w != nil {
			cfg.stdout = w
		}
	}
}

// WithStderr sets the writer used in place of os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(cfg *dispatcherConfig) {
		if w != nil {
			cfg.stderr = w
		}
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(cfg *dispatcherConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithObserver registers an Observer notified after every written line.
func WithObserver(o Observer) Option {
	return func(cfg *dispatcherConfig) {
		cfg.observer = o
	}
}

// NewDispatcher returns a Dispatcher admitting records at maxLevel or more severe.
// It is not registered as the process-wide logger; use Install for that.
func NewDispatcher(maxLevel Level, opts ...Option) *Dispatcher {
	cfg := &dispatcherConfig{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Dispatcher{
		maxLevel: maxLevel,
		stdout:   zerolog.New(zerolog.SyncWriter(fatalWriter{w: cfg.stdout, stream: StreamStdout})),
		stderr:   zerolog.New(zerolog.SyncWriter(fatalWriter{w: cfg.stderr, stream: StreamStderr})),
		now:      cfg.now,
		observer: cfg.observer,
	}
}

// MaxLevel returns the threshold the dispatcher was built with.
func (d *Dispatcher) MaxLevel() Level {
	return d.maxLevel
}

// Enabled reports whether a record at level would be written.
func (d *Dispatcher) Enabled(level Level) bool {
	return d.maxLevel.Enables(level)
}

// Emit writes rec as a single JSON line if its level is enabled.
// Object data is merged into the top-level object unless one of its keys collides with
// timestamp or log_level; any other data is written under the data key.
// A key repeated in object data is written once, with its last value.
func (d *Dispatcher) Emit(rec Record) {
	if !d.Enabled(rec.Level) {
		return
	}

	stream := streamFor(rec.Level)
	out := d.stdout
	if stream == StreamStderr {
		out = d.stderr
	}

	event := out.Log().
		Int64(fieldTimestamp, rec.Timestamp).
		Str(fieldLogLevel, rec.Level.String())
	appendData(event, rec.Data)
	event.Send()

	if d.observer != nil {
		d.observer.ObserveRecord(rec.Level, stream)
	}
}

// Flush is a no-op; every line is written unbuffered.
func (d *Dispatcher) Flush() {}

// Log logs args joined with fmt.Sprint at the given level.
func (d *Dispatcher) Log(level Level, args ...any) {
	if !d.Enabled(level) {
		return
	}
	d.Emit(normalizeText(d.now, level, fmt.Sprint(args...)))
}

// Logf logs a formatted message at the given level. The result is normalized like any other
// text, so a format that produces JSON is flattened into the line.
func (d *Dispatcher) Logf(level Level, format string, args ...any) {
	if !d.Enabled(level) {
		return
	}
	d.Emit(normalizeText(d.now, level, fmt.Sprintf(format, args...)))
}

// LogValue logs the JSON encoding of v at the given level. It panics if v cannot be encoded.
func (d *Dispatcher) LogValue(level Level, v any) {
	if !d.Enabled(level) {
		return
	}
	rec, err := normalizeValue(d.now, level, v)
	if err != nil {
		panic(err)
	}
	d.Emit(rec)
}

// Error logs a message at the Error level.
func (d *Dispatcher) Error(args ...any) { d.Log(LevelError, args...) }

// Errorf logs a formatted message at the Error level.
func (d *Dispatcher) Errorf(format string, args ...any) { d.Logf(LevelError, format, args...) }

// ErrorValue logs a value at the Error level.
func (d *Dispatcher) ErrorValue(v any) { d.LogValue(LevelError, v) }

// Warn logs a message at the Warn level.
func (d *Dispatcher) Warn(args ...any) { d.Log(LevelWarn, args...) }

// Warnf logs a formatted message at the Warn level.
func (d *Dispatcher) Warnf(format string, args ...any) { d.Logf(LevelWarn, format, args...) }

// WarnValue logs a value at the Warn level.
func (d *Dispatcher) WarnValue(v any) { d.LogValue(LevelWarn, v) }

// Info logs a message at the Info level.
func (d *Dispatcher) Info(args ...any) { d.Log(LevelInfo, args...) }

// Infof logs a formatted message at the Info level.
func (d *Dispatcher) Infof(format string, args ...any) { d.Logf(LevelInfo, format, args...) }

// InfoValue logs a value at the Info level.
func (d *Dispatcher) InfoValue(v any) { d.LogValue(LevelInfo, v) }

// Debug logs a message at the Debug level.
func (d *Dispatcher) Debug(args ...any) { d.Log(LevelDebug, args...) }

// Debugf logs a formatted message at the Debug level.
func (d *Dispatcher) Debugf(format string, args ...any) { d.Logf(LevelDebug, format, args...) }

// DebugValue logs a value at the Debug level.
func (d *Dispatcher) DebugValue(v any) { d.LogValue(LevelDebug, v) }

// Trace logs a message at the Trace level.
func (d *Dispatcher) Trace(args ...any) { d.Log(LevelTrace, args...) }

// Tracef logs a formatted message at the Trace level.
func (d *Dispatcher) Tracef(format string, args ...any) { d.Logf(LevelTrace, format, args...) }

// TraceValue logs a value at the Trace level.
func (d *Dispatcher) TraceValue(v any) { d.LogValue(LevelTrace, v) }

func appendData(event *zerolog.Event, data []byte) {
	if err := fastjson.ValidateBytes(data); err != nil {
		panic(fmt.Errorf("%w: %w", ErrMalformedRecord, err))
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrMalformedRecord, err))
	}

	obj, err := v.Object()
	if err != nil || obj.Get(fieldTimestamp) != nil || obj.Get(fieldLogLevel) != nil {
		event.RawJSON(fieldData, v.MarshalTo(nil))
		return
	}

	for _, m := range uniqueMembers(obj) {
		event.RawJSON(m.key, m.value.MarshalTo(nil))
	}
}

type member struct {
	key   string
	value *fastjson.Value
}

// uniqueMembers returns the object members in order of first appearance. A repeated key
// keeps its first position and takes its last value.
func uniqueMembers(obj *fastjson.Object) []member {
	members := make([]member, 0, obj.Len())
	index := make(map[string]int, obj.Len())

	obj.Visit(func(key []byte, value *fastjson.Value) {
		if i, ok := index[string(key)]; ok {
			members[i].value = value
			return
		}
		index[string(key)] = len(members)
		members = append(members, member{key: string(key), value: value})
	})

	return members
}

// fatalWriter turns a failed write into a panic.
type fatalWriter struct {
	w      io.Writer
	stream Stream
}

func (f fatalWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		panic(fmt.Errorf("%w: %s: %w", ErrWriteFailed, f.stream, err))
	}
	return n, nil
}
