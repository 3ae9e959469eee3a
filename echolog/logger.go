// Package echolog routes Echo's logging through a structured logger.
package echolog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var _ echo.Logger = (*Logger)(nil)

//nolint:gochecknoglobals // replaced in tests
var exit = os.Exit

type (
	// Logger is an Echo logger implementation backed by a logger.ILogger.
	// Text messages are normalized like any other log call, and the *j variants log the
	// JSON map as structured data.
	Logger struct {
		sink   logger.ILogger
		prefix string
		level  atomic.Uint32
	}

	// Option is a function that configures the Logger.
	Option func(*Logger)
)

// WithPrefix sets the prefix written in front of text messages as "[prefix] ".
func WithPrefix(p string) Option {
	return func(e *Logger) {
		e.prefix = p
	}
}

// New returns an Echo logger writing to sink. Its level defaults to DEBUG so that the
// sink's own threshold decides what is written.
func New(sink logger.ILogger, opts ...Option) *Logger {
	e := &Logger{sink: sink}
	e.level.Store(uint32(log.DEBUG))

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Output returns a writer that logs every line written to it at the Info level.
func (e *Logger) Output() io.Writer {
	return lineWriter{e: e}
}

// SetOutput does nothing; the output streams are fixed by the installed logger.
func (e *Logger) SetOutput(w io.Writer) {
	_ = w
}

// Prefix returns the logger prefix.
func (e *Logger) Prefix() string {
	return e.prefix
}

// SetPrefix sets the logger prefix.
func (e *Logger) SetPrefix(p string) {
	e.prefix = p
}

// Level returns the logger level.
func (e *Logger) Level() log.Lvl {
	return log.Lvl(e.level.Load())
}

// SetLevel sets the logger level. Unknown levels fall back to INFO.
func (e *Logger) SetLevel(l log.Lvl) {
	switch l {
	case log.DEBUG, log.INFO, log.WARN, log.ERROR, log.OFF:
		e.level.Store(uint32(l))
	default:
		e.level.Store(uint32(log.INFO))
	}
}

// SetHeader sets the logger header.
func (e *Logger) SetHeader(h string) {
	// do nothing
	_ = h
}

// Print prints a message.
func (e *Logger) Print(i ...interface{}) {
	e.text(log.INFO, fmt.Sprint(i...))
}

// Printf prints a formatted message.
func (e *Logger) Printf(format string, args ...interface{}) {
	e.text(log.INFO, fmt.Sprintf(format, args...))
}

// Printj prints a JSON message.
func (e *Logger) Printj(j log.JSON) {
	e.json(log.INFO, j)
}

// Debug prints a debug message.
func (e *Logger) Debug(i ...interface{}) {
	e.text(log.DEBUG, fmt.Sprint(i...))
}

// Debugf prints a formatted debug message.
func (e *Logger) Debugf(format string, args ...interface{}) {
	e.text(log.DEBUG, fmt.Sprintf(format, args...))
}

// Debugj prints a JSON debug message.
func (e *Logger) Debugj(j log.JSON) {
	e.json(log.DEBUG, j)
}

// Info prints an info message.
func (e *Logger) Info(i ...interface{}) {
	e.text(log.INFO, fmt.Sprint(i...))
}

// Infof prints a formatted info message.
func (e *Logger) Infof(format string, args ...interface{}) {
	e.text(log.INFO, fmt.Sprintf(format, args...))
}

// Infoj prints a JSON info message.
func (e *Logger) Infoj(j log.JSON) {
	e.json(log.INFO, j)
}

// Warn prints a warning message.
func (e *Logger) Warn(i ...interface{}) {
	e.text(log.WARN, fmt.Sprint(i...))
}

// Warnf prints a formatted warning message.
func (e *Logger) Warnf(format string, args ...interface{}) {
	e.text(log.WARN, fmt.Sprintf(format, args...))
}

// Warnj prints a JSON warning message.
func (e *Logger) Warnj(j log.JSON) {
	e.json(log.WARN, j)
}

// Error prints an error message.
func (e *Logger) Error(i ...interface{}) {
	e.text(log.ERROR, fmt.Sprint(i...))
}

// Errorf prints a formatted error message.
func (e *Logger) Errorf(format string, args ...interface{}) {
	e.text(log.ERROR, fmt.Sprintf(format, args...))
}

// Errorj prints a JSON error message.
func (e *Logger) Errorj(j log.JSON) {
	e.json(log.ERROR, j)
}

// Fatal prints a fatal message and exits.
func (e *Logger) Fatal(i ...interface{}) {
	e.forceText(fmt.Sprint(i...))
	exit(1)
}

// Fatalf prints a formatted fatal message and exits.
func (e *Logger) Fatalf(format string, args ...interface{}) {
	e.forceText(fmt.Sprintf(format, args...))
	exit(1)
}

// Fatalj prints a JSON fatal message and exits.
func (e *Logger) Fatalj(j log.JSON) {
	e.sink.LogValue(logger.LevelError, j)
	exit(1)
}

// Panic prints a panic message and panics.
func (e *Logger) Panic(i ...interface{}) {
	msg := fmt.Sprint(i...)
	e.forceText(msg)
	panic(msg)
}

// Panicf prints a formatted panic message and panics.
func (e *Logger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.forceText(msg)
	panic(msg)
}

// Panicj prints a JSON panic message and panics.
func (e *Logger) Panicj(j log.JSON) {
	e.sink.LogValue(logger.LevelError, j)
	panic(fmt.Sprintf("%v", j))
}

func (e *Logger) allowed(lvl log.Lvl) bool {
	current := e.Level()
	return current != log.OFF && lvl >= current
}

func (e *Logger) text(lvl log.Lvl, msg string) {
	if !e.allowed(lvl) {
		return
	}
	e.sink.Log(toLevel(lvl), e.withPrefix(msg))
}

func (e *Logger) json(lvl log.Lvl, j log.JSON) {
	if !e.allowed(lvl) {
		return
	}
	e.sink.LogValue(toLevel(lvl), j)
}

// forceText logs at the Error level regardless of the Echo level.
func (e *Logger) forceText(msg string) {
	e.sink.Log(logger.LevelError, e.withPrefix(msg))
}

func (e *Logger) withPrefix(msg string) string {
	if e.prefix == "" {
		return msg
	}
	return "[" + e.prefix + "] " + msg
}

func toLevel(lvl log.Lvl) logger.Level {
	switch lvl {
	case log.DEBUG:
		return logger.LevelDebug
	case log.WARN:
		return logger.LevelWarn
	case log.ERROR:
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

type lineWriter struct {
	e *Logger
}

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) > 0 {
			w.e.text(log.INFO, string(line))
		}
	}
	return len(p), nil
}
