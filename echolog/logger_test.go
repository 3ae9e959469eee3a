package echolog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(opts ...Option) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	d := logger.NewDispatcher(logger.LevelDebug, logger.WithStdout(&stdout), logger.WithStderr(&stderr))
	return New(d, opts...), &stdout, &stderr
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &parsed))
	return parsed
}

func TestLoggerInterface(t *testing.T) {
	l, stdout, stderr := newTestLogger()

	tests := []struct {
		name  string
		call  func()
		level string
		key   string
		value any
		out   *bytes.Buffer
	}{
		{"Print", func() { l.Print("print") }, "INFO", "data", "print", stdout},
		{"Printf", func() { l.Printf("printf %s", "test") }, "INFO", "data", "printf test", stdout},
		{"Printj", func() { l.Printj(log.JSON{"key": "value"}) }, "INFO", "key", "value", stdout},
		{"Debug", func() { l.Debug("debug") }, "DEBUG", "data", "debug", stdout},
		{"Debugf", func() { l.Debugf("debugf %s", "test") }, "DEBUG", "data", "debugf test", stdout},
		{"Debugj", func() { l.Debugj(log.JSON{"key": "value"}) }, "DEBUG", "key", "value", stdout},
		{"Info", func() { l.Info("info") }, "INFO", "data", "info", stdout},
		{"Infof", func() { l.Infof("infof %s", "test") }, "INFO", "data", "infof test", stdout},
		{"Infoj", func() { l.Infoj(log.JSON{"key": "value"}) }, "INFO", "key", "value", stdout},
		{"Warn", func() { l.Warn("warn") }, "WARN", "data", "warn", stdout},
		{"Warnf", func() { l.Warnf("warnf %s", "test") }, "WARN", "data", "warnf test", stdout},
		{"Warnj", func() { l.Warnj(log.JSON{"key": "value"}) }, "WARN", "key", "value", stdout},
		{"Error", func() { l.Error("error") }, "ERROR", "data", "error", stderr},
		{"Errorf", func() { l.Errorf("errorf %s", "test") }, "ERROR", "data", "errorf test", stderr},
		{"Errorj", func() { l.Errorj(log.JSON{"key": "value"}) }, "ERROR", "key", "value", stderr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			line := lastLine(t, tt.out)
			assert.Equal(t, tt.level, line["log_level"])
			assert.Equal(t, tt.value, line[tt.key])
		})
	}
}

func TestLogger_JSONTextIsFlattened(t *testing.T) {
	l, stdout, _ := newTestLogger()

	l.Infof(`{"route":%q}`, "/users")
	assert.Equal(t, "/users", lastLine(t, stdout)["route"])
}

func TestGettersSetters(t *testing.T) {
	l, _, _ := newTestLogger(WithPrefix("ECHO"))
	assert.Equal(t, "ECHO", l.Prefix())

	l.SetPrefix("TEST")
	assert.Equal(t, "TEST", l.Prefix())

	assert.Equal(t, log.DEBUG, l.Level())

	for _, lvl := range []log.Lvl{log.DEBUG, log.INFO, log.WARN, log.ERROR, log.OFF} {
		l.SetLevel(lvl)
		assert.Equal(t, lvl, l.Level())
	}

	l.SetLevel(log.Lvl(99))
	assert.Equal(t, log.INFO, l.Level())

	var buf bytes.Buffer
	l.SetOutput(&buf)
	assert.NotNil(t, l.Output())

	l.SetHeader("header")
}

func TestLogger_Prefix(t *testing.T) {
	l, stdout, _ := newTestLogger(WithPrefix("ECHO"))

	l.Info("started")
	assert.Equal(t, "[ECHO] started", lastLine(t, stdout)["data"])
}

func TestLogger_LevelGate(t *testing.T) {
	l, stdout, stderr := newTestLogger()

	l.SetLevel(log.WARN)
	l.Debug("dropped")
	l.Info("dropped")
	l.Infoj(log.JSON{"dropped": true})
	assert.Empty(t, stdout.String())

	l.Warn("kept")
	assert.Equal(t, "kept", lastLine(t, stdout)["data"])

	l.SetLevel(log.OFF)
	l.Error("dropped")
	assert.Empty(t, stderr.String())
}

func TestLogger_Output(t *testing.T) {
	l, stdout, _ := newTestLogger()

	n, err := fmt.Fprint(l.Output(), "first line\nsecond line\n")
	require.NoError(t, err)
	assert.Equal(t, len("first line\nsecond line\n"), n)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"data":"first line"`)
	assert.Contains(t, lines[1], `"data":"second line"`)
}

func TestFatalAndPanic(t *testing.T) {
	l, _, stderr := newTestLogger()
	l.SetLevel(log.OFF)

	assert.Panics(t, func() {
		l.Panic("panic")
	})
	assert.Equal(t, "panic", lastLine(t, stderr)["data"])

	assert.Panics(t, func() {
		l.Panicf("panicf %s", "test")
	})
	assert.Equal(t, "panicf test", lastLine(t, stderr)["data"])

	assert.Panics(t, func() {
		l.Panicj(log.JSON{"key": "value"})
	})
	assert.Equal(t, "value", lastLine(t, stderr)["key"])
}

func TestFatal(t *testing.T) {
	var codes []int
	orig := exit
	exit = func(code int) { codes = append(codes, code) }
	defer func() { exit = orig }()

	l, _, stderr := newTestLogger()

	l.Fatal("boom")
	assert.Equal(t, "boom", lastLine(t, stderr)["data"])

	l.Fatalf("boom %s", "formatted")
	assert.Equal(t, "boom formatted", lastLine(t, stderr)["data"])

	l.Fatalj(log.JSON{"fatal": true})
	assert.Equal(t, true, lastLine(t, stderr)["fatal"])

	assert.Equal(t, []int{1, 1, 1}, codes)
}
