package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fixedMillis int64 = 1700000000123

func fixedClock() time.Time {
	return time.UnixMilli(fixedMillis)
}

func newTestDispatcher(level Level, opts ...Option) (*Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	opts = append([]Option{WithStdout(&stdout), WithStderr(&stderr), WithClock(fixedClock)}, opts...)
	return NewDispatcher(level, opts...), &stdout, &stderr
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var parsed map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &parsed), "line must be valid JSON: %s", scanner.Text())
		lines = append(lines, parsed)
	}
	require.NoError(t, scanner.Err())

	return lines
}

// recoverErr runs fn and returns the error it panicked with, if any.
func recoverErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

var (
	globalOnce   sync.Once
	globalStdout *lockedBuffer
	globalStderr *lockedBuffer
)

// installGlobal installs the process-wide logger once for the whole test binary.
func installGlobal(t *testing.T) (*lockedBuffer, *lockedBuffer) {
	t.Helper()

	globalOnce.Do(func() {
		globalStdout = &lockedBuffer{}
		globalStderr = &lockedBuffer{}
		Install(Config{MaxLogLevel: LevelDebug},
			WithStdout(globalStdout), WithStderr(globalStderr), WithClock(fixedClock))
	})
	globalStdout.Reset()
	globalStderr.Reset()

	return globalStdout, globalStderr
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func (b *lockedBuffer) Buffer() *bytes.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.NewBuffer(bytes.Clone(b.buf.Bytes()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
