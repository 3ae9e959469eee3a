package logger

import (
	"os"
	"runtime/debug"
)

const (
	tracebackEnv = "GOTRACEBACK"
	tracebackAll = "all"
)

// configureTraceback enables tracebacks for all goroutines on a crash, unless the
// environment already chose a setting.
func configureTraceback() {
	if _, ok := os.LookupEnv(tracebackEnv); ok {
		return
	}
	if err := os.Setenv(tracebackEnv, tracebackAll); err != nil {
		return
	}
	debug.SetTraceback(tracebackAll)
}
