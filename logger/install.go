package logger

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrAlreadyInstalled is the panic value, wrapped, when Install is called more than once.
var ErrAlreadyInstalled = errors.New("logger already installed")

type installState struct {
	installed  atomic.Bool
	dispatcher atomic.Pointer[Dispatcher]
}

//nolint:gochecknoglobals // the single process-wide logger slot
var global installState

// Install builds a Dispatcher from cfg and registers it as the process-wide logger used by the
// package-level logging functions. It panics if a logger was already installed or if cfg is
// invalid; both are startup bugs.
func Install(cfg Config, opts ...Option) *Dispatcher {
	return global.install(cfg, opts...)
}

// InstallDefault installs a logger using DefaultConfig.
func InstallDefault(opts ...Option) *Dispatcher {
	return Install(DefaultConfig(), opts...)
}

// Installed returns the process-wide logger, if one was installed.
func Installed() (*Dispatcher, bool) {
	d := global.dispatcher.Load()
	return d, d != nil
}

func (s *installState) install(cfg Config, opts ...Option) *Dispatcher {
	if s.installed.Load() {
		panic(fmt.Errorf("install logger: %w", ErrAlreadyInstalled))
	}

	// A rejected config does not take the slot.
	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("install logger: %w", err))
	}

	if !s.installed.CompareAndSwap(false, true) {
		panic(fmt.Errorf("install logger: %w", ErrAlreadyInstalled))
	}

	if cfg.Traceback {
		configureTraceback()
	}

	d := NewDispatcher(cfg.MaxLogLevel, opts...)
	s.dispatcher.Store(d)
	zerolog.SetGlobalLevel(cfg.MaxLogLevel.zerologLevel())

	return d
}

//nolint:ireturn // nop logger before install
func (s *installState) current() ILogger {
	if d := s.dispatcher.Load(); d != nil {
		return d
	}
	return nopLogger{}
}
