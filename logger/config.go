package logger

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid logger config")

// Config holds the process-wide logger settings. It is fixed once installed.
type Config struct {
	// MaxLogLevel is the least severe level that is still written.
	MaxLogLevel Level
	// Traceback enables full goroutine tracebacks on crash unless GOTRACEBACK is already set.
	Traceback bool
}

// DefaultConfig returns a Config admitting Info and more severe records, with tracebacks enabled.
func DefaultConfig() Config {
	return Config{
		MaxLogLevel: LevelInfo,
		Traceback:   true,
	}
}

// Validate checks that the config describes a usable logger.
func (c Config) Validate() error {
	levels := make([]any, 0, len(Levels()))
	for _, l := range Levels() {
		levels = append(levels, l)
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.MaxLogLevel, validation.Required, validation.In(levels...)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
