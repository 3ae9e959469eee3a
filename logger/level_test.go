package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "TRACE", LevelTrace.String())
	assert.Equal(t, "Level(0)", Level(0).String())
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestLevel_Ordering(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i], "%s must be more severe than %s", levels[i-1], levels[i])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected Level
	}{
		{"error", LevelError},
		{"ERROR", LevelError},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{" info ", LevelInfo},
		{"debug", LevelDebug},
		{"trace", LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lvl, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lvl)
		})
	}

	_, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLevel_Text(t *testing.T) {
	for _, lvl := range Levels() {
		text, err := lvl.MarshalText()
		require.NoError(t, err)

		var parsed Level
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, lvl, parsed)
	}

	_, err := Level(0).MarshalText()
	require.ErrorIs(t, err, ErrInvalidLevel)

	var lvl Level
	require.ErrorIs(t, lvl.UnmarshalText([]byte("nope")), ErrInvalidLevel)
}

func TestLevel_Enables(t *testing.T) {
	assert.True(t, LevelInfo.Enables(LevelError))
	assert.True(t, LevelInfo.Enables(LevelWarn))
	assert.True(t, LevelInfo.Enables(LevelInfo))
	assert.False(t, LevelInfo.Enables(LevelDebug))
	assert.False(t, LevelInfo.Enables(LevelTrace))
	assert.False(t, LevelTrace.Enables(Level(0)))
	assert.False(t, LevelTrace.Enables(Level(6)))
}

func TestLevel_ZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.ErrorLevel, LevelError.zerologLevel())
	assert.Equal(t, zerolog.WarnLevel, LevelWarn.zerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LevelInfo.zerologLevel())
	assert.Equal(t, zerolog.DebugLevel, LevelDebug.zerologLevel())
	assert.Equal(t, zerolog.TraceLevel, LevelTrace.zerologLevel())
	assert.Equal(t, zerolog.NoLevel, Level(0).zerologLevel())
}

func TestStreamFor(t *testing.T) {
	assert.Equal(t, StreamStderr, streamFor(LevelError))
	for _, lvl := range []Level{LevelWarn, LevelInfo, LevelDebug, LevelTrace} {
		assert.Equal(t, StreamStdout, streamFor(lvl), lvl.String())
	}
	assert.Equal(t, "stdout", StreamStdout.String())
	assert.Equal(t, "stderr", StreamStderr.String())
}
