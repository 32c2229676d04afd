package xlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Level
	}{
		{"小写debug", "debug", LevelDebug},
		{"大写INFO", "INFO", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"warning别名", "Warning", LevelWarn},
		{"首尾空白", "  error ", LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	got, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrUnknownLevel)
	assert.Equal(t, LevelInfo, got)
}

func TestLevel_Text(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())

	data, err := LevelError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ERROR", string(data))

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	assert.Equal(t, LevelDebug, l)
	assert.ErrorIs(t, l.UnmarshalText([]byte("x")), ErrUnknownLevel)
}
