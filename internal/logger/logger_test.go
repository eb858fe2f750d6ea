package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json format writes structured lines", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info", "json")
		log.Info().Str("component", "test").Msg("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "hello", entry["message"])
		require.Equal(t, "test", entry["component"])
		require.Contains(t, entry, "time")
		require.Contains(t, entry, "caller")
	})

	t.Run("level filters lower events", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "warn", "json")
		log.Info().Msg("dropped")
		require.Zero(t, buf.Len())

		log.Warn().Msg("kept")
		require.Contains(t, buf.String(), "kept")
	})

	t.Run("console format is human readable", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "debug", "console")
		log.Debug().Msg("console line")
		require.Contains(t, buf.String(), "console line")
	})
}
