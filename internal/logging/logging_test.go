package logging

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

// Init mutates process state, so these subtests run sequentially.
func TestInit(t *testing.T) {
	t.Run("JSONFormat", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "info", Format: "json", Output: &buf})
		defer Init(Config{})

		Info().Str("network", "ucn").Msg("built")
		Debug().Msg("hidden")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &entry))
		assert.Equal(t, "built", entry["message"])
		assert.Equal(t, "ucn", entry["network"])
		assert.Equal(t, "info", entry["level"])
	})

	t.Run("ComponentLogger", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "debug", Format: "json", Output: &buf})
		defer Init(Config{})

		l := With("ingestion")
		l.Debug().Msg("phase")
		assert.Contains(t, buf.String(), `"component":"ingestion"`)
	})

	t.Run("ConsoleFormat", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: "warn", Output: &buf})
		defer Init(Config{})

		Info().Msg("skipped")
		Warn().Msg("no substitutes")
		assert.NotContains(t, buf.String(), "skipped")
		assert.Contains(t, buf.String(), "no substitutes")
	})
}
