package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logger.LogLevel
		wantErr bool
	}{
		{"debug", logger.DebugLevel, false},
		{"INFO", logger.InfoLevel, false},
		{"", logger.InfoLevel, false},
		{"warning", logger.WarnLevel, false},
		{"warn", logger.WarnLevel, false},
		{"error", logger.ErrorLevel, false},
		{"verbose", logger.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrInvalidLogLevel, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	logger.SetLogLevel(logger.DebugLevel)

	var buf bytes.Buffer
	log := logger.New(&buf, logger.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("channel", "temperature").Int("value", 1750).Msg("published")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "published", entry["message"])
	assert.Equal(t, "temperature", entry["channel"])
	assert.EqualValues(t, 1750, entry["value"])
}

func TestErrorWithCode(t *testing.T) {
	logger.SetLogLevel(logger.DebugLevel)

	var buf bytes.Buffer
	log := logger.New(&buf, logger.DebugLevel)

	log.ErrorWithCode(errors.New().New(errors.ErrInitSensors)).Msg("startup")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "init_sensors_failed", entry["error_code"])
	assert.Equal(t, "error", entry["level"])
}
