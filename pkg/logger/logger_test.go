package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"Warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"CRITICAL", zerolog.FatalLevel, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{ConsoleLevel: "loud"})
	assert.Error(t, err)
}

func TestConsoleAndFileLevels(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	log, err := New(Options{
		ConsoleLevel: "warn",
		FileLevel:    "debug",
		File:         path,
		Console:      &console,
		NoColor:      true,
	})
	require.NoError(t, err)

	log.Debug("probing session")
	log.WithField("title", "Summer").Warn("highlight failed")
	require.NoError(t, Close(log))

	assert.NotContains(t, console.String(), "probing session")
	assert.Contains(t, console.String(), "highlight failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "probing session")
	assert.Contains(t, string(data), "highlight failed")
	assert.Contains(t, string(data), "title=Summer")
	assert.NotContains(t, string(data), "\033[")
}

func TestRunLogPath(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "igsaver_20240309_140507.log"), RunLogPath("logs", at))
}

func TestTestLoggerCapturesFieldsAndErrors(t *testing.T) {
	log := NewTestLogger()
	boom := errors.New("boom")

	log.WithField("item", "a").WithError(boom).Error("download failed")
	log.InfoWithFields("container done", map[string]interface{}{"items": 2})

	msgs := log.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "ERROR", msgs[0].Level)
	assert.Equal(t, "a", msgs[0].Fields["item"])
	assert.Equal(t, boom, msgs[0].Error)
	assert.Equal(t, 2, msgs[1].Fields["items"])
	assert.True(t, log.HasError())
	assert.True(t, log.HasMessage("container done"))
}

func TestGetLoggerDefaultsToNop(t *testing.T) {
	globalLogger = nil
	assert.IsType(t, NopLogger{}, GetLogger())

	tl := NewTestLogger()
	Initialize(tl)
	t.Cleanup(func() { globalLogger = nil })
	assert.Same(t, tl, GetLogger())
}
