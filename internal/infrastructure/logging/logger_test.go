package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.log")

	logger, err := New(Config{
		Level:       "info",
		OutputPaths: []string{path},
		Name:        "spans",
		Keys:        map[string]string{"message": "msg"},
	})
	require.NoError(t, err)

	logger.Info("Fetched spans")
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out := decode(t, raw[:len(raw)-1])
	assert.Equal(t, "INFO", out["level"])
	assert.Equal(t, "Fetched spans", out["msg"])
	assert.Equal(t, "spans", out["logger"])
	assert.Equal(t, "logger_test", out["module"])
}

func TestNewDevelopment(t *testing.T) {
	logger, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{filepath.Join(t.TempDir(), "dev.log")}})
	require.NoError(t, err)

	assert.NotNil(t, logger.Logger)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDefaultNeverNil(t *testing.T) {
	assert.NotNil(t, NewDefault().Logger)
	assert.NotNil(t, NewDevelopment().Logger)
}
