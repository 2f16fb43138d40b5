package util

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_AutoIsJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(LogOptions{Format: "auto", Output: &buf})
	require.NoError(t, err)

	logger.Info("hello", zap.String("mode", "wifi"))
	require.NoError(t, closeFn())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "wifi", entry["mode"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(LogOptions{Format: "console", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "INFO")

	buf.Reset()
	logger, _, err = NewLogger(LogOptions{Debug: true, Format: "console", Output: &buf})
	require.NoError(t, err)
	logger.Debug("now visible")
	_ = logger.Sync()
	assert.Contains(t, buf.String(), "now visible")
}

func TestNewLogger_TeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "network-switcher.log")

	logger, closeFn, err := NewLogger(LogOptions{Format: "console", File: path, Output: &buf})
	require.NoError(t, err)
	logger.Warn("radio query failed")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "file entries are JSON: %s", line)
	assert.Contains(t, line, `"radio query failed"`)
	assert.Contains(t, buf.String(), "radio query failed")
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, _, err := NewLogger(LogOptions{Format: "xml", Output: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
