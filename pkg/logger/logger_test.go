package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Info("hidden %d", 1)
	log.Warn("visible %s", "warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "level=WARN")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	require.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calendar.log")

	log, err := New(path, "info")
	require.NoError(t, err)

	log.Info("slot added: id=%s", "abc")
	require.NoError(t, log.Close())
	require.NoError(t, log.Close())

	assert.FileExists(t, path)
}
