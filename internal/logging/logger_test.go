package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.ErrorContains(t, err, "parse logging level")
}

func TestConsoleRespectsLevel(t *testing.T) {
	var out bytes.Buffer
	l, err := New(&out, Options{Level: "warn", Prefix: "decide"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "picker", "task")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
	assert.Contains(t, out.String(), "decide")
	assert.Empty(t, l.FilePath())
}

func TestConsoleCanBeMuted(t *testing.T) {
	var out bytes.Buffer
	l, err := New(&out, Options{Level: "debug"})
	require.NoError(t, err)

	l.SetConsoleEnabled(false)
	l.Error("muted")
	l.SetConsoleEnabled(true)
	l.Debug("audible")

	assert.NotContains(t, out.String(), "muted")
	assert.Contains(t, out.String(), "audible")
}

func TestFileSinkKeepsEventsWhileConsoleMuted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "decide.log")
	var out bytes.Buffer
	l, err := New(&out, Options{Level: "info", FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, path, l.FilePath())

	l.SetConsoleEnabled(false)
	l.Info("spin finished", "number", 7)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msg="spin finished"`)
	assert.Contains(t, string(data), "number=7")
	assert.Empty(t, out.String())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("nothing")
	l.SetConsoleEnabled(false)
	assert.NoError(t, l.Close())
	assert.Empty(t, l.FilePath())
}
