package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banks-etl/models"
)

func TestProgressLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "code_log.txt")
	p := NewProgressLog(path)
	p.now = func() time.Time { return time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC) }

	require.NoError(t, p.Log("Preliminaries complete. Initiating ETL process"))
	require.NoError(t, p.Log("Process Complete."))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"2024-03-07-09:05:01 : Preliminaries complete. Initiating ETL process\n"+
			"2024-03-07-09:05:01 : Process Complete.\n",
		string(data))
}

func TestProgressLogNeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_log.txt")
	require.NoError(t, os.WriteFile(path, []byte("earlier run\n"), 0o644))

	require.NoError(t, NewProgressLog(path).Log("next run"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "earlier run", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " : next run"))
}

func TestProgressLogFailure(t *testing.T) {
	// a directory cannot be opened for appending
	dir := t.TempDir()
	err := NewProgressLog(dir).Log("x")

	var logErr *models.LogError
	require.True(t, errors.As(err, &logErr))
	assert.Equal(t, dir, logErr.Path)
	assert.Equal(t, "x", logErr.Message)
}

func TestLoggerDebugGated(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Debug("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetLevel("DEBUG")
	l.Debug("shown %d", 2)
	assert.Contains(t, out.String(), "shown 2")

	l.Error("bad %s", "thing")
	assert.Contains(t, errOut.String(), "bad thing")
	assert.NotContains(t, out.String(), "bad thing")
}

func TestLoggerPercentInArgs(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out)
	l.Info("value: %s", "100%")
	assert.Contains(t, out.String(), "value: 100%")
}
