package logsink_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hysticali/unifile/pkg/logsink"
)

func TestSinkWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	sink, err := logsink.New(logsink.Options{FilePath: logPath})
	require.NoError(t, err)

	sink.Info("Renamed file: %s -> %s", "/a/ü.txt", "/a/ue.txt")
	sink.Error("Error renaming file %s: %v", "/a/b.txt", os.ErrPermission)
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " - INFO - Renamed file: /a/ü.txt -> /a/ue.txt")
	assert.Contains(t, lines[1], " - ERROR - Error renaming file /a/b.txt: permission denied")
}

func TestSinkAppendsToExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(logPath, []byte("previous run\n"), 0o644))

	sink, err := logsink.New(logsink.Options{FilePath: logPath})
	require.NoError(t, err)
	sink.Info("Processing completed.")
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "previous run\n"))
	assert.Contains(t, string(content), "Processing completed.")
}

func TestSinkWithoutFile(t *testing.T) {
	sink, err := logsink.New(logsink.Options{})
	require.NoError(t, err)

	// No file and console disabled: lines go nowhere, Close is a no-op.
	sink.Info("quiet")
	assert.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())
}

func TestSinkBadFilePath(t *testing.T) {
	_, err := logsink.New(logsink.Options{
		FilePath: filepath.Join(t.TempDir(), "missing", "run.log"),
	})
	assert.Error(t, err)
}
