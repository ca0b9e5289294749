package logging

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the package at a temporary log directory and
// resets the global run state, restoring everything afterwards.
func setupTestDir(t *testing.T) {
	t.Helper()

	origLogDir := logDir
	origInitErr := initErr
	origRunID := runID

	logDir = t.TempDir()
	initErr = nil
	initOnce = sync.Once{}
	initOnce.Do(func() {}) // directory already exists, skip home lookup
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		runID = origRunID
		runIDOnce = sync.Once{}
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("engine")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "engine", logger.component)
	assert.NotEmpty(t, logger.RunID())
	assert.Contains(t, logger.LogPath(), logger.RunID())
}

func TestLogger_WritesLeveledEntries(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("workflow")
	require.NoError(t, err)

	logger.Infof("publishing to %s", "douyin")
	logger.Warnf("cover not set")
	logger.Errorf("upload failed: %v", os.ErrDeadlineExceeded)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[workflow] [INFO] publishing to douyin")
	assert.Contains(t, content, "[workflow] [WARN] cover not set")
	assert.Contains(t, content, "[ERROR] upload failed")
}

func TestLoggers_ShareOneRunFile(t *testing.T) {
	setupTestDir(t)

	a, err := NewLogger("browser")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger("publisher")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.RunID(), b.RunID())
	assert.Equal(t, a.LogPath(), b.LogPath())

	a.Infof("from browser")
	b.Infof("from publisher")

	data, err := os.ReadFile(a.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[browser]")
	assert.Contains(t, string(data), "[publisher]")
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("cli")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestLogEntryFormat(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("fmt")
	require.NoError(t, err)

	logger.Debugf("step %d of %d", 2, 7)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	// [timestamp] [component] [level] message
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] \[fmt\] \[DEBUG\] step 2 of 7$`, line)
}
