package sinks

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWritesRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logfile, err := NewLogFile(path, "testapp")
	require.NoError(t, err)

	logfile.Debug("dbg line")
	logfile.Info("info line")
	logfile.Error("err line")

	require.NoError(t, logfile.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Contains(t, string(data), "dbg line")
	require.Contains(t, string(data), "info line")
	require.Contains(t, string(data), "err line")
	require.Contains(t, string(data), "testapp")

	require.Less(t, bytes.Index(data, []byte("dbg line")), bytes.Index(data, []byte("info line")))
	require.Less(t, bytes.Index(data, []byte("info line")), bytes.Index(data, []byte("err line")))
}

func TestLogFileCloseDrainsQueuedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drain.log")

	logfile, err := NewLogFile(path, "testapp")
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		logfile.Info("queued record")
	}
	require.NoError(t, logfile.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 200, bytes.Count(data, []byte("queued record")))
}

func TestLogFileAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.log")

	first, err := NewLogFile(path, "testapp")
	require.NoError(t, err)
	first.Info("from first")
	require.NoError(t, first.Close())

	second, err := NewLogFile(path, "testapp")
	require.NoError(t, err)
	second.Info("from second")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "from first")
	require.Contains(t, string(data), "from second")
}

func TestLogFileOpenFailure(t *testing.T) {
	_, err := NewLogFile(filepath.Join(t.TempDir(), "missing", "nested.log"), "testapp")
	require.Error(t, err)
}
