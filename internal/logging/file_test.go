package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, closer := NewFileLogger(FileOptions{Path: path})

	log.With("module", "sync").Info(context.Background(), "sync finished", "failed", 0)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"sync finished\"")
	assert.Contains(t, string(data), "module=sync")
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	var l Logger = Discard()
	l.With("a", 1).Error(context.Background(), "ignored")
}
