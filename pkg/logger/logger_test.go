package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()

	l, err := Initialize("board_service", dir)
	require.NoError(t, err)

	l.Info("hello", zap.String("room_id", "general"))
	l.Sync()

	path := filepath.Join(dir, "log_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"room_id":"general"`)
	assert.Contains(t, string(data), `"service":"board_service"`)
}

func TestSetDebugMode(t *testing.T) {
	l := NewNop()
	assert.False(t, l.DebugMode())
	l.SetDebugMode(true)
	assert.True(t, l.DebugMode())
	l.SetDebugMode(false)
	assert.False(t, l.DebugMode())
}

func TestDefaultLogIsUsable(t *testing.T) {
	SetNewNop()
	assert.NotPanics(t, func() {
		Log.Info("info")
		Log.Warn("warn")
		Log.Debug("debug")
		Log.Error("error")
	})
}
