package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vecview/internal/config"
)

func TestInitializeServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Assets.Dir = t.TempDir()
	cfg.LogLevel = "silent"

	srv, cleanup, err := InitializeServer(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, srv.IsRunning())
	assert.Equal(t, int64(0), srv.Stats().ActiveSessions)
	require.NoError(t, srv.Close())
}
