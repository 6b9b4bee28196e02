package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvault/vaultsync/internal/utils"
)

func TestNewWorkspaceLayout(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root)
	require.NoError(t, err)

	assert.Equal(t, root, ws.Root)
	assert.Equal(t, filepath.Join(root, ".data"), ws.MetadataDir)
	assert.Equal(t, filepath.Join(root, "logs"), ws.LogsDir)
	assert.Equal(t, filepath.Join(root, "vault.json"), ws.VaultPath)
	assert.Equal(t, filepath.Join(root, ".data", "sync.db"), ws.StateDBPath)
}

func TestNewWorkspaceEmptyPath(t *testing.T) {
	_, err := NewWorkspace("")
	assert.Error(t, err)
}

func TestSetupCreatesDirsAndLocks(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root)
	require.NoError(t, err)

	require.NoError(t, ws.Setup())
	defer ws.Unlock()

	assert.DirExists(t, ws.MetadataDir)
	assert.DirExists(t, ws.LogsDir)
	assert.True(t, utils.FileExists(filepath.Join(ws.MetadataDir, "vaultsync.lock")))
}

func TestLockExcludesSecondInstance(t *testing.T) {
	root := t.TempDir()

	first, err := NewWorkspace(root)
	require.NoError(t, err)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	second, err := NewWorkspace(root)
	require.NoError(t, err)
	assert.ErrorIs(t, second.Lock(), ErrWorkspaceLocked)
}

func TestUnlockRemovesLockFile(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root)
	require.NoError(t, err)

	require.NoError(t, ws.Lock())
	require.NoError(t, ws.Unlock())
	assert.False(t, utils.FileExists(filepath.Join(ws.MetadataDir, "vaultsync.lock")))

	// unlocking a workspace we never locked is a no-op
	other, err := NewWorkspace(root)
	require.NoError(t, err)
	assert.NoError(t, other.Unlock())
}
