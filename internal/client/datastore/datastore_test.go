package datastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCurrentSnapshotMissingFile(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "vault.json"))

	snap, err := store.ReadCurrentSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.ChangedAt.IsZero(), "a missing vault file means never changed")
	assert.Empty(t, snap.Data)
}

func TestReadCurrentSnapshotCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewLocalStore(path)
	_, err := store.ReadCurrentSnapshot(context.Background())
	assert.Error(t, err)
}

func TestImportSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vault.json")
	store := NewLocalStore(path)

	want := &Snapshot{
		SchemaVersion: 1,
		ChangedAt:     time.Now().Truncate(time.Millisecond),
		Data:          json.RawMessage(`{"entries":[{"name":"example"}]}`),
	}
	require.NoError(t, store.ImportSnapshot(context.Background(), want))

	got, err := store.ReadCurrentSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.SchemaVersion, got.SchemaVersion)
	assert.True(t, got.ChangedAt.Equal(want.ChangedAt))
	assert.JSONEq(t, string(want.Data), string(got.Data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestImportSnapshotReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	store := NewLocalStore(path)

	first := &Snapshot{SchemaVersion: 1, ChangedAt: time.UnixMilli(1000)}
	require.NoError(t, store.ImportSnapshot(context.Background(), first))

	second := &Snapshot{SchemaVersion: 2, ChangedAt: time.UnixMilli(2000)}
	require.NoError(t, store.ImportSnapshot(context.Background(), second))

	got, err := store.ReadCurrentSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.SchemaVersion)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault.json", entries[0].Name())
}

func TestImportSnapshotNil(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "vault.json"))
	assert.Error(t, store.ImportSnapshot(context.Background(), nil))
}

func TestSnapshotTouch(t *testing.T) {
	var snap Snapshot
	require.True(t, snap.ChangedAt.IsZero())

	before := time.Now()
	snap.Touch()
	assert.False(t, snap.ChangedAt.IsZero())
	assert.False(t, snap.ChangedAt.After(time.Now()))
	assert.False(t, snap.ChangedAt.Before(before.Truncate(time.Millisecond)))
}
