package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvault/vaultsync/internal/client/sync"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestOpenInitializesEmptyState(t *testing.T) {
	st, _ := openTestStore(t)

	rev, err := st.Revision()
	require.NoError(t, err)
	assert.Empty(t, rev)

	last, err := st.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, last.IsZero(), "a fresh store has never synced")

	attempt, err := st.LastAttemptAt()
	require.NoError(t, err)
	assert.True(t, attempt.IsZero())
}

func TestSetSyncedWritesPairAtomically(t *testing.T) {
	st, path := openTestStore(t)

	ts := time.Now().Truncate(time.Millisecond)
	require.NoError(t, st.SetSynced("rev-42", ts))

	rev, err := st.Revision()
	require.NoError(t, err)
	assert.Equal(t, "rev-42", rev)

	last, err := st.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, last.Equal(ts))

	// survives a close and reopen
	require.NoError(t, st.Close())
	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	rev, err = st2.Revision()
	require.NoError(t, err)
	assert.Equal(t, "rev-42", rev)

	last, err = st2.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, last.Equal(ts))
}

func TestSetSyncedRejectsInvalidValues(t *testing.T) {
	st, _ := openTestStore(t)

	err := st.SetSynced("", time.Now())
	assert.ErrorIs(t, err, sync.ErrInvalidBookkeeping)

	err = st.SetSynced("rev-1", time.Time{})
	assert.ErrorIs(t, err, sync.ErrInvalidBookkeeping)

	// neither write may have gone through
	rev, err := st.Revision()
	require.NoError(t, err)
	assert.Empty(t, rev)
}

func TestSetLastSyncTimeLeavesRevisionAlone(t *testing.T) {
	st, _ := openTestStore(t)

	require.NoError(t, st.SetSynced("rev-1", time.UnixMilli(1000)))
	require.NoError(t, st.SetLastSyncTime(time.UnixMilli(2000)))

	rev, err := st.Revision()
	require.NoError(t, err)
	assert.Equal(t, "rev-1", rev)

	last, err := st.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, last.Equal(time.UnixMilli(2000)))

	assert.ErrorIs(t, st.SetLastSyncTime(time.Time{}), sync.ErrInvalidBookkeeping)
}

func TestSetRevisionRejectsEmpty(t *testing.T) {
	st, _ := openTestStore(t)

	assert.ErrorIs(t, st.SetRevision(""), sync.ErrInvalidBookkeeping)
	require.NoError(t, st.SetRevision("rev-9"))

	rev, err := st.Revision()
	require.NoError(t, err)
	assert.Equal(t, "rev-9", rev)
}

func TestMarkAttemptObserved(t *testing.T) {
	st, _ := openTestStore(t)

	ts := time.Now().Truncate(time.Millisecond)
	require.NoError(t, st.MarkAttemptObserved(ts))

	attempt, err := st.LastAttemptAt()
	require.NoError(t, err)
	assert.True(t, attempt.Equal(ts))

	// attempts do not touch the sync marker
	last, err := st.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	assert.ErrorIs(t, st.MarkAttemptObserved(time.Time{}), sync.ErrInvalidBookkeeping)
}
