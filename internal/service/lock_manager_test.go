package service

import (
	"testing"
	"time"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lockEpoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLockManager_CheckWritable(t *testing.T) {
	m := NewLockManager()
	article := &domain.Article{ID: "a1"}

	takeover, err := m.CheckWritable(article, "alice", lockEpoch)
	require.NoError(t, err)
	assert.False(t, takeover, "unlocked article")

	m.Acquire(article, "alice", lockEpoch)

	takeover, err = m.CheckWritable(article, "alice", lockEpoch.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, takeover, "holder may always write")

	_, err = m.CheckWritable(article, "bob", lockEpoch.Add(LockTTL-time.Second))
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.EqualError(t, err, "article is being edited by another user")

	takeover, err = m.CheckWritable(article, "bob", lockEpoch.Add(LockTTL))
	require.NoError(t, err)
	assert.True(t, takeover, "lock expires exactly at TTL")
}

func TestLockManager_CheckWritable_HolderWithoutTimestamp(t *testing.T) {
	holder := "alice"
	article := &domain.Article{ID: "a1", LockedBy: &holder}

	takeover, err := NewLockManager().CheckWritable(article, "bob", lockEpoch)
	require.NoError(t, err)
	assert.True(t, takeover)
}

func TestLockManager_Release(t *testing.T) {
	m := NewLockManager()
	article := &domain.Article{ID: "a1"}

	assert.ErrorIs(t, m.Release(article, "alice"), common.ErrForbidden, "unlocked article")

	m.Acquire(article, "alice", lockEpoch)
	assert.ErrorIs(t, m.Release(article, "bob"), common.ErrForbidden)
	assert.Equal(t, "alice", article.LockHolder())

	require.NoError(t, m.Release(article, "alice"))
	assert.Nil(t, article.LockedBy)
	assert.Nil(t, article.LockedAt)
}

func TestLockManager_Info(t *testing.T) {
	m := NewLockManager()
	article := &domain.Article{ID: "a1"}

	info := m.Info(article, lockEpoch)
	assert.Nil(t, info.LockedBy)

	m.Acquire(article, "alice", lockEpoch)
	info = m.Info(article, lockEpoch.Add(time.Minute))
	require.NotNil(t, info.LockedBy)
	assert.Equal(t, "alice", *info.LockedBy)
	assert.True(t, info.ExpiresAt.Equal(lockEpoch.Add(LockTTL)))

	info = m.Info(article, lockEpoch.Add(LockTTL))
	assert.Nil(t, info.LockedBy, "expired lock reads as free")
}
