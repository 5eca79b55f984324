package service

import (
	"time"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
)

// LockTTL how long an edit lock protects its holder. After it elapses any
// other actor silently takes the lock over on write.
const LockTTL = 5 * time.Minute

// LockManager edit lock rules. It only mutates the in-memory article; the
// caller persists the lock columns in the same commit as the rest of the write.
type LockManager struct {
	ttl time.Duration
}

func NewLockManager() *LockManager {
	return &LockManager{ttl: LockTTL}
}

// Acquire sets actorID as holder unconditionally.
func (m *LockManager) Acquire(article *domain.Article, actorID string, now time.Time) {
	holder := actorID
	at := now
	article.LockedBy = &holder
	article.LockedAt = &at
}

// Release clears the lock. Only the current holder may release it; releasing an
// unlocked article is Forbidden as well.
func (m *LockManager) Release(article *domain.Article, actorID string) error {
	if article.LockHolder() != actorID {
		return common.NewForbidden("article is not locked by you")
	}
	article.LockedBy = nil
	article.LockedAt = nil
	return nil
}

// CheckWritable decides whether actorID may write now. takeover is true when a
// stale lock of another actor is being replaced.
func (m *LockManager) CheckWritable(article *domain.Article, actorID string, now time.Time) (takeover bool, err error) {
	holder := article.LockHolder()
	if holder == "" || holder == actorID {
		return false, nil
	}
	if article.LockedAt != nil && now.Sub(*article.LockedAt) < m.ttl {
		expires := article.LockedAt.Add(m.ttl)
		return false, common.NewConflict("article is being edited by another user").
			WithDetails(map[string]interface{}{
				"locked_by":  holder,
				"expires_at": expires,
			})
	}
	return true, nil
}

// Info read view of the lock; an expired lock is reported as free.
func (m *LockManager) Info(article *domain.Article, now time.Time) *domain.LockInfo {
	info := &domain.LockInfo{ArticleID: article.ID}
	if article.LockedBy == nil || article.LockedAt == nil {
		return info
	}
	expires := article.LockedAt.Add(m.ttl)
	if !now.Before(expires) {
		return info
	}
	info.LockedBy = article.LockedBy
	info.LockedAt = article.LockedAt
	info.ExpiresAt = &expires
	return info
}

// lockFields columns to persist after Acquire or Release.
func lockFields(article *domain.Article) map[string]interface{} {
	return map[string]interface{}{
		"locked_by": article.LockedBy,
		"locked_at": article.LockedAt,
	}
}
