package domain

import "time"

// ArticleEvent lifecycle notification for downstream consumers
type ArticleEvent struct {
	Action    AuditAction   `json:"action"`
	ArticleID string        `json:"article_id"`
	SiteID    string        `json:"site_id"`
	Status    ArticleStatus `json:"status"`
	Version   int           `json:"version"`
	ActorID   string        `json:"actor_id"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewArticleEvent builds an event from the committed article state.
func NewArticleEvent(action AuditAction, a *Article, actorID string, at time.Time) *ArticleEvent {
	return &ArticleEvent{
		Action:    action,
		ArticleID: a.ID,
		SiteID:    a.SiteID,
		Status:    a.Status,
		Version:   a.Version,
		ActorID:   actorID,
		Timestamp: at.UTC(),
	}
}
