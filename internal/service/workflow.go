package service

import (
	"time"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
)

// forbiddenTransitions lists the only rejected (from, to) pairs. Every other
// pair, including a status to itself, is allowed.
var forbiddenTransitions = map[domain.ArticleStatus]map[domain.ArticleStatus]string{
	domain.StatusDraft: {
		domain.StatusPublished: "article must be reviewed before publishing",
	},
}

// WorkflowEngine editorial state machine
type WorkflowEngine struct{}

func NewWorkflowEngine() *WorkflowEngine {
	return &WorkflowEngine{}
}

// ValidateTransition returns a Validation error for unknown statuses and a
// Forbidden error for disallowed transitions.
func (w *WorkflowEngine) ValidateTransition(current, requested domain.ArticleStatus) error {
	if !requested.IsValid() {
		return common.NewValidation("invalid status %q", requested)
	}
	if reason, ok := forbiddenTransitions[current][requested]; ok {
		return common.NewForbidden("%s", reason)
	}
	return nil
}

// ApplyTransition moves the article to requested. published_at is stamped the
// first time the article reaches PUBLISHED and never overwritten; the return
// value reports whether that happened.
func (w *WorkflowEngine) ApplyTransition(article *domain.Article, requested domain.ArticleStatus, now time.Time) bool {
	article.Status = requested
	if requested == domain.StatusPublished && article.PublishedAt == nil {
		t := now
		article.PublishedAt = &t
		return true
	}
	return false
}
