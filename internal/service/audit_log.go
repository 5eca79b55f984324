package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/repository"
	"github.com/fservio/projeto-do-povo/pkg/clock"
	"github.com/google/uuid"
)

// AuditLog writes audit entries through the transaction carried by ctx.
type AuditLog struct {
	repo  repository.AuditRepository
	clock clock.Clock
}

func NewAuditLog(repo repository.AuditRepository, clk clock.Clock) *AuditLog {
	return &AuditLog{repo: repo, clock: clk}
}

// Record fails when the entry cannot be persisted, which aborts the surrounding mutation.
func (l *AuditLog) Record(ctx context.Context, actorID string, action domain.AuditAction, resource, resourceID string, payload interface{}) error {
	entry := &domain.AuditEntry{
		ID:         uuid.NewString(),
		UserID:     actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		RequestID:  common.RequestIDFromContext(ctx),
		CreatedAt:  l.clock.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		changes := string(data)
		entry.Changes = &changes
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record audit %s: %w", action, err)
	}
	return nil
}
