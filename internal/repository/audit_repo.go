package repository

import (
	"context"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"gorm.io/gorm"
)

// AuditRepository audit_logs access. Entries are never updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]*domain.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

// ListByResource newest first
func (r *auditRepository) ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	query := conn(ctx, r.db).
		Where("resource = ? AND resource_id = ?", resource, resourceID).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
