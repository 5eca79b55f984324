package repository

import (
	"context"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"gorm.io/gorm"
)

// ChecklistRepository editorial checklist access
type ChecklistRepository interface {
	Create(ctx context.Context, checklist *domain.EditorialChecklist) error
	FindByArticleID(ctx context.Context, articleID string) (*domain.EditorialChecklist, error)
	Update(ctx context.Context, checklist *domain.EditorialChecklist) error
}

type checklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

func (r *checklistRepository) Create(ctx context.Context, checklist *domain.EditorialChecklist) error {
	return conn(ctx, r.db).Create(checklist).Error
}

func (r *checklistRepository) FindByArticleID(ctx context.Context, articleID string) (*domain.EditorialChecklist, error) {
	var checklist domain.EditorialChecklist
	if err := conn(ctx, r.db).Where("article_id = ?", articleID).First(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

func (r *checklistRepository) Update(ctx context.Context, checklist *domain.EditorialChecklist) error {
	return conn(ctx, r.db).Save(checklist).Error
}
