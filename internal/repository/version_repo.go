package repository

import (
	"context"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"gorm.io/gorm"
)

// VersionRepository append-only article version history
type VersionRepository interface {
	Create(ctx context.Context, version *domain.ArticleVersion) error
	LatestVersion(ctx context.Context, articleID string) (int, error)
	ListByArticle(ctx context.Context, articleID string, limit int) ([]*domain.ArticleVersion, error)
	FindByArticleAndVersion(ctx context.Context, articleID string, version int) (*domain.ArticleVersion, error)
}

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

// Create returns gorm.ErrDuplicatedKey (with TranslateError) when the number is taken.
func (r *versionRepository) Create(ctx context.Context, version *domain.ArticleVersion) error {
	return conn(ctx, r.db).Create(version).Error
}

// LatestVersion returns 0 when the article has no versions yet.
func (r *versionRepository) LatestVersion(ctx context.Context, articleID string) (int, error) {
	var latest int
	row := conn(ctx, r.db).Model(&domain.ArticleVersion{}).
		Where("article_id = ?", articleID).
		Select("COALESCE(MAX(version), 0)").
		Row()
	if err := row.Scan(&latest); err != nil {
		return 0, err
	}
	return latest, nil
}

// ListByArticle newest first; limit <= 0 returns everything.
func (r *versionRepository) ListByArticle(ctx context.Context, articleID string, limit int) ([]*domain.ArticleVersion, error) {
	var versions []*domain.ArticleVersion
	query := conn(ctx, r.db).Where("article_id = ?", articleID).Order("version DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *versionRepository) FindByArticleAndVersion(ctx context.Context, articleID string, version int) (*domain.ArticleVersion, error) {
	var v domain.ArticleVersion
	err := conn(ctx, r.db).Where("article_id = ? AND version = ?", articleID, version).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
