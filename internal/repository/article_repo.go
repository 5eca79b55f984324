package repository

import (
	"context"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository article data access
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	SlugExists(ctx context.Context, siteID, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int64, error)
	UpdateIfRevision(ctx context.Context, id string, revision int64, fields map[string]interface{}) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	ReplaceTags(ctx context.Context, articleID string, tagIDs []string) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Create inserts the article row only; tags and checklist have their own writes.
func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(article).Error
}

// FindByID returns gorm.ErrRecordNotFound for missing or soft-deleted articles.
func (r *articleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	err := conn(ctx, r.db).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag_id ASC") }).
		Preload("Checklist").
		Where("id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// SlugExists checks uniqueness within a site, soft-deleted rows included.
func (r *articleRepository) SlugExists(ctx context.Context, siteID, slug, excludeID string) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Unscoped().Model(&domain.Article{}).
		Where("site_id = ? AND slug = ?", siteID, slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var articleOrderColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"views":        "views",
}

func (r *articleRepository) List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int64, error) {
	filter.Normalize()

	query := conn(ctx, r.db).Model(&domain.Article{})
	if filter.SiteID != "" {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(title LIKE ? OR subtitle LIKE ? OR excerpt LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := articleOrderColumns[filter.OrderBy]
	if !ok {
		column = "created_at"
	}
	desc := filter.Order != "asc"

	var articles []*domain.Article
	err := query.
		Preload("Tags").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// UpdateIfRevision applies fields only if the row still carries revision, bumping
// it in the same statement. No matching row yields ErrStaleRevision.
func (r *articleRepository) UpdateIfRevision(ctx context.Context, id string, revision int64, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["revision"] = gorm.Expr("revision + 1")

	result := conn(ctx, r.db).Model(&domain.Article{}).
		Where("id = ? AND revision = ?", id, revision).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRevision
	}
	return nil
}

// IncrementViews is a single atomic increment; it does not touch revision or updated_at.
func (r *articleRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	db := conn(ctx, r.db)
	result := db.Model(&domain.Article{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var views int64
	if err := db.Model(&domain.Article{}).Where("id = ?", id).Select("views").Scan(&views).Error; err != nil {
		return 0, err
	}
	return views, nil
}

func (r *articleRepository) ReplaceTags(ctx context.Context, articleID string, tagIDs []string) error {
	db := conn(ctx, r.db)
	if err := db.Where("article_id = ?", articleID).Delete(&domain.ArticleTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]domain.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, domain.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
