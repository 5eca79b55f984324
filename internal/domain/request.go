package domain

// CreateArticleRequest 기사 생성 요청
type CreateArticleRequest struct {
	SiteID     string      `json:"site_id" validate:"omitempty,max=36"`
	Title      string      `json:"title" validate:"required,max=300"`
	Subtitle   *string     `json:"subtitle" validate:"omitempty,max=300"`
	Excerpt    *string     `json:"excerpt"`
	Content    string      `json:"content"`
	Slug       string      `json:"slug" validate:"required,max=200,slug"`
	Type       ArticleType `json:"type" validate:"omitempty,article_type"`
	CategoryID *string     `json:"category_id" validate:"omitempty,max=36"`
	AuthorID   *string     `json:"author_id" validate:"omitempty,max=36"`
	TagIDs     []string    `json:"tag_ids" validate:"omitempty,dive,required,max=36"`
}

// UpdateArticleRequest partial update. Nil fields are left untouched;
// a non-nil TagIDs replaces the tag set (an empty slice clears it).
type UpdateArticleRequest struct {
	Title      *string      `json:"title" validate:"omitempty,min=1,max=300"`
	Subtitle   *string      `json:"subtitle" validate:"omitempty,max=300"`
	Excerpt    *string      `json:"excerpt"`
	Content    *string      `json:"content"`
	Slug       *string      `json:"slug" validate:"omitempty,max=200,slug"`
	Type       *ArticleType `json:"type" validate:"omitempty,article_type"`
	CategoryID *string      `json:"category_id" validate:"omitempty,max=36"`
	AuthorID   *string      `json:"author_id" validate:"omitempty,max=36"`
	TagIDs     *[]string    `json:"tag_ids" validate:"omitempty,dive,required,max=36"`
}

// IsEmpty reports whether the patch carries no field at all.
func (r *UpdateArticleRequest) IsEmpty() bool {
	return r.Title == nil && r.Subtitle == nil && r.Excerpt == nil && r.Content == nil &&
		r.Slug == nil && r.Type == nil && r.CategoryID == nil && r.AuthorID == nil && r.TagIDs == nil
}

type ChangeStatusRequest struct {
	Status ArticleStatus `json:"status" binding:"required"`
}

type RollbackRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// ChecklistPatch partial checklist update
type ChecklistPatch struct {
	FactChecked        *bool   `json:"fact_checked"`
	SourcesVerified    *bool   `json:"sources_verified"`
	MediaRightsCleared *bool   `json:"media_rights_cleared"`
	LegalReviewed      *bool   `json:"legal_reviewed"`
	Notes              *string `json:"notes"`
}

// ArticleFilter 목록 조회 조건
type ArticleFilter struct {
	SiteID     string        `form:"site_id"`
	Status     ArticleStatus `form:"status" validate:"omitempty,article_status"`
	Type       ArticleType   `form:"type" validate:"omitempty,article_type"`
	CategoryID string        `form:"category_id"`
	AuthorID   string        `form:"author_id"`
	Search     string        `form:"search" validate:"max=200"`
	Page       int           `form:"page" validate:"min=0"`
	Limit      int           `form:"limit" validate:"min=0,max=100"`
	OrderBy    string        `form:"order_by" validate:"omitempty,oneof=created_at updated_at published_at title views"`
	Order      string        `form:"order" validate:"omitempty,oneof=asc desc"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Normalize fills paging and ordering defaults.
func (f *ArticleFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.Order == "" {
		f.Order = "desc"
	}
}

// Offset row offset for the current page
func (f *ArticleFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
