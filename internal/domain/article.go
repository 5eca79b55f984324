package domain

import (
	"time"

	"gorm.io/gorm"
)

// ArticleStatus editorial workflow state
type ArticleStatus string

const (
	StatusDraft      ArticleStatus = "DRAFT"
	StatusInReview   ArticleStatus = "IN_REVIEW"
	StatusApproved   ArticleStatus = "APPROVED"
	StatusScheduled  ArticleStatus = "SCHEDULED"
	StatusPublished  ArticleStatus = "PUBLISHED"
	StatusArchived   ArticleStatus = "ARCHIVED"
	StatusCorrection ArticleStatus = "CORRECTION"
)

// ArticleStatuses lists every workflow state in declaration order.
var ArticleStatuses = []ArticleStatus{
	StatusDraft, StatusInReview, StatusApproved, StatusScheduled,
	StatusPublished, StatusArchived, StatusCorrection,
}

func (s ArticleStatus) IsValid() bool {
	for _, v := range ArticleStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ArticleType editorial format
type ArticleType string

const (
	TypeNews          ArticleType = "NEWS"
	TypeArticle       ArticleType = "ARTICLE"
	TypeColumn        ArticleType = "COLUMN"
	TypeInterview     ArticleType = "INTERVIEW"
	TypeSpecial       ArticleType = "SPECIAL"
	TypeLiveblog      ArticleType = "LIVEBLOG"
	TypeInstitutional ArticleType = "INSTITUTIONAL"
	TypeService       ArticleType = "SERVICE"
)

func (t ArticleType) IsValid() bool {
	switch t {
	case TypeNews, TypeArticle, TypeColumn, TypeInterview,
		TypeSpecial, TypeLiveblog, TypeInstitutional, TypeService:
		return true
	}
	return false
}

// Article is the editorial document governed by the lifecycle engine.
// Version counts content snapshots; Revision is bumped on every row write
// and used for compare-and-set updates.
type Article struct {
	ID          string         `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SiteID      string         `gorm:"column:site_id;type:varchar(36);not null;default:'';uniqueIndex:uk_articles_site_slug,priority:1" json:"site_id"`
	Slug        string         `gorm:"column:slug;type:varchar(200);not null;uniqueIndex:uk_articles_site_slug,priority:2" json:"slug"`
	Title       string         `gorm:"column:title;type:varchar(300);not null" json:"title"`
	Subtitle    *string        `gorm:"column:subtitle;type:varchar(300)" json:"subtitle,omitempty"`
	Excerpt     *string        `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	Content     string         `gorm:"column:content;type:longtext" json:"content"`
	Type        ArticleType    `gorm:"column:type;type:varchar(20);not null;default:'ARTICLE'" json:"type"`
	Status      ArticleStatus  `gorm:"column:status;type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	CategoryID  *string        `gorm:"column:category_id;type:varchar(36);index" json:"category_id,omitempty"`
	AuthorID    *string        `gorm:"column:author_id;type:varchar(36);index" json:"author_id,omitempty"`
	Version     int            `gorm:"column:version;not null;default:1" json:"version"`
	Revision    int64          `gorm:"column:revision;not null;default:0" json:"-"`
	LockedBy    *string        `gorm:"column:locked_by;type:varchar(36)" json:"locked_by,omitempty"`
	LockedAt    *time.Time     `gorm:"column:locked_at" json:"locked_at,omitempty"`
	PublishedAt *time.Time     `gorm:"column:published_at;index" json:"published_at,omitempty"`
	Views       int64          `gorm:"column:views;not null;default:0" json:"views"`
	CreatedBy   string         `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	UpdatedBy   string         `gorm:"column:updated_by;type:varchar(36)" json:"updated_by"`
	CreatedAt   time.Time      `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	Tags      []ArticleTag        `gorm:"foreignKey:ArticleID" json:"tags,omitempty"`
	Checklist *EditorialChecklist `gorm:"foreignKey:ArticleID" json:"checklist,omitempty"`
}

func (Article) TableName() string { return "articles" }

// LockHolder returns "" when the article is not locked.
func (a *Article) LockHolder() string {
	if a.LockedBy == nil {
		return ""
	}
	return *a.LockedBy
}

// TagIDs returns the ids of the loaded tag rows.
func (a *Article) TagIDs() []string {
	ids := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.TagID)
	}
	return ids
}

// ArticleTag join row between an article and a tag
type ArticleTag struct {
	ArticleID string    `gorm:"column:article_id;type:varchar(36);primaryKey" json:"-"`
	TagID     string    `gorm:"column:tag_id;type:varchar(36);primaryKey" json:"tag_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

func (ArticleTag) TableName() string { return "article_tags" }

// LockInfo is the read view of an article's edit lock.
type LockInfo struct {
	ArticleID string     `json:"article_id"`
	LockedBy  *string    `json:"locked_by"`
	LockedAt  *time.Time `json:"locked_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}
