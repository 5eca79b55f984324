package domain

import "time"

// EditorialChecklist pre-publication review items, one row per article
type EditorialChecklist struct {
	ID                 string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ArticleID          string     `gorm:"column:article_id;type:varchar(36);not null;uniqueIndex" json:"article_id"`
	FactChecked        bool       `gorm:"column:fact_checked;not null;default:false" json:"fact_checked"`
	SourcesVerified    bool       `gorm:"column:sources_verified;not null;default:false" json:"sources_verified"`
	MediaRightsCleared bool       `gorm:"column:media_rights_cleared;not null;default:false" json:"media_rights_cleared"`
	LegalReviewed      bool       `gorm:"column:legal_reviewed;not null;default:false" json:"legal_reviewed"`
	Notes              *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ReviewedBy         *string    `gorm:"column:reviewed_by;type:varchar(36)" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (EditorialChecklist) TableName() string { return "editorial_checklists" }

// Complete reports whether every review item is ticked.
func (c *EditorialChecklist) Complete() bool {
	return c.FactChecked && c.SourcesVerified && c.MediaRightsCleared && c.LegalReviewed
}
