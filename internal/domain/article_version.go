package domain

import (
	"strconv"
	"time"
)

// ArticleVersion immutable content snapshot. (article_id, version) is unique
// and versions of one article form the sequence 1..N.
type ArticleVersion struct {
	ID        string        `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ArticleID string        `gorm:"column:article_id;type:varchar(36);not null;uniqueIndex:uk_article_versions_article_version,priority:1" json:"article_id"`
	Version   int           `gorm:"column:version;not null;uniqueIndex:uk_article_versions_article_version,priority:2" json:"version"`
	Title     string        `gorm:"column:title;type:varchar(300);not null" json:"title"`
	Content   string        `gorm:"column:content;type:longtext" json:"content"`
	Status    ArticleStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Reason    string        `gorm:"column:reason;type:varchar(255)" json:"reason"`
	CreatedBy string        `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	CreatedAt time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (ArticleVersion) TableName() string { return "article_versions" }

// Snapshot reasons
const (
	ReasonInitial = "initial version"
	ReasonUpdate  = "update"
)

// ReasonStatusChanged e.g. "status changed to PUBLISHED"
func ReasonStatusChanged(status ArticleStatus) string {
	return "status changed to " + string(status)
}

// ReasonRollback e.g. "rollback to version 1"
func ReasonRollback(version int) string {
	return "rollback to version " + strconv.Itoa(version)
}
