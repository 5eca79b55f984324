package migration

import (
	"testing"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRunAndDrop(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Run(db))
	// idempotent
	require.NoError(t, Run(db))

	m := db.Migrator()
	for _, table := range []string{"articles", "article_tags", "article_versions", "editorial_checklists", "audit_logs"} {
		assert.True(t, m.HasTable(table), table)
	}
	assert.True(t, m.HasIndex(&domain.Article{}, "uk_articles_site_slug"))
	assert.True(t, m.HasIndex(&domain.ArticleVersion{}, "uk_article_versions_article_version"))

	require.NoError(t, Drop(db))
	assert.False(t, m.HasTable("articles"))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t,
		[]string{"articles", "article_tags", "article_versions", "editorial_checklists", "audit_logs"},
		TableNames())
}
