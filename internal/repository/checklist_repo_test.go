package repository

import (
	"context"
	"testing"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestChecklistRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewChecklistRepository(db)
	ctx := context.Background()

	_, err := repo.FindByArticleID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	c := &domain.EditorialChecklist{ID: uuid.NewString(), ArticleID: "a1"}
	require.NoError(t, repo.Create(ctx, c))

	c.FactChecked = true
	c.LegalReviewed = true
	require.NoError(t, repo.Update(ctx, c))

	found, err := repo.FindByArticleID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, found.FactChecked)
	assert.True(t, found.LegalReviewed)
	assert.False(t, found.Complete())
}
