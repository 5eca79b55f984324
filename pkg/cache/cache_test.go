package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleKeys(t *testing.T) {
	assert.Equal(t, "article:abc", ArticleKey("abc"))
	assert.Equal(t, "article:views:abc", ArticleViewsKey("abc"))
	assert.Equal(t, []string{"article:abc", "article:views:abc"}, ArticleKeys("abc"))
}

func TestNilClient_WritesAreNoops(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.Set(ctx, "k", "v", TTLDefault))
	assert.NoError(t, svc.SetArticle(ctx, "a1", map[string]string{"title": "x"}))
	assert.NoError(t, svc.SetArticleViews(ctx, "a1", 10))
	assert.NoError(t, svc.Delete(ctx, ArticleKeys("a1")...))

	exists, err := svc.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestNilClient_ReadsMiss(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.GetArticle(ctx, "a1")
	assert.True(t, IsMiss(err))

	_, err = svc.GetArticleViews(ctx, "a1")
	assert.True(t, IsMiss(err))

	var dest map[string]interface{}
	assert.True(t, IsMiss(svc.Get(ctx, "k", &dest)))

	assert.Error(t, svc.Ping(ctx))
}
