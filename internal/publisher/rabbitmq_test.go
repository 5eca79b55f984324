package publisher

import (
	"testing"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "article.change_status", RoutingKey(domain.AuditChangeStatus))
	assert.Equal(t, "article.create", RoutingKey(domain.AuditCreate))
}

func TestPublishedActionsHaveDistinctKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, action := range publishedActions {
		key := RoutingKey(action)
		assert.False(t, seen[key], key)
		seen[key] = true
	}
}
