package middleware

import (
	"strings"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/gin-gonic/gin"
)

// Article actions checked before a request reaches the lifecycle service.
const (
	ActionCreate       = "create"
	ActionRead         = "read"
	ActionUpdate       = "update"
	ActionChangeStatus = "change_status"
	ActionDelete       = "delete"
	ActionLock         = "lock"
	ActionRollback     = "rollback"
	ActionChecklist    = "checklist"
)

// PermissionChecker decides whether an actor may perform action on resource.
// Implemented outside the service package so the engine stays policy-free.
type PermissionChecker interface {
	CanPerform(actorID string, roles []string, resource, action string) bool
}

// RolePolicy grants "resource:action" permissions per role.
// "resource:*" grants every action on resource, "*" grants everything.
type RolePolicy struct {
	grants map[string]map[string]struct{}
}

// NewRolePolicy builds a policy from role -> ["article:create", ...].
func NewRolePolicy(permissions map[string][]string) *RolePolicy {
	p := &RolePolicy{grants: make(map[string]map[string]struct{}, len(permissions))}
	for role, perms := range permissions {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			perm = strings.TrimSpace(perm)
			if perm != "" {
				set[perm] = struct{}{}
			}
		}
		p.grants[strings.ToLower(role)] = set
	}
	return p
}

func (p *RolePolicy) CanPerform(actorID string, roles []string, resource, action string) bool {
	if actorID == "" {
		return false
	}
	for _, role := range roles {
		set, ok := p.grants[strings.ToLower(role)]
		if !ok {
			continue
		}
		if _, ok := set["*"]; ok {
			return true
		}
		if _, ok := set[resource+":*"]; ok {
			return true
		}
		if _, ok := set[resource+":"+action]; ok {
			return true
		}
	}
	return false
}

// RequirePermission returns a middleware that rejects actors lacking resource:action.
// It requires JWTAuth middleware to be applied first
func RequirePermission(checker PermissionChecker, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			common.RespondError(c, common.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		if !checker.CanPerform(userID, GetRoles(c), resource, action) {
			common.RespondError(c, common.NewForbidden("permission denied: %s:%s", resource, action))
			c.Abort()
			return
		}
		c.Next()
	}
}
