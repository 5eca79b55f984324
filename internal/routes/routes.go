package routes

import (
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/handler"
	"github.com/fservio/projeto-do-povo/internal/middleware"
	"github.com/fservio/projeto-do-povo/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// SetupArticles configures the article lifecycle routes.
// viewMiddleware runs before the public view counter (e.g. a rate limiter).
func SetupArticles(
	router *gin.Engine,
	articleHandler *handler.ArticleHandler,
	jwtManager *jwt.Manager,
	checker middleware.PermissionChecker,
	viewMiddleware ...gin.HandlerFunc,
) {
	api := router.Group("/api/v2")

	// Public endpoints (no auth required)
	public := api.Group("/articles")
	public.POST("/:id/view", append(viewMiddleware, articleHandler.RecordView)...)
	public.GET("/:id/views", articleHandler.GetViews)

	articles := api.Group("/articles", middleware.JWTAuth(jwtManager))
	can := func(action string) gin.HandlerFunc {
		return middleware.RequirePermission(checker, domain.ResourceArticle, action)
	}

	articles.POST("", can(middleware.ActionCreate), articleHandler.Create)
	articles.GET("", can(middleware.ActionRead), articleHandler.List)
	articles.GET("/:id", can(middleware.ActionRead), articleHandler.Get)
	articles.PUT("/:id", can(middleware.ActionUpdate), articleHandler.Update)
	articles.PUT("/:id/status", can(middleware.ActionChangeStatus), articleHandler.ChangeStatus)
	articles.DELETE("/:id", can(middleware.ActionDelete), articleHandler.Delete)

	// Edit lock
	articles.POST("/:id/lock", can(middleware.ActionLock), articleHandler.Lock)
	articles.POST("/:id/unlock", can(middleware.ActionLock), articleHandler.Unlock)

	// History
	articles.GET("/:id/versions", can(middleware.ActionRead), articleHandler.ListVersions)
	articles.POST("/:id/rollback", can(middleware.ActionRollback), articleHandler.Rollback)

	articles.PUT("/:id/checklist", can(middleware.ActionChecklist), articleHandler.UpdateChecklist)
}
