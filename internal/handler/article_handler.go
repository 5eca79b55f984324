package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/middleware"
	"github.com/fservio/projeto-do-povo/internal/service"
	"github.com/fservio/projeto-do-povo/pkg/cache"
	"github.com/fservio/projeto-do-povo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles /api/v2/articles endpoints
type ArticleHandler struct {
	service service.ArticleService
	cache   cache.Service
}

// NewArticleHandler creates a new ArticleHandler. cache may be nil.
func NewArticleHandler(svc service.ArticleService, cacheService cache.Service) *ArticleHandler {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &ArticleHandler{service: svc, cache: cacheService}
}

func cacheLogger(c *gin.Context) *zerolog.Logger {
	l := logger.WithRequestID(common.RequestIDFromContext(c.Request.Context()))
	return &l
}

func bindError(c *gin.Context, err error) {
	common.RespondError(c, common.NewValidation("invalid request body").WithDetails(err.Error()))
}

// Create handles POST /api/v2/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req domain.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := h.service.Create(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Created(c, article)
}

// List handles GET /api/v2/articles
func (h *ArticleHandler) List(c *gin.Context) {
	var filter domain.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.RespondError(c, common.NewValidation("invalid query").WithDetails(err.Error()))
		return
	}

	articles, meta, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2SuccessWithMeta(c, articles, meta)
}

// Get handles GET /api/v2/articles/:id (read-through cache)
func (h *ArticleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if raw, err := h.cache.GetArticle(ctx, id); err == nil {
		var cached domain.Article
		if json.Unmarshal(raw, &cached) == nil {
			c.Header("X-Cache", "HIT")
			common.V2Success(c, &cached)
			return
		}
	} else if !cache.IsMiss(err) {
		cacheLogger(c).Warn().Err(err).Str("article_id", id).Msg("article cache read failed")
	}

	article, err := h.service.FindOne(ctx, id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if err := h.cache.SetArticle(ctx, id, article); err != nil {
		cacheLogger(c).Warn().Err(err).Str("article_id", id).Msg("article cache write failed")
	}
	c.Header("X-Cache", "MISS")
	common.V2Success(c, article)
}

// Update handles PUT /api/v2/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var req domain.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, article)
}

// ChangeStatus handles PUT /api/v2/articles/:id/status
func (h *ArticleHandler) ChangeStatus(c *gin.Context) {
	var req domain.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, article)
}

// Delete handles DELETE /api/v2/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Lock handles POST /api/v2/articles/:id/lock
func (h *ArticleHandler) Lock(c *gin.Context) {
	info, err := h.service.Lock(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, info)
}

// Unlock handles POST /api/v2/articles/:id/unlock
func (h *ArticleHandler) Unlock(c *gin.Context) {
	if err := h.service.Unlock(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVersions handles GET /api/v2/articles/:id/versions?limit=N
func (h *ArticleHandler) ListVersions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			common.RespondError(c, common.NewValidation("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	versions, err := h.service.ListVersions(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, versions)
}

// Rollback handles POST /api/v2/articles/:id/rollback
func (h *ArticleHandler) Rollback(c *gin.Context) {
	var req domain.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, err := h.service.Rollback(c.Request.Context(), c.Param("id"), req.Version, middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, article)
}

// UpdateChecklist handles PUT /api/v2/articles/:id/checklist
func (h *ArticleHandler) UpdateChecklist(c *gin.Context) {
	var patch domain.ChecklistPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	checklist, err := h.service.UpdateChecklist(c.Request.Context(), c.Param("id"), &patch, middleware.GetUserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, checklist)
}

// RecordView handles POST /api/v2/articles/:id/view
func (h *ArticleHandler) RecordView(c *gin.Context) {
	views, err := h.service.IncrementViews(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.V2Success(c, gin.H{"views": views})
}

// GetViews handles GET /api/v2/articles/:id/views (read-through cache)
func (h *ArticleHandler) GetViews(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if views, err := h.cache.GetArticleViews(ctx, id); err == nil {
		c.Header("X-Cache", "HIT")
		common.V2Success(c, gin.H{"views": views})
		return
	}

	article, err := h.service.FindOne(ctx, id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if err := h.cache.SetArticleViews(ctx, id, article.Views); err != nil {
		cacheLogger(c).Warn().Err(err).Str("article_id", id).Msg("views cache write failed")
	}
	c.Header("X-Cache", "MISS")
	common.V2Success(c, gin.H{"views": article.Views})
}
