package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/repository"
	"github.com/fservio/projeto-do-povo/pkg/clock"
	pkglogger "github.com/fservio/projeto-do-povo/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Transactor runs fn in one transaction; repositories called with the ctx passed to fn join it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator drops derived read views after commit. Implementations must not block.
type CacheInvalidator interface {
	Invalidate(articleID string)
	InvalidateViews(articleID string)
}

// EventPublisher announces committed lifecycle changes to downstream consumers.
type EventPublisher interface {
	PublishArticleEvent(ctx context.Context, event *domain.ArticleEvent) error
}

// ArticleService article lifecycle operations
type ArticleService interface {
	Create(ctx context.Context, req *domain.CreateArticleRequest, actorID string) (*domain.Article, error)
	FindOne(ctx context.Context, id string) (*domain.Article, error)
	FindAll(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, *common.V2Meta, error)
	Update(ctx context.Context, id string, req *domain.UpdateArticleRequest, actorID string) (*domain.Article, error)
	ChangeStatus(ctx context.Context, id string, status domain.ArticleStatus, actorID string) (*domain.Article, error)
	Delete(ctx context.Context, id string, actorID string) error
	Lock(ctx context.Context, id string, actorID string) (*domain.LockInfo, error)
	Unlock(ctx context.Context, id string, actorID string) error
	ListVersions(ctx context.Context, id string, limit int) ([]*domain.ArticleVersion, error)
	Rollback(ctx context.Context, id string, version int, actorID string) (*domain.Article, error)
	UpdateChecklist(ctx context.Context, id string, patch *domain.ChecklistPatch, actorID string) (*domain.EditorialChecklist, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
}

const publishTimeout = 2 * time.Second

type articleService struct {
	tx         Transactor
	articles   repository.ArticleRepository
	checklists repository.ChecklistRepository
	versions   *VersionStore
	audit      *AuditLog
	locks      *LockManager
	workflow   *WorkflowEngine

	clock       clock.Clock
	invalidator CacheInvalidator
	publisher   EventPublisher
	logger      zerolog.Logger
	validate    *validator.Validate
}

// Option configures optional collaborators of the article service.
type Option func(*articleService)

func WithClock(clk clock.Clock) Option {
	return func(s *articleService) { s.clock = clk }
}

func WithInvalidator(inv CacheInvalidator) Option {
	return func(s *articleService) { s.invalidator = inv }
}

func WithPublisher(pub EventPublisher) Option {
	return func(s *articleService) { s.publisher = pub }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *articleService) { s.logger = logger }
}

// NewArticleService creates a new ArticleService
func NewArticleService(
	tx Transactor,
	articles repository.ArticleRepository,
	versions repository.VersionRepository,
	audits repository.AuditRepository,
	checklists repository.ChecklistRepository,
	opts ...Option,
) ArticleService {
	s := &articleService{
		tx:          tx,
		articles:    articles,
		checklists:  checklists,
		locks:       NewLockManager(),
		workflow:    NewWorkflowEngine(),
		clock:       clock.Real(),
		invalidator: noopInvalidator{},
		logger:      *pkglogger.GetLogger(),
		validate:    newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.versions = NewVersionStore(versions, s.clock)
	s.audit = NewAuditLog(audits, s.clock)
	return s
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(string)      {}
func (noopInvalidator) InvalidateViews(string) {}

// mutation one committed write to the article row.
type mutation struct {
	action  domain.AuditAction
	fields  map[string]interface{}
	reason  string // snapshot reason; empty means no new version
	changes interface{}
}

func errConcurrentModification() *common.AppError {
	return common.NewConflict("article was modified concurrently")
}

func (s *articleService) now() time.Time {
	return s.clock.Now().UTC()
}

// load reads a live article inside ctx's transaction.
func (s *articleService) load(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("article %s not found", id)
		}
		return nil, fmt.Errorf("find article %s: %w", id, err)
	}
	return article, nil
}

// write persists m with a revision compare-and-set, snapshots a new version when
// m.reason is set, and records the audit entry. Must run inside a transaction.
func (s *articleService) write(ctx context.Context, article *domain.Article, actorID string, now time.Time, m mutation) error {
	if m.reason != "" {
		article.Version++
		article.UpdatedBy = actorID
		m.fields["version"] = article.Version
		m.fields["updated_by"] = actorID
	}
	article.UpdatedAt = now
	m.fields["updated_at"] = now

	if err := s.articles.UpdateIfRevision(ctx, article.ID, article.Revision, m.fields); err != nil {
		return mapWriteError(err)
	}
	article.Revision++

	if m.reason != "" {
		version, err := s.versions.Snapshot(ctx, article, m.reason, actorID)
		if err != nil {
			return err
		}
		if version != article.Version {
			return errConcurrentModification()
		}
	}

	return s.audit.Record(ctx, actorID, m.action, domain.ResourceArticle, article.ID, m.changes)
}

func mapWriteError(err error) error {
	if errors.Is(err, repository.ErrStaleRevision) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return errConcurrentModification()
	}
	return fmt.Errorf("update article: %w", err)
}

// afterCommit fires the best-effort side effects of a committed mutation.
func (s *articleService) afterCommit(ctx context.Context, action domain.AuditAction, article *domain.Article, actorID string, invalidate bool) {
	if invalidate {
		s.invalidator.Invalidate(article.ID)
	}
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	event := domain.NewArticleEvent(action, article, actorID, s.now())
	if err := s.publisher.PublishArticleEvent(pubCtx, event); err != nil {
		s.logger.Warn().Err(err).
			Str("article_id", article.ID).
			Str("action", string(action)).
			Msg("failed to publish article event")
	}
}

func (s *articleService) Create(ctx context.Context, req *domain.CreateArticleRequest, actorID string) (article *domain.Article, err error) {
	defer func() { observe("create", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	now := s.now()
	articleType := req.Type
	if articleType == "" {
		articleType = domain.TypeArticle
	}
	created := &domain.Article{
		ID:         uuid.NewString(),
		SiteID:     req.SiteID,
		Slug:       req.Slug,
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Type:       articleType,
		Status:     domain.StatusDraft,
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		Version:    1,
		CreatedBy:  actorID,
		UpdatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.locks.Acquire(created, actorID, now)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.articles.SlugExists(ctx, created.SiteID, created.Slug, "")
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if exists {
			return common.NewConflict("slug %q already exists", created.Slug)
		}
		if err := s.articles.Create(ctx, created); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.NewConflict("slug %q already exists", created.Slug)
			}
			return fmt.Errorf("create article: %w", err)
		}
		if err := s.articles.ReplaceTags(ctx, created.ID, uniqueIDs(req.TagIDs)); err != nil {
			return fmt.Errorf("create tags: %w", err)
		}
		if err := s.checklists.Create(ctx, &domain.EditorialChecklist{
			ID:        uuid.NewString(),
			ArticleID: created.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("create checklist: %w", err)
		}

		version, err := s.versions.Snapshot(ctx, created, domain.ReasonInitial, actorID)
		if err != nil {
			return err
		}
		if version != created.Version {
			return errConcurrentModification()
		}

		return s.audit.Record(ctx, actorID, domain.AuditCreate, domain.ResourceArticle, created.ID, map[string]interface{}{
			"title":   created.Title,
			"slug":    created.Slug,
			"site_id": created.SiteID,
			"type":    created.Type,
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.AuditCreate, created, actorID, false)
	return s.FindOne(ctx, created.ID)
}

func (s *articleService) FindOne(ctx context.Context, id string) (*domain.Article, error) {
	return s.load(ctx, id)
}

func (s *articleService) FindAll(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, *common.V2Meta, error) {
	if err := validateStruct(s.validate, &filter); err != nil {
		return nil, nil, err
	}
	filter.Normalize()

	articles, total, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, common.NewV2Meta(filter.Page, filter.Limit, total), nil
}

func (s *articleService) Update(ctx context.Context, id string, req *domain.UpdateArticleRequest, actorID string) (updated *domain.Article, err error) {
	defer func() { observe("update", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	var article *domain.Article
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}

		now := s.now()
		takeover, err := s.locks.CheckWritable(article, actorID, now)
		if err != nil {
			articleLockConflictsTotal.Inc()
			s.logger.Info().Str("article_id", id).Str("actor_id", actorID).
				Str("locked_by", article.LockHolder()).Msg("update rejected, article locked")
			return err
		}
		if takeover {
			articleLockTakeoversTotal.Inc()
			s.logger.Info().Str("article_id", id).Str("actor_id", actorID).
				Str("previous_holder", article.LockHolder()).Msg("expired edit lock taken over")
		}

		fields, changes, err := s.applyPatch(ctx, article, req)
		if err != nil {
			return err
		}
		if req.TagIDs != nil {
			tagIDs := uniqueIDs(*req.TagIDs)
			if err := s.articles.ReplaceTags(ctx, article.ID, tagIDs); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
			changes["tag_ids"] = tagIDs
		}

		s.locks.Acquire(article, actorID, now)
		for k, v := range lockFields(article) {
			fields[k] = v
		}

		return s.write(ctx, article, actorID, now, mutation{
			action:  domain.AuditUpdate,
			fields:  fields,
			reason:  domain.ReasonUpdate,
			changes: map[string]interface{}{"changes": changes},
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.AuditUpdate, article, actorID, true)
	return s.FindOne(ctx, id)
}

// applyPatch copies the provided fields onto article and returns the columns to
// write plus the audit view of the change.
func (s *articleService) applyPatch(ctx context.Context, article *domain.Article, req *domain.UpdateArticleRequest) (map[string]interface{}, map[string]interface{}, error) {
	fields := map[string]interface{}{}
	changes := map[string]interface{}{}
	set := func(column string, value interface{}) {
		fields[column] = value
		changes[column] = value
	}

	if req.Title != nil {
		article.Title = *req.Title
		set("title", article.Title)
	}
	if req.Subtitle != nil {
		article.Subtitle = req.Subtitle
		set("subtitle", *req.Subtitle)
	}
	if req.Excerpt != nil {
		article.Excerpt = req.Excerpt
		set("excerpt", *req.Excerpt)
	}
	if req.Content != nil {
		article.Content = *req.Content
		set("content", article.Content)
	}
	if req.Type != nil {
		article.Type = *req.Type
		set("type", article.Type)
	}
	if req.CategoryID != nil {
		article.CategoryID = req.CategoryID
		set("category_id", *req.CategoryID)
	}
	if req.AuthorID != nil {
		article.AuthorID = req.AuthorID
		set("author_id", *req.AuthorID)
	}
	if req.Slug != nil && *req.Slug != article.Slug {
		exists, err := s.articles.SlugExists(ctx, article.SiteID, *req.Slug, article.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check slug: %w", err)
		}
		if exists {
			return nil, nil, common.NewConflict("slug %q already exists", *req.Slug)
		}
		article.Slug = *req.Slug
		set("slug", article.Slug)
	}
	return fields, changes, nil
}

func (s *articleService) ChangeStatus(ctx context.Context, id string, status domain.ArticleStatus, actorID string) (updated *domain.Article, err error) {
	defer func() { observe("change_status", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, common.NewValidation("invalid status %q", status)
	}

	var (
		article *domain.Article
		from    domain.ArticleStatus
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}
		from = article.Status
		if err := s.workflow.ValidateTransition(from, status); err != nil {
			return err
		}

		now := s.now()
		fields := map[string]interface{}{"status": status}
		if s.workflow.ApplyTransition(article, status, now) {
			fields["published_at"] = *article.PublishedAt
		}

		return s.write(ctx, article, actorID, now, mutation{
			action:  domain.AuditChangeStatus,
			fields:  fields,
			reason:  domain.ReasonStatusChanged(status),
			changes: map[string]interface{}{"from": from, "status": status},
		})
	})
	if err != nil {
		return nil, err
	}

	articleStatusTransitionsTotal.WithLabelValues(string(from), string(status)).Inc()
	s.afterCommit(ctx, domain.AuditChangeStatus, article, actorID, true)
	return s.FindOne(ctx, id)
}

func (s *articleService) Delete(ctx context.Context, id string, actorID string) (err error) {
	defer func() { observe("delete", err) }()

	if err := requireActor(actorID); err != nil {
		return err
	}

	var article *domain.Article
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		return s.write(ctx, article, actorID, now, mutation{
			action: domain.AuditDelete,
			fields: map[string]interface{}{"deleted_at": now},
		})
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, domain.AuditDelete, article, actorID, true)
	return nil
}

func (s *articleService) Lock(ctx context.Context, id string, actorID string) (info *domain.LockInfo, err error) {
	defer func() { observe("lock", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	var (
		article *domain.Article
		now     time.Time
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}
		now = s.now()
		if holder := article.LockHolder(); holder != "" && holder != actorID {
			s.logger.Warn().Str("article_id", id).Str("actor_id", actorID).
				Str("previous_holder", holder).Msg("explicit lock replaces existing holder")
		}
		s.locks.Acquire(article, actorID, now)
		return s.write(ctx, article, actorID, now, mutation{
			action:  domain.AuditLock,
			fields:  lockFields(article),
			changes: map[string]interface{}{"locked_at": now},
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.AuditLock, article, actorID, true)
	return s.locks.Info(article, now), nil
}

func (s *articleService) Unlock(ctx context.Context, id string, actorID string) (err error) {
	defer func() { observe("unlock", err) }()

	if err := requireActor(actorID); err != nil {
		return err
	}

	var article *domain.Article
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := s.locks.Release(article, actorID); err != nil {
			return err
		}
		return s.write(ctx, article, actorID, s.now(), mutation{
			action: domain.AuditUnlock,
			fields: lockFields(article),
		})
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, domain.AuditUnlock, article, actorID, true)
	return nil
}

func (s *articleService) ListVersions(ctx context.Context, id string, limit int) ([]*domain.ArticleVersion, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	versions, err := s.versions.List(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

func (s *articleService) Rollback(ctx context.Context, id string, version int, actorID string) (updated *domain.Article, err error) {
	defer func() { observe("rollback", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, common.NewValidation("version must be positive")
	}

	var article *domain.Article
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		article, err = s.load(ctx, id)
		if err != nil {
			return err
		}
		target, err := s.versions.Find(ctx, id, version)
		if err != nil {
			return err
		}

		article.Title = target.Title
		article.Content = target.Content
		return s.write(ctx, article, actorID, s.now(), mutation{
			action:  domain.AuditRollback,
			fields:  map[string]interface{}{"title": target.Title, "content": target.Content},
			reason:  domain.ReasonRollback(version),
			changes: map[string]interface{}{"to_version": version},
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.AuditRollback, article, actorID, true)
	return s.FindOne(ctx, id)
}

func (s *articleService) UpdateChecklist(ctx context.Context, id string, patch *domain.ChecklistPatch, actorID string) (result *domain.EditorialChecklist, err error) {
	defer func() { observe("update_checklist", err) }()

	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, common.NewValidation("checklist patch is required")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		article, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		now := s.now()
		checklist := article.Checklist
		if checklist == nil {
			checklist = &domain.EditorialChecklist{ID: uuid.NewString(), ArticleID: article.ID, CreatedAt: now}
			if err := s.checklists.Create(ctx, checklist); err != nil {
				return fmt.Errorf("create checklist: %w", err)
			}
		}

		if patch.FactChecked != nil {
			checklist.FactChecked = *patch.FactChecked
		}
		if patch.SourcesVerified != nil {
			checklist.SourcesVerified = *patch.SourcesVerified
		}
		if patch.MediaRightsCleared != nil {
			checklist.MediaRightsCleared = *patch.MediaRightsCleared
		}
		if patch.LegalReviewed != nil {
			checklist.LegalReviewed = *patch.LegalReviewed
		}
		if patch.Notes != nil {
			checklist.Notes = patch.Notes
		}
		reviewer := actorID
		checklist.ReviewedBy = &reviewer
		checklist.ReviewedAt = &now

		if err := s.checklists.Update(ctx, checklist); err != nil {
			return fmt.Errorf("update checklist: %w", err)
		}
		result = checklist
		return s.audit.Record(ctx, actorID, domain.AuditUpdate, domain.ResourceChecklist, article.ID, patch)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(id)
	return result, nil
}

func (s *articleService) IncrementViews(ctx context.Context, id string) (views int64, err error) {
	defer func() { observe("increment_views", err) }()

	views, err = s.articles.IncrementViews(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, common.NewNotFound("article %s not found", id)
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	s.invalidator.InvalidateViews(id)
	return views, nil
}

// uniqueIDs dedupes and sorts ids; nil stays nil.
func uniqueIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
