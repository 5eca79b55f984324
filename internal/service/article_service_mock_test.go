package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/repository"
	"github.com/fservio/projeto-do-povo/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mock repositories ---

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockArticleRepo struct {
	mock.Mock
}

func (m *mockArticleRepo) Create(ctx context.Context, article *domain.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *mockArticleRepo) SlugExists(ctx context.Context, siteID, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, siteID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockArticleRepo) List(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Article), args.Get(1).(int64), args.Error(2)
}

func (m *mockArticleRepo) UpdateIfRevision(ctx context.Context, id string, revision int64, fields map[string]interface{}) error {
	return m.Called(ctx, id, revision, fields).Error(0)
}

func (m *mockArticleRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockArticleRepo) ReplaceTags(ctx context.Context, articleID string, tagIDs []string) error {
	return m.Called(ctx, articleID, tagIDs).Error(0)
}

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) Create(ctx context.Context, version *domain.ArticleVersion) error {
	return m.Called(ctx, version).Error(0)
}

func (m *mockVersionRepo) LatestVersion(ctx context.Context, articleID string) (int, error) {
	args := m.Called(ctx, articleID)
	return args.Int(0), args.Error(1)
}

func (m *mockVersionRepo) ListByArticle(ctx context.Context, articleID string, limit int) ([]*domain.ArticleVersion, error) {
	args := m.Called(ctx, articleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArticleVersion), args.Error(1)
}

func (m *mockVersionRepo) FindByArticleAndVersion(ctx context.Context, articleID string, version int) (*domain.ArticleVersion, error) {
	args := m.Called(ctx, articleID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleVersion), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepo) ListByResource(ctx context.Context, resource, resourceID string, limit int) ([]*domain.AuditEntry, error) {
	args := m.Called(ctx, resource, resourceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditEntry), args.Error(1)
}

type mockChecklistRepo struct {
	mock.Mock
}

func (m *mockChecklistRepo) Create(ctx context.Context, checklist *domain.EditorialChecklist) error {
	return m.Called(ctx, checklist).Error(0)
}

func (m *mockChecklistRepo) FindByArticleID(ctx context.Context, articleID string) (*domain.EditorialChecklist, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditorialChecklist), args.Error(1)
}

func (m *mockChecklistRepo) Update(ctx context.Context, checklist *domain.EditorialChecklist) error {
	return m.Called(ctx, checklist).Error(0)
}

var (
	_ repository.ArticleRepository   = (*mockArticleRepo)(nil)
	_ repository.VersionRepository   = (*mockVersionRepo)(nil)
	_ repository.AuditRepository     = (*mockAuditRepo)(nil)
	_ repository.ChecklistRepository = (*mockChecklistRepo)(nil)
)

type mockedService struct {
	articles *mockArticleRepo
	versions *mockVersionRepo
	audits   *mockAuditRepo
	inv      *recordingInvalidator
	svc      ArticleService
}

func newMockedService() *mockedService {
	m := &mockedService{
		articles: new(mockArticleRepo),
		versions: new(mockVersionRepo),
		audits:   new(mockAuditRepo),
		inv:      &recordingInvalidator{},
	}
	m.svc = NewArticleService(passthroughTx{}, m.articles, m.versions, m.audits, new(mockChecklistRepo),
		WithClock(clock.Fake(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))),
		WithInvalidator(m.inv),
	)
	return m
}

func draftArticle() *domain.Article {
	return &domain.Article{ID: "a1", Title: "t", Content: "c", Status: domain.StatusInReview, Version: 3, Revision: 7}
}

// --- Tests ---

func TestChangeStatus_StaleRevisionIsConflict(t *testing.T) {
	m := newMockedService()
	m.articles.On("FindByID", mock.Anything, "a1").Return(draftArticle(), nil)
	m.articles.On("UpdateIfRevision", mock.Anything, "a1", int64(7), mock.Anything).
		Return(repository.ErrStaleRevision)

	_, err := m.svc.ChangeStatus(context.Background(), "a1", domain.StatusApproved, "editor")

	assert.ErrorIs(t, err, common.ErrConflict)
	assert.EqualError(t, err, "article was modified concurrently")
	m.versions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	articles, _ := m.inv.invalidated()
	assert.Empty(t, articles)
}

func TestRollback_DuplicateVersionIsConflict(t *testing.T) {
	m := newMockedService()
	m.articles.On("FindByID", mock.Anything, "a1").Return(draftArticle(), nil)
	m.versions.On("FindByArticleAndVersion", mock.Anything, "a1", 1).
		Return(&domain.ArticleVersion{ArticleID: "a1", Version: 1, Title: "old", Content: "old"}, nil)
	m.articles.On("UpdateIfRevision", mock.Anything, "a1", int64(7), mock.MatchedBy(func(f map[string]interface{}) bool {
		return f["version"] == 4 && f["content"] == "old"
	})).Return(nil)
	m.versions.On("LatestVersion", mock.Anything, "a1").Return(3, nil)
	m.versions.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := m.svc.Rollback(context.Background(), "a1", 1, "editor")

	assert.ErrorIs(t, err, common.ErrConflict)
	m.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_VersionDriftIsConflict(t *testing.T) {
	m := newMockedService()
	m.articles.On("FindByID", mock.Anything, "a1").Return(draftArticle(), nil)
	m.articles.On("UpdateIfRevision", mock.Anything, "a1", int64(7), mock.Anything).Return(nil)
	// history says 5 while the row says 3
	m.versions.On("LatestVersion", mock.Anything, "a1").Return(5, nil)
	m.versions.On("Create", mock.Anything, mock.Anything).Return(nil)

	content := "new"
	_, err := m.svc.Update(context.Background(), "a1", &domain.UpdateArticleRequest{Content: &content}, "editor")

	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestAuditFailureAbortsMutation(t *testing.T) {
	m := newMockedService()
	m.articles.On("FindByID", mock.Anything, "a1").Return(draftArticle(), nil)
	m.articles.On("UpdateIfRevision", mock.Anything, "a1", int64(7), mock.Anything).Return(nil)
	m.audits.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := m.svc.Delete(context.Background(), "a1", "editor")

	assert.Error(t, err)
	assert.Equal(t, 500, common.StatusFromError(err))
	articles, _ := m.inv.invalidated()
	assert.Empty(t, articles, "nothing is invalidated when the commit fails")
}

func TestFindOne_RepositoryErrorIsInternal(t *testing.T) {
	m := newMockedService()
	m.articles.On("FindByID", mock.Anything, "a1").Return(nil, errors.New("connection reset"))

	_, err := m.svc.FindOne(context.Background(), "a1")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 500, common.StatusFromError(err))
}

func TestFindAll_PassesNormalizedFilter(t *testing.T) {
	m := newMockedService()
	expected := domain.ArticleFilter{SiteID: "s1", Page: 1, Limit: 20, OrderBy: "created_at", Order: "desc"}
	m.articles.On("List", mock.Anything, expected).Return([]*domain.Article{draftArticle()}, int64(1), nil)

	articles, meta, err := m.svc.FindAll(context.Background(), domain.ArticleFilter{SiteID: "s1"})

	assert.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, int64(1), meta.TotalPages)
	m.articles.AssertExpectations(t)
}
