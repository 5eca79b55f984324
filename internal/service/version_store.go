package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fservio/projeto-do-povo/internal/common"
	"github.com/fservio/projeto-do-povo/internal/domain"
	"github.com/fservio/projeto-do-povo/internal/repository"
	"github.com/fservio/projeto-do-povo/pkg/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VersionStore append-only snapshot history
type VersionStore struct {
	repo  repository.VersionRepository
	clock clock.Clock
}

func NewVersionStore(repo repository.VersionRepository, clk clock.Clock) *VersionStore {
	return &VersionStore{repo: repo, clock: clk}
}

// Snapshot writes highest+1 with the article's current title, content and status.
func (v *VersionStore) Snapshot(ctx context.Context, article *domain.Article, reason, actorID string) (int, error) {
	latest, err := v.repo.LatestVersion(ctx, article.ID)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}

	next := latest + 1
	err = v.repo.Create(ctx, &domain.ArticleVersion{
		ID:        uuid.NewString(),
		ArticleID: article.ID,
		Version:   next,
		Title:     article.Title,
		Content:   article.Content,
		Status:    article.Status,
		Reason:    reason,
		CreatedBy: actorID,
		CreatedAt: v.clock.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errConcurrentModification()
		}
		return 0, fmt.Errorf("create version: %w", err)
	}
	return next, nil
}

// List newest first; limit <= 0 returns every version.
func (v *VersionStore) List(ctx context.Context, articleID string, limit int) ([]*domain.ArticleVersion, error) {
	return v.repo.ListByArticle(ctx, articleID, limit)
}

func (v *VersionStore) Find(ctx context.Context, articleID string, version int) (*domain.ArticleVersion, error) {
	found, err := v.repo.FindByArticleAndVersion(ctx, articleID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("version %d of article %s not found", version, articleID)
		}
		return nil, err
	}
	return found, nil
}
