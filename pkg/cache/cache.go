package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLArticle = 5 * time.Minute // rendered article (invalidated on every write)
	TTLViews   = 1 * time.Minute // view counter snapshot
	TTLDefault = 5 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixArticle      = "article:"
	PrefixArticleViews = "article:views:"
)

// ErrUnavailable is returned by reads when no Redis client is configured.
var ErrUnavailable = errors.New("redis not available")

// ArticleKey returns the key of the rendered-article cache entry.
func ArticleKey(articleID string) string {
	return PrefixArticle + articleID
}

// ArticleViewsKey returns the key of the view-count cache entry.
func ArticleViewsKey(articleID string) string {
	return PrefixArticleViews + articleID
}

// ArticleKeys lists every derived key that must go when the article changes.
func ArticleKeys(articleID string) []string {
	return []string{ArticleKey(articleID), ArticleViewsKey(articleID)}
}

// IsMiss reports whether err means the key was simply not cached.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil) || errors.Is(err, ErrUnavailable)
}

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// 기사 캐시
	GetArticle(ctx context.Context, articleID string) ([]byte, error)
	SetArticle(ctx context.Context, articleID string, data interface{}) error

	// 조회수 캐시
	GetArticleViews(ctx context.Context, articleID string) (int64, error)
	SetArticleViews(ctx context.Context, articleID string, views int64) error

	// 유틸리티
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성. A nil client yields a service whose
// writes are no-ops and whose reads always miss.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping Redis 연결 테스트
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists 캐시 존재 여부 확인
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// 기사 캐시
// ========================================

func (c *redisCache) GetArticle(ctx context.Context, articleID string) ([]byte, error) {
	if c.client == nil {
		return nil, ErrUnavailable
	}
	return c.client.Get(ctx, ArticleKey(articleID)).Bytes()
}

func (c *redisCache) SetArticle(ctx context.Context, articleID string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ArticleKey(articleID), jsonData, TTLArticle).Err()
}

// ========================================
// 조회수 캐시
// ========================================

func (c *redisCache) GetArticleViews(ctx context.Context, articleID string) (int64, error) {
	if c.client == nil {
		return 0, ErrUnavailable
	}
	raw, err := c.client.Get(ctx, ArticleViewsKey(articleID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *redisCache) SetArticleViews(ctx context.Context, articleID string, views int64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, ArticleViewsKey(articleID), views, TTLViews).Err()
}
