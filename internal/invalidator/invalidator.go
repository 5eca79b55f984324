// Package invalidator deletes cached article views after a commit without
// ever blocking or failing the write that triggered it.
package invalidator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fservio/projeto-do-povo/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var invalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_invalidations_total",
		Help: "Article cache invalidations by outcome",
	},
	[]string{"result"},
)

// KeyDeleter removes cache keys. cache.Service satisfies it.
type KeyDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

type Config struct {
	QueueSize     int
	MaxAttempts   int
	RetryInterval time.Duration
	Timeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueSize:     1024,
		MaxAttempts:   5,
		RetryInterval: 5 * time.Second,
		Timeout:       2 * time.Second,
	}
}

type job struct {
	articleID string
	keys      []string
	attempts  int
}

// Invalidator queues deletions for a single background worker. Failed deletions
// are retried on every RetryInterval tick until MaxAttempts is reached.
type Invalidator struct {
	deleter KeyDeleter
	cfg     Config
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan job

	pending []job // worker-owned

	dropped   atomic.Uint64
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New starts the worker. Zero config fields fall back to DefaultConfig.
func New(deleter KeyDeleter, cfg Config, logger zerolog.Logger) *Invalidator {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	i := &Invalidator{
		deleter: deleter,
		cfg:     cfg,
		logger:  logger.With().Str("component", "cache_invalidator").Logger(),
		queue:   make(chan job, cfg.QueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go i.run()
	return i
}

// Invalidate drops the rendered article and its view counter.
func (i *Invalidator) Invalidate(articleID string) {
	i.enqueue(job{articleID: articleID, keys: cache.ArticleKeys(articleID)})
}

// InvalidateViews drops only the view counter.
func (i *Invalidator) InvalidateViews(articleID string) {
	i.enqueue(job{articleID: articleID, keys: []string{cache.ArticleViewsKey(articleID)}})
}

// Dropped number of requests discarded because the queue was full or closed.
func (i *Invalidator) Dropped() uint64 {
	return i.dropped.Load()
}

func (i *Invalidator) enqueue(j job) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		i.drop(j, "invalidator closed")
		return
	}
	select {
	case i.queue <- j:
	default:
		i.drop(j, "invalidation queue full")
	}
}

func (i *Invalidator) drop(j job, reason string) {
	i.dropped.Add(1)
	invalidationsTotal.WithLabelValues("dropped").Inc()
	i.logger.Warn().Str("article_id", j.articleID).Strs("keys", j.keys).Msg(reason)
}

// Close stops accepting work, flushes what is queued and waits for the worker.
func (i *Invalidator) Close() {
	i.closeOnce.Do(func() {
		i.mu.Lock()
		i.closed = true
		i.mu.Unlock()
		close(i.stop)
	})
	<-i.done
}

func (i *Invalidator) run() {
	defer close(i.done)

	ticker := time.NewTicker(i.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case j := <-i.queue:
			i.process(j)
		case <-ticker.C:
			i.retryPending()
		case <-i.stop:
			i.drain()
			return
		}
	}
}

func (i *Invalidator) drain() {
	for {
		select {
		case j := <-i.queue:
			i.process(j)
		default:
			i.retryPending()
			for _, j := range i.pending {
				i.logger.Error().Str("article_id", j.articleID).Int("attempts", j.attempts).
					Msg("cache invalidation abandoned at shutdown")
			}
			i.pending = nil
			return
		}
	}
}

func (i *Invalidator) retryPending() {
	if len(i.pending) == 0 {
		return
	}
	retry := i.pending
	i.pending = nil
	for _, j := range retry {
		i.process(j)
	}
}

func (i *Invalidator) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), i.cfg.Timeout)
	defer cancel()

	err := i.deleter.Delete(ctx, j.keys...)
	if err == nil {
		invalidationsTotal.WithLabelValues("ok").Inc()
		return
	}

	j.attempts++
	if j.attempts >= i.cfg.MaxAttempts {
		invalidationsTotal.WithLabelValues("failed").Inc()
		i.logger.Error().Err(err).Str("article_id", j.articleID).Int("attempts", j.attempts).
			Msg("cache invalidation failed, giving up")
		return
	}
	invalidationsTotal.WithLabelValues("retry").Inc()
	i.logger.Warn().Err(err).Str("article_id", j.articleID).Int("attempts", j.attempts).
		Msg("cache invalidation failed, will retry")
	i.pending = append(i.pending, j)
}
