package invalidator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDeleter struct {
	mu       sync.Mutex
	calls    [][]string
	failures int           // fail this many calls first
	release  chan struct{} // when set, Delete blocks until closed
}

func (f *fakeDeleter) Delete(ctx context.Context, keys ...string) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, keys)
	if f.failures > 0 {
		f.failures--
		return errors.New("redis unavailable")
	}
	return nil
}

func (f *fakeDeleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeDeleter) call(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[n]
}

func testConfig() Config {
	return Config{QueueSize: 8, MaxAttempts: 3, RetryInterval: 10 * time.Millisecond, Timeout: time.Second}
}

func TestInvalidate_DeletesArticleAndViews(t *testing.T) {
	deleter := &fakeDeleter{}
	inv := New(deleter, testConfig(), zerolog.Nop())
	defer inv.Close()

	inv.Invalidate("a1")

	require.Eventually(t, func() bool { return deleter.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"article:a1", "article:views:a1"}, deleter.call(0))
}

func TestInvalidateViews_OnlyViews(t *testing.T) {
	deleter := &fakeDeleter{}
	inv := New(deleter, testConfig(), zerolog.Nop())
	defer inv.Close()

	inv.InvalidateViews("a1")

	require.Eventually(t, func() bool { return deleter.callCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"article:views:a1"}, deleter.call(0))
}

func TestInvalidate_RetriesUntilSuccess(t *testing.T) {
	deleter := &fakeDeleter{failures: 2}
	inv := New(deleter, testConfig(), zerolog.Nop())
	defer inv.Close()

	inv.Invalidate("a1")

	require.Eventually(t, func() bool { return deleter.callCount() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, deleter.callCount(), "no retries after success")
}

func TestInvalidate_GivesUpAfterMaxAttempts(t *testing.T) {
	deleter := &fakeDeleter{failures: 100}
	inv := New(deleter, testConfig(), zerolog.Nop())
	defer inv.Close()

	inv.Invalidate("a1")

	require.Eventually(t, func() bool { return deleter.callCount() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, deleter.callCount())
}

func TestInvalidate_FullQueueDropsWithoutBlocking(t *testing.T) {
	deleter := &fakeDeleter{release: make(chan struct{})}
	cfg := testConfig()
	cfg.QueueSize = 1
	inv := New(deleter, cfg, zerolog.Nop())

	inv.Invalidate("a1") // picked up by the worker, blocks in Delete
	require.Eventually(t, func() bool { return len(inv.queue) == 0 }, time.Second, time.Millisecond)

	start := time.Now()
	for n := 0; n < 10; n++ {
		inv.Invalidate("a2")
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, uint64(9), inv.Dropped())

	close(deleter.release)
	inv.Close()
	assert.Equal(t, 2, deleter.callCount())
}

func TestClose_FlushesQueueAndRejectsLateWork(t *testing.T) {
	deleter := &fakeDeleter{}
	inv := New(deleter, testConfig(), zerolog.Nop())

	for _, id := range []string{"a1", "a2", "a3"} {
		inv.Invalidate(id)
	}
	inv.Close()
	assert.Equal(t, 3, deleter.callCount())

	inv.Invalidate("late")
	inv.Close()
	assert.Equal(t, 3, deleter.callCount())
	assert.Equal(t, uint64(1), inv.Dropped())
}
