package listeners

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"production-system/internal/events"
	"production-system/internal/repositories"
	"production-system/internal/services"
	"production-system/pkg/eventbus"
)

type countingCache struct {
	mu    sync.Mutex
	incrs map[string]int64
}

func newCountingCache() *countingCache {
	return &countingCache{incrs: make(map[string]int64)}
}

func (c *countingCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (c *countingCache) Get(context.Context, string) (string, error)                  { return "", nil }
func (c *countingCache) Del(context.Context, ...string) error                         { return nil }

func (c *countingCache) GetObject(context.Context, string, interface{}) error {
	return repositories.ErrCacheMiss
}

func (c *countingCache) SetObject(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (c *countingCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incrs[key]++
	return c.incrs[key], nil
}

func (c *countingCache) count(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.incrs[key]
}

func TestDashboardCacheListener_ImmediateInvalidation(t *testing.T) {
	cache := newCountingCache()
	l := NewDashboardCacheListener(cache, 0, zap.NewNop())

	assert.NoError(t, l.Handle(context.Background(), events.NewOrderChanged(1, events.ActionCreated)))
	assert.NoError(t, l.Handle(context.Background(), events.NewWorklogChanged(1, 2, events.ActionUpdated)))

	assert.Equal(t, int64(2), cache.count(services.DashboardVersionKey))
}

func TestDashboardCacheListener_DebounceGroupsEvents(t *testing.T) {
	cache := newCountingCache()
	l := NewDashboardCacheListener(cache, 20*time.Millisecond, zap.NewNop())

	for i := 0; i < 5; i++ {
		assert.NoError(t, l.Handle(context.Background(), events.NewWorklogChanged(1, uint64(i), events.ActionCreated)))
	}
	assert.Equal(t, int64(0), cache.count(services.DashboardVersionKey))

	assert.Eventually(t, func() bool {
		return cache.count(services.DashboardVersionKey) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDashboardCacheListener_SubscribedToBus(t *testing.T) {
	cache := newCountingCache()
	bus := eventbus.New(zap.NewNop())
	NewDashboardCacheListener(cache, 0, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.NewOrderChanged(3, events.ActionDeleted))
	bus.Publish(context.Background(), events.NewWorklogChanged(3, 4, events.ActionRecalculated))
	bus.Wait()

	assert.Equal(t, int64(2), cache.count(services.DashboardVersionKey))
}

func TestDashboardCacheListener_ShutdownFlushesPending(t *testing.T) {
	cache := newCountingCache()
	bus := eventbus.New(zap.NewNop())
	NewDashboardCacheListener(cache, time.Hour, zap.NewNop()).Register(bus)

	for i := 0; i < 3; i++ {
		bus.Publish(context.Background(), events.NewWorklogChanged(1, uint64(i), events.ActionUpdated))
	}
	bus.Wait()
	assert.Equal(t, int64(0), cache.count(services.DashboardVersionKey))

	bus.Shutdown(context.Background())
	assert.Equal(t, int64(1), cache.count(services.DashboardVersionKey))
}

func TestDashboardCacheListener_FlushWithoutPending(t *testing.T) {
	cache := newCountingCache()
	l := NewDashboardCacheListener(cache, time.Hour, zap.NewNop())

	assert.NoError(t, l.Flush(context.Background()))
	assert.Equal(t, int64(0), cache.count(services.DashboardVersionKey))

	assert.NoError(t, l.Handle(context.Background(), events.NewOrderChanged(1, events.ActionCreated)))
	assert.NoError(t, l.Flush(context.Background()))
	assert.NoError(t, l.Flush(context.Background()))
	assert.Equal(t, int64(1), cache.count(services.DashboardVersionKey))
}
