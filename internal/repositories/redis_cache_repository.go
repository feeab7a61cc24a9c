package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

const (
	localCacheSize = 1000
	localCacheTTL  = time.Minute
)

type RedisCacheRepository struct {
	client  *redis.Client
	objects *cache.Cache
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &RedisCacheRepository{
		client: client,
		objects: cache.New(&cache.Options{
			Redis:      client,
			LocalCache: cache.NewTinyLFU(localCacheSize, localCacheTTL),
		}),
	}
}

// Get возвращает ErrCacheMiss вместо redis.Nil, чтобы сервисы не зависели от драйвера.
func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	for _, key := range keys {
		r.objects.DeleteFromLocalCache(key)
	}
	return nil
}

// Incr используется для версии дашборда: каждое изменение заказов сдвигает ключ кеша.
func (r *RedisCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCacheRepository) GetObject(ctx context.Context, key string, dst interface{}) error {
	err := r.objects.Get(ctx, key, dst)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrCacheMiss
	}
	return err
}

func (r *RedisCacheRepository) SetObject(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.objects.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}
