package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет в кеше.
var ErrCacheMiss = errors.New("ключ не найден в кеше")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)

	// GetObject и SetObject работают с неизменяемыми записями (ключ уже содержит версию),
	// поэтому их разрешено держать в локальном кеше процесса.
	GetObject(ctx context.Context, key string, dst interface{}) error
	SetObject(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
