package locking

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
)

// LockerRedis держит блокировки в Redis, поэтому они общие для всех экземпляров сервиса.
type LockerRedis struct {
	locker *redislock.Client
}

func NewLockerRedis(client *redis.Client) *LockerRedis {
	return &LockerRedis{locker: redislock.New(client)}
}

func (l *LockerRedis) Acquire(ctx context.Context, key string, ttl time.Duration) (LockInterface, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.NoRetry(),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockBusy
	}
	if err != nil {
		return nil, err
	}
	return &LockRedis{lock: lock}, nil
}

type LockRedis struct {
	lock *redislock.Lock
}

func (l *LockRedis) Key() string {
	return l.lock.Key()
}

func (l *LockRedis) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		// TTL истек раньше освобождения
		return nil
	}
	return err
}
