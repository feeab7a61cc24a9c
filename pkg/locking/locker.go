package locking

import (
	"context"
	"errors"
	"time"
)

// ErrLockBusy - ключ уже удерживается другим процессом.
var ErrLockBusy = errors.New("блокировка уже захвачена")

type LockerInterface interface {
	// Acquire не ждет освобождения: занятый ключ сразу дает ErrLockBusy.
	Acquire(ctx context.Context, key string, ttl time.Duration) (LockInterface, error)
}

type LockInterface interface {
	Key() string
	Release(ctx context.Context) error
}
