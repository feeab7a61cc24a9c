package locking

import (
	"context"
	"sync"
	"time"
)

// LockerMemory - блокировки в пределах одного процесса; ttl игнорируется.
type LockerMemory struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

func NewLockerMemory() *LockerMemory {
	return &LockerMemory{locks: make(map[string]struct{})}
}

func (l *LockerMemory) Acquire(_ context.Context, key string, _ time.Duration) (LockInterface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[key]; held {
		return nil, ErrLockBusy
	}
	l.locks[key] = struct{}{}
	return &LockMemory{key: key, release: func() {
		l.mu.Lock()
		delete(l.locks, key)
		l.mu.Unlock()
	}}, nil
}

type LockMemory struct {
	key  string
	once sync.Once

	release func()
}

func (l *LockMemory) Key() string {
	return l.key
}

func (l *LockMemory) Release(_ context.Context) error {
	l.once.Do(l.release)
	return nil
}
