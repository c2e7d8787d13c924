package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryAccountLocker is an in-process keyed mutex. Waiters on one key do not
// block other keys; idle keys are released once no holder or waiter remains.
type MemoryAccountLocker struct {
	mu          sync.Mutex
	locks       map[string]*accountLockEntry
	waitTimeout time.Duration
}

type accountLockEntry struct {
	slot chan struct{}
	refs int
}

func NewMemoryAccountLocker(waitTimeout time.Duration) *MemoryAccountLocker {
	return &MemoryAccountLocker{
		locks:       make(map[string]*accountLockEntry),
		waitTimeout: waitTimeout,
	}
}

func (l *MemoryAccountLocker) Acquire(ctx context.Context, key string) (LockHandle, error) {
	if l == nil {
		return nil, fmt.Errorf("core: account locker is not configured")
	}
	if key == "" {
		return nil, fmt.Errorf("core: lock key is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	entry := l.retain(key)
	select {
	case entry.slot <- struct{}{}:
		return &memoryLockHandle{locker: l, key: key, entry: entry}, nil
	case <-ctx.Done():
		l.release(key, entry)
		return nil, fmt.Errorf("core: account lock wait for %q: %w", key, ctx.Err())
	}
}

func (l *MemoryAccountLocker) retain(key string) *accountLockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &accountLockEntry{slot: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (l *MemoryAccountLocker) release(key string, entry *accountLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, key)
	}
}

func (l *MemoryAccountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

type memoryLockHandle struct {
	locker *MemoryAccountLocker
	key    string
	entry  *accountLockEntry
	once   sync.Once
}

func (h *memoryLockHandle) Unlock(_ context.Context) error {
	if h == nil || h.locker == nil {
		return nil
	}
	h.once.Do(func() {
		<-h.entry.slot
		h.locker.release(h.key, h.entry)
	})
	return nil
}
