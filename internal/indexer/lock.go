package indexer

import "sync/atomic"

// rebuildLock provides non-blocking lock semantics using atomic operations.
// It guards against overlapping rebuilds, which would race on Clear.
type rebuildLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *rebuildLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *rebuildLock) Release() {
	l.state.Store(0)
}
