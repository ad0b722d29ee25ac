// Package sync provides the lock types that guard the kernel's process-wide
// singletons: a plain spinlock, a reader/writer spinlock and a spinlock that
// masks IRQs on the local core while held.
package sync

import "sync/atomic"

// attemptsBeforeYielding is the number of failed acquisition attempts after
// which a spinning core invokes yieldFn (if set).
const attemptsBeforeYielding = 64

var (
	// yieldFn is invoked while spinning. It stays nil during boot as there
	// is nothing to yield to; tests substitute runtime.Gosched.
	yieldFn func()
)

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	spin(func() bool { return atomic.CompareAndSwapUint32(&l.state, 0, 1) })
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// spin keeps calling tryFn until it returns true.
func spin(tryFn func() bool) {
	for attempts := uint32(0); !tryFn(); attempts++ {
		if attempts == attemptsBeforeYielding {
			attempts = 0
			if yieldFn != nil {
				yieldFn()
			}
		}
	}
}
