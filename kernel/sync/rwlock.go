package sync

import "sync/atomic"

// writerHeld is stored in RWSpinlock.state while a writer owns the lock.
const writerHeld = -1

// RWSpinlock is a reader/writer spinlock. Writers get exclusive access; any
// number of readers may hold the lock concurrently while no writer does.
//
// The kernel uses the exclusive mode while the boot core builds the
// translation tables and the mapping record; once the kernel reaches its
// steady state these structures are only read.
type RWSpinlock struct {
	// state is writerHeld, 0 (free) or the number of active readers.
	state int32
}

// Lock acquires the lock for writing.
func (l *RWSpinlock) Lock() {
	spin(func() bool { return atomic.CompareAndSwapInt32(&l.state, 0, writerHeld) })
}

// Unlock releases a lock held for writing.
func (l *RWSpinlock) Unlock() {
	atomic.StoreInt32(&l.state, 0)
}

// RLock acquires the lock for reading.
func (l *RWSpinlock) RLock() {
	spin(func() bool {
		cur := atomic.LoadInt32(&l.state)
		return cur != writerHeld && atomic.CompareAndSwapInt32(&l.state, cur, cur+1)
	})
}

// RUnlock releases a lock held for reading.
func (l *RWSpinlock) RUnlock() {
	atomic.AddInt32(&l.state, -1)
}
