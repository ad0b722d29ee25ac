package vmm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm"
	"gopherpi/kernel/sync"
)

var (
	// ErrAllocatorUninitialized is returned by Alloc when it is called
	// before the allocator has been given its page pool.
	ErrAllocatorUninitialized = &kernel.Error{Module: "page_alloc", Message: "allocator not initialized"}

	errZeroPageAlloc = &kernel.Error{Module: "page_alloc", Message: "requested allocation of 0 pages"}
)

// PageAllocator hands out page-aligned virtual regions from a fixed pool. It
// is a bump allocator: allocated regions are never returned to the pool.
//
// The allocator can be used from interrupt context; its lock masks IRQs on
// the calling core while held.
type PageAllocator struct {
	lock sync.IRQSafeSpinlock

	pool        mm.VirtRegion
	initialized bool
}

// Init seeds the allocator with pool. Only the first call has an effect;
// later calls log a warning and leave the pool untouched.
func (a *PageAllocator) Init(pool mm.VirtRegion) {
	a.lock.Acquire()
	defer a.lock.Release()

	if a.initialized {
		kfmt.Warnf("page_alloc: already initialized")
		return
	}

	a.pool = pool
	a.initialized = true
}

// IsInitialized returns true once Init has been called.
func (a *PageAllocator) IsInitialized() bool {
	a.lock.Acquire()
	defer a.lock.Release()

	return a.initialized
}

// RemainingPages returns the number of pages that can still be allocated.
func (a *PageAllocator) RemainingPages() uintptr {
	a.lock.Acquire()
	defer a.lock.Release()

	return a.pool.NumPages()
}

// Alloc removes the first numPages pages from the pool and returns them. If
// the pool holds fewer pages, mm.ErrNotEnoughPages is returned and the pool
// is left unchanged. Requesting zero pages is a kernel bug and causes a
// panic.
func (a *PageAllocator) Alloc(numPages uintptr) (mm.VirtRegion, *kernel.Error) {
	if numPages == 0 {
		panic(errZeroPageAlloc)
	}

	a.lock.Acquire()
	defer a.lock.Release()

	if !a.initialized {
		return mm.VirtRegion{}, ErrAllocatorUninitialized
	}

	return a.pool.TakeFirstNPages(numPages)
}
