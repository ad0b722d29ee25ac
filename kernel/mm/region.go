package mm

import "gopherpi/kernel"

var (
	// ErrNotEnoughPages is returned by TakeFirstNPages when the region
	// holds fewer pages than requested.
	ErrNotEnoughPages = &kernel.Error{Module: "mm", Message: "not enough free pages"}

	// ErrRegionOverflow is returned by TakeFirstNPages when the end of the
	// requested prefix cannot be represented.
	ErrRegionOverflow = &kernel.Error{Module: "mm", Message: "overflow while calculating region end"}

	errRegionStartAfterEnd = &kernel.Error{Module: "mm", Message: "region start is located after its end"}
	errZeroPageRequest     = &kernel.Error{Module: "mm", Message: "requested 0 pages"}
)

// Region describes the half-open page range [start, endExclusive) in the
// address space selected by K.
type Region[K Kind] struct {
	start, endExclusive PageAddr[K]
}

// PhysRegion is a range of physical memory pages.
type PhysRegion = Region[Physical]

// VirtRegion is a range of virtual memory pages.
type VirtRegion = Region[Virtual]

// NewRegion returns the region [start, endExclusive). It panics if start is
// located after endExclusive.
func NewRegion[K Kind](start, endExclusive PageAddr[K]) Region[K] {
	if endExclusive.Less(start) {
		panic(errRegionStartAfterEnd)
	}
	return Region[K]{start: start, endExclusive: endExclusive}
}

// IdentityPhysRegion returns the physical region that is numerically equal
// to virt. It is only meaningful for identity-mapped memory.
func IdentityPhysRegion(virt VirtRegion) PhysRegion {
	return NewRegion(
		FrameFromAddress(IdentityPhys(virt.start.Address())),
		FrameFromAddress(IdentityPhys(virt.endExclusive.Address())),
	)
}

// StartPageAddr returns the first page of the region.
func (r Region[K]) StartPageAddr() PageAddr[K] { return r.start }

// StartAddr returns the address of the first byte of the region.
func (r Region[K]) StartAddr() Addr[K] { return r.start.Address() }

// EndExclusivePageAddr returns the first page after the region.
func (r Region[K]) EndExclusivePageAddr() PageAddr[K] { return r.endExclusive }

// EndInclusivePageAddr returns the last page of the region. It panics if the
// region ends at address 0.
func (r Region[K]) EndInclusivePageAddr() PageAddr[K] {
	last, ok := r.endExclusive.Prev()
	if !ok {
		panic(errAddrUnderflow)
	}
	return last
}

// IsEmpty returns true if the region contains no pages.
func (r Region[K]) IsEmpty() bool {
	return r.start == r.endExclusive
}

// NumPages returns the number of pages in the region.
func (r Region[K]) NumPages() uintptr {
	n, _ := StepsBetween(r.start, r.endExclusive)
	return n
}

// Size returns the region size in bytes.
func (r Region[K]) Size() uintptr {
	return uintptr(r.endExclusive.addr - r.start.addr)
}

// ContainsPage returns true if page is located inside the region.
func (r Region[K]) ContainsPage(page PageAddr[K]) bool {
	return !page.Less(r.start) && page.Less(r.endExclusive)
}

// Contains returns true if the page containing addr is part of the region.
func (r Region[K]) Contains(addr Addr[K]) bool {
	return r.ContainsPage(NewPageAddr(addr.AlignDownPage()))
}

// Overlaps returns true if the two regions share at least one page. Empty
// regions never overlap anything.
func (r Region[K]) Overlaps(other Region[K]) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}

	return r.ContainsPage(other.start) ||
		r.ContainsPage(other.EndInclusivePageAddr()) ||
		other.ContainsPage(r.start) ||
		other.ContainsPage(r.EndInclusivePageAddr())
}

// TakeFirstNPages splits off the first count pages of the region. The
// returned region holds the split-off prefix while the receiver shrinks to
// the remainder. On error the receiver is left untouched. Requesting zero
// pages is a kernel bug and causes a panic.
func (r *Region[K]) TakeFirstNPages(count uintptr) (Region[K], *kernel.Error) {
	if count == 0 {
		panic(errZeroPageRequest)
	}

	if count > uintptr(int(^uint(0)>>1)) {
		return Region[K]{}, ErrRegionOverflow
	}

	leftEndExclusive, ok := r.start.Offset(int(count))
	if !ok {
		return Region[K]{}, ErrRegionOverflow
	}

	if r.endExclusive.Less(leftEndExclusive) {
		return Region[K]{}, ErrNotEnoughPages
	}

	allocation := Region[K]{start: r.start, endExclusive: leftEndExclusive}
	r.start = leftEndExclusive
	return allocation, nil
}

// Pages returns an iterator over the region's pages in ascending order.
// Each call returns a fresh iterator.
func (r Region[K]) Pages() PageIter[K] {
	return PageIter[K]{next: r.start, end: r.endExclusive}
}

// PageIter iterates the pages of a Region.
type PageIter[K Kind] struct {
	next, end PageAddr[K]
}

// Next returns the next page. The second return value is false once all
// pages have been visited.
func (it *PageIter[K]) Next() (PageAddr[K], bool) {
	if !it.next.Less(it.end) {
		return it.end, false
	}

	page := it.next
	// next < end so advancing by a single page cannot overflow.
	it.next, _ = it.next.Next()
	return page, true
}
