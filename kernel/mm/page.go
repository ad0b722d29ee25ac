package mm

import "gopherpi/kernel"

var errUnalignedPageAddr = &kernel.Error{Module: "mm", Message: "page address is not page aligned"}

// PageAddr is an address in the address space selected by K that is known
// to be page-aligned. The zero value refers to the page at address 0.
type PageAddr[K Kind] struct {
	addr Addr[K]
}

// Frame describes a physical memory page.
type Frame = PageAddr[Physical]

// Page describes a virtual memory page.
type Page = PageAddr[Virtual]

// NewPageAddr returns the PageAddr for addr. Passing an address that is not
// page-aligned is a kernel bug and causes a panic.
func NewPageAddr[K Kind](addr Addr[K]) PageAddr[K] {
	if !addr.IsPageAligned() {
		panic(errUnalignedPageAddr)
	}
	return PageAddr[K]{addr: addr}
}

// FrameFromAddress returns the Frame that starts at the page-aligned
// physical address physAddr.
func FrameFromAddress(physAddr PhysAddr) Frame {
	return NewPageAddr(physAddr)
}

// PageFromAddress returns the Page that starts at the page-aligned virtual
// address virtAddr.
func PageFromAddress(virtAddr VirtAddr) Page {
	return NewPageAddr(virtAddr)
}

// Address returns the address of the first byte of the page.
func (p PageAddr[K]) Address() Addr[K] {
	return p.addr
}

// Offset returns the page count pages after p (or before p when count is
// negative). The second return value is false if the result does not fit
// in the address space.
func (p PageAddr[K]) Offset(count int) (PageAddr[K], bool) {
	if count == 0 {
		return p, true
	}

	steps := uintptr(count)
	if count < 0 {
		steps = uintptr(-count)
	}

	if steps > maxUintptr>>PageShift {
		return p, false
	}

	delta := Addr[K](steps << PageShift)
	switch {
	case count > 0 && p.addr > Addr[K](maxUintptr)-delta:
		return p, false
	case count < 0 && p.addr < delta:
		return p, false
	case count > 0:
		return PageAddr[K]{addr: p.addr + delta}, true
	default:
		return PageAddr[K]{addr: p.addr - delta}, true
	}
}

// Next returns the page after p.
func (p PageAddr[K]) Next() (PageAddr[K], bool) { return p.Offset(1) }

// Prev returns the page before p.
func (p PageAddr[K]) Prev() (PageAddr[K], bool) { return p.Offset(-1) }

// Less returns true if p is located before other.
func (p PageAddr[K]) Less(other PageAddr[K]) bool {
	return p.addr < other.addr
}

// StepsBetween returns the number of pages from start to end. The second
// return value is false if end is located before start.
func StepsBetween[K Kind](start, end PageAddr[K]) (uintptr, bool) {
	if end.addr < start.addr {
		return 0, false
	}
	return uintptr(end.addr-start.addr) >> PageShift, true
}
