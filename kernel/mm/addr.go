package mm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"io"
)

var (
	errAddrOverflow  = &kernel.Error{Module: "mm", Message: "overflow on address arithmetic"}
	errAddrUnderflow = &kernel.Error{Module: "mm", Message: "underflow on address arithmetic"}
)

// Kind is the constraint satisfied by the address space markers Physical and
// Virtual. Tagging addresses with a Kind makes it a compile-time error to
// pass a physical address where a virtual one is expected.
type Kind interface {
	Physical | Virtual
}

// Physical marks addresses in the physical address space.
type Physical struct{}

// Virtual marks addresses in the kernel's virtual address space.
type Virtual struct{}

// Addr is a byte address in the address space selected by K.
type Addr[K Kind] uintptr

// PhysAddr is an address in the physical address space.
type PhysAddr = Addr[Physical]

// VirtAddr is an address in the kernel's virtual address space.
type VirtAddr = Addr[Virtual]

// IdentityVirt returns the virtual address that is numerically equal to
// phys. It is only meaningful for identity-mapped memory.
func IdentityVirt(phys PhysAddr) VirtAddr {
	return VirtAddr(phys)
}

// IdentityPhys returns the physical address that is numerically equal to
// virt. It is only meaningful for identity-mapped memory.
func IdentityPhys(virt VirtAddr) PhysAddr {
	return PhysAddr(virt)
}

// Uintptr returns the raw address value.
func (a Addr[K]) Uintptr() uintptr {
	return uintptr(a)
}

// AlignDownPage rounds the address down to the start of its page.
func (a Addr[K]) AlignDownPage() Addr[K] {
	return a &^ Addr[K](PageMask)
}

// AlignUpPage rounds the address up to the next page boundary. Addresses that
// are already page-aligned are returned unchanged.
func (a Addr[K]) AlignUpPage() Addr[K] {
	if uintptr(a) > maxUintptr-PageMask {
		panic(errAddrOverflow)
	}
	return (a + Addr[K](PageMask)) &^ Addr[K](PageMask)
}

// IsPageAligned returns true if the address is a multiple of PageSize.
func (a Addr[K]) IsPageAligned() bool {
	return uintptr(a)&PageMask == 0
}

// OffsetIntoPage returns the offset of the address from the start of the
// page that contains it.
func (a Addr[K]) OffsetIntoPage() uintptr {
	return uintptr(a) & PageMask
}

// Add returns the address n bytes after a. Overflowing the address space is
// a kernel bug and causes a panic.
func (a Addr[K]) Add(n uintptr) Addr[K] {
	if uintptr(a) > maxUintptr-n {
		panic(errAddrOverflow)
	}
	return a + Addr[K](n)
}

// Sub returns the number of bytes between other and a. It panics if other is
// larger than a.
func (a Addr[K]) Sub(other Addr[K]) uintptr {
	if other > a {
		panic(errAddrUnderflow)
	}
	return uintptr(a - other)
}

// Fprint writes the address to w as grouped hex digits. Physical addresses
// print 40 bits (0x00_3f20_1000); virtual addresses print all 64 bits
// (0x0000_0000_0009_0000).
func (a Addr[K]) Fprint(w io.Writer) {
	v := uint64(a)

	var kind K
	switch any(kind).(type) {
	case Physical:
		kfmt.Fprintf(w, "0x%2x_%4x_%4x", (v>>32)&0xff, (v>>16)&0xffff, v&0xffff)
	default:
		kfmt.Fprintf(w, "0x%4x_%4x_%4x_%4x", v>>48, (v>>32)&0xffff, (v>>16)&0xffff, v&0xffff)
	}
}
