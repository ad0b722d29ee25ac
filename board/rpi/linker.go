package rpi

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"unsafe"
)

var (
	linkerSymbols LinkerSymbols

	errUnalignedSize        = &kernel.Error{Module: "rpi", Message: "linker region size is not a multiple of the page size"}
	errRegionEndBeforeStart = &kernel.Error{Module: "rpi", Message: "linker region ends before it starts"}
)

// LinkerSymbols holds the addresses that the linker script exports for the
// kernel image. All of them are virtual addresses that the linker aligns to
// the page size. The rt0 code passes a pointer to a table with this layout
// to the kernel entrypoint.
type LinkerSymbols struct {
	CodeStart        uintptr
	CodeEndExclusive uintptr

	DataStart        uintptr
	DataEndExclusive uintptr

	BootCoreStackStart        uintptr
	BootCoreStackEndExclusive uintptr

	MMIORemapStart        uintptr
	MMIORemapEndExclusive uintptr
}

// SetLinkerSymbols registers the linker symbols of the running kernel image.
func SetLinkerSymbols(symbols LinkerSymbols) {
	linkerSymbols = symbols
}

// SetLinkerSymbolsPtr registers the linker symbol table located at ptr.
func SetLinkerSymbolsPtr(ptr uintptr) {
	SetLinkerSymbols(*(*LinkerSymbols)(unsafe.Pointer(ptr)))
}

// sizeToNumPages converts a region size to a page count. Sizes that are not
// a multiple of the page size indicate a broken linker script.
func sizeToNumPages(size uintptr) uintptr {
	if size&mm.PageMask != 0 {
		panic(errUnalignedSize)
	}
	return size >> mm.PageShift
}

// virtRegion returns the page region [start, endExclusive).
func virtRegion(start, endExclusive uintptr) mm.VirtRegion {
	if endExclusive < start {
		panic(errRegionEndBeforeStart)
	}

	sizeToNumPages(endExclusive - start)
	return mm.NewRegion(mm.PageFromAddress(mm.VirtAddr(start)), mm.PageFromAddress(mm.VirtAddr(endExclusive)))
}

// VirtCodeRegion returns the region holding the kernel code and read-only
// data.
func VirtCodeRegion() mm.VirtRegion {
	return virtRegion(linkerSymbols.CodeStart, linkerSymbols.CodeEndExclusive)
}

// VirtDataRegion returns the region holding the kernel data and bss.
func VirtDataRegion() mm.VirtRegion {
	return virtRegion(linkerSymbols.DataStart, linkerSymbols.DataEndExclusive)
}

// VirtBootCoreStackRegion returns the boot core stack region.
func VirtBootCoreStackRegion() mm.VirtRegion {
	return virtRegion(linkerSymbols.BootCoreStackStart, linkerSymbols.BootCoreStackEndExclusive)
}

// VirtMMIORemapRegion returns the region reserved for MMIO remapping.
func VirtMMIORemapRegion() mm.VirtRegion {
	return virtRegion(linkerSymbols.MMIORemapStart, linkerSymbols.MMIORemapEndExclusive)
}
