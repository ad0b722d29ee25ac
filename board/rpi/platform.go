// Package rpi provides the Raspberry Pi board support: the physical memory
// map, the kernel image layout exported by the linker script and the kernel
// translation tables.
//
// The Raspberry Pi 3 is the default target; building with the rpi4 tag
// selects the Raspberry Pi 4 memory map.
package rpi

import (
	"gopherpi/kernel"
	"gopherpi/kernel/arch/arm64/mmu"
	"gopherpi/kernel/mm"
	"gopherpi/kernel/mm/vmm"
)

const (
	// KernelVirtAddrSpaceSize is the size of the kernel's virtual address
	// space.
	KernelVirtAddrSpaceSize = 1 << 30

	numKernelTables = KernelVirtAddrSpaceSize >> 29
)

var (
	// kernelTableArena holds one spare lvl3 table so that a page-aligned
	// run of numKernelTables tables can always be carved out of it.
	kernelTableArena [numKernelTables + 1][mmu.Lvl3Entries]mmu.PageDescriptor
	kernelLvl2Table  [numKernelTables]mmu.TableDescriptor

	board boardPlatform

	rwData = mm.AttributeFields{
		MemAttributes:     mm.MemAttrCacheableDRAM,
		AccessPermissions: mm.AccessReadWrite,
		ExecuteNever:      true,
	}

	roCode = mm.AttributeFields{
		MemAttributes:     mm.MemAttrCacheableDRAM,
		AccessPermissions: mm.AccessReadOnly,
	}
)

// boardPlatform implements vmm.Platform for the Raspberry Pi.
type boardPlatform struct {
	ready bool

	tables  mmu.FixedSizeTranslationTable
	memUnit mmu.MemoryManagementUnit
}

// Platform returns the board's vmm.Platform. The kernel translation tables
// are set up on the first call.
func Platform() vmm.Platform {
	if !board.ready {
		lvl3 := mmu.AlignedLvl3Tables(kernelTableArena[:])[:numKernelTables]
		board.tables = mmu.NewFixedSizeTranslationTable(lvl3, kernelLvl2Table[:], PhysAddrSpaceEndExclusive())
		board.memUnit = mmu.NewMemoryManagementUnit(KernelVirtAddrSpaceSize)
		board.ready = true
	}

	return &board
}

func (p *boardPlatform) KernelTranslationTable() vmm.TranslationTable { return &p.tables }

func (p *boardPlatform) MMU() vmm.MMU { return &p.memUnit }

func (p *boardPlatform) VirtMMIORemapRegion() mm.VirtRegion { return VirtMMIORemapRegion() }

func (p *boardPlatform) MapBinary() *kernel.Error { return MapBinary() }

// MapBinary identity-maps the kernel image: the boot core stack and the
// data segment as read-write non-executable memory and the code segment as
// read-only executable memory.
func MapBinary() *kernel.Error {
	stack := VirtBootCoreStackRegion()
	if err := vmm.KernelMapAt("Kernel boot-core stack", stack, mm.IdentityPhysRegion(stack), rwData); err != nil {
		return err
	}

	code := VirtCodeRegion()
	if err := vmm.KernelMapAt("Kernel code and RO data", code, mm.IdentityPhysRegion(code), roCode); err != nil {
		return err
	}

	data := VirtDataRegion()
	return vmm.KernelMapAt("Kernel data and bss", data, mm.IdentityPhysRegion(data), rwData)
}
