// Package vmm manages the kernel's virtual address space. It maps the kernel
// binary, turns on the MMU and hands out virtual addresses for device MMIO
// apertures on demand.
//
// The architecture and board specific collaborators are supplied through a
// Platform registered with SetPlatform before any other function in this
// package is used.
package vmm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm"
	"gopherpi/kernel/sync"
)

// TranslationTable is implemented by the architecture's kernel translation
// table.
type TranslationTable interface {
	// Init prepares the table for use. Calls after the first one have
	// no effect.
	Init()

	// PhysBaseAddress returns the address that the MMU needs to be
	// programmed with.
	PhysBaseAddress() mm.PhysAddr

	// MapAt maps virtRegion onto the same-sized physRegion. Pages that
	// are already mapped are never overwritten.
	MapAt(virtRegion mm.VirtRegion, physRegion mm.PhysRegion, attr mm.AttributeFields) *kernel.Error

	// Translate returns the physical address that virtAddr maps to.
	Translate(virtAddr mm.VirtAddr) (mm.PhysAddr, *kernel.Error)
}

// MMU is implemented by the architecture's memory management unit driver.
type MMU interface {
	// IsEnabled queries the hardware for the MMU state.
	IsEnabled() bool

	// EnableMMUAndCaching installs the translation table located at
	// physTablesBaseAddr and enables address translation and caching.
	EnableMMUAndCaching(physTablesBaseAddr mm.PhysAddr) *kernel.Error
}

// Platform groups the board and architecture specific pieces used by the
// kernel to set up its address space.
type Platform interface {
	// KernelTranslationTable returns the kernel's translation table.
	KernelTranslationTable() TranslationTable

	// MMU returns the memory management unit driver.
	MMU() MMU

	// VirtMMIORemapRegion returns the virtual region reserved for MMIO
	// remapping. Only KernelMapMMIO may place mappings there.
	VirtMMIORemapRegion() mm.VirtRegion

	// MapBinary maps the kernel image using KernelMapAt.
	MapBinary() *kernel.Error
}

// State describes how far the kernel has progressed in setting up its
// address space.
type State uint8

// The boot states, in the order they are reached.
const (
	StatePreMap State = iota
	StateBinaryMapped
	StateMMUEnabled
	StateReady
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePreMap:
		return "pre-map"
	case StateBinaryMapped:
		return "binary mapped"
	case StateMMUEnabled:
		return "MMU enabled"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

var (
	platform  Platform
	bootState State

	// tableLock serializes access to the platform's translation table.
	tableLock sync.RWSpinlock

	// recordLock guards kernelMappingRecord.
	recordLock          sync.RWSpinlock
	kernelMappingRecord MappingRecord

	kernelPageAllocator PageAllocator

	// mmioLock serializes KernelMapMMIO so that concurrent requests for
	// the same aperture resolve to a single mapping.
	mmioLock sync.Spinlock

	// ErrMapIntoMMIORemap is returned by KernelMapAt for regions that
	// overlap the MMIO remap window.
	ErrMapIntoMMIORemap = &kernel.Error{Module: "vmm", Message: "attempt to manually map into MMIO region"}

	errNoPlatform = &kernel.Error{Module: "vmm", Message: "no platform registered"}
)

// SetPlatform registers the platform used by the rest of this package.
func SetPlatform(p Platform) {
	platform = p
}

// CurrentState returns the current boot state of the kernel address space.
func CurrentState() State {
	return bootState
}

func mustPlatform() Platform {
	if platform == nil {
		panic(errNoPlatform)
	}
	return platform
}

// KernelMapAt maps virtRegion onto physRegion in the kernel translation table
// and records the mapping under name. Regions that overlap the MMIO remap
// window are rejected with ErrMapIntoMMIORemap.
func KernelMapAt(name string, virtRegion mm.VirtRegion, physRegion mm.PhysRegion, attr mm.AttributeFields) *kernel.Error {
	if mustPlatform().VirtMMIORemapRegion().Overlaps(virtRegion) {
		return ErrMapIntoMMIORemap
	}

	return kernelMapAtUnchecked(name, virtRegion, physRegion, attr)
}

// kernelMapAtUnchecked maps and records a region without checking it
// against the MMIO remap window. Failing to record the mapping is logged but
// does not fail the call.
func kernelMapAtUnchecked(name string, virtRegion mm.VirtRegion, physRegion mm.PhysRegion, attr mm.AttributeFields) *kernel.Error {
	table := mustPlatform().KernelTranslationTable()

	tableLock.Lock()
	err := table.MapAt(virtRegion, physRegion, attr)
	tableLock.Unlock()
	if err != nil {
		return err
	}

	// Empty regions map nothing and are left out of the record.
	if virtRegion.IsEmpty() {
		return nil
	}

	recordLock.Lock()
	err = kernelMappingRecord.Add(name, virtRegion, physRegion, attr)
	recordLock.Unlock()
	if err != nil {
		kfmt.Warnf("vmm: %s: %s", name, err.Message)
	}

	return nil
}

// KernelMapMMIO maps the MMIO aperture described by desc into the MMIO remap
// window and returns the virtual address of desc's first register.
//
// Apertures that page-round to an already mapped device region reuse that
// mapping; name is added to its owners.
func KernelMapMMIO(name string, desc mm.MMIODescriptor) (mm.VirtAddr, *kernel.Error) {
	physRegion := desc.PhysRegion()
	offsetIntoPage := desc.StartAddr().OffsetIntoPage()

	mmioLock.Acquire()
	defer mmioLock.Release()

	recordLock.Lock()
	if entry, found := kernelMappingRecord.FindDuplicate(physRegion); found {
		if err := entry.AddUser(name); err != nil {
			kfmt.Warnf("vmm: %s: %s", name, err.Message)
		}
		virtStart := entry.VirtStartAddr()
		recordLock.Unlock()

		return virtStart.Add(offsetIntoPage), nil
	}
	recordLock.Unlock()

	virtRegion, err := kernelPageAllocator.Alloc(physRegion.NumPages())
	if err != nil {
		return 0, err
	}

	if err = kernelMapAtUnchecked(name, virtRegion, physRegion, mm.DeviceAttributes); err != nil {
		// The allocator cannot give pages back; virtRegion stays reserved.
		return 0, err
	}

	return virtRegion.StartAddr().Add(offsetIntoPage), nil
}

// KernelMapBinary initializes the kernel translation table and identity-maps
// the kernel image. It returns the physical address that the MMU needs to be
// programmed with.
func KernelMapBinary() (mm.PhysAddr, *kernel.Error) {
	p := mustPlatform()
	table := p.KernelTranslationTable()

	tableLock.Lock()
	table.Init()
	physTablesBaseAddr := table.PhysBaseAddress()
	tableLock.Unlock()

	if err := p.MapBinary(); err != nil {
		return 0, err
	}

	bootState = StateBinaryMapped
	return physTablesBaseAddr, nil
}

// EnableMMUAndCaching turns on the MMU using the translation table located
// at physTablesBaseAddr. It fails if the MMU is already enabled.
func EnableMMUAndCaching(physTablesBaseAddr mm.PhysAddr) *kernel.Error {
	if err := mustPlatform().MMU().EnableMMUAndCaching(physTablesBaseAddr); err != nil {
		return err
	}

	bootState = StateMMUEnabled
	return nil
}

// PostEnableInit hands the MMIO remap window to the page allocator. It must
// run after the MMU has been enabled and before any driver is initialized.
func PostEnableInit() {
	kernelPageAllocator.Init(mustPlatform().VirtMMIORemapRegion())
	bootState = StateReady
}

// KernelPrintMappings logs a table with all recorded kernel mappings.
func KernelPrintMappings() {
	recordLock.RLock()
	kernelMappingRecord.Print(kfmt.InfoWriter())
	recordLock.RUnlock()
}

// KernelVirtToPhys returns the physical address that virtAddr maps to in the
// kernel translation table.
func KernelVirtToPhys(virtAddr mm.VirtAddr) (mm.PhysAddr, *kernel.Error) {
	table := mustPlatform().KernelTranslationTable()

	tableLock.RLock()
	defer tableLock.RUnlock()

	return table.Translate(virtAddr)
}

// RemainingMMIOPages returns the number of pages left in the MMIO remap
// window.
func RemainingMMIOPages() uintptr {
	return kernelPageAllocator.RemainingPages()
}
