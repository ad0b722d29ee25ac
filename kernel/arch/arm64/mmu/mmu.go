// Package mmu drives the ARMv8-A stage 1 EL1 translation regime using the
// 64 KiB granule and two-level translation tables.
package mmu

import (
	"gopherpi/kernel"
	"gopherpi/kernel/cpu"
	"gopherpi/kernel/mm"
	"math/bits"
)

var (
	// the following functions are mocked by tests and are automatically
	// inlined by the compiler.
	readSCTLRFn       = cpu.ReadSCTLR
	writeSCTLRFn      = cpu.WriteSCTLR
	writeMAIRFn       = cpu.WriteMAIR
	writeTCRFn        = cpu.WriteTCR
	writeTTBR0Fn      = cpu.WriteTTBR0
	readIDAA64MMFR0Fn = cpu.ReadIDAA64MMFR0
	invalidateTLBFn   = cpu.InvalidateTLBAll
	isbFn             = cpu.ISB

	// ErrMMUAlreadyEnabled is returned by EnableMMUAndCaching when
	// SCTLR_EL1 reports that address translation is already active.
	ErrMMUAlreadyEnabled = &kernel.Error{Module: "mmu", Message: "MMU is already enabled"}

	// ErrGranuleUnsupported is returned by EnableMMUAndCaching when the
	// core does not implement the 64 KiB translation granule.
	ErrGranuleUnsupported = &kernel.Error{Module: "mmu", Message: "64 KiB translation granule not supported by the core"}

	errBadAddrSpaceSize = &kernel.Error{Module: "mmu", Message: "virtual address space size must be a power of two covered by the lvl2 table"}
)

// SCTLR_EL1 bits.
const (
	sctlrM = 1 << 0
	sctlrC = 1 << 2
	sctlrI = 1 << 12
)

// ID_AA64MMFR0_EL1.TGran64 occupies bits [27:24]; 0b0000 means supported.
const (
	tgran64Shift     = 24
	tgran64Mask      = 0xf
	tgran64Supported = 0
)

// MAIR_EL1 attribute encodings. Slot mairIndexDevice holds Device-nGnRE and
// slot mairIndexNormal holds normal memory, outer and inner write-back
// non-transient with read and write allocation.
const (
	mairDeviceNGnRE = 0x04
	mairNormalWB    = 0xff

	mairValue = mairDeviceNGnRE<<(8*mairIndexDevice) | mairNormalWB<<(8*mairIndexNormal)
)

// TCR_EL1 fields.
const (
	tcrT0SZMask = 0x3f

	tcrEPD0Walk  = 0 << 7
	tcrIRGN0WBWA = 0b01 << 8
	tcrORGN0WBWA = 0b01 << 10
	tcrSH0Inner  = 0b11 << 12
	tcrTG0KiB64  = 0b01 << 14
	tcrA1TTBR0   = 0 << 22
	tcrEPD1Fault = 1 << 23
	tcrIPS40Bits = 0b010 << 32
	tcrTBI0Used  = 0 << 37
)

// MemoryManagementUnit enables the MMU for a kernel virtual address space of
// a fixed size, translated through TTBR0_EL1.
type MemoryManagementUnit struct {
	virtAddrSpaceSize uintptr
}

// NewMemoryManagementUnit returns the MMU driver for a virtual address space
// of virtAddrSpaceSize bytes. The size must be a power of two of at least
// 512 MiB (one lvl2 descriptor) and at most 4 TiB (a full 64 KiB lvl2
// table).
func NewMemoryManagementUnit(virtAddrSpaceSize uintptr) MemoryManagementUnit {
	if bits.OnesCount64(uint64(virtAddrSpaceSize)) != 1 ||
		virtAddrSpaceSize < 1<<lvl2Shift ||
		uint64(virtAddrSpaceSize) > uint64(1)<<(lvl2Shift+13) {
		panic(errBadAddrSpaceSize)
	}

	return MemoryManagementUnit{virtAddrSpaceSize: virtAddrSpaceSize}
}

// IsEnabled reports whether SCTLR_EL1.M is set on the calling core.
func (m *MemoryManagementUnit) IsEnabled() bool {
	return readSCTLRFn()&sctlrM != 0
}

// EnableMMUAndCaching installs the translation table whose lvl2 table lives
// at physTablesBaseAddr and turns on address translation together with the
// instruction and data caches.
func (m *MemoryManagementUnit) EnableMMUAndCaching(physTablesBaseAddr mm.PhysAddr) *kernel.Error {
	if m.IsEnabled() {
		return ErrMMUAlreadyEnabled
	}

	if (readIDAA64MMFR0Fn()>>tgran64Shift)&tgran64Mask != tgran64Supported {
		return ErrGranuleUnsupported
	}

	writeMAIRFn(mairValue)

	invalidateTLBFn()
	writeTTBR0Fn(uint64(physTablesBaseAddr))
	writeTCRFn(m.tcrValue())
	isbFn()

	writeSCTLRFn(readSCTLRFn() | sctlrM | sctlrC | sctlrI)
	isbFn()

	return nil
}

// tcrValue returns the TCR_EL1 configuration for TTBR0 walks over the
// kernel virtual address space. TTBR1 walks are disabled.
func (m *MemoryManagementUnit) tcrValue() uint64 {
	t0sz := uint64(64-bits.TrailingZeros64(uint64(m.virtAddrSpaceSize))) & tcrT0SZMask

	return t0sz |
		tcrEPD0Walk |
		tcrIRGN0WBWA |
		tcrORGN0WBWA |
		tcrSH0Inner |
		tcrTG0KiB64 |
		tcrA1TTBR0 |
		tcrEPD1Fault |
		tcrIPS40Bits |
		tcrTBI0Used
}
