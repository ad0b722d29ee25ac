package kmain

import (
	"gopherpi/board/rpi"
	"gopherpi/kernel"
	"gopherpi/kernel/hal"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm/vmm"
)

var (
	// the following functions are mocked by tests and are automatically
	// inlined by the compiler.
	panicFn           = kfmt.Panic
	registerDriversFn = rpi.RegisterDrivers
	initDriversFn     = hal.InitDrivers

	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. It is invoked by the rt0 assembly code on the boot
// core after it has set up the boot stack, cleared the bss and dropped to
// EL1. The MMU is still off at this point and the kernel runs from physical
// addresses.
//
// The rt0 code passes the address of the linker symbol table describing the
// kernel image layout.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(linkerSymbolsPtr uintptr) {
	rpi.SetLinkerSymbolsPtr(linkerSymbolsPtr)
	vmm.SetPlatform(rpi.Platform())

	tablesBaseAddr, err := vmm.KernelMapBinary()
	if err != nil {
		panicFn(err)
		return
	}

	if err = vmm.EnableMMUAndCaching(tablesBaseAddr); err != nil {
		panicFn(err)
		return
	}
	vmm.PostEnableInit()

	if err = registerDriversFn(); err != nil {
		panicFn(err)
		return
	} else if err = initDriversFn(); err != nil {
		panicFn(err)
		return
	}

	kfmt.Infof("%s: MMU and caching enabled, kernel tables at 0x%x", rpi.BoardName, tablesBaseAddr.Uintptr())
	vmm.KernelPrintMappings()
	kfmt.Infof("%d pages left in the MMIO remap window", vmm.RemainingMMIOPages())
	hal.EnumerateDrivers(kfmt.InfoWriter())

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	panicFn(errKmainReturned)
}
