// Package bcm contains drivers for the Broadcom SoC peripherals found on the
// Raspberry Pi boards.
package bcm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm"
	"gopherpi/kernel/mm/vmm"
	"io"
	"unsafe"
)

var (
	// the following functions are mocked by tests and are automatically
	// inlined by the compiler.
	kernelMapMMIOFn = vmm.KernelMapMMIO
	readRegFn       = readReg
	writeRegFn      = writeReg

	errNotMapped = &kernel.Error{Module: "bcm", Message: "register access before the MMIO block was mapped"}
)

func readReg(addr mm.VirtAddr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr.Uintptr()))
}

func writeReg(addr mm.VirtAddr, val uint32) {
	*(*uint32)(unsafe.Pointer(addr.Uintptr())) = val
}

// mmioBlock is a register block that is mapped into the kernel address
// space on demand.
type mmioBlock struct {
	desc     mm.MMIODescriptor
	virtBase mm.VirtAddr
	mapped   bool
}

// mapRegisters maps the block on behalf of owner and logs the resulting
// virtual address to w.
func (b *mmioBlock) mapRegisters(owner string, w io.Writer) *kernel.Error {
	virtBase, err := kernelMapMMIOFn(owner, b.desc)
	if err != nil {
		return err
	}

	b.virtBase, b.mapped = virtBase, true

	kfmt.Fprintf(w, "registers ")
	b.desc.StartAddr().Fprint(w)
	kfmt.Fprintf(w, " mapped at ")
	virtBase.Fprint(w)
	kfmt.Fprintf(w, "\n")
	return nil
}

func (b *mmioBlock) virtStart() (mm.VirtAddr, bool) {
	return b.virtBase, b.mapped
}

func (b *mmioBlock) read(offset uintptr) uint32 {
	if !b.mapped {
		panic(errNotMapped)
	}
	return readRegFn(b.virtBase.Add(offset))
}

func (b *mmioBlock) write(offset uintptr, val uint32) {
	if !b.mapped {
		panic(errNotMapped)
	}
	writeRegFn(b.virtBase.Add(offset), val)
}
