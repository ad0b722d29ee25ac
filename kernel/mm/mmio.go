package mm

import "gopherpi/kernel"

var errZeroSizeMMIO = &kernel.Error{Module: "mm", Message: "MMIO descriptor size must be positive"}

// MMIODescriptor describes a device's raw MMIO aperture in the physical
// address space before page alignment.
type MMIODescriptor struct {
	start, endExclusive PhysAddr
}

// NewMMIODescriptor returns a descriptor for the size bytes starting at
// start. A zero size is a kernel bug and causes a panic.
func NewMMIODescriptor(start PhysAddr, size uintptr) MMIODescriptor {
	if size == 0 {
		panic(errZeroSizeMMIO)
	}
	return MMIODescriptor{start: start, endExclusive: start.Add(size)}
}

// StartAddr returns the physical address of the first register.
func (d MMIODescriptor) StartAddr() PhysAddr { return d.start }

// EndAddrExclusive returns the first physical address past the aperture.
func (d MMIODescriptor) EndAddrExclusive() PhysAddr { return d.endExclusive }

// Size returns the aperture size in bytes.
func (d MMIODescriptor) Size() uintptr { return d.endExclusive.Sub(d.start) }

// PhysRegion returns the smallest page region that covers the aperture.
func (d MMIODescriptor) PhysRegion() PhysRegion {
	return NewRegion(
		FrameFromAddress(d.start.AlignDownPage()),
		FrameFromAddress(d.endExclusive.AlignUpPage()),
	)
}
