package rpi

import "gopherpi/kernel/mm"

// GPIOMMIODescriptor returns the GPIO controller register block.
func GPIOMMIODescriptor() mm.MMIODescriptor {
	return mm.NewMMIODescriptor(gpioStart, gpioSize)
}

// PL011UartMMIODescriptor returns the PL011 UART register block.
func PL011UartMMIODescriptor() mm.MMIODescriptor {
	return mm.NewMMIODescriptor(pl011UartStart, pl011UartSize)
}

// PhysAddrSpaceEndExclusive returns the first page-aligned physical address
// past the board's physical address space.
func PhysAddrSpaceEndExclusive() mm.PhysAddr {
	return physEndInclusive.AlignDownPage().Add(mm.PageSize)
}
