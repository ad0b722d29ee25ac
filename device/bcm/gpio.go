package bcm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"io"
)

// GPIO register offsets.
const (
	gpfsel1 = 0x04
)

// GPFSEL1 fields for the pins that carry the PL011 UART signals.
const (
	fsel14Shift = 12
	fsel15Shift = 15
	fselMask    = 0b111
	fselAlt0    = 0b100
)

// GPIO drives the BCM GPIO controller.
type GPIO struct {
	regs mmioBlock
}

// NewGPIO returns a driver for the GPIO controller whose registers are
// described by desc.
func NewGPIO(desc mm.MMIODescriptor) GPIO {
	return GPIO{regs: mmioBlock{desc: desc}}
}

// DriverName returns the name of the driver.
func (g *GPIO) DriverName() string { return "BCM GPIO" }

// DriverVersion returns the driver version.
func (g *GPIO) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit maps the controller registers.
func (g *GPIO) DriverInit(w io.Writer) *kernel.Error {
	return g.regs.mapRegisters(g.DriverName(), w)
}

// VirtMMIOStart returns the virtual address of the register block.
func (g *GPIO) VirtMMIOStart() (mm.VirtAddr, bool) { return g.regs.virtStart() }

// MapPL011Uart routes the PL011 UART TX and RX signals to GPIO pins 14 and
// 15.
func (g *GPIO) MapPL011Uart() {
	fsel := g.regs.read(gpfsel1)
	fsel &^= fselMask<<fsel14Shift | fselMask<<fsel15Shift
	fsel |= fselAlt0<<fsel14Shift | fselAlt0<<fsel15Shift
	g.regs.write(gpfsel1, fsel)
}
