//go:build rpi4

package rpi

import "gopherpi/kernel/mm"

// BoardName identifies the board the kernel is built for.
const BoardName = "Raspberry Pi 4"

// Physical MMIO apertures of the BCM2711 peripherals.
const (
	gpioStart mm.PhysAddr = 0xfe20_0000
	gpioSize              = 0xa0

	pl011UartStart mm.PhysAddr = 0xfe20_1000
	pl011UartSize              = 0x48

	gicdStart mm.PhysAddr = 0xff84_1000
	gicdSize              = 0x824

	giccStart mm.PhysAddr = 0xff84_2000
	giccSize              = 0x14

	physEndInclusive mm.PhysAddr = 0xff84_ffff
)

// IRQControllerName is the driver name of the board's interrupt controller.
const IRQControllerName = "GICv2 (ARM Generic Interrupt Controller v2)"

// IRQControllerMMIODescriptors returns the GIC distributor and CPU interface
// register blocks.
func IRQControllerMMIODescriptors() [2]mm.MMIODescriptor {
	return [2]mm.MMIODescriptor{
		mm.NewMMIODescriptor(gicdStart, gicdSize),
		mm.NewMMIODescriptor(giccStart, giccSize),
	}
}
