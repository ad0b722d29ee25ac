//go:build !rpi4

package rpi

import "gopherpi/kernel/mm"

// BoardName identifies the board the kernel is built for.
const BoardName = "Raspberry Pi 3"

// Physical MMIO apertures of the BCM2837 peripherals.
const (
	gpioStart mm.PhysAddr = 0x3f20_0000
	gpioSize              = 0xa0

	pl011UartStart mm.PhysAddr = 0x3f20_1000
	pl011UartSize              = 0x48

	peripheralICStart mm.PhysAddr = 0x3f00_b200
	peripheralICSize              = 0x24

	localICStart mm.PhysAddr = 0x4000_0000
	localICSize              = 0x100

	physEndInclusive mm.PhysAddr = 0x4000_ffff
)

// IRQControllerName is the driver name of the board's interrupt controller.
const IRQControllerName = "BCM Interrupt Controller"

// IRQControllerMMIODescriptors returns the register blocks of the peripheral
// and the per-core local interrupt controllers.
func IRQControllerMMIODescriptors() [2]mm.MMIODescriptor {
	return [2]mm.MMIODescriptor{
		mm.NewMMIODescriptor(peripheralICStart, peripheralICSize),
		mm.NewMMIODescriptor(localICStart, localICSize),
	}
}
