package bcm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"io"
)

// InterruptController maps the register blocks of the board's interrupt
// controller. Interrupt routing is not configured yet; the driver only makes
// the registers reachable.
type InterruptController struct {
	name   string
	blocks [2]mmioBlock
}

// NewInterruptController returns a driver called name for an interrupt
// controller with the two register blocks described by descs.
func NewInterruptController(name string, descs [2]mm.MMIODescriptor) InterruptController {
	ic := InterruptController{name: name}
	for i, desc := range descs {
		ic.blocks[i].desc = desc
	}
	return ic
}

// DriverName returns the name of the driver.
func (ic *InterruptController) DriverName() string { return ic.name }

// DriverVersion returns the driver version.
func (ic *InterruptController) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// DriverInit maps both register blocks.
func (ic *InterruptController) DriverInit(w io.Writer) *kernel.Error {
	for i := range ic.blocks {
		if err := ic.blocks[i].mapRegisters(ic.name, w); err != nil {
			return err
		}
	}
	return nil
}

// VirtMMIOStart returns the virtual address of the first register block.
func (ic *InterruptController) VirtMMIOStart() (mm.VirtAddr, bool) {
	return ic.blocks[0].virtStart()
}
