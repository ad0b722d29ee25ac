package bcm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"io"
)

// PL011 register offsets.
const (
	uartDR   = 0x00
	uartFR   = 0x18
	uartIBRD = 0x24
	uartFBRD = 0x28
	uartLCRH = 0x2c
	uartCR   = 0x30
	uartICR  = 0x44
)

// PL011 register fields.
const (
	frBusy = 1 << 3
	frTXFF = 1 << 5

	lcrhFIFOEnable = 1 << 4
	lcrhWordLen8   = 0b11 << 5

	crUARTEnable = 1 << 0
	crTXEnable   = 1 << 8
	crRXEnable   = 1 << 9

	icrClearAll = 0x7ff
)

// Divisors for 921600 baud with the 48 MHz UART reference clock that the
// firmware configures.
const (
	baudIntegerDivisor    = 3
	baudFractionalDivisor = 16
)

// PL011Uart drives the ARM PL011 UART. Once initialized it can be used as
// the kernel console.
type PL011Uart struct {
	regs mmioBlock

	charsWritten uint64
}

// NewPL011Uart returns a driver for the UART whose registers are described
// by desc.
func NewPL011Uart(desc mm.MMIODescriptor) PL011Uart {
	return PL011Uart{regs: mmioBlock{desc: desc}}
}

// DriverName returns the name of the driver.
func (u *PL011Uart) DriverName() string { return "BCM PL011 UART" }

// DriverVersion returns the driver version.
func (u *PL011Uart) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }

// VirtMMIOStart returns the virtual address of the register block.
func (u *PL011Uart) VirtMMIOStart() (mm.VirtAddr, bool) { return u.regs.virtStart() }

// DriverInit maps the UART registers and configures the UART for 8N1 at
// 921600 baud with FIFOs enabled.
func (u *PL011Uart) DriverInit(w io.Writer) *kernel.Error {
	if err := u.regs.mapRegisters(u.DriverName(), w); err != nil {
		return err
	}

	// Let pending output drain before the UART is reprogrammed.
	u.flush()

	u.regs.write(uartCR, 0)
	u.regs.write(uartICR, icrClearAll)
	u.regs.write(uartIBRD, baudIntegerDivisor)
	u.regs.write(uartFBRD, baudFractionalDivisor)
	u.regs.write(uartLCRH, lcrhWordLen8|lcrhFIFOEnable)
	u.regs.write(uartCR, crUARTEnable|crTXEnable|crRXEnable)

	return nil
}

// Write implements io.Writer. Line feeds are expanded to CR LF.
func (u *PL011Uart) Write(p []byte) (int, error) {
	for _, ch := range p {
		if ch == '\n' {
			u.writeChar('\r')
		}
		u.writeChar(ch)
	}
	return len(p), nil
}

// CharsWritten returns the number of characters sent to the UART.
func (u *PL011Uart) CharsWritten() uint64 {
	return u.charsWritten
}

func (u *PL011Uart) writeChar(ch byte) {
	for u.regs.read(uartFR)&frTXFF != 0 {
	}

	u.regs.write(uartDR, uint32(ch))
	u.charsWritten++
}

func (u *PL011Uart) flush() {
	for u.regs.read(uartFR)&frBusy != 0 {
	}
}
