package rpi

import (
	"gopherpi/device"
	"gopherpi/device/bcm"
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
)

var (
	gpio    bcm.GPIO
	uart    bcm.PL011Uart
	irqCtrl bcm.InterruptController

	boardDrivers [3]device.DriverInfo
)

// RegisterDrivers registers the drivers for the on-board peripherals with
// the driver manager. The GPIO controller is initialized first so that the
// UART pins are routed before the UART becomes the kernel console.
func RegisterDrivers() *kernel.Error {
	gpio = bcm.NewGPIO(GPIOMMIODescriptor())
	uart = bcm.NewPL011Uart(PL011UartMMIODescriptor())
	irqCtrl = bcm.NewInterruptController(IRQControllerName, IRQControllerMMIODescriptors())

	boardDrivers = [...]device.DriverInfo{
		{Order: device.DetectOrderEarly, Probe: probeGPIO, PostInit: routeUartPins},
		{Order: device.DetectOrderEarly, Probe: probeUart, PostInit: attachConsole},
		{Order: device.DetectOrderNormal, Probe: probeIRQController},
	}

	for i := range boardDrivers {
		if err := device.RegisterDriver(&boardDrivers[i]); err != nil {
			return err
		}
	}

	return nil
}

func probeGPIO() device.Driver          { return &gpio }
func probeUart() device.Driver          { return &uart }
func probeIRQController() device.Driver { return &irqCtrl }

func routeUartPins(device.Driver) *kernel.Error {
	gpio.MapPL011Uart()
	return nil
}

// attachConsole redirects kernel output to the UART. Output buffered so far
// is flushed to it.
func attachConsole(device.Driver) *kernel.Error {
	kfmt.SetOutputSink(&uart)
	return nil
}
