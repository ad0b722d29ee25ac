package device

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"io"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error

	// VirtMMIOStart returns the virtual address of the device's register
	// block once DriverInit has mapped it. Drivers for devices without
	// MMIO registers return false.
	VirtMMIOStart() (mm.VirtAddr, bool)
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// PostInitFn is invoked with the initialized driver once its DriverInit call
// succeeds.
type PostInitFn func(Driver) *kernel.Error

// DetectOrder specifies when each driver's probe function will be invoked
// by the driver manager. Lower values run first.
type DetectOrder int8

const (
	// DetectOrderEarly is used by drivers that must be available before
	// anything else, like the console UART.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderNormal is used by drivers without special requirements.
	DetectOrderNormal DetectOrder = 0

	// DetectOrderLast is used by drivers that depend on other drivers.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo is a driver-defined struct that is passed to calls to
// RegisterDriver.
type DriverInfo struct {
	// Order specifies at which stage of the init process will this
	// driver's probe function be invoked.
	Order DetectOrder

	// Probe is the driver's probe function.
	Probe ProbeFn

	// PostInit is optional and runs after the driver has been
	// initialized.
	PostInit PostInitFn
}

// DriverInfoList is a list of registered drivers sorted by DetectOrder.
type DriverInfoList []*DriverInfo

// MaxDrivers is the number of drivers that can be registered.
const MaxDrivers = 16

var (
	registeredDrivers    [MaxDrivers]*DriverInfo
	numRegisteredDrivers int

	errTooManyDrivers = &kernel.Error{Module: "device", Message: "driver registry is full"}
)

// RegisterDriver adds the supplied driver info to the registry. Drivers with
// the same DetectOrder are probed in registration order.
func RegisterDriver(info *DriverInfo) *kernel.Error {
	if numRegisteredDrivers == MaxDrivers {
		return errTooManyDrivers
	}

	// Keep the registry sorted so DriverList never needs to sort.
	i := numRegisteredDrivers
	for ; i > 0 && registeredDrivers[i-1].Order > info.Order; i-- {
		registeredDrivers[i] = registeredDrivers[i-1]
	}
	registeredDrivers[i] = info
	numRegisteredDrivers++

	return nil
}

// DriverList returns the registered drivers sorted by DetectOrder.
func DriverList() DriverInfoList {
	return registeredDrivers[:numRegisteredDrivers]
}
