// Package hal implements the driver manager. It probes the registered
// drivers, initializes the ones whose hardware is present and keeps track of
// the active drivers.
package hal

import (
	"bytes"
	"gopherpi/device"
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"io"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	// activeDrivers tracks all initialized device drivers.
	activeDrivers    [device.MaxDrivers]device.Driver
	numActiveDrivers int
}

var (
	devices managedDevices
	strBuf  bytes.Buffer

	// logSinkFn returns the writer that receives driver init output. It is
	// replaced by tests.
	logSinkFn = kfmt.InfoWriter
)

// InitDrivers probes the registered drivers in detection order and
// initializes each driver whose probe function reports a device. The
// driver's PostInit callback runs right after a successful init. The first
// failure aborts the process and its error is returned.
func InitDrivers() *kernel.Error {
	return probe(device.DriverList())
}

// probe executes the probe function for each driver and initializes the
// returned drivers.
func probe(driverInfoList device.DriverInfoList) *kernel.Error {
	var w = kfmt.PrefixWriter{Sink: logSinkFn()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			return err
		}

		devices.activeDrivers[devices.numActiveDrivers] = drv
		devices.numActiveDrivers++
		kfmt.Fprintf(&w, "initialized\n")

		if info.PostInit == nil {
			continue
		}

		if err := info.PostInit(drv); err != nil {
			kfmt.Fprintf(&w, "post-init failed: %s\n", err.Message)
			return err
		}
	}

	return nil
}

// ActiveDrivers returns the initialized drivers in initialization order.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers[:devices.numActiveDrivers]
}

// EnumerateDrivers writes a table listing the active drivers, their version
// and the virtual address of their registers to w.
func EnumerateDrivers(w io.Writer) {
	kfmt.Fprintf(w, "%-32s %-8s %s\n", "Driver", "Version", "MMIO start")
	for _, drv := range ActiveDrivers() {
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(w, "%-32s %d.%d.%d    ", drv.DriverName(), major, minor, patch)

		if virt, ok := drv.VirtMMIOStart(); ok {
			virt.Fprint(w)
		} else {
			kfmt.Fprintf(w, "-")
		}
		kfmt.Fprintf(w, "\n")
	}
}
