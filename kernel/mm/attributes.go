package mm

// MemAttributes selects the memory type used for a mapping.
type MemAttributes uint8

const (
	// MemAttrCacheableDRAM is normal, write-back cacheable memory.
	MemAttrCacheableDRAM MemAttributes = iota

	// MemAttrDevice is non-cacheable device memory used for MMIO.
	MemAttrDevice
)

// ShortString returns the compact form used in mapping dumps.
func (m MemAttributes) ShortString() string {
	if m == MemAttrDevice {
		return "Dev"
	}
	return "C"
}

// AccessPermissions selects whether a mapping may be written to.
type AccessPermissions uint8

const (
	// AccessReadOnly allows reads only.
	AccessReadOnly AccessPermissions = iota

	// AccessReadWrite allows reads and writes.
	AccessReadWrite
)

// ShortString returns the compact form used in mapping dumps.
func (p AccessPermissions) ShortString() string {
	if p == AccessReadWrite {
		return "RW"
	}
	return "RO"
}

// AttributeFields collects the attributes attached to a mapping. Once a
// mapping is committed its attributes never change.
type AttributeFields struct {
	MemAttributes     MemAttributes
	AccessPermissions AccessPermissions

	// ExecuteNever prevents instruction fetches from the mapping.
	ExecuteNever bool
}

// DeviceAttributes are the attributes used for every MMIO remapping.
var DeviceAttributes = AttributeFields{
	MemAttributes:     MemAttrDevice,
	AccessPermissions: AccessReadWrite,
	ExecuteNever:      true,
}
