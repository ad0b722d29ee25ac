package mm

// Size represents a memory block size in bytes.
type Size uintptr

// Common memory block sizes.
const (
	Byte Size = 1
	KiB       = 1024 * Byte
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
)

// HumanReadableCeil returns the size expressed in the largest unit that
// fits, rounded up, together with the unit name.
func (s Size) HumanReadableCeil() (Size, string) {
	switch {
	case s >= GiB:
		return divCeil(s, GiB), "GiB"
	case s >= MiB:
		return divCeil(s, MiB), "MiB"
	case s >= KiB:
		return divCeil(s, KiB), "KiB"
	default:
		return s, "Byte"
	}
}

func divCeil(s, unit Size) Size {
	return s/unit + (s%unit+unit-1)/unit
}
