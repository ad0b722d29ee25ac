package mm

const (
	// PageShift is equal to log2(PageSize). The kernel uses the 64 KiB
	// translation granule for every mapping it establishes.
	PageShift = 16

	// PageSize defines the kernel's page (granule) size in bytes.
	PageSize = uintptr(1 << PageShift)

	// PageMask selects the offset-into-page bits of an address.
	PageMask = PageSize - 1

	// maxUintptr is the largest value representable by an address.
	maxUintptr = ^uintptr(0)
)
