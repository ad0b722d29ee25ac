package mmu

import (
	"gopherpi/kernel"
	"gopherpi/kernel/mm"
	"unsafe"
)

const (
	// Lvl3Entries is the number of page descriptors in a lvl3 table. With
	// the 64 KiB granule a table occupies exactly one page.
	Lvl3Entries = int(mm.PageSize / unsafe.Sizeof(PageDescriptor(0)))

	// lvl2Shift selects the lvl2 index of a virtual address. Each lvl2
	// entry covers 512 MiB.
	lvl2Shift = 29

	lvl3IndexMask = uintptr(Lvl3Entries - 1)
)

var (
	// ErrRegionSizeMismatch is returned by MapAt when the virtual and
	// physical regions differ in page count.
	ErrRegionSizeMismatch = &kernel.Error{Module: "mmu", Message: "virtual and physical region sizes differ"}

	// ErrOutsidePhysAddrSpace is returned by MapAt when the physical region
	// extends past the end of the board's physical address space.
	ErrOutsidePhysAddrSpace = &kernel.Error{Module: "mmu", Message: "physical region ends outside of the physical address space"}

	// ErrVirtPageOutOfBounds is returned by MapAt when a virtual page is
	// not covered by the translation tables.
	ErrVirtPageOutOfBounds = &kernel.Error{Module: "mmu", Message: "virtual page is not covered by the translation tables"}

	// ErrPageAlreadyMapped is returned by MapAt when a virtual page already
	// holds a valid descriptor.
	ErrPageAlreadyMapped = &kernel.Error{Module: "mmu", Message: "virtual page is already mapped"}

	// ErrInvalidMapping is returned when trying to lookup a virtual memory
	// address that is not yet mapped.
	ErrInvalidMapping = &kernel.Error{Module: "mmu", Message: "virtual address does not point to a mapped physical page"}

	errNoTables            = &kernel.Error{Module: "mmu", Message: "translation table needs at least one lvl3 table"}
	errTableCountMismatch  = &kernel.Error{Module: "mmu", Message: "lvl2 and lvl3 table counts differ"}
	errUnalignedTables     = &kernel.Error{Module: "mmu", Message: "lvl3 tables are not page aligned"}
	errTableNotInitialized = &kernel.Error{Module: "mmu", Message: "translation table used before Init"}
)

// FixedSizeTranslationTable is a two-level translation table for the 64 KiB
// granule. The lvl2 table holds one descriptor per 512 MiB of virtual
// address space and each descriptor points to the matching lvl3 table.
//
// The table does not synchronize access; callers serialize mutations.
type FixedSizeTranslationTable struct {
	lvl3 [][Lvl3Entries]PageDescriptor
	lvl2 []TableDescriptor

	physAddrSpaceEnd mm.PhysAddr
	initialized      bool
}

// NewFixedSizeTranslationTable returns a table backed by the supplied
// storage. The lvl3 tables must be page-aligned (see AlignedLvl3Tables) and
// there must be exactly one lvl2 descriptor per lvl3 table. Physical pages
// at or beyond physAddrSpaceEnd can never be mapped.
//
// The table memory is assumed to be identity-mapped so that the address of
// each table doubles as its physical address.
func NewFixedSizeTranslationTable(lvl3 [][Lvl3Entries]PageDescriptor, lvl2 []TableDescriptor, physAddrSpaceEnd mm.PhysAddr) FixedSizeTranslationTable {
	switch {
	case len(lvl3) == 0:
		panic(errNoTables)
	case len(lvl3) != len(lvl2):
		panic(errTableCountMismatch)
	case !tableAddr(&lvl3[0]).IsPageAligned():
		panic(errUnalignedTables)
	}

	return FixedSizeTranslationTable{
		lvl3:             lvl3,
		lvl2:             lvl2,
		physAddrSpaceEnd: physAddrSpaceEnd,
	}
}

// AlignedLvl3Tables returns the largest run of page-aligned lvl3 tables that
// fits in arena. Go offers no way to request page alignment for a variable,
// so callers reserve one table more than they need and let this function
// pick the aligned window.
func AlignedLvl3Tables(arena [][Lvl3Entries]PageDescriptor) [][Lvl3Entries]PageDescriptor {
	if len(arena) < 2 {
		panic(errNoTables)
	}

	start := uintptr(unsafe.Pointer(&arena[0]))
	aligned := mm.PhysAddr(start).AlignUpPage().Uintptr()
	count := len(arena)
	if aligned != start {
		count--
	}

	return unsafe.Slice((*[Lvl3Entries]PageDescriptor)(unsafe.Add(unsafe.Pointer(&arena[0]), aligned-start)), count)
}

// tableAddr returns the physical address of a table. Table memory is
// identity-mapped.
func tableAddr[T any](table *T) mm.PhysAddr {
	return mm.PhysAddr(uintptr(unsafe.Pointer(table)))
}

// Init clears the lvl3 tables and points every lvl2 descriptor to its lvl3
// table. Calling Init on an initialized table has no effect.
func (t *FixedSizeTranslationTable) Init() {
	if t.initialized {
		return
	}

	for i := range t.lvl2 {
		kernel.Memset(tableAddr(&t.lvl3[i]).Uintptr(), 0, unsafe.Sizeof(t.lvl3[i]))
		t.lvl2[i] = newTableDescriptor(tableAddr(&t.lvl3[i]))
	}

	t.initialized = true
}

// IsInitialized returns true once Init has been called.
func (t *FixedSizeTranslationTable) IsInitialized() bool {
	return t.initialized
}

// NumTables returns the number of lvl3 tables.
func (t *FixedSizeTranslationTable) NumTables() int {
	return len(t.lvl3)
}

// VirtAddrSpaceSize returns the size of the virtual address space covered
// by the table.
func (t *FixedSizeTranslationTable) VirtAddrSpaceSize() uintptr {
	return uintptr(len(t.lvl2)) << lvl2Shift
}

// PhysBaseAddress returns the physical address of the lvl2 table, as
// expected by TTBR0_EL1.
func (t *FixedSizeTranslationTable) PhysBaseAddress() mm.PhysAddr {
	t.assertInitialized()
	return tableAddr(&t.lvl2[0])
}

// MapAt maps virtRegion onto physRegion using attr. Every page is checked
// before the first descriptor is written so a failed call leaves the table
// untouched.
func (t *FixedSizeTranslationTable) MapAt(virtRegion mm.VirtRegion, physRegion mm.PhysRegion, attr mm.AttributeFields) *kernel.Error {
	t.assertInitialized()

	if virtRegion.NumPages() != physRegion.NumPages() {
		return ErrRegionSizeMismatch
	}

	if physRegion.EndExclusivePageAddr().Address() > t.physAddrSpaceEnd {
		return ErrOutsidePhysAddrSpace
	}

	for it := virtRegion.Pages(); ; {
		page, ok := it.Next()
		if !ok {
			break
		}

		desc, err := t.pageDescriptor(page)
		if err != nil {
			return err
		}

		if desc.IsValid() {
			return ErrPageAlreadyMapped
		}
	}

	virtIt, physIt := virtRegion.Pages(), physRegion.Pages()
	for {
		page, ok := virtIt.Next()
		if !ok {
			break
		}
		frame, _ := physIt.Next()

		desc, _ := t.pageDescriptor(page)
		*desc = newPageDescriptor(frame, attr)
	}

	return nil
}

// Translate returns the physical address that corresponds to the supplied
// virtual address or ErrInvalidMapping if the virtual address does not
// correspond to a mapped physical page.
func (t *FixedSizeTranslationTable) Translate(virtAddr mm.VirtAddr) (mm.PhysAddr, *kernel.Error) {
	t.assertInitialized()

	desc, err := t.pageDescriptor(mm.PageFromAddress(virtAddr.AlignDownPage()))
	if err != nil || !desc.IsValid() {
		return 0, ErrInvalidMapping
	}

	return desc.Frame().Address().Add(virtAddr.OffsetIntoPage()), nil
}

// Lookup returns the descriptor for page or ErrInvalidMapping if it is not
// mapped.
func (t *FixedSizeTranslationTable) Lookup(page mm.Page) (PageDescriptor, *kernel.Error) {
	t.assertInitialized()

	desc, err := t.pageDescriptor(page)
	if err != nil || !desc.IsValid() {
		return 0, ErrInvalidMapping
	}
	return *desc, nil
}

// pageDescriptor returns a pointer to the lvl3 descriptor of page.
func (t *FixedSizeTranslationTable) pageDescriptor(page mm.Page) (*PageDescriptor, *kernel.Error) {
	addr := page.Address().Uintptr()

	lvl2Index := addr >> lvl2Shift
	if lvl2Index >= uintptr(len(t.lvl2)) {
		return nil, ErrVirtPageOutOfBounds
	}

	lvl3Index := (addr >> mm.PageShift) & lvl3IndexMask
	return &t.lvl3[lvl2Index][lvl3Index], nil
}

func (t *FixedSizeTranslationTable) assertInitialized() {
	if !t.initialized {
		panic(errTableNotInitialized)
	}
}
