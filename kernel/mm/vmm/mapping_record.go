package vmm

import (
	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm"
	"io"
)

const (
	// MaxMappingRecordEntries is the number of mappings that the record
	// can track.
	MaxMappingRecordEntries = 12

	// MaxMappingUsers is the number of owner names tracked per mapping.
	MaxMappingUsers = 5
)

var (
	// ErrRecordFull is returned by MappingRecord.Add when all entries are
	// in use.
	ErrRecordFull = &kernel.Error{Module: "mapping_record", Message: "storage for mapping info exhausted"}

	// ErrRecordUsersFull is returned by MappingRecordEntry.AddUser when the
	// entry already tracks MaxMappingUsers owners.
	ErrRecordUsersFull = &kernel.Error{Module: "mapping_record", Message: "storage for user info exhausted"}

	recordSeparator = "      ----------------------------------------------------------------------------------------------------------------------\n"
)

// MappingRecordEntry describes a single committed mapping and the kernel
// components that use it.
type MappingRecordEntry struct {
	users    [MaxMappingUsers]string
	numUsers int

	physStart mm.PhysAddr
	virtStart mm.VirtAddr
	numPages  uintptr
	attr      mm.AttributeFields
}

// Users returns the names of the entry's owners in registration order.
func (e *MappingRecordEntry) Users() []string {
	return e.users[:e.numUsers]
}

// AddUser appends name to the entry's owners.
func (e *MappingRecordEntry) AddUser(name string) *kernel.Error {
	if e.numUsers == MaxMappingUsers {
		return ErrRecordUsersFull
	}

	e.users[e.numUsers] = name
	e.numUsers++
	return nil
}

// VirtStartAddr returns the first virtual address of the mapping.
func (e *MappingRecordEntry) VirtStartAddr() mm.VirtAddr { return e.virtStart }

// PhysStartAddr returns the first physical address of the mapping.
func (e *MappingRecordEntry) PhysStartAddr() mm.PhysAddr { return e.physStart }

// NumPages returns the size of the mapping in pages.
func (e *MappingRecordEntry) NumPages() uintptr { return e.numPages }

// Attributes returns the attributes the mapping was committed with.
func (e *MappingRecordEntry) Attributes() mm.AttributeFields { return e.attr }

// MappingRecord is a fixed-size log of the kernel's mappings. It backs MMIO
// deduplication and the mapping dump printed at boot.
//
// MappingRecord does not synchronize access.
type MappingRecord struct {
	entries    [MaxMappingRecordEntries]MappingRecordEntry
	numEntries int
}

// Len returns the number of recorded mappings.
func (r *MappingRecord) Len() int {
	return r.numEntries
}

// Entries returns the recorded mappings in insertion order.
func (r *MappingRecord) Entries() []MappingRecordEntry {
	return r.entries[:r.numEntries]
}

// Add records a new mapping owned by name.
func (r *MappingRecord) Add(name string, virtRegion mm.VirtRegion, physRegion mm.PhysRegion, attr mm.AttributeFields) *kernel.Error {
	if r.numEntries == MaxMappingRecordEntries {
		return ErrRecordFull
	}

	r.entries[r.numEntries] = MappingRecordEntry{
		physStart: physRegion.StartAddr(),
		virtStart: virtRegion.StartAddr(),
		numPages:  virtRegion.NumPages(),
		attr:      attr,
	}
	r.entries[r.numEntries].users[0] = name
	r.entries[r.numEntries].numUsers = 1
	r.numEntries++
	return nil
}

// FindDuplicate returns the device mapping that covers exactly physRegion.
// Only the physical start and the page count are compared.
func (r *MappingRecord) FindDuplicate(physRegion mm.PhysRegion) (*MappingRecordEntry, bool) {
	for i := 0; i < r.numEntries; i++ {
		entry := &r.entries[i]
		if entry.attr.MemAttributes != mm.MemAttrDevice {
			continue
		}

		if entry.physStart == physRegion.StartAddr() && entry.numPages == physRegion.NumPages() {
			return entry, true
		}
	}

	return nil, false
}

// Print writes a table with all recorded mappings to w.
func (r *MappingRecord) Print(w io.Writer) {
	kfmt.Fprintf(w, recordSeparator)
	kfmt.Fprintf(w, "      %-44s     %-30s   %-7s   %-9s   %s\n", "Virtual", "Physical", "Size", "Attr", "Entity")
	kfmt.Fprintf(w, recordSeparator)

	for i := 0; i < r.numEntries; i++ {
		r.entries[i].print(w)
	}

	kfmt.Fprintf(w, recordSeparator)
}

func (e *MappingRecordEntry) print(w io.Writer) {
	size := e.numPages * mm.PageSize
	sizeVal, sizeUnit := mm.Size(size).HumanReadableCeil()

	xn := "X"
	if e.attr.ExecuteNever {
		xn = "XN"
	}

	// Inclusive end addresses; an empty entry collapses to its start.
	virtLast, physLast := e.virtStart, e.physStart
	if size != 0 {
		virtLast, physLast = e.virtStart.Add(size-1), e.physStart.Add(size-1)
	}

	kfmt.Fprintf(w, "      ")
	e.virtStart.Fprint(w)
	kfmt.Fprintf(w, "..")
	virtLast.Fprint(w)
	kfmt.Fprintf(w, " --> ")
	e.physStart.Fprint(w)
	kfmt.Fprintf(w, "..")
	physLast.Fprint(w)
	kfmt.Fprintf(w, " | %3d %-4s | %-3s %s %-2s | %s\n",
		uintptr(sizeVal), sizeUnit,
		e.attr.MemAttributes.ShortString(),
		e.attr.AccessPermissions.ShortString(),
		xn,
		e.users[0],
	)

	for _, user := range e.users[1:e.numUsers] {
		kfmt.Fprintf(w, "%108s | %s\n", "", user)
	}
}
