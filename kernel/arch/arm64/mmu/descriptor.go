package mmu

import "gopherpi/kernel/mm"

// DescriptorFlag describes a flag that can be applied to a translation table
// descriptor.
type DescriptorFlag uint64

const (
	// FlagValid is set for descriptors that take part in address
	// translation. Walks that hit a descriptor without it fault.
	FlagValid DescriptorFlag = 1 << 0

	// FlagTypeTableOrPage marks a table descriptor at lvl2 and a page
	// descriptor at lvl3. Cleared, a lvl2 descriptor describes a block.
	FlagTypeTableOrPage DescriptorFlag = 1 << 1

	// FlagAccessed is the access flag. It must be set up front as the
	// kernel does not handle access flag faults.
	FlagAccessed DescriptorFlag = 1 << 10

	// FlagPrivExecuteNever prevents EL1 instruction fetches from the page.
	FlagPrivExecuteNever DescriptorFlag = 1 << 53

	// FlagUserExecuteNever prevents EL0 instruction fetches from the page.
	FlagUserExecuteNever DescriptorFlag = 1 << 54
)

const (
	attrIndxShift = 2
	attrIndxMask  = DescriptorFlag(0b111) << attrIndxShift

	apShift = 6
	apMask  = DescriptorFlag(0b11) << apShift

	shShift = 8

	// outputAddrMask selects bits [47:16] which hold the address of the
	// next level table or the output page.
	outputAddrMask = uint64(0x0000_ffff_ffff_0000)
)

// MAIR_EL1 attribute slots referenced by the AttrIndx descriptor field.
const (
	mairIndexDevice = 0
	mairIndexNormal = 1
)

// AP[2:1] values.
const (
	apReadWriteEL1 = 0b00
	apReadOnlyEL1  = 0b10
)

// SH[1:0] values.
const (
	shOuterShareable = 0b10
	shInnerShareable = 0b11
)

// TableDescriptor is a lvl2 entry that points to a lvl3 table.
type TableDescriptor uint64

// newTableDescriptor returns a valid descriptor pointing to the lvl3 table
// located at nextLevelTable.
func newTableDescriptor(nextLevelTable mm.PhysAddr) TableDescriptor {
	return TableDescriptor(uint64(nextLevelTable)&outputAddrMask) |
		TableDescriptor(FlagValid|FlagTypeTableOrPage)
}

// IsValid returns true if the descriptor takes part in translation.
func (d TableDescriptor) IsValid() bool {
	return uint64(d)&uint64(FlagValid) != 0
}

// NextLevelTable returns the physical address of the referenced lvl3 table.
func (d TableDescriptor) NextLevelTable() mm.PhysAddr {
	return mm.PhysAddr(uint64(d) & outputAddrMask)
}

// PageDescriptor is a lvl3 entry that maps a single 64 KiB page.
type PageDescriptor uint64

// newPageDescriptor returns a valid descriptor that maps frame with the
// supplied attributes.
func newPageDescriptor(frame mm.Frame, attr mm.AttributeFields) PageDescriptor {
	var d PageDescriptor
	d.SetFrame(frame)
	d.SetFlags(FlagValid | FlagTypeTableOrPage | FlagAccessed | FlagUserExecuteNever)

	switch attr.MemAttributes {
	case mm.MemAttrDevice:
		d.SetFlags(mairIndexDevice<<attrIndxShift | shOuterShareable<<shShift)
	default:
		d.SetFlags(mairIndexNormal<<attrIndxShift | shInnerShareable<<shShift)
	}

	if attr.AccessPermissions == mm.AccessReadOnly {
		d.SetFlags(apReadOnlyEL1 << apShift)
	}

	if attr.ExecuteNever {
		d.SetFlags(FlagPrivExecuteNever)
	}

	return d
}

// HasFlags returns true if this descriptor has all the input flags set.
func (d PageDescriptor) HasFlags(flags DescriptorFlag) bool {
	return uint64(d)&uint64(flags) == uint64(flags)
}

// SetFlags sets the input list of flags to the descriptor.
func (d *PageDescriptor) SetFlags(flags DescriptorFlag) {
	*d = PageDescriptor(uint64(*d) | uint64(flags))
}

// ClearFlags unsets the input list of flags from the descriptor.
func (d *PageDescriptor) ClearFlags(flags DescriptorFlag) {
	*d = PageDescriptor(uint64(*d) &^ uint64(flags))
}

// IsValid returns true if the descriptor takes part in translation.
func (d PageDescriptor) IsValid() bool {
	return d.HasFlags(FlagValid)
}

// Frame returns the physical frame that the descriptor maps.
func (d PageDescriptor) Frame() mm.Frame {
	return mm.FrameFromAddress(mm.PhysAddr(uint64(d) & outputAddrMask))
}

// SetFrame updates the descriptor to map the given physical frame.
func (d *PageDescriptor) SetFrame(frame mm.Frame) {
	*d = PageDescriptor(uint64(*d)&^outputAddrMask | uint64(frame.Address())&outputAddrMask)
}

// Attributes decodes the mapping attributes stored in the descriptor.
func (d PageDescriptor) Attributes() mm.AttributeFields {
	attr := mm.AttributeFields{
		MemAttributes:     mm.MemAttrCacheableDRAM,
		AccessPermissions: mm.AccessReadWrite,
		ExecuteNever:      d.HasFlags(FlagPrivExecuteNever),
	}

	if (DescriptorFlag(d)&attrIndxMask)>>attrIndxShift == mairIndexDevice {
		attr.MemAttributes = mm.MemAttrDevice
	}

	if (DescriptorFlag(d)&apMask)>>apShift == apReadOnlyEL1 {
		attr.AccessPermissions = mm.AccessReadOnly
	}

	return attr
}
