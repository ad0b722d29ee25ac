package vmm

import (
	"bytes"
	"strings"

	"gopherpi/kernel/mm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MappingRecord", func() {
	var (
		record *MappingRecord

		codeAttr = mm.AttributeFields{
			MemAttributes:     mm.MemAttrCacheableDRAM,
			AccessPermissions: mm.AccessReadOnly,
		}
	)

	BeforeEach(func() {
		record = &MappingRecord{}
	})

	It("should record mappings in insertion order", func() {
		Expect(record.Add("Kernel code and RO data", virtRegion(0x8_0000, 2), physRegion(0x8_0000, 2), codeAttr)).To(BeNil())
		Expect(record.Add("BCM PL011 UART", virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes)).To(BeNil())

		Expect(record.Len()).To(Equal(2))
		entries := record.Entries()
		Expect(entries[0].Users()).To(Equal([]string{"Kernel code and RO data"}))
		Expect(entries[0].NumPages()).To(Equal(uintptr(2)))
		Expect(entries[0].Attributes()).To(Equal(codeAttr))
		Expect(entries[1].VirtStartAddr()).To(Equal(mm.VirtAddr(0x3f80_0000)))
		Expect(entries[1].PhysStartAddr()).To(Equal(mm.PhysAddr(0x3f20_0000)))
	})

	It("should report exhausted storage", func() {
		for i := uintptr(0); i < MaxMappingRecordEntries; i++ {
			Expect(record.Add("dev", virtRegion(mm.VirtAddr(i*mm.PageSize), 1), physRegion(0, 1), mm.DeviceAttributes)).To(BeNil())
		}

		err := record.Add("one too many", virtRegion(0x100_0000, 1), physRegion(0, 1), mm.DeviceAttributes)
		Expect(err).To(Equal(ErrRecordFull))
		Expect(record.Len()).To(Equal(MaxMappingRecordEntries))
	})

	It("should only deduplicate device mappings with the same start and size", func() {
		Expect(record.Add("identity", virtRegion(0x3f20_0000, 1), physRegion(0x3f20_0000, 1), codeAttr)).To(BeNil())
		_, found := record.FindDuplicate(physRegion(0x3f20_0000, 1))
		Expect(found).To(BeFalse(), "normal memory mappings are never shared")

		Expect(record.Add("BCM GPIO", virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes)).To(BeNil())

		entry, found := record.FindDuplicate(physRegion(0x3f20_0000, 1))
		Expect(found).To(BeTrue())
		Expect(entry.VirtStartAddr()).To(Equal(mm.VirtAddr(0x3f80_0000)))

		_, found = record.FindDuplicate(physRegion(0x3f20_0000, 2))
		Expect(found).To(BeFalse())
		_, found = record.FindDuplicate(physRegion(0x3f21_0000, 1))
		Expect(found).To(BeFalse())
	})

	It("should cap the number of users per entry", func() {
		Expect(record.Add("user0", virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes)).To(BeNil())
		entry, _ := record.FindDuplicate(physRegion(0x3f20_0000, 1))

		for _, name := range []string{"user1", "user2", "user3", "user4"} {
			Expect(entry.AddUser(name)).To(BeNil())
		}
		Expect(entry.AddUser("user5")).To(Equal(ErrRecordUsersFull))
		Expect(entry.Users()).To(Equal([]string{"user0", "user1", "user2", "user3", "user4"}))
	})

	It("should print a table with one line per owner", func() {
		Expect(record.Add("Kernel code and RO data", virtRegion(0x8_0000, 2), physRegion(0x8_0000, 2), codeAttr)).To(BeNil())
		Expect(record.Add("BCM PL011 UART", virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes)).To(BeNil())
		entry, _ := record.FindDuplicate(physRegion(0x3f20_0000, 1))
		Expect(entry.AddUser("BCM GPIO")).To(BeNil())

		var buf bytes.Buffer
		record.Print(&buf)
		out := buf.String()

		Expect(out).To(ContainSubstring("      0x0000_0000_0008_0000..0x0000_0000_0009_ffff --> 0x00_0008_0000..0x00_0009_ffff | 128 KiB  | C   RO X  | Kernel code and RO data\n"))
		Expect(out).To(ContainSubstring("      0x0000_0000_3f80_0000..0x0000_0000_3f80_ffff --> 0x00_3f20_0000..0x00_3f20_ffff |  64 KiB  | Dev RW XN | BCM PL011 UART\n"))
		Expect(out).To(ContainSubstring(strings.Repeat(" ", 108) + " | BCM GPIO\n"))
		Expect(strings.Count(out, recordSeparator)).To(Equal(3))
	})

	It("should print empty entries without overflowing", func() {
		empty := mm.NewRegion(mm.PageFromAddress(0xa_0000), mm.PageFromAddress(0xa_0000))
		Expect(record.Add("Kernel data and bss", empty, mm.IdentityPhysRegion(empty), codeAttr)).To(BeNil())

		var buf bytes.Buffer
		Expect(func() { record.Print(&buf) }).NotTo(Panic())
		Expect(buf.String()).To(ContainSubstring("      0x0000_0000_000a_0000..0x0000_0000_000a_0000 --> 0x00_000a_0000..0x00_000a_0000 |   0 Byte | C   RO X  | Kernel data and bss\n"))
	})
})
