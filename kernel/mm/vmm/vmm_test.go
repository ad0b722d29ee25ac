package vmm

import (
	"bytes"

	"gopherpi/kernel"
	"gopherpi/kernel/kfmt"
	"gopherpi/kernel/mm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

func resetKernelState() {
	platform = nil
	bootState = StatePreMap
	kernelMappingRecord = MappingRecord{}
	kernelPageAllocator = PageAllocator{}
}

var _ = Describe("Kernel address space", func() {
	var (
		mockCtrl *gomock.Controller
		table    *MockTranslationTable
		mmu      *MockMMU
		board    *MockPlatform

		// 8 MiB at the top of a 1 GiB address space.
		remapWindow = virtRegion(0x3f80_0000, 128)

		uartDesc = mm.NewMMIODescriptor(0x3f20_1000, 0x48)
		gpioDesc = mm.NewMMIODescriptor(0x3f20_0000, 0xa0)
		picDesc  = mm.NewMMIODescriptor(0x3f00_b200, 0x24)

		rwData = mm.AttributeFields{
			MemAttributes:     mm.MemAttrCacheableDRAM,
			AccessPermissions: mm.AccessReadWrite,
			ExecuteNever:      true,
		}

		errMapAt = &kernel.Error{Module: "test", Message: "map failed"}
	)

	BeforeEach(func() {
		resetKernelState()

		mockCtrl = gomock.NewController(GinkgoT())
		table = NewMockTranslationTable(mockCtrl)
		mmu = NewMockMMU(mockCtrl)
		board = NewMockPlatform(mockCtrl)

		board.EXPECT().KernelTranslationTable().Return(table).AnyTimes()
		board.EXPECT().MMU().Return(mmu).AnyTimes()
		board.EXPECT().VirtMMIORemapRegion().Return(remapWindow).AnyTimes()

		SetPlatform(board)
	})

	AfterEach(func() {
		mockCtrl.Finish()
		resetKernelState()
	})

	It("should panic if no platform is registered", func() {
		SetPlatform(nil)
		Expect(func() { _, _ = KernelMapBinary() }).To(PanicWith(errNoPlatform))
	})

	Context("when mapping the kernel binary", func() {
		It("should initialize the table before mapping the binary", func() {
			gomock.InOrder(
				table.EXPECT().Init(),
				table.EXPECT().PhysBaseAddress().Return(mm.PhysAddr(0x9_0000)),
				board.EXPECT().MapBinary().Return(nil),
			)

			base, err := KernelMapBinary()
			Expect(err).To(BeNil())
			Expect(base).To(Equal(mm.PhysAddr(0x9_0000)))
			Expect(CurrentState()).To(Equal(StateBinaryMapped))
		})

		It("should propagate errors from the board", func() {
			table.EXPECT().Init()
			table.EXPECT().PhysBaseAddress().Return(mm.PhysAddr(0x9_0000))
			board.EXPECT().MapBinary().Return(errMapAt)

			_, err := KernelMapBinary()
			Expect(err).To(Equal(errMapAt))
			Expect(CurrentState()).To(Equal(StatePreMap))
		})
	})

	Context("when enabling the MMU", func() {
		It("should hand the table base address to the MMU", func() {
			mmu.EXPECT().EnableMMUAndCaching(mm.PhysAddr(0x9_0000)).Return(nil)

			Expect(EnableMMUAndCaching(0x9_0000)).To(BeNil())
			Expect(CurrentState()).To(Equal(StateMMUEnabled))
		})

		It("should propagate the MMU error", func() {
			errEnabled := &kernel.Error{Module: "test", Message: "already enabled"}
			mmu.EXPECT().EnableMMUAndCaching(gomock.Any()).Return(errEnabled)

			Expect(EnableMMUAndCaching(0x9_0000)).To(Equal(errEnabled))
			Expect(CurrentState()).To(Equal(StatePreMap))
		})
	})

	Context("when mapping regions manually", func() {
		It("should map and record the region", func() {
			table.EXPECT().MapAt(virtRegion(0x8_0000, 2), physRegion(0x8_0000, 2), rwData).Return(nil)

			Expect(KernelMapAt("Kernel data and bss", virtRegion(0x8_0000, 2), physRegion(0x8_0000, 2), rwData)).To(BeNil())
			Expect(kernelMappingRecord.Len()).To(Equal(1))
			Expect(kernelMappingRecord.Entries()[0].Users()).To(Equal([]string{"Kernel data and bss"}))
		})

		DescribeTable("should reject regions overlapping the MMIO remap window",
			func(region mm.VirtRegion) {
				err := KernelMapAt("intruder", region, physRegion(0x10_0000, region.NumPages()), rwData)
				Expect(err).To(Equal(ErrMapIntoMMIORemap))
				Expect(kernelMappingRecord.Len()).To(BeZero())
			},
			Entry("window start", virtRegion(0x3f80_0000, 1)),
			Entry("window end", virtRegion(0x3fff_0000, 1)),
			Entry("straddling the window start", virtRegion(0x3f70_0000, 32)),
			Entry("covering the window", virtRegion(0x3f00_0000, 256)),
		)

		It("should map regions adjacent to the window", func() {
			table.EXPECT().MapAt(virtRegion(0x3f70_0000, 16), gomock.Any(), rwData).Return(nil)

			Expect(KernelMapAt("neighbour", virtRegion(0x3f70_0000, 16), physRegion(0x10_0000, 16), rwData)).To(BeNil())
		})

		It("should map but not record empty regions", func() {
			empty := mm.NewRegion(mm.PageFromAddress(0xa_0000), mm.PageFromAddress(0xa_0000))
			table.EXPECT().MapAt(empty, mm.IdentityPhysRegion(empty), rwData).Return(nil)

			Expect(KernelMapAt("Kernel data and bss", empty, mm.IdentityPhysRegion(empty), rwData)).To(BeNil())
			Expect(kernelMappingRecord.Len()).To(BeZero())
			Expect(KernelPrintMappings).NotTo(Panic())
		})

		It("should not record failed mappings", func() {
			table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMapAt)

			Expect(KernelMapAt("broken", virtRegion(0x8_0000, 1), physRegion(0x8_0000, 1), rwData)).To(Equal(errMapAt))
			Expect(kernelMappingRecord.Len()).To(BeZero())
		})

		It("should keep mapping once the record is full", func() {
			table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(MaxMappingRecordEntries + 1)

			for i := uintptr(0); i <= MaxMappingRecordEntries; i++ {
				addr := mm.VirtAddr(i * mm.PageSize)
				Expect(KernelMapAt("filler", virtRegion(addr, 1), physRegion(mm.IdentityPhys(addr), 1), rwData)).To(BeNil())
			}
			Expect(kernelMappingRecord.Len()).To(Equal(MaxMappingRecordEntries))
		})
	})

	Context("when mapping MMIO apertures", func() {
		It("should fail before PostEnableInit", func() {
			_, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
			Expect(err).To(Equal(ErrAllocatorUninitialized))
		})

		Context("after PostEnableInit", func() {
			BeforeEach(func() {
				PostEnableInit()
				Expect(CurrentState()).To(Equal(StateReady))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(128)))
			})

			It("should map the aperture into the remap window and keep the page offset", func() {
				table.EXPECT().MapAt(virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes).Return(nil)

				virt, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
				Expect(err).To(BeNil())
				Expect(virt).To(Equal(mm.VirtAddr(0x3f80_1000)))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(127)))
			})

			It("should allocate fresh pages for distinct apertures", func() {
				table.EXPECT().MapAt(virtRegion(0x3f80_0000, 1), physRegion(0x3f20_0000, 1), mm.DeviceAttributes).Return(nil)
				table.EXPECT().MapAt(virtRegion(0x3f81_0000, 1), physRegion(0x3f00_0000, 1), mm.DeviceAttributes).Return(nil)

				_, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
				Expect(err).To(BeNil())

				virt, err := KernelMapMMIO("BCM interrupt controller", picDesc)
				Expect(err).To(BeNil())
				Expect(virt).To(Equal(mm.VirtAddr(0x3f81_b200)))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(126)))
			})

			It("should share the mapping between identical apertures", func() {
				table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

				first, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
				Expect(err).To(BeNil())

				second, err := KernelMapMMIO("early console", uartDesc)
				Expect(err).To(BeNil())

				Expect(second).To(Equal(first))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(127)))
				Expect(kernelMappingRecord.Len()).To(Equal(1))
				Expect(kernelMappingRecord.Entries()[0].Users()).To(Equal([]string{"BCM PL011 UART", "early console"}))
			})

			It("should share the mapping between apertures in the same page", func() {
				table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

				gpio, err := KernelMapMMIO("BCM GPIO", gpioDesc)
				Expect(err).To(BeNil())
				Expect(gpio).To(Equal(mm.VirtAddr(0x3f80_0000)))

				uart, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
				Expect(err).To(BeNil())
				Expect(uart).To(Equal(mm.VirtAddr(0x3f80_1000)))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(127)))
			})

			It("should keep sharing once the owner list is full", func() {
				table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

				for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
					virt, err := KernelMapMMIO(name, uartDesc)
					Expect(err).To(BeNil())
					Expect(virt).To(Equal(mm.VirtAddr(0x3f80_1000)))
				}
				Expect(kernelMappingRecord.Entries()[0].Users()).To(HaveLen(MaxMappingUsers))
			})

			It("should fail without consuming pages when the window is exhausted", func() {
				huge := mm.NewMMIODescriptor(0x3e00_0000, uintptr(9*mm.MiB))

				_, err := KernelMapMMIO("framebuffer", huge)
				Expect(err).To(Equal(mm.ErrNotEnoughPages))
				Expect(RemainingMMIOPages()).To(Equal(uintptr(128)))
				Expect(kernelMappingRecord.Len()).To(BeZero())
			})

			It("should propagate table errors", func() {
				table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMapAt)

				_, err := KernelMapMMIO("BCM PL011 UART", uartDesc)
				Expect(err).To(Equal(errMapAt))
				Expect(kernelMappingRecord.Len()).To(BeZero())

				// The pages handed out for the failed mapping are not reused.
				Expect(RemainingMMIOPages()).To(Equal(uintptr(127)))
			})
		})
	})

	It("should translate through the kernel table", func() {
		table.EXPECT().Translate(mm.VirtAddr(0x3f80_1000)).Return(mm.PhysAddr(0x3f20_1000), nil)

		phys, err := KernelVirtToPhys(0x3f80_1000)
		Expect(err).To(BeNil())
		Expect(phys).To(Equal(mm.PhysAddr(0x3f20_1000)))
	})

	It("should log the recorded mappings", func() {
		var buf bytes.Buffer
		kfmt.SetOutputSink(&buf)
		defer kfmt.SetOutputSink(nil)

		table.EXPECT().MapAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		Expect(KernelMapAt("Kernel boot-core stack", virtRegion(0, 8), physRegion(0, 8), rwData)).To(BeNil())

		KernelPrintMappings()
		Expect(buf.String()).To(ContainSubstring("[  INFO]       0x0000_0000_0000_0000..0x0000_0000_0007_ffff --> 0x00_0000_0000..0x00_0007_ffff | 512 KiB  | C   RW XN | Kernel boot-core stack\n"))
	})
})
