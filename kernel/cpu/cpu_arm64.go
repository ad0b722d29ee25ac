package cpu

// EnableInterrupts unmasks IRQs by clearing DAIF.I.
func EnableInterrupts()

// DisableInterrupts masks IRQs by setting DAIF.I.
func DisableInterrupts()

// InterruptsMasked returns true if DAIF.I is set.
func InterruptsMasked() bool

// Halt parks the calling core in a WFE loop. It never returns.
func Halt()

// ReadSCTLR returns the value of the SCTLR_EL1 register.
func ReadSCTLR() uint64

// WriteSCTLR stores val to the SCTLR_EL1 register.
func WriteSCTLR(val uint64)

// ReadMAIR returns the value of the MAIR_EL1 register.
func ReadMAIR() uint64

// WriteMAIR stores val to the MAIR_EL1 register.
func WriteMAIR(val uint64)

// ReadTCR returns the value of the TCR_EL1 register.
func ReadTCR() uint64

// WriteTCR stores val to the TCR_EL1 register.
func WriteTCR(val uint64)

// ReadTTBR0 returns the value of the TTBR0_EL1 register.
func ReadTTBR0() uint64

// WriteTTBR0 stores val to the TTBR0_EL1 register.
func WriteTTBR0(val uint64)

// ReadIDAA64MMFR0 returns the value of the read-only ID_AA64MMFR0_EL1
// register which describes the memory model features of the core.
func ReadIDAA64MMFR0() uint64

// ISB issues a full-system instruction synchronization barrier.
func ISB()

// DSB issues a full-system data synchronization barrier.
func DSB()

// InvalidateTLBAll invalidates all stage 1 EL1 TLB entries for the inner
// shareable domain and waits for the invalidation to complete.
func InvalidateTLBAll()
