//go:build !arm64

package cpu

// The functions in this file emulate the arm64 system registers with plain
// variables so that packages depending on cpu can be built and tested on
// hosts with a different architecture.

var (
	simDAIFMasked  bool
	simSCTLR       uint64
	simMAIR        uint64
	simTCR         uint64
	simTTBR0       uint64
	simIDAA64MMFR0 uint64
)

// EnableInterrupts unmasks IRQs by clearing DAIF.I.
func EnableInterrupts() { simDAIFMasked = false }

// DisableInterrupts masks IRQs by setting DAIF.I.
func DisableInterrupts() { simDAIFMasked = true }

// InterruptsMasked returns true if DAIF.I is set.
func InterruptsMasked() bool { return simDAIFMasked }

// Halt parks the calling core. It never returns.
func Halt() { select {} }

// ReadSCTLR returns the value of the SCTLR_EL1 register.
func ReadSCTLR() uint64 { return simSCTLR }

// WriteSCTLR stores val to the SCTLR_EL1 register.
func WriteSCTLR(val uint64) { simSCTLR = val }

// ReadMAIR returns the value of the MAIR_EL1 register.
func ReadMAIR() uint64 { return simMAIR }

// WriteMAIR stores val to the MAIR_EL1 register.
func WriteMAIR(val uint64) { simMAIR = val }

// ReadTCR returns the value of the TCR_EL1 register.
func ReadTCR() uint64 { return simTCR }

// WriteTCR stores val to the TCR_EL1 register.
func WriteTCR(val uint64) { simTCR = val }

// ReadTTBR0 returns the value of the TTBR0_EL1 register.
func ReadTTBR0() uint64 { return simTTBR0 }

// WriteTTBR0 stores val to the TTBR0_EL1 register.
func WriteTTBR0(val uint64) { simTTBR0 = val }

// ReadIDAA64MMFR0 returns the value of the ID_AA64MMFR0_EL1 register. The
// emulated core reports support for all translation granules.
func ReadIDAA64MMFR0() uint64 { return simIDAA64MMFR0 }

// ISB issues an instruction synchronization barrier.
func ISB() {}

// DSB issues a data synchronization barrier.
func DSB() {}

// InvalidateTLBAll invalidates all stage 1 EL1 TLB entries.
func InvalidateTLBAll() {}
