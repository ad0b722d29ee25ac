package sync

import "gopherpi/kernel/cpu"

var (
	// the following functions are mocked by tests and are automatically
	// inlined by the compiler.
	interruptsMaskedFn  = cpu.InterruptsMasked
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
)

// IRQSafeSpinlock is a Spinlock that masks IRQs on the local core for as long
// as it is held. It protects state that may also be touched from interrupt
// context, where a plain spinlock could deadlock against its own holder.
type IRQSafeSpinlock struct {
	lock Spinlock

	// unmaskOnRelease is set if IRQs were unmasked when the lock was
	// acquired and must be re-enabled by Release.
	unmaskOnRelease bool
}

// Acquire masks IRQs and then blocks until the lock becomes available.
func (l *IRQSafeSpinlock) Acquire() {
	wasMasked := interruptsMaskedFn()
	disableInterruptsFn()
	l.lock.Acquire()
	l.unmaskOnRelease = !wasMasked
}

// Release relinquishes the lock and restores the IRQ mask state that was
// active when Acquire was called.
func (l *IRQSafeSpinlock) Release() {
	unmask := l.unmaskOnRelease
	l.unmaskOnRelease = false
	l.lock.Release()
	if unmask {
		enableInterruptsFn()
	}
}
