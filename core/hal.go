package core

// CompareSlot identifies one of the counter peripheral's compare registers.
type CompareSlot uint8

const (
	// SlotPeriod is the compare slot permanently armed at the counter
	// midpoint (0x800000). Its match event advances the period counter,
	// exactly like the overflow event. It is never disarmed: the period
	// parity invariant depends on this event always firing.
	SlotPeriod CompareSlot = 0

	// SlotAlarm is the compare slot used for the single pending alarm.
	SlotAlarm CompareSlot = 1
)

// RTCRegisters is the abstract register interface for the counter
// peripheral. Platform code (targets/) implements it over the real
// register block; sim implements it in software for hosted tests.
//
// Contract assumed by the driver:
//   - The counter is a free-running 24-bit up-counter that wraps to 0.
//   - Each compare slot raises a latched match event when the counter
//     reaches its programmed value; the event stays set until cleared.
//   - Writing a compare slot leaves its latched event untouched; only
//     ClearCompareEvent clears it. A stale match can therefore be
//     pending when the slot is reprogrammed, and the driver qualifies
//     every delivered match against the current deadline.
//   - All operations are atomic single-cycle register accesses.
type RTCRegisters interface {
	// ReadCounter returns the current 24-bit counter value.
	ReadCounter() uint32

	// ClearCounter requests the counter be reset to 0.
	ClearCounter()

	// StartCounter starts the free-running counter.
	StartCounter()

	// SetCompare programs a compare slot to a 24-bit target value. A
	// latched match event for the slot stays latched.
	SetCompare(slot CompareSlot, value uint32)

	// EnableCompareInterrupt enables interrupt generation for a slot's
	// match event.
	EnableCompareInterrupt(slot CompareSlot)

	// DisableCompareInterrupt disables interrupt generation for a slot.
	// The match event may still latch; it just will not interrupt.
	DisableCompareInterrupt(slot CompareSlot)

	// ComparePending reports whether a slot's match event is latched.
	ComparePending(slot CompareSlot) bool

	// ClearCompareEvent clears a slot's latched match event.
	ClearCompareEvent(slot CompareSlot)

	// EnableOverflowInterrupt enables interrupt generation for the
	// counter overflow event.
	EnableOverflowInterrupt()

	// OverflowPending reports whether the overflow event is latched.
	OverflowPending() bool

	// ClearOverflowEvent clears the latched overflow event.
	ClearOverflowEvent()
}

// IRQ names an interrupt line at the interrupt controller.
type IRQ uint32

// InterruptController unmasks interrupt lines. On hardware this is the
// NVIC (or equivalent); in hosted tests it is the simulated controller.
type InterruptController interface {
	// Enable unmasks the named interrupt line.
	Enable(irq IRQ)
}

// TimeSource is the consumer-facing time query. The scheduling runtime
// depends on this interface, not on the driver type.
type TimeSource interface {
	// Now returns the current monotonic time in counter ticks. Callable
	// from any context, non-blocking, wait-free.
	Now() uint64
}
