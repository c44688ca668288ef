// Package sim provides a software model of the 24-bit counter peripheral
// and its interrupt controller. It implements the core hardware contracts
// tick-exactly, so the driver can be exercised on a hosted build: time
// advances only through Advance, and interrupts are delivered
// synchronously at the exact counter values where the real hardware
// would raise them.
package sim

import (
	"sync"

	"widetick/core"
)

const (
	counterRange = 0x1000000 // 24-bit counter wraps at 2^24
	counterMask  = counterRange - 1
	numSlots     = 2
)

// RTC models the counter peripheral. All register accesses are
// mutex-guarded; the mutex is never held while an interrupt handler
// runs, so handlers can freely access the registers.
type RTC struct {
	intc *Controller
	irq  core.IRQ

	mu      sync.Mutex
	counter uint32
	running bool

	compare  [numSlots]uint32
	cmpIntEn [numSlots]bool
	cmpEvent [numSlots]bool

	ovfIntEn bool
	ovfEvent bool
}

// NewRTC constructs a stopped peripheral wired to raise irq at intc.
func NewRTC(intc *Controller, irq core.IRQ) *RTC {
	return &RTC{intc: intc, irq: irq}
}

// ReadCounter implements core.RTCRegisters.
func (r *RTC) ReadCounter() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

// ClearCounter implements core.RTCRegisters.
func (r *RTC) ClearCounter() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter = 0
}

// StartCounter implements core.RTCRegisters.
func (r *RTC) StartCounter() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
}

// SetCompare implements core.RTCRegisters. Like the real register
// block, writing the compare value does not touch a latched match
// event.
func (r *RTC) SetCompare(slot core.CompareSlot, value uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compare[slot] = value & counterMask
}

// EnableCompareInterrupt implements core.RTCRegisters.
func (r *RTC) EnableCompareInterrupt(slot core.CompareSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmpIntEn[slot] = true
}

// DisableCompareInterrupt implements core.RTCRegisters.
func (r *RTC) DisableCompareInterrupt(slot core.CompareSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmpIntEn[slot] = false
}

// ComparePending implements core.RTCRegisters.
func (r *RTC) ComparePending(slot core.CompareSlot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmpEvent[slot]
}

// ClearCompareEvent implements core.RTCRegisters.
func (r *RTC) ClearCompareEvent(slot core.CompareSlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmpEvent[slot] = false
}

// EnableOverflowInterrupt implements core.RTCRegisters.
func (r *RTC) EnableOverflowInterrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ovfIntEn = true
}

// OverflowPending implements core.RTCRegisters.
func (r *RTC) OverflowPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ovfEvent
}

// ClearOverflowEvent implements core.RTCRegisters.
func (r *RTC) ClearOverflowEvent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ovfEvent = false
}

// CompareInterruptEnabled reports whether a slot's interrupt enable bit
// is set. Inspection hook for tests; real hardware exposes the same
// state through the INTEN register.
func (r *RTC) CompareInterruptEnabled(slot core.CompareSlot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmpIntEn[slot]
}

// Advance moves simulated time forward by the given number of ticks.
// The counter jumps from event to event rather than stepping: at each
// compare match or overflow the corresponding events latch and, if
// their interrupt enables and the controller line allow it, the
// interrupt handler runs synchronously before time advances further.
// A stopped counter does not advance.
func (r *RTC) Advance(ticks uint64) {
	for ticks > 0 {
		r.mu.Lock()
		if !r.running {
			r.mu.Unlock()
			return
		}

		step := r.nextEventDelta()
		if step > ticks {
			step = ticks
		}
		r.counter = uint32(uint64(r.counter)+step) & counterMask

		if r.counter == 0 {
			r.ovfEvent = true
		}
		for slot := range r.compare {
			if r.counter == r.compare[slot] {
				r.cmpEvent[slot] = true
			}
		}
		asserted := r.assertedLocked()
		r.mu.Unlock()

		if asserted {
			r.intc.dispatch(r.irq)
		}
		ticks -= step
	}
}

// nextEventDelta returns the number of ticks until the next compare
// match or overflow, from the current counter value. A slot whose
// compare equals the current counter matches again only after a full
// wrap. Caller must hold mu.
func (r *RTC) nextEventDelta() uint64 {
	next := uint64(counterRange - r.counter) // overflow distance
	for slot := range r.compare {
		d := uint64((r.compare[slot] - r.counter) & counterMask)
		if d == 0 {
			d = counterRange
		}
		if d < next {
			next = d
		}
	}
	return next
}

// assertedLocked reports whether any enabled event is latched. Caller
// must hold mu.
func (r *RTC) assertedLocked() bool {
	if r.ovfEvent && r.ovfIntEn {
		return true
	}
	for slot := range r.cmpEvent {
		if r.cmpEvent[slot] && r.cmpIntEn[slot] {
			return true
		}
	}
	return false
}
