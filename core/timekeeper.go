package core

import "sync/atomic"

// TimeKeeper extends a 24-bit wraparound counter peripheral into a
// monotonic 64-bit time source and a single-shot alarm facility. One
// TimeKeeper owns one hardware unit for the process lifetime.
type TimeKeeper struct {
	regs RTCRegisters
	unit Unit
	irq  IRQ
	intc InterruptController
	reg  *Registry

	// period counts half-overflow periods (2^23 ticks each) since
	// Start. It is incremented by 1 from the interrupt handler on the
	// overflow event and on the midpoint compare event (counter value
	// 0x800000). When it is even the counter is in [0, 0x800000); when
	// odd, in [0x800000, 0x1000000). wideTicks relies on that pairing
	// to tolerate racing an increment. It wraps after ~34000 years of
	// uptime at 32768 Hz, treated as never.
	period uint32

	// Pending alarm slot. alarmAt == NoAlarm means no alarm armed.
	// Guarded by lock, shared with the interrupt dispatcher.
	lock    intrLock
	alarmAt uint64
	alarmFn func()
}

// Config carries the identity wiring for a TimeKeeper.
type Config struct {
	// Unit is the hardware unit identity, used as the registry slot.
	Unit Unit

	// IRQ is the unit's interrupt line at the interrupt controller.
	IRQ IRQ

	// Intc unmasks the interrupt line during Start.
	Intc InterruptController

	// Registry receives the instance during Start. Nil selects the
	// package default registry.
	Registry *Registry
}

// New binds a TimeKeeper to a hardware register interface. The instance
// must be kept alive for the process lifetime once started.
func New(regs RTCRegisters, cfg Config) *TimeKeeper {
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	return &TimeKeeper{
		regs:    regs,
		unit:    cfg.Unit,
		irq:     cfg.IRQ,
		intc:    cfg.Intc,
		reg:     reg,
		alarmAt: NoAlarm,
	}
}

// Start brings up the hardware unit: it arms the permanent midpoint
// compare, enables the period-advance interrupts, clears and starts the
// counter, registers the instance for interrupt dispatch, and unmasks
// the interrupt line.
//
// Start busy-waits until the counter reads back as 0 so that no event
// can race an unverified initial state. If the hardware never clears,
// Start never returns: a driver that cannot verify a known-good counter
// must not proceed.
//
// Precondition: at most one Start per instance, and at most one started
// instance per hardware unit. Violations are programmer error and are
// not guarded at runtime.
func (tk *TimeKeeper) Start() {
	tk.regs.SetCompare(SlotPeriod, counterMid)
	tk.regs.EnableOverflowInterrupt()
	tk.regs.EnableCompareInterrupt(SlotPeriod)

	tk.regs.ClearCounter()
	tk.regs.StartCounter()

	// Wait for the clear to take effect. Intentional fail-stop on
	// hardware fault.
	for tk.regs.ReadCounter() != 0 {
	}

	tk.reg.bind(tk.unit, tk)
	tk.intc.Enable(tk.irq)
}

// Now returns the current monotonic time in counter ticks. Callable from
// any context, non-blocking, wait-free: two reads plus pure arithmetic.
// An overflow or midpoint interrupt landing between the two reads is
// tolerated by wideTicks.
func (tk *TimeKeeper) Now() uint64 {
	counter := tk.regs.ReadCounter()
	period := atomic.LoadUint32(&tk.period)
	return wideTicks(period, counter)
}

// OnInterrupt is the dispatcher for the unit's interrupt line. The three
// event checks run in fixed order so period advancement is always
// processed before alarm firing within one invocation.
func (tk *TimeKeeper) OnInterrupt() {
	if tk.regs.OverflowPending() {
		tk.regs.ClearOverflowEvent()
		tk.nextPeriod()
	}

	if tk.regs.ComparePending(SlotPeriod) {
		tk.regs.ClearCompareEvent(SlotPeriod)
		tk.nextPeriod()
	}

	if tk.regs.ComparePending(SlotAlarm) {
		tk.regs.ClearCompareEvent(SlotAlarm)
		tk.fire()
	}
}

// nextPeriod advances the period counter and re-evaluates the pending
// alarm. The deadline may have been set for a period we just rolled
// into, so the reach check must happen under the same lock that guards
// the alarm slot.
func (tk *TimeKeeper) nextPeriod() {
	tk.lock.lock()

	period := atomic.AddUint32(&tk.period, 1)
	elapsed := uint64(period) << periodBits

	// The compare register already holds the deadline's low bits from
	// setAlarm; rolling into reach only unmasks the interrupt. A
	// deadline that coincides with this very rollover has latched its
	// match in the same instant, so the dispatcher's alarm check right
	// after this sees it pending. Unsigned wrap when no alarm is set
	// (alarmAt == NoAlarm) leaves a huge diff, which correctly fails
	// the reach check.
	if tk.alarmAt-elapsed < armWindow {
		tk.regs.EnableCompareInterrupt(SlotAlarm)
		traceEvent(EvtAlarmArm, tk.unit, tk.alarmAt)
	}
	traceEvent(EvtPeriod, tk.unit, elapsed)

	tk.lock.unlock()
}

// fire delivers the pending alarm from the interrupt dispatcher.
func (tk *TimeKeeper) fire() {
	tk.lock.lock()

	// A latched compare match does not prove the deadline: the compare
	// value matches the raw counter once per wrap, and a match for a
	// previous compare value (or the reset value) may still be pending.
	// Only a reached deadline takes the slot; an early match is dropped
	// and the armed compare stays in place for the real one.
	if tk.alarmAt > tk.Now() {
		tk.lock.unlock()
		return
	}

	fn := tk.takeAlarmLocked()
	tk.lock.unlock()

	if fn != nil {
		fn()
	}
}

// takeAlarmLocked disables the alarm compare interrupt and vacates the
// alarm slot, returning the callback to invoke. The slot is reset before
// the callback runs so that a callback which sets a new alarm is not
// clobbered by this firing's own cleanup. Callers must hold lock and
// must invoke the returned callback only after releasing it.
func (tk *TimeKeeper) takeAlarmLocked() func() {
	tk.regs.DisableCompareInterrupt(SlotAlarm)
	fn := tk.alarmFn
	tk.alarmAt = NoAlarm
	tk.alarmFn = nil
	if fn != nil {
		traceEvent(EvtAlarmFire, tk.unit, tk.Now())
	}
	return fn
}

// setAlarm stores (at, fn) as the single pending alarm, unconditionally
// replacing any previous entry, then arranges for it to fire: a past
// deadline fires synchronously before return; a future deadline gets
// its low bits written to the compare slot, and the compare interrupt
// is unmasked only when the deadline is within direct hardware reach
// (less than armWindow ticks ahead). Anything further stays masked
// until an overflow/midpoint re-evaluation, because a compare value
// more than three quarters of the counter range ahead would match the
// counter once per wrap before the deadline arrives.
func (tk *TimeKeeper) setAlarm(at uint64, fn func()) {
	tk.lock.lock()

	tk.alarmAt = at
	tk.alarmFn = fn

	if at == NoAlarm {
		tk.regs.DisableCompareInterrupt(SlotAlarm)
		traceEvent(EvtAlarmClear, tk.unit, 0)
		tk.lock.unlock()
		return
	}
	traceEvent(EvtAlarmSet, tk.unit, at)

	now := tk.Now()
	if at <= now {
		fired := tk.takeAlarmLocked()
		tk.lock.unlock()
		if fired != nil {
			fired()
		}
		return
	}

	// The compare value is written even when arming stays deferred. A
	// deadline landing exactly on a period boundary then latches its
	// match in the same instant as the boundary event, so the match is
	// already pending when the rollover unmasks the interrupt.
	tk.regs.SetCompare(SlotAlarm, uint32(at)&counterMask)

	if at-now < armWindow {
		tk.regs.EnableCompareInterrupt(SlotAlarm)
		traceEvent(EvtAlarmArm, tk.unit, at)

		// We may have been preempted for arbitrary time between the
		// now() read above and the compare write, in which case the
		// deadline may already have slipped past a compare value the
		// hardware will never match. Check again.
		now = tk.Now()
		if at <= now {
			fired := tk.takeAlarmLocked()
			tk.lock.unlock()
			if fired != nil {
				fired()
			}
			return
		}
	} else {
		tk.regs.DisableCompareInterrupt(SlotAlarm)
		traceEvent(EvtAlarmDefer, tk.unit, at)
	}

	tk.lock.unlock()
}

// Alarm returns the alarm capability for this unit. The handle is the
// sole interface the scheduling runtime uses to drive the alarm.
func (tk *TimeKeeper) Alarm() Alarm {
	return Alarm{tk: tk}
}

// Alarm is a capability handle for the single pending alarm of one
// hardware unit.
type Alarm struct {
	tk *TimeKeeper
}

// Set schedules fn to run when the monotonic time reaches at, replacing
// any previously pending alarm. A deadline already in the past fires fn
// synchronously, exactly once, before Set returns. fn may be invoked in
// interrupt context and may itself call Set.
//
// Precondition: at != NoAlarm (the sentinel is reserved for Clear).
func (a Alarm) Set(at uint64, fn func()) {
	a.tk.setAlarm(at, fn)
}

// Clear cancels any pending alarm. Once Clear returns the previously
// pending callback will not fire, unless its firing had already begun
// concurrently in the interrupt handler.
func (a Alarm) Clear() {
	a.tk.setAlarm(NoAlarm, nil)
}
