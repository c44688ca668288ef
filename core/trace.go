package core

// TraceWriter is a function type for emitting trace lines. Platform code
// sets one to redirect output to UART, USB or a host pipe.
type TraceWriter func(string)

// TraceEvent captures one timekeeping event for post-mortem analysis and
// host-side monitoring.
type TraceEvent struct {
	Kind  uint8  // Event kind code
	Unit  Unit   // Hardware unit the event belongs to
	Value uint64 // Kind-dependent value (usually ticks)
}

// Event kind codes.
const (
	EvtPeriod     = 1 // period advanced (overflow or midpoint)
	EvtAlarmSet   = 2 // alarm slot written
	EvtAlarmArm   = 3 // compare register armed for the deadline
	EvtAlarmDefer = 4 // deadline out of reach, arming deferred
	EvtAlarmFire  = 5 // alarm callback taken for delivery
	EvtAlarmClear = 6 // alarm cancelled
)

// TraceRingSize is the number of events kept for post-mortem dumps.
const TraceRingSize = 32

var (
	// traceWriteln is the global trace line writer. No-op by default.
	traceWriteln TraceWriter = func(string) {}

	// traceEnabled controls live line output. Disabled by default: line
	// formatting costs allocations the hot paths should not pay unless
	// a monitor is attached. The ring is captured regardless.
	traceEnabled bool

	// traceLock serializes ring access. Units trace from interrupt
	// context under their own instance locks, which do not order ring
	// writes by different units against each other or against
	// foreground dumps.
	traceLock intrLock

	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
)

// SetTraceWriter sets the platform-specific trace output function.
func SetTraceWriter(w TraceWriter) {
	traceWriteln = w
}

// SetTraceEnabled enables or disables live trace line output.
func SetTraceEnabled(enabled bool) {
	traceEnabled = enabled
}

// EventName returns the wire name of an event kind, or "unknown".
func EventName(kind uint8) string {
	switch kind {
	case EvtPeriod:
		return "period"
	case EvtAlarmSet:
		return "alarm_set"
	case EvtAlarmArm:
		return "alarm_arm"
	case EvtAlarmDefer:
		return "alarm_defer"
	case EvtAlarmFire:
		return "alarm_fire"
	case EvtAlarmClear:
		return "alarm_clear"
	default:
		return "unknown"
	}
}

// TraceLine formats an event in the wire format the host monitor parses:
//
//	EVT <name> unit=<n> t=<value>
func TraceLine(e TraceEvent) string {
	return "EVT " + EventName(e.Kind) +
		" unit=" + utoa(uint64(e.Unit)) +
		" t=" + utoa(e.Value)
}

// traceEvent records an event in the ring and, if live output is
// enabled, emits a line. Safe to call from interrupt context and from
// concurrent foreground code; the ring write is guarded by traceLock.
func traceEvent(kind uint8, unit Unit, value uint64) {
	e := TraceEvent{Kind: kind, Unit: unit, Value: value}

	traceLock.lock()
	traceRing[traceRingHead] = e
	traceRingHead = (traceRingHead + 1) % TraceRingSize
	traceLock.unlock()

	if traceEnabled {
		traceWriteln(TraceLine(e))
	}
}

// DumpTraceRing writes the captured events, oldest first, through the
// trace writer. The ring is snapshotted under the lock; formatting and
// output run outside it.
func DumpTraceRing() {
	traceLock.lock()
	start := traceRingHead
	snap := traceRing
	traceLock.unlock()

	for i := uint8(0); i < TraceRingSize; i++ {
		e := snap[(start+i)%TraceRingSize]
		if e.Kind == 0 {
			continue // empty slot
		}
		traceWriteln(TraceLine(e))
	}
}

// ClearTraceRing clears the captured events.
func ClearTraceRing() {
	traceLock.lock()
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
	traceLock.unlock()
}
