package core

// Counter geometry. The hardware counter is 24 bits wide; the period
// counter advances every half counter range (on overflow and on the
// midpoint compare), so one period is 2^23 ticks.
const (
	counterMask   = 0xFFFFFF // 24-bit counter range - 1
	periodBits    = 23       // one period = half the counter range
	counterMid    = 0x800000 // midpoint compare value (2^23)
	quarterRange  = 0x400000 // re-centering offset (2^22)
	armWindow     = 0xC00000 // max ticks ahead for direct compare arming
)

// NoAlarm is the sentinel deadline meaning "no alarm armed".
const NoAlarm = ^uint64(0)

// wideTicks reconstructs the 64-bit monotonic tick count from the period
// counter and the raw 24-bit counter value.
//
// The two values cannot be read in one atomic operation, so the period
// read may be stale by one increment relative to the counter read (or
// vice versa) when an overflow or midpoint event races the reader. The
// quarter-range offset re-centers the counter window so that either of
// the two period values a racing reader can observe yields the correct
// result: when the period is even the counter is in [0, 0x800000), when
// odd in [0x800000, 0x1000000), and near either boundary both parities
// decode to the same instant.
func wideTicks(period uint32, counter uint32) uint64 {
	shift := (period&1)<<periodBits + quarterRange
	counterShifted := (counter + shift) & counterMask
	return uint64(period)<<periodBits + uint64(counterShifted) - quarterRange
}
