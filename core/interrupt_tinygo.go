//go:build tinygo

package core

import "runtime/interrupt"

// intrLock guards state shared between foreground code and the interrupt
// dispatcher by masking interrupts for the duration of the critical
// section. Interrupt masking is the only lock in this driver. Nested
// acquisition from the same context is forbidden by construction.
type intrLock struct {
	state interrupt.State
}

func (l *intrLock) lock() {
	l.state = interrupt.Disable()
}

func (l *intrLock) unlock() {
	interrupt.Restore(l.state)
}
