//go:build !tinygo

package core

import "sync"

// intrLock guards state shared between foreground code and the interrupt
// dispatcher. On hosted builds there is no interrupt masking, so a mutex
// stands in; tests that run a goroutine in place of the interrupt handler
// get real mutual exclusion. Nested acquisition from the same context is
// forbidden by construction.
type intrLock struct {
	mu sync.Mutex
}

func (l *intrLock) lock() {
	l.mu.Lock()
}

func (l *intrLock) unlock() {
	l.mu.Unlock()
}
