//go:build nrf52840

package main

import (
	"device/nrf"
	"runtime/interrupt"

	"widetick/core"
)

// unitRTC2 is the registry slot for the RTC2 peripheral. RTC0 is
// reserved by the SoftDevice and RTC1 by the TinyGo runtime scheduler,
// so the demo claims RTC2.
const unitRTC2 core.Unit = 2

// rtc2Vector is the interrupt handle bound to the RTC2 line. The handler
// is the free-standing entry point: it locates the owning driver through
// the registry and runs its dispatcher.
var rtc2Vector interrupt.Interrupt

func init() {
	rtc2Vector = interrupt.New(nrf.IRQ_RTC2, func(interrupt.Interrupt) {
		core.DefaultRegistry.Dispatch(unitRTC2)
	})
}

// nvic implements core.InterruptController over the Cortex-M interrupt
// controller.
type nvic struct{}

func (nvic) Enable(irq core.IRQ) {
	switch uint32(irq) {
	case nrf.IRQ_RTC2:
		rtc2Vector.Enable()
	}
}
