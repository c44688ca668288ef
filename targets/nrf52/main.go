//go:build nrf52840

// Demo firmware: brings up the wide time source on RTC2 and emits a
// trace beacon once per second over the default serial port. Pair with
// host/cmd/tickmon to watch alarm latency from the host side.
package main

import (
	"device/arm"
	"device/nrf"
	"machine"

	"widetick/core"
)

// RTC tick rate with the prescaler at 0.
const ticksPerSecond = 32768

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})

	core.SetTraceWriter(func(s string) { println(s) })
	core.SetTraceEnabled(true)

	startLFCLK()

	tk := core.New(rtcUnit{regs: nrf.RTC2}, core.Config{
		Unit: unitRTC2,
		IRQ:  core.IRQ(nrf.IRQ_RTC2),
		Intc: nvic{},
	})
	tk.Start()

	// Repeating beacon: each firing schedules the next from interrupt
	// context, keyed to absolute deadlines so the cadence never drifts.
	alarm := tk.Alarm()
	next := tk.Now() + ticksPerSecond
	var beacon func()
	beacon = func() {
		next += ticksPerSecond
		alarm.Set(next, beacon)
	}
	alarm.Set(next, beacon)

	for {
		arm.Asm("wfi")
	}
}
