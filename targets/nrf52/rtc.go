//go:build nrf52840

package main

import (
	"device/nrf"

	"widetick/core"
)

// RTC interrupt enable bits (INTENSET/INTENCLR). Compare slot n is bit
// 16+n, overflow is bit 1.
const (
	intenOvrflw   uint32 = 1 << 1
	intenCompare0 uint32 = 1 << 16
)

// rtcUnit implements core.RTCRegisters over an nRF52 RTC register block.
// The RTC counter is 24 bits wide and runs from the LFCLK at 32768 Hz
// with the prescaler at 0.
type rtcUnit struct {
	regs *nrf.RTC_Type
}

func (u rtcUnit) ReadCounter() uint32 {
	return u.regs.COUNTER.Get() & 0xFFFFFF
}

func (u rtcUnit) ClearCounter() {
	u.regs.TASKS_CLEAR.Set(1)
}

func (u rtcUnit) StartCounter() {
	u.regs.TASKS_START.Set(1)
}

func (u rtcUnit) SetCompare(slot core.CompareSlot, value uint32) {
	u.regs.CC[slot].Set(value & 0xFFFFFF)
}

func (u rtcUnit) EnableCompareInterrupt(slot core.CompareSlot) {
	u.regs.INTENSET.Set(intenCompare0 << slot)
}

func (u rtcUnit) DisableCompareInterrupt(slot core.CompareSlot) {
	u.regs.INTENCLR.Set(intenCompare0 << slot)
}

func (u rtcUnit) ComparePending(slot core.CompareSlot) bool {
	return u.regs.EVENTS_COMPARE[slot].Get() != 0
}

func (u rtcUnit) ClearCompareEvent(slot core.CompareSlot) {
	u.regs.EVENTS_COMPARE[slot].Set(0)
}

func (u rtcUnit) EnableOverflowInterrupt() {
	u.regs.INTENSET.Set(intenOvrflw)
}

func (u rtcUnit) OverflowPending() bool {
	return u.regs.EVENTS_OVRFLW.Get() != 0
}

func (u rtcUnit) ClearOverflowEvent() {
	u.regs.EVENTS_OVRFLW.Set(0)
}

// startLFCLK starts the 32768 Hz low-frequency clock the RTC counts
// from. Blocks until the clock reports started.
func startLFCLK() {
	nrf.CLOCK.LFCLKSRC.Set(nrf.CLOCK_LFCLKSRC_SRC_Xtal)
	nrf.CLOCK.TASKS_LFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_LFCLKSTARTED.Get() == 0 {
	}
	nrf.CLOCK.EVENTS_LFCLKSTARTED.Set(0)
}
