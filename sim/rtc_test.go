package sim

import (
	"testing"

	"widetick/core"
)

const testIRQ core.IRQ = 11

var _ core.RTCRegisters = (*RTC)(nil)
var _ core.InterruptController = (*Controller)(nil)

func TestStoppedCounterDoesNotAdvance(t *testing.T) {
	rtc := NewRTC(NewController(), testIRQ)

	rtc.Advance(1000)
	if got := rtc.ReadCounter(); got != 0 {
		t.Errorf("counter advanced to %d while stopped", got)
	}
}

func TestCounterWrapsAndLatchesOverflow(t *testing.T) {
	rtc := NewRTC(NewController(), testIRQ)
	rtc.StartCounter()

	rtc.Advance(0xFFFFFF)
	if rtc.OverflowPending() {
		t.Fatal("overflow latched before the wrap")
	}

	rtc.Advance(1)
	if got := rtc.ReadCounter(); got != 0 {
		t.Errorf("counter = %#x after wrap, want 0", got)
	}
	if !rtc.OverflowPending() {
		t.Error("overflow event not latched at the wrap")
	}

	rtc.ClearOverflowEvent()
	if rtc.OverflowPending() {
		t.Error("overflow event still latched after clear")
	}
}

func TestCompareMatchLatches(t *testing.T) {
	rtc := NewRTC(NewController(), testIRQ)
	rtc.StartCounter()
	rtc.SetCompare(core.SlotAlarm, 100)

	rtc.Advance(99)
	if rtc.ComparePending(core.SlotAlarm) {
		t.Fatal("compare latched before the match value")
	}

	rtc.Advance(51)
	if !rtc.ComparePending(core.SlotAlarm) {
		t.Error("compare event not latched passing through the match value")
	}

	// Reprogramming the slot leaves the latched event alone; only an
	// explicit clear removes it, as on the real register block.
	rtc.SetCompare(core.SlotAlarm, 200)
	if !rtc.ComparePending(core.SlotAlarm) {
		t.Error("SetCompare cleared the latched match event")
	}

	rtc.ClearCompareEvent(core.SlotAlarm)
	if rtc.ComparePending(core.SlotAlarm) {
		t.Error("match event still latched after clear")
	}
}

func TestMaskedLineDoesNotDeliver(t *testing.T) {
	intc := NewController()
	rtc := NewRTC(intc, testIRQ)

	calls := 0
	intc.Connect(testIRQ, func() {
		calls++
		rtc.ClearCompareEvent(core.SlotAlarm)
	})

	rtc.StartCounter()
	rtc.SetCompare(core.SlotAlarm, 10)
	rtc.EnableCompareInterrupt(core.SlotAlarm)

	// Event enables are set but the controller line is still masked.
	rtc.Advance(20)
	if calls != 0 {
		t.Fatalf("masked line delivered %d interrupts", calls)
	}
	if !rtc.ComparePending(core.SlotAlarm) {
		t.Fatal("match event not latched while masked")
	}

	intc.Enable(testIRQ)
	rtc.SetCompare(core.SlotAlarm, 30)
	rtc.Advance(20)
	if calls != 1 {
		t.Errorf("unmasked line delivered %d interrupts, want 1", calls)
	}
}

func TestDisabledEventDoesNotDeliver(t *testing.T) {
	intc := NewController()
	rtc := NewRTC(intc, testIRQ)

	calls := 0
	intc.Connect(testIRQ, func() {
		calls++
		rtc.ClearOverflowEvent()
	})
	intc.Enable(testIRQ)

	rtc.StartCounter()
	rtc.Advance(0x1000000)
	if calls != 0 {
		t.Fatalf("overflow delivered %d interrupts with its enable bit clear", calls)
	}

	rtc.EnableOverflowInterrupt()
	rtc.Advance(0x1000000)
	if calls != 1 {
		t.Errorf("overflow delivered %d interrupts, want 1", calls)
	}
}
