// Nordic nRF52 TIMER peripheral gate
// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package nrftimer implements the narrow slice of the nRF52 TIMER
// peripheral the BLE radio driver needs as a free-running 1 MHz reference
// clock: programming compare registers, reading capture registers, and
// starting the timer. It does not drive the compare->task edge itself —
// that wiring is the job of package ppi.
package nrftimer

import "github.com/usbarmory/tamago-ble/internal/regio"

// Register offsets (nRF52 Product Specification, chapter "TIMER — Timer /
// counter").
const (
	TIMER_TASKS_START = 0x000
	TIMER_TASKS_STOP  = 0x004

	TIMER_TASKS_CAPTURE0 = 0x040
	TIMER_TASKS_CAPTURE1 = 0x044
	TIMER_TASKS_CAPTURE2 = 0x048

	TIMER_EVENTS_COMPARE0 = 0x140

	TIMER_BITMODE   = 0x508
	TIMER_PRESCALER = 0x510

	TIMER_CC0 = 0x540
	TIMER_CC1 = 0x544
	TIMER_CC2 = 0x548

	// BITMODE values
	BITMODE_32BIT = 3
)

// Gate represents the TIMER0 instance used as the radio's 1 MHz reference
// clock.
type Gate struct {
	Base uint32
	Bus  regio.Bus
}

// SetPrescaler sets the timer's frequency divider (log2 of the 16 MHz base
// frequency division).
func (g *Gate) SetPrescaler(val uint32) {
	regio.Write(g.Bus, g.Base+TIMER_PRESCALER, val)
}

// SetBitMode sets the counter width.
func (g *Gate) SetBitMode(val uint32) {
	regio.Write(g.Bus, g.Base+TIMER_BITMODE, val)
}

// Start starts the timer.
func (g *Gate) Start() {
	regio.Write(g.Bus, g.Base+TIMER_TASKS_START, 1)
}

// SetCC0 programs compare register 0, the one PPI wires to a radio task.
func (g *Gate) SetCC0(val uint32) {
	regio.Write(g.Bus, g.Base+TIMER_CC0, val)
}

// CC0 returns the compare register 0 currently programmed — used by tests
// asserting on the scheduled turnaround time.
func (g *Gate) CC0() uint32 {
	return regio.Read(g.Bus, g.Base+TIMER_CC0)
}

// SetEventsCompare clears (or sets, for test injection) the
// EVENTS_COMPARE[n] flag.
func (g *Gate) SetEventsCompare(n int, val uint32) {
	regio.Write(g.Bus, g.Base+TIMER_EVENTS_COMPARE0+uint32(n)*4, val)
}

// CC1 returns capture register 1 — the address-match timestamp of the last
// packet, captured by PPI channel 26.
func (g *Gate) CC1() uint32 {
	return regio.Read(g.Bus, g.Base+TIMER_CC1)
}

// CC2 returns capture register 2 — the end-of-packet timestamp of the last
// packet, captured by PPI channel 27.
func (g *Gate) CC2() uint32 {
	return regio.Read(g.Bus, g.Base+TIMER_CC2)
}

// SetCC2 is used only by tests, to simulate a packet-end capture without
// driving a real PPI-wired capture task.
func (g *Gate) SetCC2(val uint32) {
	regio.Write(g.Bus, g.Base+TIMER_CC2, val)
}
