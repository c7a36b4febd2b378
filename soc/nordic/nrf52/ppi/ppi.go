// Nordic nRF52 Programmable Peripheral Interconnect (PPI) gate
// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ppi implements the narrow slice of the nRF52 Programmable
// Peripheral Interconnect that the BLE radio driver needs: enabling and
// disabling named event->task channels so that a timer compare event can
// trigger a radio task (TXEN/RXEN) without CPU involvement, and so that a
// radio event (ADDRESS/END) can trigger a timer capture.
//
// Grounded on the register-map-plus-Init convention of soc/nxp/enet and
// soc/nxp/usdhc: a small struct resolving Base once, with every access
// funneled through internal/regio.
package ppi

import "github.com/usbarmory/tamago-ble/internal/regio"

// Register offsets (nRF52 Product Specification, chapter "PPI — Programmable
// peripheral interconnect").
const (
	PPI_CHENSET = 0x500
	PPI_CHENCLR = 0x504
)

// Channel indices wired by the radio driver (see soc/nordic/nrf52/radio).
const (
	CH20 = 20 // TIMER0.EVENTS_COMPARE[0] -> RADIO.TASKS_TXEN
	CH21 = 21 // TIMER0.EVENTS_COMPARE[0] -> RADIO.TASKS_RXEN
	CH23 = 23
	CH25 = 25
	CH26 = 26 // RADIO.EVENTS_ADDRESS -> TIMER0.TASKS_CAPTURE[1]
	CH27 = 27 // RADIO.EVENTS_END -> TIMER0.TASKS_CAPTURE[2]
	CH31 = 31
)

// Gate represents the PPI instance.
type Gate struct {
	Base uint32
	Bus  regio.Bus
}

func mask(channels ...int) uint32 {
	var m uint32

	for _, ch := range channels {
		m |= 1 << uint(ch)
	}

	return m
}

// Enable enables the named PPI channels.
func (g *Gate) Enable(channels ...int) {
	regio.Write(g.Bus, g.Base+PPI_CHENSET, mask(channels...))
}

// Disable disables the named PPI channels.
func (g *Gate) Disable(channels ...int) {
	regio.Write(g.Bus, g.Base+PPI_CHENCLR, mask(channels...))
}
