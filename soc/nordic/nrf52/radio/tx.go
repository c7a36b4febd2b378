// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import "github.com/usbarmory/tamago-ble/soc/nordic/nrf52/ppi"

// tx starts transmission of the buffer previously loaded by
// SetAdvertisementData. Called from thread context (TransmitAdvertisement)
// and from interrupt context (the RX/TX end paths arranging an immediate
// retransmission); the RADIO peripheral itself is the serialization point,
// a bare-metal register interface has no concurrent-access hazard beyond
// what the hardware state machine already enforces.
func (r *Radio) tx() {
	r.waitUntilDisabled()
	r.setupTx()
	r.regs.TriggerTXEN()
}

// setupTx reconfigures packetptr, shorts, and the DISABLED interrupt for a
// transmission, without touching the hardware enable state — split out of
// tx so the RX end path that schedules a hardware-timed TX turnaround
// (rxEnd's TransitionMoveToTX branch) can call it without re-waiting on a
// state that is already Disabled.
func (r *Radio) setupTx() {
	r.regs.SetPacketPtr(addressOf(r.bufs.TX))

	r.state = TXState

	r.regs.ClearEventReady()
	r.regs.ClearEventEnd()
	r.regs.ClearEventDisabled()

	// READY->START and END->DISABLE run entirely in hardware, so on-air
	// time is not gated on interrupt latency.
	r.regs.SetShorts(1<<SHORTS_READY_START | 1<<SHORTS_END_DISABLE)

	r.regs.EnableInterrupt(1 << INTEN_DISABLED)
}

// txEnd runs when DISABLED fires while the radio is in TXState: it
// inspects the scheduled transition and either reconfigures for a
// hardware-timed RX (MoveToRX), asks the AdvertisementClient whether to
// transmit again (MoveToTX), or returns to Initialized without consulting
// any client (none).
func (r *Radio) txEnd() {
	r.regs.ClearEventDisabled()
	r.regs.DisableInterrupt(1 << INTEN_DISABLED)
	r.regs.ClearEventEnd()

	switch r.transition {
	case TransitionMoveToRX:
		r.setupRx()
		// schedule_rx_after_t_ifs: PPI CH21 -> RADIO.TASKS_RXEN.
		r.armTurnaround(ppi.CH21, TIFS-TxEndDelay-TxRampUp-EarlierListen)
	case TransitionMoveToTX:
		r.waitUntilDisabled()

		if r.advertisementClient != nil && r.advertisementClient.AdvertisementDone() == TX {
			r.tx()
		}
	default:
		r.state = Initialized
		r.transition = TransitionNone
	}
}

// armTurnaround programs TIMER0.CC[0] to fire deltaUs microseconds after
// the just-latched packet-end timestamp (TIMER0.CC[2], captured by PPI
// channel 27 on every EVENTS_END) and enables the PPI channel that routes
// the resulting compare event straight to a radio enable task — the
// hardware path this driver relies on to hit T_IFS without CPU involvement.
func (r *Radio) armTurnaround(channel int, deltaUs uint32) {
	r.timer.SetCC0(r.timer.CC2() + deltaUs)
	r.ppi.Enable(channel)
}
