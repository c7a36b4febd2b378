// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

// HandleInterrupt is the RADIO peripheral's single interrupt vector entry
// point. All four events the driver ever enables share one IRQ line, so
// each is dispatched only when it is both currently enabled and flagged,
// in hardware order: READY, ADDRESS, DISABLED, END. A normal (non-aborted)
// ADDRESS pass masks DISABLED out of this entry's bitmap, since from that
// point on END (not DISABLED) drives completion of the frame it just
// admitted; an RX window that times out with no address match never
// clears that mask and is caught by the DISABLED branch instead.
func (r *Radio) HandleInterrupt() {
	enabled := r.regs.EnabledInterrupts()

	if enabled&(1<<INTEN_READY) != 0 && r.regs.EventReady() {
		r.regs.ClearEventReady()
		r.regs.DisableInterrupt(1 << INTEN_READY)
	}

	if enabled&(1<<INTEN_ADDRESS) != 0 && r.regs.EventAddress() {
		if r.addressEvent() {
			enabled &^= 1 << INTEN_DISABLED
		}
	}

	if enabled&(1<<INTEN_DISABLED) != 0 && r.regs.EventDisabled() {
		r.disabledEvent()
	}

	if enabled&(1<<INTEN_END) != 0 && r.regs.EventEnd() {
		r.rxEnd()
	}
}

// disabledEvent runs when DISABLED fires without a preceding, still-armed
// END: a completed TX always routes here (TX never enables END), while in
// RXState it means the RX window closed without a kept frame.
func (r *Radio) disabledEvent() {
	switch r.state {
	case RXState:
		r.regs.ClearEventDisabled()

		if r.advertisementClient != nil {
			r.advertisementClient.TimerExpired()
		}
	case Uninitialized:
		panic("radio: DISABLED event while uninitialized")
	default:
		r.txEnd()
	}
}
