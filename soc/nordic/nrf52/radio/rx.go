// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import "github.com/usbarmory/tamago-ble/soc/nordic/nrf52/ppi"

// lengthField is LENGTH's byte offset into the packet buffer: RX[0] is S0,
// RX[1] is LENGTH.
const lengthField = 1

// rx arms the radio to receive a single frame.
func (r *Radio) rx() {
	r.waitUntilDisabled()

	r.regs.DisableAllInterrupts()
	r.regs.ClearEventEnd()
	r.regs.ClearEventDisabled()

	r.setupRx()

	r.regs.TriggerRXEN()
}

// setupRx reconfigures packetptr, the bit counter, shorts, and the ADDRESS
// interrupt for a reception, without touching the hardware enable state —
// split out of rx so the TX end path that schedules a hardware-timed RX
// turnaround (txEnd's TransitionMoveToRX branch) can call it without
// re-waiting on a state that is already Disabled.
func (r *Radio) setupRx() {
	r.regs.SetPacketPtr(addressOf(r.bufs.RX))

	// The hardware turnaround that brought us here (if any) has already
	// done its job; stop listening for a second one until this RX
	// concludes.
	r.ppi.Disable(ppi.CH20)

	r.state = RXState

	// Bit-counter compare at one byte of payload: BCMATCH fires the
	// instant LENGTH has been clocked in, letting addressEvent read the
	// frame length before the rest of the PDU has arrived.
	r.regs.SetBCC(8)

	r.regs.ClearEventAddress()
	r.regs.ClearEventDevmatch()
	r.regs.ClearEventBCMatch()
	r.regs.ClearEventRSSIEnd()
	r.regs.ClearEventCRCOk()

	r.regs.SetShorts(1<<SHORTS_READY_START | 1<<SHORTS_END_DISABLE | 1<<SHORTS_ADDRESS_BCSTART)

	r.regs.EnableInterrupt(1 << INTEN_ADDRESS)
}

// addressEvent runs from the interrupt dispatcher when ADDRESS fires. LENGTH
// is not latched yet at that point, so it spins until BCMATCH confirms the
// bit counter has reached it, or until the radio drops back to Disabled
// (the RX window closing before an access-address match turned into a kept
// frame) in which case it aborts without touching the RxClient. It returns
// false on that abort path and true otherwise, including when no RxClient
// is installed and when the RxClient answers SkipFrame.
func (r *Radio) addressEvent() bool {
	r.regs.ClearEventAddress()
	r.regs.DisableInterrupt(1<<INTEN_DISABLED | 1<<INTEN_ADDRESS)

	for {
		if r.regs.EventBCMatch() {
			break
		}
		if r.regs.State() == STATE_DISABLED {
			r.regs.DisableAllInterrupts()
			r.regs.ClearShorts()
			return false
		}
	}

	r.regs.ClearEventBCMatch()

	if r.rxClient == nil {
		return true
	}

	length := int(r.bufs.RX[lengthField])
	totalLen := length + 2

	switch r.rxClient.ReceiveStart(r.bufs.RX, totalLen) {
	case SkipFrame:
		r.DisableRadio()
		r.waitUntilDisabled()

		if r.advertisementClient != nil && r.advertisementClient.AdvertisementDone() == TX {
			r.tx()
		}
	case ReadFrameAndMoveToTX:
		r.transition = TransitionMoveToTX
		r.regs.EnableInterrupt(1 << INTEN_END)
	case ReadFrameAndStayRX:
		r.regs.EnableInterrupt(1 << INTEN_END)
	}

	return true
}

// rxEnd runs from the interrupt dispatcher when END fires while the radio
// is in RXState following a kept frame. It reports the frame to the
// RxClient and acts on the returned PhyTransition.
func (r *Radio) rxEnd() {
	r.regs.ClearEventEnd()
	r.regs.DisableInterrupt(1 << INTEN_END)
	r.ppi.Disable(ppi.CH21)

	ok := r.regs.EventCRCOk()

	length := int(r.bufs.RX[lengthField])
	totalLen := length + 2

	var transition PhyTransition

	if r.rxClient != nil {
		transition = r.rxClient.ReceiveEnd(r.bufs.RX, totalLen, ok)
	}

	switch transition {
	case TransitionMoveToTX:
		r.setupTx()
		// schedule_tx_after_t_ifs: PPI CH20 -> RADIO.TASKS_TXEN.
		r.armTurnaround(ppi.CH20, TIFS-RxEndDelay-TxRampUp-TxDelay)
	case TransitionMoveToRX:
		r.DisableRadio()
		r.waitUntilDisabled()
		r.rx()
	default:
		r.afterQuiescent()
	}
}

// afterQuiescent runs once the radio has gone fully idle with no further
// hardware-scheduled transition pending. It asks the AdvertisementClient
// what, if anything, comes next.
func (r *Radio) afterQuiescent() {
	r.DisableRadio()
	r.waitUntilDisabled()

	if r.advertisementClient == nil {
		return
	}

	switch r.advertisementClient.AdvertisementDone() {
	case TX:
		r.tx()
	case RespondAfterTifs:
		// schedule_tx_after_t_ifs: PPI CH20 -> RADIO.TASKS_TXEN.
		r.armTurnaround(ppi.CH20, TIFS-RxEndDelay-TxRampUp-TxDelay)
	case GoToSleep:
	}
}
