// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

// ReadAction is returned by RxClient.ReceiveStart once the LENGTH byte of an
// incoming frame has been latched by BCMATCH.
type ReadAction int

const (
	// ReadFrameAndStayRX keeps receiving in the current RX window; the END
	// interrupt is enabled and the frame is delivered to ReceiveEnd.
	ReadFrameAndStayRX ReadAction = iota
	// ReadFrameAndMoveToTX keeps receiving the frame and sets the radio's
	// pending transition to TransitionMoveToTX, which the TX end path acts
	// on; the action at the end of this frame is still the PhyTransition
	// returned by ReceiveEnd.
	ReadFrameAndMoveToTX
	// SkipFrame aborts reception of the current frame immediately.
	SkipFrame
)

// PhyTransition is returned by RxClient.ReceiveEnd and used internally by
// the TX end path to record what should happen at the next packet
// boundary.
type PhyTransition int

const (
	// TransitionNone means no turnaround is scheduled; the radio goes
	// quiescent after the current operation.
	TransitionNone PhyTransition = iota
	// TransitionMoveToTX, returned by ReceiveEnd, schedules a TX turnaround
	// T_IFS after the received packet's end; as the pending transition at
	// a TX end, it asks the AdvertisementClient whether to transmit again.
	TransitionMoveToTX
	// TransitionMoveToRX schedules an RX turnaround T_IFS after a TX end;
	// returned by ReceiveEnd, it restarts reception immediately.
	TransitionMoveToRX
)

// TxImmediate is returned by AdvertisementClient.AdvertisementDone to
// direct what the radio does once it has gone quiescent.
type TxImmediate int

const (
	// GoToSleep means no further radio activity is requested.
	GoToSleep TxImmediate = iota
	// TX means a transmission should start immediately.
	TX
	// RespondAfterTifs means a transmission should be scheduled T_IFS from
	// now via the hardware turnaround timer.
	RespondAfterTifs
)

// RxClient is the upper link-layer sink for received frames.
type RxClient interface {
	// ReceiveStart is invoked once a frame's LENGTH byte has been latched,
	// with buf holding the in-progress RX buffer and totalLen the
	// complete frame length (S0 + LENGTH + PDU). The returned ReadAction
	// directs how the radio proceeds.
	ReceiveStart(buf []byte, totalLen int) ReadAction

	// ReceiveEnd is invoked once a kept frame has fully arrived, with ok
	// reporting the hardware CRC check result. The returned PhyTransition
	// directs the radio's next action.
	ReceiveEnd(buf []byte, totalLen int, ok bool) PhyTransition
}

// TxClient is reserved for future TX-complete notifications; the radio
// holds a reference to it but does not yet invoke it.
type TxClient interface {
}

// AdvertisementClient supplies the upper layer's decision on what to do
// once the radio has gone idle or an RX window has closed unanswered.
type AdvertisementClient interface {
	// AdvertisementDone is invoked whenever the radio has gone quiescent
	// (after a SkipFrame, after a kept frame with PhyTransition none, or
	// after a TX end with pending transition MoveToTX) and needs to know
	// whether to act again.
	AdvertisementDone() TxImmediate

	// TimerExpired is invoked when a scheduled RX window closed (DISABLED
	// fired while in RX) without an address match.
	TimerExpired()
}
