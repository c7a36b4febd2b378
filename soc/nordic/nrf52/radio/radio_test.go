// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import (
	"testing"

	"github.com/usbarmory/tamago-ble/internal/regio"
	"github.com/usbarmory/tamago-ble/soc/nordic/nrf52/nrftimer"
	"github.com/usbarmory/tamago-ble/soc/nordic/nrf52/ppi"
)

const (
	testBase      = 0x40001000
	testPPIBase   = 0x4001f000
	testTimerBase = 0x40008000
)

func newTestRadio() *Radio {
	bus := regio.NewFake()

	return &Radio{
		Base:      testBase,
		PPIBase:   testPPIBase,
		TimerBase: testTimerBase,
		Alloc:     plainAllocator,
		regs:      Registers{Bus: bus},
	}
}

func TestInitializeSetsBLERegisters(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	if got := r.regs.Mode(); got != MODE_BLE_1MBIT {
		t.Errorf("Mode() = %#x, want %#x", got, MODE_BLE_1MBIT)
	}

	if got := r.regs.TIFS(); got != TIFS {
		t.Errorf("TIFS() = %d, want %d", got, TIFS)
	}

	if got := r.regs.CRCPoly(); got != CRCPOLY_BLE {
		t.Errorf("CRCPoly() = %#x, want %#x", got, CRCPOLY_BLE)
	}

	wantPCNF0 := uint32(PCNF0_LFLEN_8BIT<<PCNF0_LFLEN_POS) | uint32(PCNF0_S0LEN_1B<<PCNF0_S0LEN_POS)
	if got := r.regs.PCNF0(); got != wantPCNF0 {
		t.Errorf("PCNF0() = %#x, want %#x", got, wantPCNF0)
	}

	wantPCNF1 := uint32(1<<PCNF1_WHITEEN_POS) | uint32(PCNF1_BALEN_3BYTES<<PCNF1_BALEN_POS) | uint32(255)
	if got := r.regs.PCNF1(); got != wantPCNF1 {
		t.Errorf("PCNF1() = %#x, want %#x", got, wantPCNF1)
	}

	if r.State() != Initialized {
		t.Errorf("State() = %v, want Initialized", r.State())
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	r := newTestRadio()
	r.Initialize()
	r.Initialize()

	if r.State() != Initialized {
		t.Fatalf("State() = %v, want Initialized", r.State())
	}
}

func TestSetChannelSplitsAccessAddress(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	r.SetChannel(2, ACCESS_ADDRESS_ADV, CRCINIT_BLE_ADV)

	if got := r.regs.Prefix0(); got != 0x8e {
		t.Errorf("Prefix0() = %#x, want 0x8e", got)
	}

	if got := r.regs.Base0(); got != 0x89bed600 {
		t.Errorf("Base0() = %#x, want 0x89bed600", got)
	}

	if got := r.Channel(); got != 2 {
		t.Errorf("Channel() = %d, want 2", got)
	}
}

func TestSetChannelPanicsUnlessDisabled(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	r.regs.Bus.(*regio.Fake).Poke(r.Base+RADIO_STATE, STATE_RXIDLE)

	defer func() {
		if recover() == nil {
			t.Fatal("SetChannel did not panic with hardware not Disabled")
		}
	}()

	r.SetChannel(10, ACCESS_ADDRESS_ADV, CRCINIT_BLE_ADV)
}

func TestTxProgramsShortsAndPacketPtr(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	r.SetAdvertisementData([]byte{0x01, 0x02, 0x03}, 3)
	r.tx()

	wantShorts := uint32(1<<SHORTS_READY_START | 1<<SHORTS_END_DISABLE)
	if got := r.regs.Shorts(); got != wantShorts {
		t.Errorf("Shorts() = %#b, want %#b", got, wantShorts)
	}

	if got := r.regs.PacketPtr(); got != addressOf(r.bufs.TX) {
		t.Errorf("PacketPtr() = %#x, want %#x", got, addressOf(r.bufs.TX))
	}

	if r.State() != TXState {
		t.Errorf("State() = %v, want TXState", r.State())
	}

	if got := r.regs.EnabledInterrupts(); got&(1<<INTEN_DISABLED) == 0 {
		t.Errorf("EnabledInterrupts() = %#b, want DISABLED bit set", got)
	}
}

func TestRxProgramsShortsAndBCC(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	r.rx()

	wantShorts := uint32(1<<SHORTS_READY_START | 1<<SHORTS_END_DISABLE | 1<<SHORTS_ADDRESS_BCSTART)
	if got := r.regs.Shorts(); got != wantShorts {
		t.Errorf("Shorts() = %#b, want %#b", got, wantShorts)
	}

	fake := r.regs.Bus.(*regio.Fake)
	if got := fake.Peek(r.Base + RADIO_BCC); got != 8 {
		t.Errorf("BCC = %d, want 8", got)
	}

	if got := r.regs.EnabledInterrupts(); got&(1<<INTEN_ADDRESS) == 0 {
		t.Errorf("EnabledInterrupts() = %#b, want ADDRESS bit set", got)
	}
}

func TestTxEndMoveToRXArmsTimer(t *testing.T) {
	r := newTestRadio()
	r.Initialize()
	r.state = TXState
	r.transition = TransitionMoveToRX

	r.timer.SetCC0(0)
	fakeTimer := r.timer.Bus.(*regio.Fake)
	fakeTimer.Poke(r.TimerBase+nrftimer.TIMER_CC2, 1000)

	r.txEnd()

	want := uint32(1000 + TIFS - TxEndDelay - TxRampUp - EarlierListen)
	if got := r.timer.CC0(); got != want {
		t.Errorf("CC0() = %d, want %d", got, want)
	}

	ppiBus := r.ppi.Bus.(*regio.Fake)
	if got := regio.Get(ppiBus, r.PPIBase+ppi.PPI_CHENSET, ppi.CH21, 1); got != 1 {
		t.Errorf("CH21 not enabled after MoveToRX turnaround")
	}
}

func TestTxEndNoneGoesQuiescentWithoutConsultingClient(t *testing.T) {
	r := newTestRadio()
	r.Initialize()
	r.state = TXState
	r.transition = TransitionNone

	client := &fakeAdvertisementClient{done: GoToSleep}
	r.SetAdvertisementClient(client)

	r.txEnd()

	if r.State() != Initialized {
		t.Errorf("State() = %v, want Initialized", r.State())
	}

	if r.transition != TransitionNone {
		t.Errorf("transition = %v, want TransitionNone", r.transition)
	}

	// A bare TX (TransitionNone) is not itself a quiescent advertisement
	// boundary in the original state machine; only the RX end path and
	// MoveToTX's immediate retransmit consult AdvertisementDone.
	if client.called {
		t.Errorf("AdvertisementDone was called, want untouched")
	}
}

// fakeRxClient implements RxClient for the end-to-end advertisement test.
type fakeRxClient struct {
	startBuf    []byte
	startLen    int
	endBuf      []byte
	endLen      int
	endOK       bool
	endCalled   bool
	startCalled bool
	readAction  ReadAction
	transition  PhyTransition
}

func (c *fakeRxClient) ReceiveStart(buf []byte, totalLen int) ReadAction {
	c.startCalled = true
	c.startBuf = buf
	c.startLen = totalLen
	return c.readAction
}

func (c *fakeRxClient) ReceiveEnd(buf []byte, totalLen int, ok bool) PhyTransition {
	c.endCalled = true
	c.endBuf = buf
	c.endLen = totalLen
	c.endOK = ok
	return c.transition
}

type fakeAdvertisementClient struct {
	done         TxImmediate
	called       bool
	timerExpired bool
}

func (c *fakeAdvertisementClient) AdvertisementDone() TxImmediate {
	c.called = true
	return c.done
}

func (c *fakeAdvertisementClient) TimerExpired() {
	c.timerExpired = true
}

func TestEndToEndAdvertisementReceive(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	client := &fakeRxClient{readAction: ReadFrameAndStayRX, transition: TransitionNone}
	r.SetReceiveClient(client)

	r.rx()

	// Simulate the hardware latching a 10-byte PDU's LENGTH byte (S0=1B,
	// LENGTH=10) and raising ADDRESS/BCMATCH.
	r.bufs.RX[0] = 0x00
	r.bufs.RX[1] = 10

	fake := r.regs.Bus.(*regio.Fake)
	fake.Poke(r.Base+RADIO_EVENTS_ADDRESS, 1)
	fake.Poke(r.Base+RADIO_EVENTS_BCMATCH, 1)

	r.HandleInterrupt()

	if !client.startCalled {
		t.Fatalf("ReceiveStart was not called")
	}
	if client.startLen != 12 {
		t.Errorf("ReceiveStart totalLen = %d, want 12", client.startLen)
	}

	// Simulate the frame completing with a good CRC.
	fake.Poke(r.Base+RADIO_EVENTS_END, 1)
	fake.Poke(r.Base+RADIO_EVENTS_DISABLED, 1)
	fake.Poke(r.Base+RADIO_EVENTS_CRCOK, 1)

	r.HandleInterrupt()

	if !client.endCalled {
		t.Fatalf("ReceiveEnd was not called")
	}
	if client.endLen != 12 {
		t.Errorf("ReceiveEnd totalLen = %d, want 12", client.endLen)
	}
	if !client.endOK {
		t.Errorf("ReceiveEnd ok = false, want true")
	}

	if r.State() != Initialized {
		t.Errorf("State() = %v, want Initialized", r.State())
	}
}

func TestHandleInterruptTimerExpiredOnEmptyRXWindow(t *testing.T) {
	r := newTestRadio()
	r.Initialize()

	client := &fakeAdvertisementClient{}
	r.SetAdvertisementClient(client)

	r.rx()

	// Simulate the upper layer's watchdog-style timer expiry: it enables
	// DISABLED and triggers TASKS_DISABLE directly, outside this driver's
	// own interrupt enables (rx/setupRx only ever arm ADDRESS).
	r.regs.EnableInterrupt(1 << INTEN_DISABLED)

	fake := r.regs.Bus.(*regio.Fake)
	fake.Poke(r.Base+RADIO_EVENTS_DISABLED, 1)

	r.HandleInterrupt()

	if !client.timerExpired {
		t.Errorf("TimerExpired was not called")
	}
	if r.State() != RXState {
		t.Errorf("State() = %v, want RXState: the DISABLED-in-RX branch notifies TimerExpired but leaves quiescing to the caller", r.State())
	}
}
