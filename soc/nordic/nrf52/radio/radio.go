// Nordic nRF52 BLE physical-layer radio driver
// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package radio implements a driver for the Nordic nRF52 2.4 GHz RADIO
// peripheral configured for Bluetooth Low Energy: single-packet transmit
// and receive, hardware-timed TX<->RX turnarounds, and interrupt dispatch
// to an upper link-layer via the RxClient/TxClient/AdvertisementClient
// contracts in client.go.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=arm` as
// supported by the TamaGo framework for bare metal Go on ARM SoCs, see
// https://github.com/usbarmory/tamago-ble.
package radio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/usbarmory/tamago-ble/soc/nordic/nrf52/nrftimer"
	"github.com/usbarmory/tamago-ble/soc/nordic/nrf52/ppi"
)

// Turnaround timing constants (1 MHz timer, microsecond units).
// BLUETOOTH SPECIFICATION Version 4.2 [Vol 6, Part A], section 4.6.
const (
	TIFS          = 150 // BLE inter-frame space
	TxRampUp      = 40  // Fast ramp-up time
	TxDelay       = 3   // Trigger -> on-air delay
	TxEndDelay    = 3   // Off-air -> END event delay
	RxEndDelay    = 7   // RX off-air -> END event delay
	EarlierListen = 2   // Margin opening the RX window early
)

// State is the radio's lifecycle state.
type State int

const (
	Uninitialized State = iota
	Initialized
	TXState
	RXState
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case TXState:
		return "tx"
	case RXState:
		return "rx"
	default:
		return "unknown"
	}
}

// TxPowerDBm is one of the radio's enumerated transmit power levels.
type TxPowerDBm int

// Valid transmit power levels (nRF52 Product Specification, TXPOWER
// register, dBm encoding).
const (
	TxPower4dBm   TxPowerDBm = 4
	TxPower0dBm   TxPowerDBm = 0
	TxPowerNeg4dBm  TxPowerDBm = -4
	TxPowerNeg8dBm  TxPowerDBm = -8
	TxPowerNeg12dBm TxPowerDBm = -12
	TxPowerNeg16dBm TxPowerDBm = -16
	TxPowerNeg20dBm TxPowerDBm = -20
	TxPowerNeg30dBm TxPowerDBm = -30
)

var validTxPower = map[TxPowerDBm]uint32{
	TxPower4dBm:     0x04,
	TxPower0dBm:     0x00,
	TxPowerNeg4dBm:  0xfc,
	TxPowerNeg8dBm:  0xf8,
	TxPowerNeg12dBm: 0xf4,
	TxPowerNeg16dBm: 0xf0,
	TxPowerNeg20dBm: 0xec,
	TxPowerNeg30dBm: 0xe2,
}

// ErrUnsupportedParameter is returned by SetTxPower when the requested
// level is outside the enumerated valid set.
var ErrUnsupportedParameter = errors.New("radio: unsupported parameter")

// Radio is the process-wide BLE radio singleton: lifecycle, BLE packet
// configuration, interrupt handling, turnaround scheduling, and client
// dispatch. Exactly one instance is expected per board; the zero value is
// Uninitialized.
//
// Grounded on the struct shape of soc/nxp/usdhc.USDHC and soc/nxp/enet.ENET:
// an embedded sync.Mutex guarding thread-context public operations, a Base
// register address resolved once, and unexported fields for runtime state.
type Radio struct {
	sync.Mutex

	// Base is the RADIO peripheral's base register address.
	Base uint32
	// PPIBase and TimerBase are the base register addresses of the PPI and
	// TIMER0 peripherals this driver wires together for hardware-timed
	// turnarounds.
	PPIBase   uint32
	TimerBase uint32

	// Alloc is used to obtain the TX/RX DMA buffers on first Initialize.
	// A nil Alloc defaults to a plain make()-backed allocator, which tests
	// use to avoid requiring a live DMA region.
	Alloc Allocator

	regs  Registers
	ppi   ppi.Gate
	timer nrftimer.Gate
	bufs  *Buffers

	txPower TxPowerDBm
	state   State
	channel *int
	transition PhyTransition

	rxClient            RxClient
	txClient            TxClient
	advertisementClient AdvertisementClient
}

// Initialize performs the one-time BLE bring-up: power-cycles the radio,
// programs TX power, T_IFS, 1 Mbit BLE mode, BLE packet configuration and
// CRC, wires the PPI channels that timestamp every packet's address-start
// and end, and starts the 1 MHz reference timer. Idempotent: calling it
// again after Initialized leaves register contents unchanged other than
// re-arming the timer (see SPEC_FULL.md §4.2 on why the timer re-arm runs
// every call).
func (r *Radio) Initialize() {
	r.Lock()
	defer r.Unlock()

	if r.Base == 0 || r.PPIBase == 0 || r.TimerBase == 0 {
		panic("radio: invalid instance, Base/PPIBase/TimerBase must be set")
	}

	if r.regs.Bus == nil {
		panic("radio: invalid instance, Bus must be set before Initialize")
	}

	r.regs.Base = r.Base
	r.ppi.Base = r.PPIBase
	r.ppi.Bus = r.regs.Bus
	r.timer.Base = r.TimerBase
	r.timer.Bus = r.regs.Bus

	if r.bufs == nil {
		r.bufs = NewBuffers(r.Alloc)
	}

	if r.state == Uninitialized {
		r.radioOn()

		r.regs.SetTxPower(validTxPower[r.txPower])
		r.regs.SetTIFS(TIFS)

		r.regs.SetMode(MODE_BLE_1MBIT)

		r.regs.SetTxAddress(0)
		r.regs.SetRxAddresses(0x01)

		r.blePacketConfig()
		r.bleCRCConfig()

		r.state = Initialized

		// CH26: RADIO.EVENTS_ADDRESS -> TIMER0.TASKS_CAPTURE[1]
		// CH27: RADIO.EVENTS_END -> TIMER0.TASKS_CAPTURE[2]
		r.ppi.Enable(ppi.CH26, ppi.CH27)
	}

	r.timer.SetPrescaler(4)
	r.timer.SetBitMode(nrftimer.BITMODE_32BIT)
	r.timer.Start()
}

func (r *Radio) radioOn() {
	r.regs.SetPower(0)
	r.regs.SetPower(1)
}

func (r *Radio) radioOff() {
	r.regs.ClearShorts()
	r.regs.SetPower(0)
}

// BLUETOOTH SPECIFICATION Version 4.2 [Vol 6, Part B], section 2.1 Packet
// Format: preamble 1B, access address (base+prefix), S0 1B, LENGTH 8 bits,
// S1 0 bits, MAXLEN 255, whitening enabled, little-endian, 3-byte base,
// fast ramp-up.
func (r *Radio) blePacketConfig() {
	pcnf0 := uint32(PCNF0_LFLEN_8BIT<<PCNF0_LFLEN_POS) |
		uint32(PCNF0_S0LEN_1B<<PCNF0_S0LEN_POS) |
		uint32(PCNF0_S1LEN_0B<<PCNF0_S1LEN_POS) |
		uint32(PCNF0_PLEN_8BIT<<PCNF0_PLEN_POS)
	r.regs.SetPCNF0(pcnf0)

	pcnf1 := uint32(PCNF1_WHITEEN_ENABLED<<PCNF1_WHITEEN_POS) |
		uint32(PCNF1_ENDIAN_LITTLE<<PCNF1_ENDIAN_POS) |
		uint32(PCNF1_BALEN_3BYTES<<PCNF1_BALEN_POS) |
		uint32(PCNF1_STATLEN_NOEXTEND<<PCNF1_STATLEN_POS) |
		uint32(PCNF1_MAXLEN_255BYTES<<PCNF1_MAXLEN_POS)
	r.regs.SetPCNF1(pcnf1)

	r.regs.SetModeCnf0(MODECNF0_RU_FAST)
}

// BLUETOOTH SPECIFICATION Version 4.2 [Vol 6, Part B], section 3.1.1 CRC
// Generation: polynomial 0x65B, 3-byte, skip-address; init value is
// overwritten per-connection by SetChannel, defaulting here to the
// advertising init value.
func (r *Radio) bleCRCConfig() {
	crccnf := uint32(CRCCNF_SKIPADDR_SKIP<<CRCCNF_SKIPADDR_POS) | uint32(CRCCNF_LEN_3BYTES<<CRCCNF_LEN_POS)
	r.regs.SetCRCCNF(crccnf)
	r.regs.SetCRCInit(CRCINIT_BLE_ADV)
	r.regs.SetCRCPoly(CRCPOLY_BLE)
}

// SetTxPower validates dBm against the enumerated valid set and, if valid,
// records it; the TXPOWER register is written immediately once the radio
// is initialized, and by Initialize otherwise.
func (r *Radio) SetTxPower(dBm TxPowerDBm) error {
	r.Lock()
	defer r.Unlock()

	val, ok := validTxPower[dBm]
	if !ok {
		return fmt.Errorf("%w: tx power %d dBm", ErrUnsupportedParameter, dBm)
	}

	r.txPower = dBm

	if r.state != Uninitialized {
		r.regs.SetTxPower(val)
	}

	return nil
}

// SetChannel configures the BLE data channel, access address, and CRC init
// value for the next operation. Requires the hardware to be Disabled —
// calling it otherwise is a caller contract breach and panics.
func (r *Radio) SetChannel(channel int, accessAddress uint32, crcInit uint32) {
	r.Lock()
	defer r.Unlock()

	if !r.regs.IsDisabled() {
		panic("radio: SetChannel requires hardware state Disabled")
	}

	r.channel = &channel

	r.regs.SetFrequency(uint32(channel))
	r.regs.SetDataWhiteIV(uint32(channel))

	r.regs.SetPrefix0Hi8(accessAddress >> 24)
	r.regs.SetBase0(accessAddress << 8)

	r.regs.SetCRCInit(crcInit)
}

// SetTransitionState records the intent for the next packet boundary.
func (r *Radio) SetTransitionState(t PhyTransition) {
	r.Lock()
	defer r.Unlock()

	r.transition = t
}

// SetAdvertisementData copies at most len(buf) bytes (bounded by the TX
// buffer capacity) into the TX payload buffer and returns buf unchanged, to
// match the caller-owns-its-buffer calling convention used throughout this
// codebase's DMA-backed drivers.
func (r *Radio) SetAdvertisementData(buf []byte, length int) []byte {
	r.Lock()
	defer r.Unlock()

	if length > len(buf) {
		length = len(buf)
	}
	if length > len(r.bufs.TX) {
		length = len(r.bufs.TX)
	}

	copy(r.bufs.TX[:length], buf[:length])

	return buf
}

// TransmitAdvertisement initializes the radio if needed, loads buf as the
// TX payload, and starts transmission.
func (r *Radio) TransmitAdvertisement(buf []byte, length int) []byte {
	r.Initialize()
	res := r.SetAdvertisementData(buf, length)
	r.tx()

	return res
}

// ReceiveAdvertisement initializes the radio if needed and starts
// receiving; rx arms the ADDRESS interrupt itself.
func (r *Radio) ReceiveAdvertisement() {
	r.Initialize()
	r.rx()
}

// SetReceiveClient installs the RX callback sink. Weak reference: the radio
// does not own the client's lifetime.
func (r *Radio) SetReceiveClient(c RxClient) {
	r.Lock()
	defer r.Unlock()

	r.rxClient = c
}

// SetTransmitClient installs the TX callback sink.
func (r *Radio) SetTransmitClient(c TxClient) {
	r.Lock()
	defer r.Unlock()

	r.txClient = c
}

// SetAdvertisementClient installs the advertisement callback sink.
func (r *Radio) SetAdvertisementClient(c AdvertisementClient) {
	r.Lock()
	defer r.Unlock()

	r.advertisementClient = c
}

// State returns the radio's current lifecycle state.
func (r *Radio) State() State {
	r.Lock()
	defer r.Unlock()

	return r.state
}

// Channel returns the last channel programmed by SetChannel, or -1 if
// none has been set yet.
func (r *Radio) Channel() int {
	r.Lock()
	defer r.Unlock()

	if r.channel == nil {
		return -1
	}

	return *r.channel
}

// waitUntilDisabled busy-waits while the hardware is mid-transition out of
// TX or RX. Bounded by hardware to a few microseconds (nRF52 Product
// Specification, RADIO electrical specification).
func (r *Radio) waitUntilDisabled() {
	state := r.regs.State()

	if state == STATE_RXDISABLE || state == STATE_TXDISABLE {
		for r.regs.State() == state {
		}
	}
}

// DisableRadio is the only cancellation primitive: it stops all radio
// activity, clears shortcuts, disables PPI channels 20, 21, 23, 25 and 31
// (CH26/CH27, the timestamp captures wired by Initialize, stay enabled),
// disables all interrupts, triggers TASKS_DISABLE, and
// transitions to Initialized. Safe from either thread or interrupt
// context, and idempotent.
func (r *Radio) DisableRadio() {
	r.regs.DisableAllInterrupts()
	r.regs.ClearShorts()
	r.regs.TriggerDisable()

	r.ppi.Disable(ppi.CH20, ppi.CH21, ppi.CH23, ppi.CH25, ppi.CH31)

	r.state = Initialized
}
