// Nordic nRF52 2.4 GHz RADIO peripheral register map
// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import "github.com/usbarmory/tamago-ble/internal/regio"

// Register offsets and bit fields
// (nRF52 Product Specification, chapter "RADIO — 2.4 GHz Radio").
const (
	RADIO_TASKS_TXEN    = 0x000
	RADIO_TASKS_RXEN    = 0x004
	RADIO_TASKS_START   = 0x008
	RADIO_TASKS_STOP    = 0x00c
	RADIO_TASKS_DISABLE = 0x010
	RADIO_TASKS_BCSTART = 0x01c
	RADIO_TASKS_BCSTOP  = 0x020

	RADIO_EVENTS_READY    = 0x100
	RADIO_EVENTS_ADDRESS  = 0x104
	RADIO_EVENTS_END      = 0x10c
	RADIO_EVENTS_DISABLED = 0x110
	RADIO_EVENTS_DEVMATCH = 0x114
	RADIO_EVENTS_RSSIEND  = 0x11c
	RADIO_EVENTS_BCMATCH  = 0x128
	RADIO_EVENTS_CRCOK    = 0x130
	RADIO_EVENTS_CRCERROR = 0x134

	RADIO_SHORTS = 0x200
	// bit positions within SHORTS
	SHORTS_READY_START    = 0
	SHORTS_END_DISABLE    = 1
	SHORTS_ADDRESS_BCSTART = 11

	RADIO_INTENSET = 0x304
	RADIO_INTENCLR = 0x308
	// bit positions shared by INTENSET/INTENCLR
	INTEN_READY    = 0
	INTEN_ADDRESS  = 1
	INTEN_END      = 3
	INTEN_DISABLED = 4

	RADIO_CRCSTATUS = 0x400

	RADIO_PACKETPTR   = 0x504
	RADIO_FREQUENCY   = 0x508
	RADIO_TXPOWER     = 0x50c
	RADIO_MODE        = 0x510
	RADIO_PCNF0       = 0x514
	RADIO_PCNF1       = 0x518
	RADIO_BASE0       = 0x51c
	RADIO_PREFIX0     = 0x524
	RADIO_TXADDRESS   = 0x52c
	RADIO_RXADDRESSES = 0x530
	RADIO_CRCCNF      = 0x534
	RADIO_CRCPOLY     = 0x538
	RADIO_CRCINIT     = 0x53c
	RADIO_TIFS        = 0x544
	RADIO_STATE       = 0x550
	RADIO_DATAWHITEIV = 0x554
	RADIO_BCC         = 0x560
	RADIO_MODECNF0    = 0x650
	RADIO_POWER       = 0xffc

	// PCNF0 fields
	PCNF0_LFLEN_POS   = 0
	PCNF0_LFLEN_MASK  = 0xf
	PCNF0_S0LEN_POS   = 8
	PCNF0_S0LEN_MASK  = 0x1
	PCNF0_S1LEN_POS   = 16
	PCNF0_S1LEN_MASK  = 0xf
	PCNF0_PLEN_POS    = 24
	PCNF0_PLEN_MASK   = 0x3

	PCNF0_LFLEN_8BIT = 8
	PCNF0_S0LEN_1B   = 1
	PCNF0_S1LEN_0B   = 0
	PCNF0_PLEN_8BIT  = 0

	// PCNF1 fields
	PCNF1_MAXLEN_POS  = 0
	PCNF1_MAXLEN_MASK = 0xff
	PCNF1_STATLEN_POS  = 8
	PCNF1_STATLEN_MASK = 0xff
	PCNF1_BALEN_POS   = 16
	PCNF1_BALEN_MASK  = 0x7
	PCNF1_ENDIAN_POS  = 24
	PCNF1_ENDIAN_MASK = 0x1
	PCNF1_WHITEEN_POS = 25
	PCNF1_WHITEEN_MASK = 0x1

	PCNF1_ENDIAN_LITTLE     = 0
	PCNF1_BALEN_3BYTES      = 3
	PCNF1_STATLEN_NOEXTEND  = 0
	PCNF1_MAXLEN_255BYTES   = 255
	PCNF1_WHITEEN_ENABLED   = 1

	// CRCCNF fields
	CRCCNF_LEN_POS      = 0
	CRCCNF_LEN_MASK     = 0x3
	CRCCNF_SKIPADDR_POS = 8
	CRCCNF_SKIPADDR_MASK = 0x3

	CRCCNF_LEN_3BYTES       = 3
	CRCCNF_SKIPADDR_SKIP    = 1

	// MODE values
	MODE_BLE_1MBIT = 3

	// MODECNF0 fields
	MODECNF0_RU_POS = 0
	MODECNF0_RU_FAST = 1

	// STATE values (RADIO.STATE.STATE)
	STATE_DISABLED   = 0
	STATE_RXRU       = 1
	STATE_RXIDLE     = 2
	STATE_RX         = 3
	STATE_RXDISABLE  = 4
	STATE_TXRU       = 9
	STATE_TXIDLE     = 10
	STATE_TX         = 11
	STATE_TXDISABLE  = 12

	// BLE-specific constants (Bluetooth Core Specification, Vol 6, Part B)
	CRCPOLY_BLE = 0x0000065b
	CRCINIT_BLE_ADV = 0x00555555
	ACCESS_ADDRESS_ADV = 0x8e89bed6
)

// Registers is a typed overlay of the RADIO peripheral's memory-mapped
// registers. It resolves Base into absolute register addresses once, and
// carries no state or logic of its own — every method is a thin,
// volatile-ordered Get/Set through regio.
//
// Grounded on the register-map struct convention used throughout this
// codebase (soc/nxp/enet.ENET, soc/nxp/usdhc.USDHC): named offset
// constants plus a struct resolving Base once in Init.
type Registers struct {
	Base uint32
	Bus  regio.Bus
}

func (r *Registers) addr(offset uint32) uint32 {
	return r.Base + offset
}

func (r *Registers) writeTask(offset uint32) {
	regio.Write(r.Bus, r.addr(offset), 1)
}

func (r *Registers) TriggerTXEN()    { r.writeTask(RADIO_TASKS_TXEN) }
func (r *Registers) TriggerRXEN()    { r.writeTask(RADIO_TASKS_RXEN) }
func (r *Registers) TriggerStart()   { r.writeTask(RADIO_TASKS_START) }
func (r *Registers) TriggerStop()    { r.writeTask(RADIO_TASKS_STOP) }
func (r *Registers) TriggerDisable() { r.writeTask(RADIO_TASKS_DISABLE) }

func (r *Registers) EventReady() bool    { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_READY)) != 0 }
func (r *Registers) EventAddress() bool  { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_ADDRESS)) != 0 }
func (r *Registers) EventEnd() bool      { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_END)) != 0 }
func (r *Registers) EventDisabled() bool { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_DISABLED)) != 0 }
func (r *Registers) EventBCMatch() bool  { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_BCMATCH)) != 0 }
func (r *Registers) EventCRCOk() bool    { return regio.Read(r.Bus, r.addr(RADIO_EVENTS_CRCOK)) != 0 }

func (r *Registers) ClearEventReady()    { regio.Write(r.Bus, r.addr(RADIO_EVENTS_READY), 0) }
func (r *Registers) ClearEventAddress()  { regio.Write(r.Bus, r.addr(RADIO_EVENTS_ADDRESS), 0) }
func (r *Registers) ClearEventEnd()      { regio.Write(r.Bus, r.addr(RADIO_EVENTS_END), 0) }
func (r *Registers) ClearEventDisabled() { regio.Write(r.Bus, r.addr(RADIO_EVENTS_DISABLED), 0) }
func (r *Registers) ClearEventDevmatch() { regio.Write(r.Bus, r.addr(RADIO_EVENTS_DEVMATCH), 0) }
func (r *Registers) ClearEventRSSIEnd()  { regio.Write(r.Bus, r.addr(RADIO_EVENTS_RSSIEND), 0) }
func (r *Registers) ClearEventBCMatch()  { regio.Write(r.Bus, r.addr(RADIO_EVENTS_BCMATCH), 0) }
func (r *Registers) ClearEventCRCOk()    { regio.Write(r.Bus, r.addr(RADIO_EVENTS_CRCOK), 0) }

func (r *Registers) SetShorts(mask uint32)  { regio.Write(r.Bus, r.addr(RADIO_SHORTS), mask) }
func (r *Registers) ClearShorts()           { regio.Write(r.Bus, r.addr(RADIO_SHORTS), 0) }

// EnableInterrupt sets the given bits in the enabled-interrupt bitmap.
// INTENSET and INTENCLR are two addresses onto the same underlying
// flip-flops on real silicon (writing 1 to INTENSET sets, to INTENCLR
// clears, and either reads back the full enabled set) — this is
// reproduced here with an explicit read-modify-write so host tests
// against internal/regio.Fake, which has no notion of register aliasing,
// observe the same enabled-bitmap semantics as real hardware.
func (r *Registers) EnableInterrupt(mask uint32) {
	cur := regio.Read(r.Bus, r.addr(RADIO_INTENSET))
	regio.Write(r.Bus, r.addr(RADIO_INTENSET), cur|mask)
}

func (r *Registers) DisableInterrupt(mask uint32) {
	regio.Write(r.Bus, r.addr(RADIO_INTENCLR), mask)
	cur := regio.Read(r.Bus, r.addr(RADIO_INTENSET))
	regio.Write(r.Bus, r.addr(RADIO_INTENSET), cur&^mask)
}

func (r *Registers) DisableAllInterrupts() {
	regio.Write(r.Bus, r.addr(RADIO_INTENCLR), 0xffffffff)
	regio.Write(r.Bus, r.addr(RADIO_INTENSET), 0)
}

// EnabledInterrupts returns the currently-enabled interrupt bitmap.
func (r *Registers) EnabledInterrupts() uint32 { return regio.Read(r.Bus, r.addr(RADIO_INTENSET)) }

func (r *Registers) SetPacketPtr(addr uint32) { regio.Write(r.Bus, r.addr(RADIO_PACKETPTR), addr) }

func (r *Registers) SetFrequency(channel uint32)  { regio.Write(r.Bus, r.addr(RADIO_FREQUENCY), channel) }
func (r *Registers) SetTxPower(val uint32)        { regio.Write(r.Bus, r.addr(RADIO_TXPOWER), val) }
func (r *Registers) SetMode(val uint32)           { regio.Write(r.Bus, r.addr(RADIO_MODE), val) }
func (r *Registers) SetPCNF0(val uint32)          { regio.Write(r.Bus, r.addr(RADIO_PCNF0), val) }
func (r *Registers) SetPCNF1(val uint32)          { regio.Write(r.Bus, r.addr(RADIO_PCNF1), val) }
func (r *Registers) SetTxAddress(val uint32)      { regio.Write(r.Bus, r.addr(RADIO_TXADDRESS), val) }
func (r *Registers) SetRxAddresses(val uint32)    { regio.Write(r.Bus, r.addr(RADIO_RXADDRESSES), val) }
func (r *Registers) SetCRCCNF(val uint32)         { regio.Write(r.Bus, r.addr(RADIO_CRCCNF), val) }
func (r *Registers) SetCRCPoly(val uint32)        { regio.Write(r.Bus, r.addr(RADIO_CRCPOLY), val) }
func (r *Registers) SetCRCInit(val uint32)        { regio.Write(r.Bus, r.addr(RADIO_CRCINIT), val) }
func (r *Registers) SetTIFS(val uint32)           { regio.Write(r.Bus, r.addr(RADIO_TIFS), val) }
func (r *Registers) SetDataWhiteIV(val uint32)    { regio.Write(r.Bus, r.addr(RADIO_DATAWHITEIV), val) }
func (r *Registers) SetBCC(val uint32)            { regio.Write(r.Bus, r.addr(RADIO_BCC), val) }
func (r *Registers) SetModeCnf0(val uint32)       { regio.Write(r.Bus, r.addr(RADIO_MODECNF0), val) }
func (r *Registers) SetPower(val uint32)          { regio.Write(r.Bus, r.addr(RADIO_POWER), val) }

func (r *Registers) PCNF0() uint32 { return regio.Read(r.Bus, r.addr(RADIO_PCNF0)) }
func (r *Registers) PCNF1() uint32 { return regio.Read(r.Bus, r.addr(RADIO_PCNF1)) }
func (r *Registers) CRCCNF() uint32 { return regio.Read(r.Bus, r.addr(RADIO_CRCCNF)) }
func (r *Registers) CRCPoly() uint32 { return regio.Read(r.Bus, r.addr(RADIO_CRCPOLY)) }
func (r *Registers) TIFS() uint32 { return regio.Read(r.Bus, r.addr(RADIO_TIFS)) }
func (r *Registers) Mode() uint32 { return regio.Read(r.Bus, r.addr(RADIO_MODE)) }
func (r *Registers) Shorts() uint32 { return regio.Read(r.Bus, r.addr(RADIO_SHORTS)) }
func (r *Registers) PacketPtr() uint32 { return regio.Read(r.Bus, r.addr(RADIO_PACKETPTR)) }

func (r *Registers) SetPrefix0Hi8(hi8 uint32) {
	regio.SetN(r.Bus, r.addr(RADIO_PREFIX0), 0, 0xff, hi8)
}

func (r *Registers) Prefix0() uint32 { return regio.Read(r.Bus, r.addr(RADIO_PREFIX0)) }

func (r *Registers) SetBase0(val uint32) { regio.Write(r.Bus, r.addr(RADIO_BASE0), val) }
func (r *Registers) Base0() uint32       { return regio.Read(r.Bus, r.addr(RADIO_BASE0)) }

// State returns the hardware RADIO.STATE register.
func (r *Registers) State() uint32 { return regio.Read(r.Bus, r.addr(RADIO_STATE)) }

func (r *Registers) IsDisabled() bool {
	return r.State() == STATE_DISABLED
}
