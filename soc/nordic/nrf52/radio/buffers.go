// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import "github.com/usbarmory/tamago-ble/dma"

// PayloadMaxLength is the radio payload buffer length: 1 byte S0 + 1 byte
// LENGTH + up to 255 bytes PDU, rounded up to a word-aligned 260.
const PayloadMaxLength = 260

// Buffers holds the two fixed-size, DMA-addressable byte buffers whose
// addresses are handed to the peripheral's PACKETPTR register. The radio
// writes RX while and only while the peripheral is in RX state, and reads
// TX while and only while in TX state (see radio.Radio for the state
// machine enforcing this).
type Buffers struct {
	TX []byte
	RX []byte
}

// Allocator obtains a DMA-addressable, physically stable buffer of the
// given size. dmaAllocator below reserves the buffer from the global DMA
// region, exactly as soc/nxp/usdhc and soc/nxp/enet do for their
// descriptor rings; it is not selected by default. A nil Allocator selects
// plainAllocator, a make()-backed allocator that tests also use, since a
// host build has no DMA region to reserve from.
type Allocator func(size int) []byte

// dmaAllocator reserves a buffer from the tamago DMA region (dma.Reserve),
// matching the allocation strategy used by every other DMA-driven
// peripheral in this codebase.
func dmaAllocator(size int) []byte {
	_, buf := dma.Reserve(size, 0)
	return buf
}

// plainAllocator is used when no Allocator is supplied — by host-side
// tests, and by any caller that does not need a physically addressable
// buffer (e.g. exercising the protocol logic off-target).
func plainAllocator(size int) []byte {
	return make([]byte, size)
}

// NewBuffers allocates a fresh TX/RX buffer pair. A nil alloc defaults to
// plainAllocator.
func NewBuffers(alloc Allocator) *Buffers {
	if alloc == nil {
		alloc = plainAllocator
	}

	return &Buffers{
		TX: alloc(PayloadMaxLength),
		RX: alloc(PayloadMaxLength),
	}
}
