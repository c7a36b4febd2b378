// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package radio

import "unsafe"

// addressOf returns the address the PACKETPTR register must be loaded
// with to have the RADIO peripheral read or write buf via DMA. On target,
// buf is backed by a DMA region reservation (see Buffers/Allocator) so its
// address is both a valid Go pointer and a valid bus address; the same
// conversion is used by every other DMA-driven peripheral in this
// codebase (soc/nxp/usdhc, soc/nxp/enet).
func addressOf(buf []byte) uint32 {
	if len(buf) == 0 {
		return 0
	}

	return uint32(uintptr(unsafe.Pointer(&buf[0])))
}
