// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
//
// +build tamago,arm

package regio

import (
	"sync/atomic"
	"unsafe"
)

// MMIO is a Bus backed by real memory-mapped registers, built only under
// `GOOS=tamago GOARCH=arm`. No package in this tree instantiates it.
type MMIO struct{}

// Read32 atomically loads the 32-bit word at addr.
func (MMIO) Read32(addr uint32) uint32 {
	reg := (*uint32)(unsafe.Pointer(uintptr(addr)))
	return atomic.LoadUint32(reg)
}

// Write32 atomically stores val at addr.
func (MMIO) Write32(addr uint32, val uint32) {
	reg := (*uint32)(unsafe.Pointer(uintptr(addr)))
	atomic.StoreUint32(reg, val)
}
