// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package regio

import "sync"

// Fake is an in-memory Bus used by package tests to drive and observe a
// register map without real hardware. Reads of an address never written
// return zero, matching the power-on reset value convention peripheral
// datasheets use for reserved/undocumented registers.
type Fake struct {
	mu   sync.Mutex
	mem  map[uint32]uint32
}

// NewFake returns an empty Fake bus.
func NewFake() *Fake {
	return &Fake{mem: make(map[uint32]uint32)}
}

func (f *Fake) Read32(addr uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.mem[addr]
}

func (f *Fake) Write32(addr uint32, val uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mem[addr] = val
}

// Poke sets a register value directly, bypassing any write semantics —
// used by tests to simulate hardware-driven register changes (event flags
// set by the peripheral, STATE transitions) that software would never
// itself write.
func (f *Fake) Poke(addr uint32, val uint32) {
	f.Write32(addr, val)
}

// Peek returns a register's current value without going through the
// Get/SetN bit-field helpers — used by tests asserting on raw register
// contents.
func (f *Fake) Peek(addr uint32) uint32 {
	return f.Read32(addr)
}
