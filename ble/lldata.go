// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package ble implements the link-layer connection parameters and channel
// hopping algorithm (Bluetooth Core Specification, Vol 6, Part B, section
// 4.5.8) used once a CONNECT_IND has moved a link from advertising to a
// data connection.
package ble

// LLData holds the connection parameters carried by a CONNECT_IND PDU
// (Bluetooth Core Specification, Vol 6, Part B, section 2.3.3.1).
type LLData struct {
	AccessAddress uint32
	CRCInit       uint32
	WinSize       uint8
	WinOffset     uint16
	Interval      uint16
	Latency       uint16
	Timeout       uint16
	// ChannelMap is the 37-bit (5-byte) used-channel bitmap, one bit per
	// data channel index, LSB of ChannelMap[0] is channel 0.
	ChannelMap [5]byte
	// HopAndSCA packs the hop increment (low 5 bits) and the
	// advertiser's sleep clock accuracy (high 3 bits).
	HopAndSCA uint8
}

// HopIncrement returns the connection's hop increment, a value in [5,16]
// per the specification's random-selection requirement, though this type
// does not itself enforce that range — it only unpacks what the peer sent.
func (d *LLData) HopIncrement() uint8 {
	return d.HopAndSCA & 0x1f
}

// SleepClockAccuracy returns the encoded SCA field (Bluetooth Core
// Specification, Vol 6, Part B, section 2.3.3.1, Table 2.5).
func (d *LLData) SleepClockAccuracy() uint8 {
	return (d.HopAndSCA >> 5) & 0x7
}
