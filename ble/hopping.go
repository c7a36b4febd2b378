// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ble

import "fmt"

// NumberDataChannels and NumberChannels are fixed by the Bluetooth Core
// Specification (Vol 6, Part B, section 1.4.1): 37 data channels plus the
// 3 advertising channels the channel map never covers.
const (
	NumberDataChannels = 37
	NumberChannels     = 40
)

// channelMap is a per-data-channel-index used/unused bitmap, expanded from
// the 5-byte wire representation for O(1) lookup.
type channelMap [NumberDataChannels]bool

// ConnectionData tracks the channel selection algorithm's state across a
// connection's lifetime (Bluetooth Core Specification, Vol 6, Part B,
// section 4.5.8.2, "Channel Selection algorithm #1").
type ConnectionData struct {
	lastUnmappedChannel uint8
	channels            channelMap
	numberUsedChannels  uint8
	hopIncrement        uint8
	connEventCounter    uint16
}

// NewConnectionData builds connection state from a CONNECT_IND's LLData.
func NewConnectionData(lldata *LLData) *ConnectionData {
	channels, used := expandChannelMap(lldata.ChannelMap)

	return &ConnectionData{
		channels:           channels,
		numberUsedChannels: used,
		hopIncrement:       lldata.HopIncrement(),
	}
}

// UpdateLLData refreshes the channel map and used-channel count from a
// Channel Map Update (LL_CHANNEL_MAP_IND), without resetting
// lastUnmappedChannel: the hop sequence is defined over the channel index
// space, not the content of any particular map, so a map update takes
// effect starting from wherever the hop sequence currently is.
func (c *ConnectionData) UpdateLLData(lldata *LLData) {
	channels, used := expandChannelMap(lldata.ChannelMap)

	c.channels = channels
	c.numberUsedChannels = used
}

// expandChannelMap turns the 5-byte wire bitmap (LSB of byte 0 is channel
// 0) into a bool-indexed lookup table and counts the used channels. Only
// the first 37 bits are significant; bits 37-39 of the last byte are ignored.
func expandChannelMap(chm [5]byte) (channelMap, uint8) {
	var channels channelMap
	var used uint8

	for i, b := range chm {
		for j := 0; j < 8; j++ {
			if b&1 == 1 && i*8+j < NumberDataChannels {
				channels[i*8+j] = true
				used++
			}
			b >>= 1
		}
	}

	return channels, used
}

// NextChannel advances the hop sequence by one connection event and
// returns the data channel index to use (Bluetooth Core Specification,
// Vol 6, Part B, section 4.5.8.2).
func (c *ConnectionData) NextChannel() (uint8, error) {
	if c.numberUsedChannels == 0 {
		return 0, fmt.Errorf("ble: channel map has no used channels")
	}

	unmapped := (c.lastUnmappedChannel + c.hopIncrement) % NumberDataChannels
	c.lastUnmappedChannel = unmapped
	c.connEventCounter++

	if c.channels[unmapped] {
		return unmapped, nil
	}

	return c.remap(unmapped), nil
}

// remap implements the unused-channel remapping table: the unmapped index
// is taken modulo the number of used channels, and that position is
// looked up in the ordered list of used channel indices.
func (c *ConnectionData) remap(unmapped uint8) uint8 {
	remappingIndex := unmapped % c.numberUsedChannels

	var idx uint8

	for i := 0; i < NumberDataChannels; i++ {
		if c.channels[i] {
			if idx == remappingIndex {
				return uint8(i)
			}
			idx++
		}
	}

	// Unreachable: numberUsedChannels is the exact count of true entries
	// in channels[0:NumberDataChannels], so remappingIndex always lands
	// on one of them.
	panic("ble: remap table exhausted without a match")
}

// ConnEventCounter returns the number of connection events hopped so far.
func (c *ConnectionData) ConnEventCounter() uint16 {
	return c.connEventCounter
}

// RFChannelMHz returns the RADIO.FREQUENCY register value (MHz above 2400
// MHz) for a given data channel index (Bluetooth Core Specification,
// Vol 6, Part B, section 1.4.1, Table 1.2).
func RFChannelMHz(dataChannelIndex uint8) (uint32, error) {
	switch {
	case dataChannelIndex <= 10:
		return 4 + 2*uint32(dataChannelIndex), nil
	case dataChannelIndex <= 36:
		return 28 + 2*(uint32(dataChannelIndex)-11), nil
	default:
		return 0, fmt.Errorf("ble: invalid data channel index %d", dataChannelIndex)
	}
}
