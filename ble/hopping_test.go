// https://github.com/usbarmory/tamago-ble
//
// Copyright (c) The TamaGo-BLE Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ble

import "testing"

// allChannelsMap returns a ChannelMap with all 37 data channels marked
// used.
func allChannelsMap() [5]byte {
	return [5]byte{0xff, 0xff, 0xff, 0xff, 0x1f}
}

func TestNextChannelAllChannelsUsedNeverRemaps(t *testing.T) {
	lldata := &LLData{ChannelMap: allChannelsMap(), HopAndSCA: 7}
	c := NewConnectionData(lldata)

	ch, err := c.NextChannel()
	if err != nil {
		t.Fatalf("NextChannel: %v", err)
	}
	if ch != 7 {
		t.Errorf("NextChannel() = %d, want 7 (hop_increment applied to 0)", ch)
	}

	ch, err = c.NextChannel()
	if err != nil {
		t.Fatalf("NextChannel: %v", err)
	}
	if ch != 14 {
		t.Errorf("NextChannel() = %d, want 14", ch)
	}
}

func TestNextChannelRemapsUnusedChannel(t *testing.T) {
	// Channel 7 is excluded; every other channel in [0,36] is used.
	chm := allChannelsMap()
	chm[0] &^= 1 << 7

	lldata := &LLData{ChannelMap: chm, HopAndSCA: 7}
	c := NewConnectionData(lldata)

	// First hop: unmapped = (0+7) % 37 = 7, which is unused.
	// number_used_channels = 36, remapping_index = 7 % 36 = 7.
	// The 8th used channel (0-indexed position 7) in ascending order,
	// skipping channel 7 itself, is channel 8.
	ch, err := c.NextChannel()
	if err != nil {
		t.Fatalf("NextChannel: %v", err)
	}
	if ch != 8 {
		t.Errorf("NextChannel() = %d, want 8", ch)
	}
}

func TestNextChannelWraps(t *testing.T) {
	lldata := &LLData{ChannelMap: allChannelsMap(), HopAndSCA: 20}
	c := NewConnectionData(lldata)

	// unmapped = (0+20) % 37 = 20
	ch, err := c.NextChannel()
	if err != nil {
		t.Fatalf("NextChannel: %v", err)
	}
	if ch != 20 {
		t.Errorf("NextChannel() = %d, want 20", ch)
	}

	// unmapped = (20+20) % 37 = 3
	ch, err = c.NextChannel()
	if err != nil {
		t.Fatalf("NextChannel: %v", err)
	}
	if ch != 3 {
		t.Errorf("NextChannel() = %d, want 3", ch)
	}
}

func TestNextChannelEveryValueInRange(t *testing.T) {
	lldata := &LLData{ChannelMap: allChannelsMap(), HopAndSCA: 11}
	c := NewConnectionData(lldata)

	for i := 0; i < 1000; i++ {
		ch, err := c.NextChannel()
		if err != nil {
			t.Fatalf("NextChannel: %v", err)
		}
		if ch >= NumberDataChannels {
			t.Fatalf("NextChannel() = %d, out of range [0,%d)", ch, NumberDataChannels)
		}
	}
}

func TestNextChannelNoUsedChannelsErrors(t *testing.T) {
	c := NewConnectionData(&LLData{HopAndSCA: 5})

	if _, err := c.NextChannel(); err == nil {
		t.Fatal("NextChannel() with an empty channel map did not error")
	}
}

func TestUpdateLLDataPreservesHopState(t *testing.T) {
	lldata := &LLData{ChannelMap: allChannelsMap(), HopAndSCA: 7}
	c := NewConnectionData(lldata)

	if _, err := c.NextChannel(); err != nil {
		t.Fatalf("NextChannel: %v", err)
	}

	before := c.lastUnmappedChannel

	chm := allChannelsMap()
	chm[4] &^= 1 << 0 // exclude channel 32
	c.UpdateLLData(&LLData{ChannelMap: chm})

	if c.lastUnmappedChannel != before {
		t.Errorf("UpdateLLData changed lastUnmappedChannel: got %d, want %d", c.lastUnmappedChannel, before)
	}
	if c.numberUsedChannels != 36 {
		t.Errorf("numberUsedChannels = %d, want 36", c.numberUsedChannels)
	}
}

func TestHopIncrementAndSCAUnpacking(t *testing.T) {
	d := &LLData{HopAndSCA: 0b101_10101}

	if got := d.HopIncrement(); got != 0b10101 {
		t.Errorf("HopIncrement() = %#b, want %#b", got, 0b10101)
	}
	if got := d.SleepClockAccuracy(); got != 0b101 {
		t.Errorf("SleepClockAccuracy() = %#b, want %#b", got, 0b101)
	}
}

func TestRFChannelMHz(t *testing.T) {
	cases := []struct {
		idx  uint8
		want uint32
	}{
		{0, 4},
		{10, 24},
		{11, 28},
		{36, 78},
	}

	for _, tc := range cases {
		got, err := RFChannelMHz(tc.idx)
		if err != nil {
			t.Fatalf("RFChannelMHz(%d): %v", tc.idx, err)
		}
		if got != tc.want {
			t.Errorf("RFChannelMHz(%d) = %d, want %d", tc.idx, got, tc.want)
		}
	}

	if _, err := RFChannelMHz(37); err == nil {
		t.Error("RFChannelMHz(37) did not error")
	}
}
