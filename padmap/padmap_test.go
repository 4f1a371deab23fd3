// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package padmap

import (
	"errors"
	"testing"
)

func TestLinear(t *testing.T) {
	for _, tc := range []struct {
		name       string
		padsPerRow int
		link       uint32
		chip       uint32
		channel    uint32
		want       PadPos
	}{
		{name: "origin", link: 0, chip: 0, channel: 0, want: PadPos{Row: 0, Pad: 0}},
		{name: "row-wrap", link: 0, chip: 0, channel: 16, want: PadPos{Row: 1, Pad: 0}},
		{name: "mid-chip", link: 0, chip: 2, channel: 5, want: PadPos{Row: 4, Pad: 5}},
		{name: "last-channel", link: 0, chip: 4, channel: 31, want: PadPos{Row: 9, Pad: 15}},
		{name: "link-stacking", link: 1, chip: 0, channel: 0, want: PadPos{Row: 10, Pad: 0}},
		{name: "last-pad", link: 1, chip: 4, channel: 31, want: PadPos{Row: 19, Pad: 15}},
		{name: "wide-rows", padsPerRow: 32, link: 1, chip: 1, channel: 3, want: PadPos{Row: 6, Pad: 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := NewLinear(tc.padsPerRow)
			got, err := m.PadOf(0, tc.link, tc.chip, tc.channel)
			if err != nil {
				t.Fatalf("could not map channel: %+v", err)
			}
			if got != tc.want {
				t.Fatalf("invalid pad: got=%v, want=%v", got, tc.want)
			}
		})
	}
}

func TestLinearInvalidChannel(t *testing.T) {
	m := NewLinear(0)
	for _, tc := range []struct {
		chip    uint32
		channel uint32
	}{
		{chip: NumChips, channel: 0},
		{chip: 0, channel: NumChipChannels},
	} {
		_, err := m.PadOf(0, 0, tc.chip, tc.channel)
		if !errors.Is(err, ErrChannel) {
			t.Errorf("chip=%d channel=%d: invalid error: got=%+v, want=%+v",
				tc.chip, tc.channel, err, ErrChannel,
			)
		}
	}
}

func TestPadPosString(t *testing.T) {
	p := PadPos{Row: 4, Pad: 5}
	if got, want := p.String(), "(row=4, pad=5)"; got != want {
		t.Fatalf("invalid string: got=%q, want=%q", got, want)
	}
}
