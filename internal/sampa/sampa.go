// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sampa unpacks the serialized sample stream of the SAMPA
// front-end chips of one readout link.
//
// The link stream is a sequence of little-endian 16-bit half-words,
// time-multiplexed over NumLanes decode lanes: half-word i belongs to
// lane i%NumLanes, one lane per chip. Each lane stream starts with an
// arbitrary preamble, followed by one sync half-word (SyncPattern) and
// then complete rounds of ChansPerLane channel samples, one round per
// time bin. Partial trailing rounds carry no data and are dropped.
package sampa // import "github.com/go-lpc/tpc/internal/sampa"

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

const (
	NumLanes     = 5  // parallel decode lanes (one per chip)
	ChansPerLane = 32 // channels per chip

	// SyncPattern is the half-word marking the start of data in
	// each lane stream.
	SyncPattern uint16 = 0x2b5
)

var (
	ErrNoSync    = xerrors.New("sampa: no sync pattern")
	ErrOddStream = xerrors.New("sampa: odd stream length")
)

// Unpack decodes the link stream p into per-channel sample sequences.
//
// samples[chip*ChansPerLane+channel] holds the ADC samples of that
// channel, one per time bin. sync[l] is the index, within lane l's
// stream, of the sync half-word.
func Unpack(p []byte) (samples [][]uint16, sync [NumLanes]int16, err error) {
	if len(p)%2 != 0 {
		return nil, sync, xerrors.Errorf("sampa: stream of %d bytes: %w", len(p), ErrOddStream)
	}

	var lanes [NumLanes][]uint16
	for i := 0; i*2 < len(p); i++ {
		lanes[i%NumLanes] = append(lanes[i%NumLanes], binary.LittleEndian.Uint16(p[i*2:]))
	}

	samples = make([][]uint16, NumLanes*ChansPerLane)
	for l, lane := range lanes {
		pos := -1
		for i, v := range lane {
			if v == SyncPattern {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, sync, xerrors.Errorf("sampa: lane %d: %w", l, ErrNoSync)
		}
		sync[l] = int16(pos)

		var (
			data  = lane[pos+1:]
			nbins = len(data) / ChansPerLane
		)
		for c := 0; c < ChansPerLane; c++ {
			idx := l*ChansPerLane + c
			samples[idx] = make([]uint16, nbins)
			for t := 0; t < nbins; t++ {
				samples[idx][t] = data[t*ChansPerLane+c]
			}
		}
	}

	return samples, sync, nil
}

// Pack serializes per-channel samples into a link stream that Unpack
// inverts. samples must hold NumLanes*ChansPerLane channels with equal
// sample counts; sync gives the per-lane preamble length (idle
// half-words before the sync pattern). Lane streams are padded at the
// tail with idle half-words to a common, even length; the spread of
// sync positions must stay below one round so that the padding never
// amounts to a full (spurious) time bin.
func Pack(samples [][]uint16, sync [NumLanes]int16) ([]byte, error) {
	if len(samples) != NumLanes*ChansPerLane {
		return nil, xerrors.Errorf("sampa: invalid channel count %d", len(samples))
	}
	nbins := len(samples[0])
	for i, smp := range samples {
		if len(smp) != nbins {
			return nil, xerrors.Errorf("sampa: channel %d has %d samples, want %d", i, len(smp), nbins)
		}
	}

	var lanes [NumLanes][]uint16
	size := 0
	for l := 0; l < NumLanes; l++ {
		if sync[l] < 0 {
			return nil, xerrors.Errorf("sampa: invalid sync position %d for lane %d", sync[l], l)
		}
		lane := make([]uint16, 0, int(sync[l])+1+nbins*ChansPerLane)
		lane = append(lane, make([]uint16, sync[l])...) // idle preamble
		lane = append(lane, SyncPattern)
		for t := 0; t < nbins; t++ {
			for c := 0; c < ChansPerLane; c++ {
				lane = append(lane, samples[l*ChansPerLane+c][t])
			}
		}
		lanes[l] = lane
		if len(lane) > size {
			size = len(lane)
		}
	}
	if size%2 != 0 {
		size++
	}

	for l := range lanes {
		pad := size - len(lanes[l])
		if pad >= ChansPerLane {
			return nil, xerrors.Errorf("sampa: sync spread across lanes exceeds one round")
		}
		lanes[l] = append(lanes[l], make([]uint16, pad)...)
	}

	out := make([]byte, 2*NumLanes*size)
	for i := 0; i < NumLanes*size; i++ {
		binary.LittleEndian.PutUint16(out[i*2:], lanes[i%NumLanes][i/NumLanes])
	}
	return out, nil
}
