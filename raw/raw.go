// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raw reads and decodes raw TPC data.
//
// A raw run is a set of binary files, one per readout link. Each file
// carries a sequence of self-describing frames (header + payload),
// each frame belonging to one event. Reader indexes the frame headers
// of every registered file without touching the payloads, and decodes
// one event at a time, on demand, into per-pad ADC sample sequences.
package raw // import "github.com/go-lpc/tpc/raw"

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/xerrors"
)

// Frame kinds, as declared by the dataType field of a frame header.
const (
	KindRaw     uint16 = 1 // serialized chip stream only
	KindDecoded uint16 = 2 // decoded samples only
	KindBoth    uint16 = 3 // both, raw stream used for cross-validation
)

const (
	// HeaderSize is the size in bytes of a frame header on the wire.
	HeaderSize = 32

	headerWords = HeaderSize / 4
)

// Header is the fixed envelope prefixed to every frame.
//
// The three 64-bit fields are transmitted with their high and low
// 32-bit halves swapped; the accessors return the corrected values.
type Header struct {
	DataType uint16 // frame kind (1, 2 or 3)
	Rsvd     uint8
	Version  uint8  // header format revision
	Words    uint32 // header+payload length in 32-bit words

	tstamp uint64 // word-swapped, as on the wire
	evtcnt uint64 // word-swapped
	rsvd2  uint64 // word-swapped
}

// TimeStamp returns the corrected header time stamp.
func (h Header) TimeStamp() uint64 { return bits.RotateLeft64(h.tstamp, 32) }

// EventCount returns the corrected event counter.
func (h Header) EventCount() uint64 { return bits.RotateLeft64(h.evtcnt, 32) }

// Reserved returns the corrected reserved data field.
func (h Header) Reserved() uint64 { return bits.RotateLeft64(h.rsvd2, 32) }

// ParseHeader decodes a frame header from p.
func ParseHeader(p []byte) (Header, error) {
	var hdr Header
	if len(p) < HeaderSize {
		return hdr, xerrors.Errorf("raw: header of %d bytes: %w", len(p), ErrTruncatedHeader)
	}
	hdr.DataType = binary.LittleEndian.Uint16(p[0:2])
	hdr.Rsvd = p[2]
	hdr.Version = p[3]
	hdr.Words = binary.LittleEndian.Uint32(p[4:8])
	hdr.tstamp = binary.LittleEndian.Uint64(p[8:16])
	hdr.evtcnt = binary.LittleEndian.Uint64(p[16:24])
	hdr.rsvd2 = binary.LittleEndian.Uint64(p[24:32])
	return hdr, nil
}
