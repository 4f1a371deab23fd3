// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"encoding/binary"
	"io"
	"math/bits"

	"golang.org/x/xerrors"

	"github.com/go-lpc/tpc/padmap"
)

// Frame is one frame to be written to a link file, with logical
// (unswapped) header values. Frames are produced by test benches and
// the tpc-gen command; real data comes from the front-end cards.
type Frame struct {
	Kind       uint16
	Version    uint8
	TimeStamp  uint64
	EventCount uint64
	Reserved   uint64
	Payload    []byte // must be 32-bit aligned
}

// Encoder writes frames to an output stream, applying the on-wire
// word swap to the 64-bit header fields.
type Encoder struct {
	w   io.Writer
	buf []byte
	err error
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: make([]byte, 8),
	}
}

// Encode writes the frame header and payload to the stream.
func (enc *Encoder) Encode(f *Frame) error {
	if f == nil {
		return nil
	}
	if len(f.Payload)%4 != 0 {
		return xerrors.Errorf("raw: payload of %d bytes is not 32-bit aligned", len(f.Payload))
	}

	enc.writeU16(f.Kind)
	enc.writeU8(0)
	enc.writeU8(f.Version)
	enc.writeU32(uint32(headerWords + len(f.Payload)/4))
	enc.writeU64sw(f.TimeStamp)
	enc.writeU64sw(f.EventCount)
	enc.writeU64sw(f.Reserved)
	enc.write(f.Payload)

	if enc.err != nil {
		return xerrors.Errorf("raw: could not encode frame: %w", enc.err)
	}
	return nil
}

func (enc *Encoder) write(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

func (enc *Encoder) writeU8(v uint8) {
	enc.buf[0] = v
	enc.write(enc.buf[:1])
}

func (enc *Encoder) writeU16(v uint16) {
	binary.LittleEndian.PutUint16(enc.buf[:2], v)
	enc.write(enc.buf[:2])
}

func (enc *Encoder) writeU32(v uint32) {
	binary.LittleEndian.PutUint32(enc.buf[:4], v)
	enc.write(enc.buf[:4])
}

// writeU64sw writes v with its 32-bit halves swapped, as the
// front-end cards do.
func (enc *Encoder) writeU64sw(v uint64) {
	binary.LittleEndian.PutUint64(enc.buf[:8], bits.RotateLeft64(v, 32))
	enc.write(enc.buf[:8])
}

// DecodedPayload serializes per-channel samples into the
// decoded-representation stream (the inverse of what a KindDecoded
// frame decodes to). samples must hold padmap.NumLinkChannels
// channels with equal sample counts.
func DecodedPayload(samples [][]uint16) ([]byte, error) {
	if len(samples) != padmap.NumLinkChannels {
		return nil, xerrors.Errorf("raw: invalid channel count %d", len(samples))
	}
	nbins := len(samples[0])
	for i, smp := range samples {
		if len(smp) != nbins {
			return nil, xerrors.Errorf("raw: channel %d has %d samples, want %d", i, len(smp), nbins)
		}
	}

	p := make([]byte, 2*padmap.NumLinkChannels*nbins)
	for i, smp := range samples {
		for t, v := range smp {
			binary.LittleEndian.PutUint16(p[(i*nbins+t)*2:], v)
		}
	}
	return p, nil
}

// DualPayload assembles a KindBoth payload from a raw link stream and
// a decoded-representation stream.
func DualPayload(rawStream, decoded []byte) ([]byte, error) {
	if len(rawStream)%2 != 0 {
		return nil, xerrors.Errorf("raw: raw stream of %d bytes is not half-word aligned", len(rawStream))
	}
	p := make([]byte, 4, 4+len(rawStream)+len(decoded))
	binary.LittleEndian.PutUint32(p, uint32(len(rawStream)/2))
	p = append(p, rawStream...)
	p = append(p, decoded...)
	return p, nil
}
