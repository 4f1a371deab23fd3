// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"encoding/binary"

	"golang.org/x/xerrors"

	"github.com/go-lpc/tpc/internal/sampa"
	"github.com/go-lpc/tpc/padmap"
)

// Unpacker decodes the serialized chip stream of one readout link.
// The exact bit layout is hardware-specific: the default
// implementation handles the SAMPA serialization (internal/sampa),
// and may be replaced with WithUnpacker.
//
// samples[chip*padmap.NumChipChannels+channel] holds the ADC samples
// of that channel, one per time bin; sync[lane] is the position of the
// synchronization pattern within that decode lane. Implementations
// report an unlocatable sync pattern by wrapping ErrSyncMismatch and
// a malformed stream by wrapping ErrTruncatedPayload.
type Unpacker interface {
	Unpack(p []byte) (samples [][]uint16, sync [padmap.NumChips]int16, err error)
}

// sampaUnpacker adapts the internal/sampa stream decoder to the
// Unpacker error contract.
type sampaUnpacker struct{}

func (sampaUnpacker) Unpack(p []byte) ([][]uint16, [padmap.NumChips]int16, error) {
	samples, sync, err := sampa.Unpack(p)
	switch {
	case err == nil:
		return samples, sync, nil
	case xerrors.Is(err, sampa.ErrNoSync):
		return nil, sync, xerrors.Errorf("%v: %w", err, ErrSyncMismatch)
	default:
		return nil, sync, xerrors.Errorf("%v: %w", err, ErrTruncatedPayload)
	}
}

// decodeRecord reads and decodes the frame payload of one index
// record into per-channel sample sequences.
func (r *Reader) decodeRecord(rec Record) ([][]uint16, [padmap.NumChips]int16, error) {
	var sync [padmap.NumChips]int16

	src, ok := r.files[rec.Path]
	if !ok {
		return nil, sync, xerrors.Errorf("raw: no open file %q: %w", rec.Path, ErrUnavailable)
	}

	p := make([]byte, int64(rec.Hdr.Words)*4-HeaderSize)
	if _, err := src.r.ReadAt(p, rec.Off+HeaderSize); err != nil {
		return nil, sync, xerrors.Errorf("raw: could not read payload at %q+%d: %v: %w",
			rec.Path, rec.Off, err, ErrTruncatedPayload,
		)
	}

	switch rec.Hdr.DataType {
	case KindRaw:
		return r.unpack.Unpack(p)

	case KindDecoded:
		samples, err := decodeSamples(p)
		return samples, sync, err

	case KindBoth:
		if len(p) < 4 {
			return nil, sync, xerrors.Errorf("raw: dual frame of %d bytes: %w", len(p), ErrTruncatedPayload)
		}
		end := 4 + 2*int(binary.LittleEndian.Uint32(p[:4]))
		if end > len(p) {
			return nil, sync, xerrors.Errorf("raw: dual frame raw stream of %d bytes overflows payload: %w",
				end-4, ErrTruncatedPayload,
			)
		}
		rawSamples, sync, err := r.unpack.Unpack(p[4:end])
		if err != nil {
			return nil, sync, err
		}
		decSamples, err := decodeSamples(p[end:])
		if err != nil {
			return nil, sync, err
		}
		// The decoded portion is authoritative; the raw stream
		// exists solely to cross-check it.
		if err := crossCheck(rawSamples, decSamples); err != nil {
			return nil, sync, err
		}
		return decSamples, sync, nil

	default:
		return nil, sync, xerrors.Errorf("raw: frame kind %d: %w", rec.Hdr.DataType, ErrUnknownFrameKind)
	}
}

// decodeSamples reads a decoded-representation stream: uint16 samples,
// channel-major, with a fixed per-channel stride.
func decodeSamples(p []byte) ([][]uint16, error) {
	const stride = 2 * padmap.NumLinkChannels
	if len(p)%stride != 0 {
		return nil, xerrors.Errorf("raw: decoded stream of %d bytes: %w", len(p), ErrTruncatedPayload)
	}

	var (
		nbins   = len(p) / stride
		samples = make([][]uint16, padmap.NumLinkChannels)
	)
	for i := range samples {
		samples[i] = make([]uint16, nbins)
		for t := 0; t < nbins; t++ {
			samples[i][t] = binary.LittleEndian.Uint16(p[(i*nbins+t)*2:])
		}
	}
	return samples, nil
}

// crossCheck compares, channel by channel, the sample sequences
// derived from the raw stream with the decoded ones, after sync
// alignment. The raw stream must cover at least the decoded time
// bins and agree on every sample.
func crossCheck(raw, dec [][]uint16) error {
	for i := range dec {
		if len(raw[i]) < len(dec[i]) {
			return xerrors.Errorf("raw: channel %d: raw stream has %d bins, decoded %d: %w",
				i, len(raw[i]), len(dec[i]), ErrSyncMismatch,
			)
		}
		for t, v := range dec[i] {
			if raw[i][t] != v {
				return xerrors.Errorf("raw: channel %d bin %d: raw=%d decoded=%d: %w",
					i, t, raw[i][t], v, ErrSyncMismatch,
				)
			}
		}
	}
	return nil
}
