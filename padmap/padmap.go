// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package padmap maps front-end channels to local pad positions.
//
// A readout link serves NumChips front-end chips of NumChipChannels
// channels each. The mapping from a (region, link, chip, channel)
// address to the (row, pad) position of the sensor pad it reads out
// is detector geometry: it is provided either by a pure arithmetic
// mapper (Linear) or loaded from the mapping database (FromDB).
package padmap // import "github.com/go-lpc/tpc/padmap"

import (
	"errors"
	"fmt"
)

const (
	NumChips        = 5  // front-end chips per readout link
	NumChipChannels = 32 // channels per front-end chip

	// NumLinkChannels is the number of channels served by one link.
	NumLinkChannels = NumChips * NumChipChannels
)

// ErrChannel is returned when a channel address does not exist
// in the detector geometry.
var ErrChannel = errors.New("padmap: invalid channel address")

// PadPos is the local position of a sensor pad within a readout
// region: pad rows start at 0 in each region.
type PadPos struct {
	Row uint8
	Pad uint8
}

func (p PadPos) String() string {
	return fmt.Sprintf("(row=%d, pad=%d)", p.Row, p.Pad)
}

// Mapper resolves front-end channel addresses to local pad positions.
//
// Implementations must be pure functions of their inputs: no I/O and
// no failure modes beyond reporting an invalid channel address.
type Mapper interface {
	PadOf(region, link, chip, channel uint32) (PadPos, error)
}

// Linear is an arithmetic pad mapper: the channels of a link fill
// consecutive pads row by row, links stack their rows within the
// region. It is the mapping used by test benches, where front-end
// cards are cabled in channel order.
type Linear struct {
	padsPerRow uint32
}

// NewLinear creates a Linear mapper with the given row width.
// A zero or negative width defaults to 16 pads per row.
func NewLinear(padsPerRow int) Linear {
	if padsPerRow <= 0 {
		padsPerRow = 16
	}
	return Linear{padsPerRow: uint32(padsPerRow)}
}

func (m Linear) PadOf(region, link, chip, channel uint32) (PadPos, error) {
	if chip >= NumChips || channel >= NumChipChannels {
		return PadPos{}, fmt.Errorf("%w: region=%d link=%d chip=%d channel=%d",
			ErrChannel, region, link, chip, channel,
		)
	}
	var (
		idx  = chip*NumChipChannels + channel
		rows = NumLinkChannels / m.padsPerRow
		row  = link*rows + idx/m.padsPerRow
		pad  = idx % m.padsPerRow
	)
	return PadPos{Row: uint8(row), Pad: uint8(pad)}, nil
}

var (
	_ Mapper = (*Linear)(nil)
)
