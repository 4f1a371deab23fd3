// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"

	"github.com/go-lpc/tpc/padmap"
)

// Reader indexes and decodes the raw data files of a TPC readout.
//
// Reader is synchronous and single-threaded: all file I/O and
// decoding happen on the calling goroutine, and exactly one decoded
// event is resident at a time. Loading a new event discards the
// previous one, including any in-flight cursor position; callers
// that need iteration to survive a load should work on the snapshot
// returned by Event. Reader must not be used from multiple
// goroutines without external serialization.
type Reader struct {
	unpack  Unpacker
	pads    padmap.Mapper
	usemmap bool

	srcs    map[SourceID]string // link binding: last registration wins
	files   map[string]*source  // open data files, by path
	scanned map[string]bool     // paths already indexed
	evts    map[uint64][]Record // event index
	keys    []uint64            // indexed event numbers, ascending

	last   int64 // last loaded event, -1 before any
	evtnbr uint64
	tstamp uint64 // time stamp of the loaded event
	sync   [padmap.NumChips]int16
	data   map[padmap.PadPos][]uint16
	order  []padmap.PadPos // cursor order: ascending (row, pad)
	cur    int
}

// Option configures a Reader.
type Option func(*Reader)

// WithUnpacker replaces the default SAMPA stream decoder.
func WithUnpacker(u Unpacker) Option {
	return func(r *Reader) { r.unpack = u }
}

// WithMapper replaces the default linear pad mapper.
func WithMapper(m padmap.Mapper) Option {
	return func(r *Reader) { r.pads = m }
}

// WithMmap memory-maps source files instead of reading them through
// the OS file API.
func WithMmap(on bool) Option {
	return func(r *Reader) { r.usemmap = on }
}

// NewReader creates a Reader with no registered sources.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		unpack:  sampaUnpacker{},
		pads:    padmap.NewLinear(16),
		srcs:    make(map[SourceID]string),
		files:   make(map[string]*source),
		scanned: make(map[string]bool),
		evts:    make(map[uint64][]Record),
		last:    -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadEvent decodes event evt across all contributing sources and
// replaces the pad cache with the result. On any failure the cache
// (and cursor) are left exactly as before the call; retrying with
// the same event number re-reads from the files and is idempotent.
func (r *Reader) LoadEvent(evt uint64) error {
	recs, ok := r.evts[evt]
	if !ok {
		return xerrors.Errorf("raw: event %d not in index: %w", evt, ErrUnknownEvent)
	}

	var (
		data   = make(map[padmap.PadPos][]uint16, len(recs)*padmap.NumLinkChannels)
		sync   [padmap.NumChips]int16
		tstamp uint64
	)
	for i, rec := range recs {
		samples, sp, err := r.decodeRecord(rec)
		if err != nil {
			return err
		}
		if i == 0 {
			tstamp = rec.Hdr.TimeStamp()
		}
		sync = sp

		for ch, smp := range samples {
			if len(smp) == 0 {
				continue
			}
			pad, err := r.pads.PadOf(rec.Region, rec.Link,
				uint32(ch/padmap.NumChipChannels),
				uint32(ch%padmap.NumChipChannels),
			)
			if err != nil {
				return xerrors.Errorf("raw: could not map channel %d of link (%d,%d): %w",
					ch, rec.Region, rec.Link, err,
				)
			}
			// Same-pad collisions across sources should not occur
			// with non-overlapping (region,link) coverage; the
			// later record wins.
			data[pad] = smp
		}
	}

	r.data = data
	r.order = padOrder(data)
	r.cur = 0
	r.sync = sync
	r.tstamp = tstamp
	r.evtnbr = evt
	r.last = int64(evt)
	return nil
}

// LoadNext decodes the event following the last successfully loaded
// one (the first indexed-from-zero event on a fresh Reader).
func (r *Reader) LoadNext() error {
	return r.LoadEvent(uint64(r.last + 1))
}

// EventNumber returns the number of the loaded event.
func (r *Reader) EventNumber() uint64 { return r.evtnbr }

// SyncPositions returns the per-lane positions at which the sync
// pattern was located while decoding the loaded event's last raw
// record. Slots are zero for events decoded from pre-decoded frames
// only.
func (r *Reader) SyncPositions() [padmap.NumChips]int16 { return r.sync }

// TimeStamp returns the corrected time stamp of the loaded event.
//
// Note: this deliberately differs from the historical reader, whose
// accessor kept returning the time stamp of the first data ever
// decoded regardless of the loaded event.
func (r *Reader) TimeStamp() uint64 { return r.tstamp }

// Data returns the loaded event's samples for the given pad, one
// value per time bin, or an empty slice if the pad carries no data
// in this event. Data does not move the cursor.
func (r *Reader) Data(pad padmap.PadPos) []uint16 {
	if v, ok := r.data[pad]; ok {
		return v
	}
	return []uint16{}
}

// NextData advances the cursor over the loaded event's pads in
// ascending (row, pad) order and returns the next pad with its
// samples. It reports false once all pads have been visited, and
// keeps doing so until the next successful load resets the cursor.
func (r *Reader) NextData() (padmap.PadPos, []uint16, bool) {
	if r.cur >= len(r.order) {
		return padmap.PadPos{}, nil, false
	}
	pad := r.order[r.cur]
	r.cur++
	return pad, r.data[pad], true
}

// Event returns an immutable snapshot of the loaded event, or nil if
// no event has been loaded. The snapshot stays valid and consistent
// across later LoadEvent calls.
func (r *Reader) Event() *Event {
	if r.data == nil {
		return nil
	}
	return &Event{
		nbr:    r.evtnbr,
		tstamp: r.tstamp,
		data:   r.data,
		pads:   r.order,
	}
}

// Event is one decoded event: per-pad ADC sample sequences and the
// event's corrected time stamp. Events are immutable.
type Event struct {
	nbr    uint64
	tstamp uint64
	data   map[padmap.PadPos][]uint16
	pads   []padmap.PadPos
}

// Number returns the event number.
func (evt *Event) Number() uint64 { return evt.nbr }

// TimeStamp returns the corrected event time stamp.
func (evt *Event) TimeStamp() uint64 { return evt.tstamp }

// Pads returns the pads carrying data, in ascending (row, pad) order.
// The returned slice must not be modified.
func (evt *Event) Pads() []padmap.PadPos { return evt.pads }

// Samples returns the samples of the given pad, or an empty slice if
// the pad carries no data in this event.
func (evt *Event) Samples(pad padmap.PadPos) []uint16 {
	if v, ok := evt.data[pad]; ok {
		return v
	}
	return []uint16{}
}

// Iter returns an iterator over the event's pads with its own
// private position, independent of the Reader's cursor.
func (evt *Event) Iter() *Iter {
	return &Iter{evt: evt}
}

// Iter iterates over the pads of one Event snapshot.
type Iter struct {
	evt *Event
	cur int
}

// Next returns the next pad and its samples, in ascending (row, pad)
// order, and reports false at exhaustion.
func (it *Iter) Next() (padmap.PadPos, []uint16, bool) {
	if it.cur >= len(it.evt.pads) {
		return padmap.PadPos{}, nil, false
	}
	pad := it.evt.pads[it.cur]
	it.cur++
	return pad, it.evt.data[pad], true
}

func padOrder(data map[padmap.PadPos][]uint16) []padmap.PadPos {
	pads := make([]padmap.PadPos, 0, len(data))
	for pad := range data {
		pads = append(pads, pad)
	}
	slices.SortFunc(pads, func(a, b padmap.PadPos) int {
		if a.Row != b.Row {
			return int(a.Row) - int(b.Row)
		}
		return int(a.Pad) - int(b.Pad)
	})
	return pads
}
