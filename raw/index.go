// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"golang.org/x/exp/slices"
)

// Record locates one source's contribution to one event: the frame
// header and its byte offset within the source file. Records are
// created during index construction and never mutated afterwards.
type Record struct {
	Region uint32
	Link   uint32
	Path   string // path to the source file
	Off    int64  // byte offset of the frame header
	Hdr    Header
}

// scan walks the frame headers of src from offset 0 and records one
// index entry per frame. No payload bytes are read. The walk stops at
// end of file, on a header that fails to parse, or on a frame that
// would extend past end of file: a truncated tail ends the scan of
// that source without error.
func (r *Reader) scan(id SourceID, src *source) {
	var (
		buf = make([]byte, HeaderSize)
		off int64
	)
	for {
		if _, err := src.r.ReadAt(buf, off); err != nil {
			return
		}
		hdr, err := ParseHeader(buf)
		if err != nil {
			return
		}
		if hdr.Words < headerWords {
			// corrupt frame, cannot advance.
			return
		}
		end := off + int64(hdr.Words)*4
		if end > src.size {
			return
		}

		evt := hdr.EventCount()
		r.evts[evt] = append(r.evts[evt], Record{
			Region: id.Region,
			Link:   id.Link,
			Path:   src.path,
			Off:    off,
			Hdr:    hdr,
		})
		if i, ok := slices.BinarySearch(r.keys, evt); !ok {
			r.keys = slices.Insert(r.keys, i, evt)
		}

		off = end
	}
}

// NumEvents returns the number of indexed events.
func (r *Reader) NumEvents() int { return len(r.keys) }

// FirstEvent returns the lowest indexed event number.
// It panics on an empty index: check NumEvents first.
func (r *Reader) FirstEvent() uint64 {
	if len(r.keys) == 0 {
		panic("raw: empty event index")
	}
	return r.keys[0]
}

// LastEvent returns the highest indexed event number.
// It panics on an empty index: check NumEvents first.
func (r *Reader) LastEvent() uint64 {
	if len(r.keys) == 0 {
		panic("raw: empty event index")
	}
	return r.keys[len(r.keys)-1]
}

// Events returns the indexed event numbers in ascending order.
// Event numbers need not be contiguous.
func (r *Reader) Events() []uint64 {
	return slices.Clone(r.keys)
}

// Records returns the index records contributing to event evt,
// one per contributing source. The returned slice must not be
// modified.
func (r *Reader) Records(evt uint64) []Record {
	return r.evts[evt]
}
