// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"go-hep.org/x/hep/lcio"

	"github.com/go-lpc/tpc/padmap"
	"github.com/go-lpc/tpc/raw"
)

func TestTPC2LCIO(t *testing.T) {
	dir := t.TempDir()

	// one link, two events, one time bin per channel.
	rawname := filepath.Join(dir, "r0l0.raw")
	f, err := os.Create(rawname)
	if err != nil {
		t.Fatalf("could not create %q: %+v", rawname, err)
	}
	defer f.Close()

	enc := raw.NewEncoder(f)
	for _, evt := range []uint64{1, 2} {
		samples := make([][]uint16, padmap.NumLinkChannels)
		for ch := range samples {
			samples[ch] = []uint16{uint16(100*evt) + uint16(ch)}
		}
		p, err := raw.DecodedPayload(samples)
		if err != nil {
			t.Fatalf("could not build payload: %+v", err)
		}
		err = enc.Encode(&raw.Frame{
			Kind:       raw.KindDecoded,
			TimeStamp:  1000 + evt,
			EventCount: evt,
			Payload:    p,
		})
		if err != nil {
			t.Fatalf("could not encode frame: %+v", err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("could not close %q: %+v", rawname, err)
	}

	rdr := raw.NewReader()
	defer rdr.Close()
	if err := rdr.AddSourceFile(0, 0, rawname); err != nil {
		t.Fatalf("could not add %q: %+v", rawname, err)
	}

	fname := filepath.Join(dir, "out.lcio")
	w, err := lcio.Create(fname)
	if err != nil {
		t.Fatalf("could not create %q: %+v", fname, err)
	}
	defer w.Close()

	msg := log.New(io.Discard, "tpc2lcio: ", 0)
	if err := TPC2LCIO(w, rdr, 42, msg); err != nil {
		t.Fatalf("could not convert: %+v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("could not close %q: %+v", fname, err)
	}

	r, err := lcio.Open(fname)
	if err != nil {
		t.Fatalf("could not open %q: %+v", fname, err)
	}
	defer r.Close()

	n := 0
	for r.Next() {
		levt := r.Event()
		if got, want := levt.RunNumber, int32(42); got != want {
			t.Fatalf("invalid run number: got=%d, want=%d", got, want)
		}
		if got, want := levt.EventNumber, int32(n+1); got != want {
			t.Fatalf("invalid event number: got=%d, want=%d", got, want)
		}
		if got, want := levt.TimeStamp, int64(1000+n+1); got != want {
			t.Fatalf("invalid time stamp: got=%d, want=%d", got, want)
		}

		obj, ok := levt.Get("TPCRawPads").(*lcio.GenericObject)
		if !ok {
			t.Fatalf("missing TPCRawPads collection")
		}
		i32s := obj.Data[0].I32s
		// one (row, pad, n, sample) tuple per channel.
		if got, want := len(i32s), 4*padmap.NumLinkChannels; got != want {
			t.Fatalf("invalid I32s length: got=%d, want=%d", got, want)
		}
		for ch := 0; ch < padmap.NumLinkChannels; ch++ {
			tup := i32s[4*ch : 4*ch+4]
			want := [4]int32{int32(ch / 16), int32(ch % 16), 1, int32(100*(n+1) + ch)}
			if [4]int32{tup[0], tup[1], tup[2], tup[3]} != want {
				t.Fatalf("event %d, channel %d: invalid tuple: got=%v, want=%v", n+1, ch, tup, want)
			}
		}
		n++
	}
	if err := r.Err(); err != nil && err != io.EOF {
		t.Fatalf("could not read %q: %+v", fname, err)
	}
	if got, want := n, 2; got != want {
		t.Fatalf("invalid number of events: got=%d, want=%d", got, want)
	}
}
