// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sampa

import (
	"reflect"
	"testing"

	"golang.org/x/xerrors"
)

func grid(nbins int) [][]uint16 {
	samples := make([][]uint16, NumLanes*ChansPerLane)
	for l := 0; l < NumLanes; l++ {
		for c := 0; c < ChansPerLane; c++ {
			smp := make([]uint16, nbins)
			for t := range smp {
				smp[t] = uint16(l*1000 + c*10 + t)
			}
			samples[l*ChansPerLane+c] = smp
		}
	}
	return samples
}

func TestPackUnpack(t *testing.T) {
	var (
		want = grid(3)
		sync = [NumLanes]int16{0, 5, 10, 15, 20}
	)

	p, err := Pack(want, sync)
	if err != nil {
		t.Fatalf("could not pack stream: %+v", err)
	}
	if len(p)%4 != 0 {
		t.Fatalf("packed stream of %d bytes is not word aligned", len(p))
	}

	got, gotSync, err := Unpack(p)
	if err != nil {
		t.Fatalf("could not unpack stream: %+v", err)
	}
	if gotSync != sync {
		t.Fatalf("invalid sync positions: got=%v, want=%v", gotSync, sync)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("packed samples do not round-trip")
	}
}

func TestPackUnpackNoData(t *testing.T) {
	var (
		want = grid(0)
		sync = [NumLanes]int16{1, 1, 1, 1, 1}
	)

	p, err := Pack(want, sync)
	if err != nil {
		t.Fatalf("could not pack stream: %+v", err)
	}

	got, gotSync, err := Unpack(p)
	if err != nil {
		t.Fatalf("could not unpack stream: %+v", err)
	}
	if gotSync != sync {
		t.Fatalf("invalid sync positions: got=%v, want=%v", gotSync, sync)
	}
	for i, smp := range got {
		if len(smp) != 0 {
			t.Fatalf("channel %d: got %d samples, want none", i, len(smp))
		}
	}
}

func TestUnpackOddStream(t *testing.T) {
	_, _, err := Unpack([]byte{1, 2, 3})
	if !xerrors.Is(err, ErrOddStream) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrOddStream)
	}
}

func TestUnpackNoSync(t *testing.T) {
	_, _, err := Unpack(make([]byte, 100))
	if !xerrors.Is(err, ErrNoSync) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrNoSync)
	}
}

func TestPackErrors(t *testing.T) {
	var sync [NumLanes]int16

	if _, err := Pack(make([][]uint16, 3), sync); err == nil {
		t.Fatalf("expected an error for an invalid channel count")
	}

	bad := grid(2)
	bad[7] = bad[7][:1]
	if _, err := Pack(bad, sync); err == nil {
		t.Fatalf("expected an error for uneven sample counts")
	}

	if _, err := Pack(grid(3), [NumLanes]int16{0, 32, 0, 0, 0}); err == nil {
		t.Fatalf("expected an error for a too-large sync spread")
	}

	if _, err := Pack(grid(3), [NumLanes]int16{-1, 0, 0, 0, 0}); err == nil {
		t.Fatalf("expected an error for a negative sync position")
	}
}
