// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/tpc/padmap"
	"github.com/go-lpc/tpc/raw"
)

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "tpc_r000_l000.raw")

	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create %q: %+v", fname, err)
	}
	defer f.Close()

	samples := make([][]uint16, padmap.NumLinkChannels)
	for ch := range samples {
		samples[ch] = []uint16{uint16(ch), uint16(ch + 1)}
	}
	payload, err := raw.DecodedPayload(samples)
	if err != nil {
		t.Fatalf("could not build payload: %+v", err)
	}
	err = raw.NewEncoder(f).Encode(&raw.Frame{
		Kind:       raw.KindDecoded,
		TimeStamp:  1000,
		EventCount: 0,
		Payload:    payload,
	})
	if err != nil {
		t.Fatalf("could not encode frame: %+v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("could not close %q: %+v", fname, err)
	}

	out := new(bytes.Buffer)
	err = process(out, []string{fname + ":0:0"}, false, -1)
	if err != nil {
		t.Fatalf("could not dump %q: %+v", fname, err)
	}

	for _, want := range []string{
		"events: 1 (first 0, last 0)",
		"=== event 0 ===",
		fmt.Sprintf("time stamp: % 9d", 1000),
		fmt.Sprintf("records:    % 9d", 1),
		fmt.Sprintf("pads:       % 9d", padmap.NumLinkChannels),
		"  row=  0 pad=  0 [0 1]",
		"  row=  9 pad= 15 [159 160]",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing output line %q in:\n%s", want, out.String())
		}
	}

	if err := process(out, []string{fname + ":0:0"}, false, 42); err == nil {
		t.Fatalf("expected an error for an unknown event")
	}
	if err := process(out, []string{"not-a-spec"}, false, -1); err == nil {
		t.Fatalf("expected an error for a malformed spec")
	}
}
