// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tpc-gen generates synthetic TPC raw data files, one per readout
// link, for test benches and decoder exercises.
package main // import "github.com/go-lpc/tpc/cmd/tpc-gen"

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/go-lpc/tpc/internal/sampa"
	"github.com/go-lpc/tpc/padmap"
	"github.com/go-lpc/tpc/raw"
)

func main() {
	log.SetPrefix("tpc-gen: ")
	log.SetFlags(0)

	var (
		odir   = flag.String("o", ".", "output directory")
		nevts  = flag.Int("evts", 10, "number of events per link")
		nlinks = flag.Int("links", 2, "number of readout links")
		region = flag.Int("region", 0, "readout region")
		nbins  = flag.Int("bins", 3, "number of time bins per event")
		kind   = flag.Int("kind", int(raw.KindDecoded), "frame kind to generate (1, 2 or 3)")
		seed   = flag.Int64("seed", 1234, "random number seed")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: tpc-gen [OPTIONS]

ex:
 $> tpc-gen -o ./run42 -links 4 -evts 100 -kind 3

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	switch uint16(*kind) {
	case raw.KindRaw, raw.KindDecoded, raw.KindBoth:
		// ok
	default:
		flag.Usage()
		log.Fatalf("invalid frame kind %d", *kind)
	}

	var grp errgroup.Group
	for i := 0; i < *nlinks; i++ {
		link := uint32(i)
		fname := filepath.Join(*odir, fmt.Sprintf("tpc_r%03d_l%03d.raw", *region, link))
		grp.Go(func() error {
			err := gen(fname, link, *nevts, *nbins, uint16(*kind), *seed+int64(link))
			if err != nil {
				return fmt.Errorf("could not generate %q: %w", fname, err)
			}
			log.Printf("wrote %s (%d events, spec %s:%d:%d)", fname, *nevts, fname, *region, link)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		log.Fatalf("could not generate data files: %+v", err)
	}
}

func gen(fname string, link uint32, nevts, nbins int, kind uint16, seed int64) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()

	var (
		rnd = rand.New(rand.NewSource(seed))
		enc = raw.NewEncoder(f)
	)
	for ievt := 0; ievt < nevts; ievt++ {
		samples := make([][]uint16, padmap.NumLinkChannels)
		for ch := range samples {
			smp := make([]uint16, nbins)
			for t := range smp {
				smp[t] = uint16(rnd.Intn(1024))
			}
			samples[ch] = smp
		}
		var sync [padmap.NumChips]int16
		for l := range sync {
			sync[l] = int16(rnd.Intn(8))
		}

		payload, err := payloadFrom(kind, samples, sync)
		if err != nil {
			return fmt.Errorf("could not build event %d payload: %w", ievt, err)
		}

		err = enc.Encode(&raw.Frame{
			Kind:       kind,
			TimeStamp:  uint64(1000 + 10*ievt),
			EventCount: uint64(ievt),
			Payload:    payload,
		})
		if err != nil {
			return fmt.Errorf("could not encode event %d: %w", ievt, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close output file: %w", err)
	}
	return nil
}

func payloadFrom(kind uint16, samples [][]uint16, sync [padmap.NumChips]int16) ([]byte, error) {
	switch kind {
	case raw.KindRaw:
		return sampa.Pack(samples, sync)
	case raw.KindDecoded:
		return raw.DecodedPayload(samples)
	case raw.KindBoth:
		stream, err := sampa.Pack(samples, sync)
		if err != nil {
			return nil, err
		}
		decoded, err := raw.DecodedPayload(samples)
		if err != nil {
			return nil, err
		}
		return raw.DualPayload(stream, decoded)
	}
	return nil, fmt.Errorf("unknown frame kind %d", kind)
}
