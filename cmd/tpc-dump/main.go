// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tpc-dump decodes and displays TPC raw data files.
//
// Usage: tpc-dump [OPTIONS] FILE1:REGION:LINK [FILE2:REGION:LINK [...]]
//
// Example:
//
//  $> tpc-dump ./run42/tpc_r000_l000.raw:0:0 ./run42/tpc_r000_l001.raw:0:1
//  events: 3 (first 0, last 2)
//  === event 0 ===
//  time stamp:      1000
//  records:            2
//  pads:             320
//    row=  0 pad=  0 [513 514 512]
//  [...]
package main // import "github.com/go-lpc/tpc/cmd/tpc-dump"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/tpc/raw"
)

func main() {
	log.SetPrefix("tpc-dump: ")
	log.SetFlags(0)

	var (
		mmap = flag.Bool("mmap", false, "memory-map input files")
		evt  = flag.Int64("evt", -1, "event to dump (-1 dumps all indexed events)")
	)

	flag.Usage = func() {
		fmt.Printf(`tpc-dump decodes and displays TPC raw data files.

Usage: tpc-dump [OPTIONS] FILE1:REGION:LINK [FILE2:REGION:LINK [...]]

Example:

 $> tpc-dump ./run42/tpc_r000_l000.raw:0:0 ./run42/tpc_r000_l001.raw:0:1
 events: 3 (first 0, last 2)
 === event 0 ===
 time stamp:      1000
 records:            2
 pads:             320
   row=  0 pad=  0 [513 514 512]
 [...]

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input TPC files")
	}

	err := process(os.Stdout, flag.Args(), *mmap, *evt)
	if err != nil {
		log.Fatalf("could not dump data: %+v", err)
	}
}

func process(w io.Writer, specs []string, mmap bool, evt int64) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	r := raw.NewReader(raw.WithMmap(mmap))
	defer r.Close()

	for _, spec := range specs {
		if err := r.AddSource(spec); err != nil {
			return fmt.Errorf("could not add source %q: %w", spec, err)
		}
	}
	if r.NumEvents() == 0 {
		return fmt.Errorf("no events indexed")
	}
	fmt.Fprintf(wbuf, "events: %d (first %d, last %d)\n",
		r.NumEvents(), r.FirstEvent(), r.LastEvent(),
	)

	evts := r.Events()
	if evt >= 0 {
		evts = []uint64{uint64(evt)}
	}

	for _, nbr := range evts {
		err := r.LoadEvent(nbr)
		if err != nil {
			return fmt.Errorf("could not load event %d: %w", nbr, err)
		}
		fmt.Fprintf(wbuf, "=== event %d ===\n", nbr)
		fmt.Fprintf(wbuf, "time stamp: % 9d\n", r.TimeStamp())
		fmt.Fprintf(wbuf, "records:    % 9d\n", len(r.Records(nbr)))
		fmt.Fprintf(wbuf, "pads:       % 9d\n", len(r.Event().Pads()))

		for {
			pad, smp, ok := r.NextData()
			if !ok {
				break
			}
			fmt.Fprintf(wbuf, "  row=%3d pad=%3d %v\n", pad.Row, pad.Pad, smp)
		}
	}

	return nil
}
