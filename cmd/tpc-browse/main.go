// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tpc-browse is an interactive browser for TPC raw data files.
//
// Usage: tpc-browse [OPTIONS] FILE1:REGION:LINK [FILE2:REGION:LINK [...]]
//
// Commands:
//
//  evts            list the indexed event numbers
//  load EVT        load event EVT
//  next            load the next event
//  pad ROW PAD     display the samples of one pad
//  dump            display all pads of the loaded event
//  quit            exit
package main // import "github.com/go-lpc/tpc/cmd/tpc-browse"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/go-lpc/tpc/padmap"
	"github.com/go-lpc/tpc/raw"
)

func main() {
	log.SetPrefix("tpc-browse: ")
	log.SetFlags(0)

	mmap := flag.Bool("mmap", false, "memory-map input files")

	flag.Usage = func() {
		fmt.Printf(`tpc-browse is an interactive browser for TPC raw data files.

Usage: tpc-browse [OPTIONS] FILE1:REGION:LINK [FILE2:REGION:LINK [...]]

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input TPC files")
	}

	r := raw.NewReader(raw.WithMmap(*mmap))
	defer r.Close()

	for _, spec := range flag.Args() {
		if err := r.AddSource(spec); err != nil {
			log.Fatalf("could not add source %q: %+v", spec, err)
		}
	}
	log.Printf("indexed %d events", r.NumEvents())

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	for {
		line, err := term.Prompt("tpc> ")
		switch err {
		case nil:
			// ok
		case io.EOF, liner.ErrPromptAborted:
			fmt.Printf("\n")
			return
		default:
			log.Fatalf("could not read command: %+v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)
		if line == "quit" || line == "q" {
			return
		}
		if err := run(r, line); err != nil {
			log.Printf("%+v", err)
		}
	}
}

func run(r *raw.Reader, line string) error {
	toks := strings.Fields(line)
	switch toks[0] {
	case "evts":
		fmt.Printf("evts: %d\n", r.Events())

	case "load":
		if len(toks) != 2 {
			return fmt.Errorf("usage: load EVT")
		}
		evt, err := strconv.ParseUint(toks[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event number %q: %w", toks[1], err)
		}
		if err := r.LoadEvent(evt); err != nil {
			return fmt.Errorf("could not load event %d: %w", evt, err)
		}
		showEvent(r)

	case "next":
		if err := r.LoadNext(); err != nil {
			return fmt.Errorf("could not load next event: %w", err)
		}
		showEvent(r)

	case "pad":
		if len(toks) != 3 {
			return fmt.Errorf("usage: pad ROW PAD")
		}
		row, err := strconv.ParseUint(toks[1], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid row %q: %w", toks[1], err)
		}
		pad, err := strconv.ParseUint(toks[2], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid pad %q: %w", toks[2], err)
		}
		pos := padmap.PadPos{Row: uint8(row), Pad: uint8(pad)}
		fmt.Printf("%v: %v\n", pos, r.Data(pos))

	case "dump":
		evt := r.Event()
		if evt == nil {
			return fmt.Errorf("no event loaded")
		}
		it := evt.Iter()
		for {
			pad, smp, ok := it.Next()
			if !ok {
				break
			}
			fmt.Printf("  row=%3d pad=%3d %v\n", pad.Row, pad.Pad, smp)
		}

	default:
		return fmt.Errorf("unknown command %q", toks[0])
	}
	return nil
}

func showEvent(r *raw.Reader) {
	fmt.Printf("event:      %d\n", r.EventNumber())
	fmt.Printf("time stamp: %d\n", r.TimeStamp())
	fmt.Printf("pads:       %d\n", len(r.Event().Pads()))
}
