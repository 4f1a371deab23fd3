// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tpc2lcio converts a set of TPC raw data files to an LCIO one.
package main // import "github.com/go-lpc/tpc/cmd/tpc2lcio"

import (
	"compress/flate"
	"flag"
	"fmt"
	"log"
	"os"

	"go-hep.org/x/hep/lcio"

	"github.com/go-lpc/tpc/internal/xcnv"
	"github.com/go-lpc/tpc/raw"
)

var (
	msg = log.New(os.Stdout, "tpc2lcio: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.lcio", "path to output LCIO file")
		compr = flag.Int("lvl", flate.DefaultCompression, "compression level for output LCIO file")
		run   = flag.Int("run", 0, "run number of the input data")
		mmap  = flag.Bool("mmap", false, "memory-map input files")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: tpc2lcio [OPTIONS] FILE1:REGION:LINK [FILE2:REGION:LINK [...]]

ex:
 $> tpc2lcio -o out.lcio -lvl=9 -run=42 ./run42/tpc_r000_l000.raw:0:0

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		msg.Fatalf("missing input TPC raw files")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output LCIO file name")
	}

	err := process(*oname, *compr, int32(*run), flag.Args(), *mmap)
	if err != nil {
		msg.Fatalf("could not convert TPC files: %+v", err)
	}
}

func process(oname string, lvl int, run int32, specs []string, mmap bool) error {
	r := raw.NewReader(raw.WithMmap(mmap))
	defer r.Close()

	for _, spec := range specs {
		if err := r.AddSource(spec); err != nil {
			return fmt.Errorf("could not add source %q: %w", spec, err)
		}
	}

	w, err := lcio.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output LCIO file: %w", err)
	}
	defer w.Close()

	w.SetCompressionLevel(lvl)

	err = xcnv.TPC2LCIO(w, r, run, msg)
	if err != nil {
		return fmt.Errorf("could not convert TPC to LCIO: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close output LCIO file: %w", err)
	}

	return nil
}
