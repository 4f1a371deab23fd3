// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"log"

	"go-hep.org/x/hep/lcio"

	"github.com/go-lpc/tpc/padmap"
	"github.com/go-lpc/tpc/raw"
)

// TPC2LCIO decodes every indexed event of r, one at a time, and
// writes it to w as an LCIO event carrying one "TPCRawPads"
// collection: a flat I32 stream of (row, pad, n, samples[n]) tuples.
func TPC2LCIO(w *lcio.Writer, r *raw.Reader, run int32, msg *log.Logger) error {
	obj := &lcio.GenericObject{
		Data: []lcio.GenericObjectData{
			{I32s: nil},
		},
	}

	for i, nbr := range r.Events() {
		if i%100 == 0 {
			msg.Printf("processing evt %d...", nbr)
		}
		err := r.LoadEvent(nbr)
		if err != nil {
			return fmt.Errorf("could not decode event %d: %w", nbr, err)
		}

		if i == 0 {
			err = w.WriteRunHeader(&lcio.RunHeader{
				RunNumber: run,
				Detector:  "TPC",
				Descr:     "",
				Params: lcio.Params{
					Ints: map[string][]int32{
						"Chips":    {padmap.NumChips},
						"Channels": {padmap.NumChipChannels},
					},
				},
			})
			if err != nil {
				return fmt.Errorf("could not write run header: %w", err)
			}
		}

		evt := r.Event()
		levt := lcio.Event{
			RunNumber:   run,
			EventNumber: int32(evt.Number()),
			TimeStamp:   int64(evt.TimeStamp()),
			Detector:    "TPC",
		}
		obj.Data[0].I32s = i32sFrom(evt)
		levt.Add("TPCRawPads", obj)

		err = w.WriteEvent(&levt)
		if err != nil {
			return fmt.Errorf("could not write event %d: %w", nbr, err)
		}
	}

	return nil
}

func i32sFrom(evt *raw.Event) []int32 {
	var out []int32
	it := evt.Iter()
	for {
		pad, smp, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, int32(pad.Row), int32(pad.Pad), int32(len(smp)))
		for _, v := range smp {
			out = append(out, int32(v))
		}
	}
	return out
}
