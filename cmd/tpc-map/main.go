// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tpc-map inspects the TPC channel-to-pad mapping database.
package main // import "github.com/go-lpc/tpc/cmd/tpc-map"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-lpc/tpc/padmap"
)

const (
	dbname = "tpc_map"
)

func main() {
	log.SetPrefix("tpc-map: ")
	log.SetFlags(0)

	var (
		region  = flag.Int("region", 0, "readout region of the channel to resolve")
		link    = flag.Int("link", 0, "readout link of the channel to resolve")
		chip    = flag.Int("chip", -1, "front-end chip of the channel to resolve (-1 disables resolution)")
		channel = flag.Int("channel", 0, "chip channel of the channel to resolve")
	)

	flag.Parse()

	db, err := padmap.Open(dbname)
	if err != nil {
		log.Fatalf("could not open TPC mapping db: %+v", err)
	}
	defer db.Close()

	err = doQuery(db, *region, *link, *chip, *channel)
	if err != nil {
		log.Fatalf("could not do query: %+v", err)
	}
}

func doQuery(db *padmap.DB, region, link, chip, channel int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tbl, err := padmap.FromDB(ctx, db)
	if err != nil {
		return fmt.Errorf("could not load mapping table: %w", err)
	}
	log.Printf("mapped channels: %d", tbl.Len())

	if chip < 0 {
		return nil
	}

	pos, err := tbl.PadOf(uint32(region), uint32(link), uint32(chip), uint32(channel))
	if err != nil {
		return fmt.Errorf("could not resolve (region=%d, link=%d, chip=%d, channel=%d): %w",
			region, link, chip, channel, err,
		)
	}
	log.Printf("(region=%d, link=%d, chip=%d, channel=%d) -> %v",
		region, link, chip, channel, pos,
	)
	return nil
}
