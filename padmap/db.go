// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package padmap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB exposes convenience methods to retrieve the channel-to-pad
// mapping from the detector mapping database.
type DB struct {
	db   *sql.DB
	name string // name of the mapping database
}

// Open opens a connection to the mapping database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("padmap: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("padmap: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("padmap: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// FromDB loads the whole channel-to-pad mapping table from db.
// The returned Table is a pure in-memory Mapper: once loaded, pad
// resolution performs no I/O.
func FromDB(ctx context.Context, db *DB) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT region, link, chip, channel, padrow, pad FROM padmap",
	)
	if err != nil {
		return nil, fmt.Errorf("padmap: could not query mapping table: %w", err)
	}
	defer rows.Close()

	tbl := &Table{pads: make(map[chanKey]PadPos)}
	for rows.Next() {
		var (
			key chanKey
			row uint8
			pad uint8
		)
		err = rows.Scan(&key.region, &key.link, &key.chip, &key.channel, &row, &pad)
		if err != nil {
			return nil, fmt.Errorf("padmap: could not scan mapping row: %w", err)
		}
		tbl.pads[key] = PadPos{Row: row, Pad: pad}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("padmap: could not scan mapping table: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("padmap: context error while loading mapping table: %w", err)
	}

	return tbl, nil
}

type chanKey struct {
	region  uint32
	link    uint32
	chip    uint32
	channel uint32
}

// Table is a Mapper backed by a mapping table loaded with FromDB.
type Table struct {
	pads map[chanKey]PadPos
}

// Len returns the number of mapped channels.
func (t *Table) Len() int { return len(t.pads) }

func (t *Table) PadOf(region, link, chip, channel uint32) (PadPos, error) {
	pos, ok := t.pads[chanKey{region, link, chip, channel}]
	if !ok {
		return PadPos{}, fmt.Errorf("%w: region=%d link=%d chip=%d channel=%d",
			ErrChannel, region, link, chip, channel,
		)
	}
	return pos, nil
}

var (
	_ Mapper = (*Table)(nil)
)
