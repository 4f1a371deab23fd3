// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/go-lpc/tpc/internal/mmap"
)

// SourceID identifies one physical readout link.
type SourceID struct {
	Region uint32
	Link   uint32
}

// source is one open data file.
type source struct {
	path string
	r    io.ReaderAt
	c    io.Closer
	size int64
}

// AddSource registers one input file from a spec of the form
// "path:region:link", with region and link base-10 non-negative
// integers. Colons are not escapable in path: this is a known
// limitation of the spec syntax.
//
// A malformed spec yields ErrMalformedSpec, an unopenable path yields
// ErrUnavailable. On success the file's frame headers are scanned into
// the event index.
func (r *Reader) AddSource(spec string) error {
	toks := strings.Split(spec, ":")
	if len(toks) != 3 {
		return xerrors.Errorf("raw: spec %q: %w", spec, ErrMalformedSpec)
	}
	region, err := strconv.ParseUint(toks[1], 10, 32)
	if err != nil {
		return xerrors.Errorf("raw: spec %q: invalid region: %w", spec, ErrMalformedSpec)
	}
	link, err := strconv.ParseUint(toks[2], 10, 32)
	if err != nil {
		return xerrors.Errorf("raw: spec %q: invalid link: %w", spec, ErrMalformedSpec)
	}
	return r.AddSourceFile(uint32(region), uint32(link), toks[0])
}

// AddSources registers each spec in turn with AddSource. Individual
// failures do not abort the remaining registrations; the number of
// successfully registered sources is returned.
func (r *Reader) AddSources(specs []string) int {
	n := 0
	for _, spec := range specs {
		if err := r.AddSource(spec); err == nil {
			n++
		}
	}
	return n
}

// AddSourceFile registers the input file path for the given readout
// link. (region, link) pairs are unique across the registry:
// re-registering a pair replaces the prior binding (last registration
// wins). Index entries scanned from a path are never duplicated:
// re-registering an already-scanned path is idempotent.
func (r *Reader) AddSourceFile(region, link uint32, path string) error {
	src, ok := r.files[path]
	if !ok {
		src = &source{path: path}
		switch {
		case r.usemmap:
			h, err := mmap.Open(path)
			if err != nil {
				return xerrors.Errorf("raw: could not mmap %q: %v: %w", path, err, ErrUnavailable)
			}
			src.r = h
			src.c = h
			src.size = int64(h.Len())
		default:
			f, err := os.Open(path)
			if err != nil {
				return xerrors.Errorf("raw: could not open %q: %v: %w", path, err, ErrUnavailable)
			}
			fi, err := f.Stat()
			if err != nil {
				f.Close()
				return xerrors.Errorf("raw: could not stat %q: %v: %w", path, err, ErrUnavailable)
			}
			src.r = f
			src.c = f
			src.size = fi.Size()
		}
		r.files[path] = src
	}

	id := SourceID{Region: region, Link: link}
	r.srcs[id] = path

	// Files referenced by existing index records stay open even when
	// their binding is replaced: the index never shrinks.
	if !r.scanned[path] {
		r.scan(id, src)
		r.scanned[path] = true
	}
	return nil
}

// Close releases all registered source files.
func (r *Reader) Close() error {
	var first error
	for _, src := range r.files {
		if err := src.c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.files = make(map[string]*source)
	r.srcs = make(map[SourceID]string)
	return first
}
