// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmap // import "github.com/go-lpc/tpc/internal/mmap"

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestHandle(t *testing.T) {
	t.Run("nil-handle", func(t *testing.T) {
		var h *Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		err = h.Close()
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid close error: %+v", err)
		}
	})
	t.Run("nil-data", func(t *testing.T) {
		var h Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		err = h.Close()
		if err != nil {
			t.Fatalf("error closing nil-data handle: %+v", err)
		}
	})
}

func TestHandleFrom(t *testing.T) {
	h := HandleFrom([]byte{0, 1, 2, 3})

	if got, want := h.Len(), 4; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	if got, want := h.At(1), byte(1); got != want {
		t.Fatalf("invalid value: got=%d, want=%d", got, want)
	}

	_, err := h.ReadAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid ReadAt offset -1"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestOpen(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "data.raw")
	want := []byte("tpc raw link data")
	err := os.WriteFile(fname, want, 0644)
	if err != nil {
		t.Fatalf("could not create data file: %+v", err)
	}

	h, err := Open(fname)
	if err != nil {
		t.Fatalf("could not mmap data file: %+v", err)
	}
	defer h.Close()

	if got, want := h.Len(), len(want); got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	got := make([]byte, 3)
	_, err = h.ReadAt(got, 4)
	if err != nil {
		t.Fatalf("could not read-at: %+v", err)
	}
	if !bytes.Equal(got, want[4:7]) {
		t.Fatalf("invalid read-at: got=%q, want=%q", got, want[4:7])
	}

	err = h.Close()
	if err != nil {
		t.Fatalf("could not close handle: %+v", err)
	}

	_, err = Open(fname + ".missing")
	if err == nil {
		t.Fatalf("expected an error opening a missing file")
	}
}

func TestOpenEmpty(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "empty.raw")
	err := os.WriteFile(fname, nil, 0644)
	if err != nil {
		t.Fatalf("could not create empty file: %+v", err)
	}

	h, err := Open(fname)
	if err != nil {
		t.Fatalf("could not mmap empty file: %+v", err)
	}
	if got, want := h.Len(), 0; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}
}
