// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv converts decoded TPC events to LCIO.
package xcnv // import "github.com/go-lpc/tpc/internal/xcnv"
