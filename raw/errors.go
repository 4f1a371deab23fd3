// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raw

import "golang.org/x/xerrors"

// Registration errors. They are reported to the caller of the
// registration call and never abort prior registrations.
var (
	ErrMalformedSpec = xerrors.New("raw: malformed source spec")
	ErrUnavailable   = xerrors.New("raw: source file unavailable")
)

// Decode errors. A failed decode leaves the previously loaded event
// fully intact: no partial event is ever published.
var (
	ErrTruncatedHeader  = xerrors.New("raw: truncated frame header")
	ErrTruncatedPayload = xerrors.New("raw: truncated frame payload")
	ErrUnknownFrameKind = xerrors.New("raw: unknown frame kind")
	ErrUnknownEvent     = xerrors.New("raw: unknown event")
	ErrSyncMismatch     = xerrors.New("raw: sync mismatch")
)
