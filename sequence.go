// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fbcapture

import "strconv"

// Sequence numbers the bitmaps a Recorder writes.
type Sequence interface {
	// Current returns the number the next file will use.
	Current() uint64
	// Advance moves to the next number.
	Advance()
}

// Counter is the default Sequence: an in-memory count starting at zero.
// It is never persisted, so a new Recorder starts over at image0.bmp.
type Counter struct {
	n uint64
}

// Current implements Sequence.
func (c *Counter) Current() uint64 { return c.n }

// Advance implements Sequence.
func (c *Counter) Advance() { c.n++ }

// FileName returns the bitmap file name for sequence number n.
func FileName(n uint64) string {
	return "image" + strconv.FormatUint(n, 10) + ".bmp"
}
