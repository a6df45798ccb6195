// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	xbmp "golang.org/x/image/bmp"

	"github.com/gogpu/fbcapture/bmp"
)

// runInspect prints the headers of each bitmap and checks that it decodes.
func runInspect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: fbcapture inspect file.bmp [more.bmp ...]")
		return 2
	}

	status := 0
	for _, path := range fs.Args() {
		if err := inspect(path, stdout); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			status = 1
		}
	}
	return status
}

func inspect(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fh, ih, err := bmp.ReadHeaders(bytes.NewReader(data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s:\n", path)
	fmt.Fprintf(w, "  size       %d bytes (header says %d)\n", len(data), fh.Size)
	fmt.Fprintf(w, "  offset     %d\n", fh.OffBits)
	fmt.Fprintf(w, "  dimensions %dx%d\n", ih.Width, ih.Height)
	fmt.Fprintf(w, "  depth      %d bpp\n", ih.BitCount)
	fmt.Fprintf(w, "  image size %d bytes\n", ih.SizeImage)

	if int(fh.Size) != len(data) {
		return fmt.Errorf("file is %d bytes, header says %d", len(data), fh.Size)
	}
	// x/image/bmp only reads 24 and 32 bpp without a palette.
	if ih.BitCount == 24 || ih.BitCount == 32 {
		if _, err := xbmp.Decode(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Fprintln(w, "  decode     ok")
	}
	return nil
}
