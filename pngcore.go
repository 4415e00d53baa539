// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package pngcore decodes a PNG byte stream into its raw decompressed
// scanline bytes. It implements the PNG container (signature, chunks, CRC-32,
// IHDR validation, chunk sequencing) and the zlib/DEFLATE decompressor
// IDAT payloads are encoded with; it does not reverse PNG's per-scanline
// filters, de-interlace Adam7 data, or apply a palette or gamma curve —
// those are downstream, separately specified stages.
package pngcore

import (
	"github.com/cosnicolaou/pngcore/internal/deflate"
	"github.com/cosnicolaou/pngcore/internal/png"
)

// Image is the result of a successful Decode: the validated header
// dimensions and the raw DEFLATE-decompressed byte stream, filter bytes
// still intact.
type Image struct {
	Width        uint32
	Height       uint32
	Decompressed []byte

	// Gamma is the gAMA chunk's big-endian value (PNG's fixed-point
	// encoding, 100000 == gamma 1.0), or 0 if the input carried no gAMA
	// chunk. HasGamma disambiguates a genuine value of 0 from absence.
	Gamma    uint32
	HasGamma bool
}

// Decode parses input as a PNG datastream and returns its header
// dimensions together with the concatenated IDAT payload after zlib/
// DEFLATE decompression. The returned buffer is exactly what DEFLATE
// emits: no filter reversal, de-interlacing, palette lookup, or gamma
// correction has been applied.
//
// On error no partial Image is returned; every intermediate buffer is
// discarded.
func Decode(input []byte, opts ...Option) (*Image, error) {
	o := newOptions(opts...)

	result, err := png.Parse(input, png.Options{
		CheckCRC: o.checkCRC,
		MaxDim:   o.maxDimension,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	decompressed, err := deflate.Zlib(result.Compressed, sizeHint(result.Header))
	if err != nil {
		return nil, wrapError(err)
	}

	return &Image{
		Width:        result.Header.Width,
		Height:       result.Header.Height,
		Decompressed: decompressed,
		Gamma:        result.Gamma,
		HasGamma:     result.HasGamma,
	}, nil
}

// sizeHint estimates the decompressed size — one filter byte plus the
// packed samples per scanline — so the output buffer can be allocated
// once up front. Interlaced images run slightly over the estimate and
// simply grow. A zero hint disables preallocation for sizes beyond the
// compressed-buffer ceiling, where trusting the header would let a tiny
// input demand an enormous allocation.
func sizeHint(h png.IHDR) int {
	bits := int64(h.BitDepth)
	switch h.ColorType {
	case png.ColorTruecolor:
		bits *= 3
	case png.ColorGreyscaleAlpha:
		bits *= 2
	case png.ColorTruecolorAlpha:
		bits *= 4
	}
	row := 1 + (int64(h.Width)*bits+7)/8
	total := row * int64(h.Height)
	if total > 1<<30 {
		return 0
	}
	return int(total)
}
