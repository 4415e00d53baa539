// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package png implements the PNG container: signature check, chunk
// iteration, CRC validation, IHDR validation, and IDAT concatenation.
// It does not decompress; see the deflate package for that.
package png

import "github.com/cosnicolaou/pngcore/internal/bitstream"

// Signature is the 8-byte magic every PNG datastream must begin with.
var Signature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// chunk is one length-prefixed, CRC-trailed unit of a PNG datastream.
type chunk struct {
	typ     [4]byte
	payload []byte
}

func (c chunk) typeString() string {
	return string(c.typ[:])
}

// isAncillary reports whether c's type code has a lowercase first
// letter, the PNG convention marking a chunk a decoder may safely
// skip when it doesn't recognize the type.
func (c chunk) isAncillary() bool {
	return c.typ[0]&0x20 != 0
}

// readChunk reads one chunk — 4-byte length, 4-byte type, payload,
// 4-byte CRC — from r and, if verifyCRC is set, validates the trailing
// CRC-32 against (type ∥ payload).
func readChunk(r *bitstream.Reader, verifyCRC bool) (chunk, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return chunk{}, ErrUnexpectedEOF
	}
	if length > 1<<31-1 {
		return chunk{}, ErrInvalidFile
	}

	typeAndPayload, err := r.Peek(4 + int(length))
	if err != nil {
		return chunk{}, ErrUnexpectedEOF
	}
	r.Advance(4 + int(length))

	wantCRC, err := r.ReadUint32()
	if err != nil {
		return chunk{}, ErrUnexpectedEOF
	}

	if verifyCRC && !checkCRC(typeAndPayload, wantCRC) {
		return chunk{}, ErrCrcMismatch
	}

	var c chunk
	copy(c.typ[:], typeAndPayload[:4])
	c.payload = typeAndPayload[4:]
	return c, nil
}

// readChunkInspect is readChunk's diagnostic counterpart: it never
// fails on a CRC mismatch, instead reporting it, so a caller walking a
// malformed file for inspection purposes can still see every chunk up
// to the first framing error.
func readChunkInspect(r *bitstream.Reader) (c chunk, crcValid bool, err error) {
	length, err := r.ReadUint32()
	if err != nil {
		return chunk{}, false, ErrUnexpectedEOF
	}
	if length > 1<<31-1 {
		return chunk{}, false, ErrInvalidFile
	}

	typeAndPayload, err := r.Peek(4 + int(length))
	if err != nil {
		return chunk{}, false, ErrUnexpectedEOF
	}
	r.Advance(4 + int(length))

	wantCRC, err := r.ReadUint32()
	if err != nil {
		return chunk{}, false, ErrUnexpectedEOF
	}

	copy(c.typ[:], typeAndPayload[:4])
	c.payload = typeAndPayload[4:]
	return c, checkCRC(typeAndPayload, wantCRC), nil
}
