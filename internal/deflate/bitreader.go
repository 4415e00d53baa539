// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package deflate

import "github.com/cosnicolaou/pngcore/internal/bitstream"

// bitReader serves bits LSB-first from an underlying byte cursor, per
// the DEFLATE (RFC 1951) bit ordering convention. codeBuf holds
// codeBufBits valid low-order bits; the high bits are always zero.
// Codes are packed LSB-first within each byte, so bits are taken from
// the bottom of the register and bytes shifted in at the top.
type bitReader struct {
	src         *bitstream.Reader
	codeBuf     uint32
	codeBufBits uint
	eof         bool
}

func newBitReader(src *bitstream.Reader) *bitReader {
	return &bitReader{src: src}
}

// refill pulls whole bytes into codeBuf until it holds more than 24
// bits or the underlying buffer is exhausted. Running out of bytes is
// not itself an error: the valid bits already buffered may still hold
// one or more complete codes.
func (b *bitReader) refill() {
	for b.codeBufBits <= 24 {
		if b.src.Remaining() == 0 {
			return
		}
		by, _ := b.src.ReadBytes(1)
		b.codeBuf |= uint32(by[0]) << b.codeBufBits
		b.codeBufBits += 8
	}
}

// getBits returns the next n bits (1 <= n <= 16) as the low-order bits
// of the result. If the stream is exhausted mid-read it returns zero
// for the missing bits and sets the eof flag for the caller to check.
func (b *bitReader) getBits(n uint) uint32 {
	if b.codeBufBits < n {
		b.refill()
		if b.codeBufBits < n {
			b.eof = true
		}
	}
	v := b.codeBuf & ((1 << n) - 1)
	b.codeBuf >>= n
	if b.codeBufBits >= n {
		b.codeBufBits -= n
	} else {
		b.codeBufBits = 0
	}
	return v
}

// peekBits returns the next n bits without consuming them, zero-padded
// if fewer remain. Used by the Huffman decoder, which must know a
// code's length before it can consume the right number of bits; the
// decoder checks the resolved code's length against availableBits
// itself, since a short final code at the end of the stream is legal.
func (b *bitReader) peekBits(n uint) uint32 {
	if b.codeBufBits < n {
		b.refill()
	}
	return b.codeBuf & ((1 << n) - 1)
}

// availableBits reports how many buffered bits remain; once the
// underlying buffer is exhausted this bounds what a decode may consume.
func (b *bitReader) availableBits() uint {
	return b.codeBufBits
}

// dropBits consumes n bits already inspected via peekBits.
func (b *bitReader) dropBits(n uint) {
	b.codeBuf >>= n
	if b.codeBufBits >= n {
		b.codeBufBits -= n
	} else {
		b.codeBufBits = 0
	}
}

// alignToByte discards any partial byte remaining in the bit buffer,
// per the stored-block (BTYPE=0) framing rule.
func (b *bitReader) alignToByte() {
	drop := b.codeBufBits % 8
	b.codeBuf >>= drop
	b.codeBufBits -= drop
}

// readAlignedByte returns one whole byte, assuming alignToByte has
// already been called (or codeBufBits is a multiple of 8).
func (b *bitReader) readAlignedByte() (byte, error) {
	if b.codeBufBits > 0 {
		v := byte(b.codeBuf & 0xff)
		b.codeBuf >>= 8
		b.codeBufBits -= 8
		return v, nil
	}
	by, err := b.src.ReadBytes(1)
	if err != nil {
		return 0, ErrUnexpectedEOF
	}
	return by[0], nil
}
