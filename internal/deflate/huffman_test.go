// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package deflate

import (
	"testing"

	"github.com/cosnicolaou/pngcore/internal/bitstream"
)

// bitWriter packs bits LSB-first into a byte slice, mirroring the
// convention consumed by bitReader, for use by tests that need to
// construct raw DEFLATE bit streams.
type bitWriter struct {
	buf     []byte
	cur     uint32
	curBits uint
}

func (w *bitWriter) writeBits(v uint32, n uint) {
	w.cur |= v << w.curBits
	w.curBits += n
	for w.curBits >= 8 {
		w.buf = append(w.buf, byte(w.cur&0xff))
		w.cur >>= 8
		w.curBits -= 8
	}
}

func (w *bitWriter) bytes() []byte {
	if w.curBits > 0 {
		return append(append([]byte{}, w.buf...), byte(w.cur&0xff))
	}
	return w.buf
}

// TestHuffmanTableDecodesCanonicalCodes checks that a table built from
// lens decodes every symbol s with lens[s] > 0 back to itself when fed
// that symbol's canonical code LSB-first.
func TestHuffmanTableDecodesCanonicalCodes(t *testing.T) {
	lens := []uint8{3, 3, 3, 3, 3, 3, 4, 4}
	table, err := newHuffmanTable(lens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Recompute the canonical codes the same way newHuffmanTable does,
	// then feed each one through, MSB-assigned but LSB-transmitted.
	var blCount [17]int
	for _, l := range lens {
		blCount[l]++
	}
	var nextCode [17]int
	code := 0
	for bits := 1; bits <= 16; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	for sym, l := range lens {
		canonical := nextCode[l]
		nextCode[l]++

		w := &bitWriter{}
		w.writeBits(reverseBits(uint32(canonical), uint(l)), uint(l))
		br := newBitReader(bitstream.New(w.bytes()))
		got, err := table.decode(br)
		if err != nil {
			t.Fatalf("symbol %d: unexpected error: %v", sym, err)
		}
		if got != uint16(sym) {
			t.Errorf("symbol %d: got %d, want %d", sym, got, sym)
		}
	}
}

func TestHuffmanTableOverSubscribed(t *testing.T) {
	// Every symbol assigned 1 bit: two codes can't cover four leaves.
	if _, err := newHuffmanTable([]uint8{1, 1, 1, 1}); err != ErrBadCodeLengths {
		t.Errorf("got %v, want %v", err, ErrBadCodeLengths)
	}
}

func TestHuffmanTableSingleSymbol(t *testing.T) {
	table, err := newHuffmanTable([]uint8{0, 1, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br := newBitReader(bitstream.New([]byte{0x00}))
	got, err := table.decode(br)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestHuffmanTableEmpty(t *testing.T) {
	table, err := newHuffmanTable([]uint8{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br := newBitReader(bitstream.New([]byte{0x00}))
	if _, err := table.decode(br); err != ErrBadCodeLengths {
		t.Errorf("got %v, want %v", err, ErrBadCodeLengths)
	}
}
