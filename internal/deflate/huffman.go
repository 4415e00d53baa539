// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package deflate

// huffmanEntry is one slot of a canonical Huffman decode table: the
// length, in bits, of the code that resolves to symbol, or length==0
// if no code of that value has been assigned.
type huffmanEntry struct {
	length uint8
	symbol uint16
}

// huffmanTable is a flat decode table indexed by the next maxBits of
// input (LSB-first, read without consuming). DEFLATE codes top out at
// 15 bits, so a full table is at most 32768 entries and a lookup is a
// single index rather than a tree walk.
type huffmanTable struct {
	maxBits uint
	entries []huffmanEntry
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint32, n uint) uint32 {
	var r uint32
	for i := uint(0); i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// newHuffmanTable builds a canonical Huffman decode table from lens,
// the bit length assigned to each symbol (0 meaning the symbol is
// unused), per RFC 1951 §3.2.2.
func newHuffmanTable(lens []uint8) (*huffmanTable, error) {
	var maxBits uint8
	for _, l := range lens {
		if l > maxBits {
			maxBits = l
		}
	}
	if maxBits == 0 {
		// No symbol has a code, e.g. the distance alphabet of a block
		// that contains no length/distance pairs at all. decode must
		// never legitimately be called on the result.
		return &huffmanTable{maxBits: 0, entries: []huffmanEntry{{}}}, nil
	}

	const maxSupportedBits = 15
	if maxBits > maxSupportedBits {
		return nil, ErrBadCodeLengths
	}

	var blCount [maxSupportedBits + 2]int
	for _, l := range lens {
		blCount[l]++
	}
	blCount[0] = 0

	var nextCode [maxSupportedBits + 2]int
	code := 0
	for bits := 1; bits <= int(maxBits); bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	// Kraft inequality: 2^maxBits must be exactly consumed by the
	// assigned codes, except for the well-known degenerate cases of an
	// empty table (no symbols at all, handled above) or a single
	// symbol (which legitimately leaves the table half-subscribed).
	used := 0
	nonZero := 0
	for _, l := range lens {
		if l == 0 {
			continue
		}
		nonZero++
		used += 1 << (maxBits - l)
	}
	full := 1 << maxBits
	if used > full {
		return nil, ErrBadCodeLengths
	}
	if used < full && nonZero > 1 {
		return nil, ErrBadCodeLengths
	}

	t := &huffmanTable{
		maxBits: uint(maxBits),
		entries: make([]huffmanEntry, 1<<maxBits),
	}

	for sym, l := range lens {
		if l == 0 {
			continue
		}
		canonical := nextCode[l]
		nextCode[l]++
		// The canonical code is assigned most-significant-bit first;
		// DEFLATE transmits it LSB-first, so the decode table is
		// indexed by the bit-reversed code, replicated across every
		// index whose low l bits match it.
		reversed := reverseBits(uint32(canonical), uint(l))
		stride := uint(1) << uint(l)
		for fill := reversed; fill < uint32(1<<t.maxBits); fill += uint32(stride) {
			t.entries[fill] = huffmanEntry{length: l, symbol: uint16(sym)}
		}
	}
	return t, nil
}

// decode reads one symbol from br using t: it peeks maxBits of input,
// looks up the entry, and consumes exactly entry.length bits.
func (t *huffmanTable) decode(br *bitReader) (uint16, error) {
	idx := br.peekBits(t.maxBits)
	e := t.entries[idx]
	if e.length == 0 {
		return 0, ErrBadCodeLengths
	}
	// peekBits zero-pads past the end of the stream; the lookup is only
	// trustworthy if the code it resolved to fits in the bits that
	// actually remain.
	if uint(e.length) > br.availableBits() {
		return 0, ErrCorruptedStream
	}
	br.dropBits(uint(e.length))
	return e.symbol, nil
}
