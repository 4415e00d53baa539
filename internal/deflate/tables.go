// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package deflate

// lengthBase and lengthExtra give the base length and extra-bit count
// for length symbols 257..285, per RFC 1951 §3.2.5.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra give the base distance and extra-bit count
// for distance symbols 0..29.
var distBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193,
	12289, 16385, 24577,
}

var distExtra = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order in which the dynamic block's HCLEN
// code-length code lengths are transmitted (RFC 1951 §3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// fixedLitLengths is the literal/length code length assignment used
// by BTYPE=1 fixed-Huffman blocks, per RFC 1951 §3.2.6.
func fixedLitLengths() []uint8 {
	lens := make([]uint8, 288)
	for i := 0; i < 144; i++ {
		lens[i] = 8
	}
	for i := 144; i < 256; i++ {
		lens[i] = 9
	}
	for i := 256; i < 280; i++ {
		lens[i] = 7
	}
	for i := 280; i < 288; i++ {
		lens[i] = 8
	}
	return lens
}

// fixedDistLengths is the distance code length assignment for
// BTYPE=1 blocks: all 32 codes are 5 bits. Symbols 30 and 31 complete
// the code but never appear in valid data; decodeHuffmanBlock rejects
// them.
func fixedDistLengths() []uint8 {
	lens := make([]uint8, 32)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}
