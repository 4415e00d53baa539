// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package deflate implements the RFC 1951 DEFLATE decompressor and its
// RFC 1950 zlib framing, as used to decode a PNG's concatenated IDAT
// stream. It understands stored, fixed-Huffman and dynamic-Huffman
// blocks and LZ77 back-reference expansion; it does not implement
// encoding.
package deflate

import "github.com/cosnicolaou/pngcore/internal/bitstream"

const maxWindowDistance = 32 * 1024

// Inflate decompresses a raw DEFLATE stream (no zlib wrapper) read
// from src, appending output bytes as it goes. sizeHint, if non-zero,
// preallocates the output buffer to reduce reallocation; it is not a
// hard limit.
func Inflate(src []byte, sizeHint int) ([]byte, error) {
	br := newBitReader(bitstream.New(src))
	out := make([]byte, 0, sizeHint)

	for {
		final := br.getBits(1)
		btype := br.getBits(2)
		if br.eof {
			return nil, ErrCorruptedStream
		}

		var err error
		switch btype {
		case 0:
			out, err = decodeStored(br, out)
		case 1:
			out, err = decodeHuffmanBlock(br, out, fixedLiteralTable(), fixedDistanceTable())
		case 2:
			out, err = decodeDynamicBlock(br, out)
		default:
			return nil, ErrCorruptedStream
		}
		if err != nil {
			return nil, err
		}
		if final == 1 {
			break
		}
	}
	return out, nil
}

var (
	cachedFixedLit  *huffmanTable
	cachedFixedDist *huffmanTable
)

// fixedLiteralTable and fixedDistanceTable lazily build and cache the
// RFC 1951 §3.2.6 fixed tables: they are the same for every BTYPE=1
// block ever decoded, so they are computed once and shared read-only
// thereafter.
func fixedLiteralTable() *huffmanTable {
	if cachedFixedLit == nil {
		t, err := newHuffmanTable(fixedLitLengths())
		if err != nil {
			panic("deflate: fixed literal table is malformed: " + err.Error())
		}
		cachedFixedLit = t
	}
	return cachedFixedLit
}

func fixedDistanceTable() *huffmanTable {
	if cachedFixedDist == nil {
		t, err := newHuffmanTable(fixedDistLengths())
		if err != nil {
			panic("deflate: fixed distance table is malformed: " + err.Error())
		}
		cachedFixedDist = t
	}
	return cachedFixedDist
}

// decodeStored copies a BTYPE=0 stored block verbatim into out.
func decodeStored(br *bitReader, out []byte) ([]byte, error) {
	br.alignToByte()
	lenLo, err := br.readAlignedByte()
	if err != nil {
		return nil, err
	}
	lenHi, err := br.readAlignedByte()
	if err != nil {
		return nil, err
	}
	nlenLo, err := br.readAlignedByte()
	if err != nil {
		return nil, err
	}
	nlenHi, err := br.readAlignedByte()
	if err != nil {
		return nil, err
	}
	length := uint16(lenLo) | uint16(lenHi)<<8
	nlen := uint16(nlenLo) | uint16(nlenHi)<<8
	if length != ^nlen {
		return nil, ErrCorruptedStream
	}
	if int(length) > int(br.availableBits()/8)+br.src.Remaining() {
		return nil, ErrCorruptedStream
	}
	for i := uint16(0); i < length; i++ {
		b, err := br.readAlignedByte()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// decodeHuffmanBlock decodes a fixed or dynamic Huffman block's body:
// a sequence of literal/length and distance symbols ending in the
// end-of-block marker (symbol 256).
func decodeHuffmanBlock(br *bitReader, out []byte, lit, dist *huffmanTable) ([]byte, error) {
	for {
		sym, err := lit.decode(br)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < 256:
			out = append(out, byte(sym))
		case sym == 256:
			return out, nil
		case sym <= 285:
			idx := sym - 257
			length := int(lengthBase[idx]) + int(br.getBits(uint(lengthExtra[idx])))

			dsym, err := dist.decode(br)
			if err != nil {
				return nil, err
			}
			if dsym >= 30 {
				return nil, ErrInvalidSymbol
			}
			distance := int(distBase[dsym]) + int(br.getBits(uint(distExtra[dsym])))

			if distance < 1 || distance > maxWindowDistance || distance > len(out) {
				return nil, ErrCorruptedStream
			}
			// Copy byte by byte: for distance < length the source and
			// destination ranges overlap, which is exactly how LZ77
			// expresses a run-length repeat.
			src := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[src+i])
			}
		default:
			return nil, ErrInvalidSymbol
		}
		if br.eof {
			return nil, ErrCorruptedStream
		}
	}
}

// decodeDynamicBlock reads a BTYPE=2 block's dynamic Huffman tables
// and then decodes its body, per RFC 1951 §3.2.7.
func decodeDynamicBlock(br *bitReader, out []byte) ([]byte, error) {
	hlit := int(br.getBits(5)) + 257
	hdist := int(br.getBits(5)) + 1
	hclen := int(br.getBits(4)) + 4

	var clLens [19]uint8
	for i := 0; i < hclen; i++ {
		clLens[codeLengthOrder[i]] = uint8(br.getBits(3))
	}
	if br.eof {
		return nil, ErrCorruptedStream
	}
	clTable, err := newHuffmanTable(clLens[:])
	if err != nil {
		return nil, err
	}

	total := hlit + hdist
	lens := make([]uint8, total)
	for i := 0; i < total; {
		sym, err := clTable.decode(br)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < 16:
			lens[i] = uint8(sym)
			i++
		case sym == 16:
			if i == 0 {
				return nil, ErrBadCodeLengths
			}
			repeat := 3 + int(br.getBits(2))
			if i+repeat > total {
				return nil, ErrBadCodeLengths
			}
			prev := lens[i-1]
			for ; repeat > 0; repeat-- {
				lens[i] = prev
				i++
			}
		case sym == 17:
			repeat := 3 + int(br.getBits(3))
			if i+repeat > total {
				return nil, ErrBadCodeLengths
			}
			for ; repeat > 0; repeat-- {
				lens[i] = 0
				i++
			}
		case sym == 18:
			repeat := 11 + int(br.getBits(7))
			if i+repeat > total {
				return nil, ErrBadCodeLengths
			}
			for ; repeat > 0; repeat-- {
				lens[i] = 0
				i++
			}
		default:
			return nil, ErrInvalidSymbol
		}
		if br.eof {
			return nil, ErrCorruptedStream
		}
	}

	litTable, err := newHuffmanTable(lens[:hlit])
	if err != nil {
		return nil, err
	}
	distTable, err := newHuffmanTable(lens[hlit:])
	if err != nil {
		return nil, err
	}
	return decodeHuffmanBlock(br, out, litTable, distTable)
}
