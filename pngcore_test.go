// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package pngcore_test

import (
	"bytes"
	"hash/crc32"
	"testing"

	"github.com/cosnicolaou/pngcore"
)

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func chunk(typ string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write(be32(uint32(len(payload))))
	buf.WriteString(typ)
	buf.Write(payload)
	buf.Write(be32(crc32.ChecksumIEEE(append([]byte(typ), payload...))))
	return buf.Bytes()
}

// zlibStoredBlock wraps payload in a single zlib-framed, single
// stored-block DEFLATE stream: CMF/FLG, a BFINAL=1/BTYPE=0 block
// header (byte-aligned, so it is just 0x01), LEN/NLEN, the payload
// itself, and a deliberately wrong Adler-32 trailer, which Decode
// treats as advisory.
func zlibStoredBlock(payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x78) // CMF: deflate, 32K window
	buf.WriteByte(0x01) // FLG: makes (0x78*256+0x01) % 31 == 0, no preset dict
	buf.WriteByte(0x01) // BFINAL=1, BTYPE=00 (stored), byte-aligned
	n := uint16(len(payload))
	buf.WriteByte(byte(n))
	buf.WriteByte(byte(n >> 8))
	buf.WriteByte(byte(^n))
	buf.WriteByte(byte(^n >> 8))
	buf.Write(payload)
	buf.Write([]byte{0, 0, 0, 0}) // adler32, unchecked
	return buf.Bytes()
}

func ihdrPayload(width, height uint32, depth, colorType byte) []byte {
	p := make([]byte, 13)
	copy(p[0:4], be32(width))
	copy(p[4:8], be32(height))
	p[8], p[9] = depth, colorType
	return p
}

func buildPNG(width, height uint32, depth, colorType byte, raw []byte) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature())
	buf.Write(chunk("IHDR", ihdrPayload(width, height, depth, colorType)))
	buf.Write(chunk("IDAT", zlibStoredBlock(raw)))
	buf.Write(chunk("IEND", nil))
	return buf.Bytes()
}

func pngSignature() []byte {
	return []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
}

// TestDecodeMinimalGreyscale decodes the smallest well-formed image:
// 1x1 8-bit greyscale, one filter byte plus one sample.
func TestDecodeMinimalGreyscale(t *testing.T) {
	raw := []byte{0x00, 0x00} // filter byte + one 8-bit greyscale sample
	png := buildPNG(1, 1, 8, 0, raw)

	img, err := pngcore.Decode(png)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 1 {
		t.Errorf("got %dx%d, want 1x1", img.Width, img.Height)
	}
	if !bytes.Equal(img.Decompressed, raw) {
		t.Errorf("got %v, want %v", img.Decompressed, raw)
	}
	if img.HasGamma {
		t.Errorf("unexpected gamma %v", img.Gamma)
	}
}

func TestDecodeSignatureOnly(t *testing.T) {
	_, err := pngcore.Decode(pngSignature())
	if err != pngcore.IhdrNotFound {
		t.Errorf("got %v, want %v", err, pngcore.IhdrNotFound)
	}
}

func TestDecodeWrongSignature(t *testing.T) {
	sig := pngSignature()
	sig[0] = 0x88
	_, err := pngcore.Decode(sig)
	if err != pngcore.BadSignature {
		t.Errorf("got %v, want %v", err, pngcore.BadSignature)
	}
}

func TestDecodeZeroWidth(t *testing.T) {
	png := buildPNG(0, 1, 8, 2, []byte{0x00})
	_, err := pngcore.Decode(png)
	if err != pngcore.ZeroSize {
		t.Errorf("got %v, want %v", err, pngcore.ZeroSize)
	}
}

func TestDecodeBadBitDepthCombo(t *testing.T) {
	png := buildPNG(1, 1, 4, 2, []byte{0x00})
	_, err := pngcore.Decode(png)
	if err != pngcore.BadBitDepthCombo {
		t.Errorf("got %v, want %v", err, pngcore.BadBitDepthCombo)
	}
}

func TestDecodeCRCMismatch(t *testing.T) {
	png := buildPNG(1, 1, 8, 0, []byte{0x00, 0x00})
	// flip the last byte of IHDR's CRC trailer.
	idx := len(pngSignature()) + 8 + 13 + 3
	png[idx] ^= 0xff
	_, err := pngcore.Decode(png)
	if err != pngcore.CrcMismatch {
		t.Errorf("got %v, want %v", err, pngcore.CrcMismatch)
	}
}

func TestDecodeCRCCheckDisabled(t *testing.T) {
	png := buildPNG(1, 1, 8, 0, []byte{0x00, 0x00})
	idx := len(pngSignature()) + 8 + 13 + 3
	png[idx] ^= 0xff
	img, err := pngcore.Decode(png, pngcore.WithCRCCheck(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 {
		t.Errorf("got width %d, want 1", img.Width)
	}
}

func TestDecodeMaxDimensionRejectsOversizedImage(t *testing.T) {
	png := buildPNG(200, 1, 8, 0, []byte{0x00})
	_, err := pngcore.Decode(png, pngcore.WithMaxDimension(100))
	if err != pngcore.BigImage {
		t.Errorf("got %v, want %v", err, pngcore.BigImage)
	}
}

func TestDecodeGammaSurfaced(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pngSignature())
	buf.Write(chunk("IHDR", ihdrPayload(1, 1, 8, 0)))
	buf.Write(chunk("gAMA", be32(45455)))
	buf.Write(chunk("IDAT", zlibStoredBlock([]byte{0x00, 0x00})))
	buf.Write(chunk("IEND", nil))

	img, err := pngcore.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !img.HasGamma || img.Gamma != 45455 {
		t.Errorf("got %v/%v, want true/45455", img.HasGamma, img.Gamma)
	}
}
