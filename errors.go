// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pngcore

import (
	"github.com/cosnicolaou/pngcore/internal/deflate"
	"github.com/cosnicolaou/pngcore/internal/png"
)

// Error is the flat enumeration of everything Decode can fail with.
type Error int

// Error codes. Zero is reserved so a zero-valued Error never prints a
// misleading message.
const (
	_ Error = iota
	BadSignature
	InvalidFile
	IhdrNotFound
	MultipleIHDR
	CorruptIHDR
	CrcMismatch
	CorruptedStream
	UnexpectedEof
	BadBitDepth
	BadColorType
	BadBitDepthCombo
	BadInterlace
	ZeroSize
	BigImage
	GammaAfterPLTE
	MultipleGAMA
	UnexpectedPLTE
	NoIdat
	NoPLTE
	IdatTooLarge
	ZlibHeaderCorrupted
	UnsupportedCompression
	PresetDictNotAllowed
	BadCodeLengths
	InvalidSymbol
	OutOfMemory
	TypeNotSupported
)

// errorText maps each code to its diagnostic message.
var errorText = map[Error]string{
	BadSignature:           "bad PNG signature",
	InvalidFile:            "malformed chunk framing",
	IhdrNotFound:           "chunk encountered before IHDR",
	MultipleIHDR:           "more than one IHDR chunk",
	CorruptIHDR:            "malformed IHDR chunk",
	CrcMismatch:            "chunk CRC-32 mismatch",
	CorruptedStream:        "corrupted DEFLATE stream",
	UnexpectedEof:          "unexpected end of input",
	BadBitDepth:            "unsupported bit depth",
	BadColorType:           "unsupported color type",
	BadBitDepthCombo:       "bit depth not valid for color type",
	BadInterlace:           "unsupported interlace method",
	ZeroSize:               "zero width or height",
	BigImage:               "image exceeds the maximum allowed dimension",
	GammaAfterPLTE:         "gAMA chunk after PLTE",
	MultipleGAMA:           "more than one gAMA chunk",
	UnexpectedPLTE:         "PLTE chunk not allowed for this color type",
	NoIdat:                 "no IDAT chunk before IEND",
	NoPLTE:                 "indexed color image has no PLTE chunk",
	IdatTooLarge:           "IDAT data exceeds the size limit",
	ZlibHeaderCorrupted:    "corrupt zlib header",
	UnsupportedCompression: "unsupported zlib compression method",
	PresetDictNotAllowed:   "zlib preset dictionaries are not supported",
	BadCodeLengths:         "invalid Huffman code lengths",
	InvalidSymbol:          "invalid DEFLATE symbol",
	OutOfMemory:            "out of memory",
	TypeNotSupported:       "unsupported critical chunk type",
}

// Error implements the error interface.
func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return "pngcore: " + s
	}
	return "pngcore: unknown error"
}

// pngErrorCodes maps the internal png package's sentinel errors onto
// the public Error enumeration.
var pngErrorCodes = map[png.StructuralError]Error{
	png.ErrBadSignature:     BadSignature,
	png.ErrUnexpectedEOF:    UnexpectedEof,
	png.ErrIhdrNotFound:     IhdrNotFound,
	png.ErrMultipleIHDR:     MultipleIHDR,
	png.ErrCorruptIHDR:      CorruptIHDR,
	png.ErrCrcMismatch:      CrcMismatch,
	png.ErrBadBitDepth:      BadBitDepth,
	png.ErrBadColorType:     BadColorType,
	png.ErrBadBitDepthCombo: BadBitDepthCombo,
	png.ErrBadInterlace:     BadInterlace,
	png.ErrZeroSize:         ZeroSize,
	png.ErrBigImage:         BigImage,
	png.ErrGammaAfterPLTE:   GammaAfterPLTE,
	png.ErrMultipleGAMA:     MultipleGAMA,
	png.ErrUnexpectedPLTE:   UnexpectedPLTE,
	png.ErrNoIdat:           NoIdat,
	png.ErrNoPLTE:           NoPLTE,
	png.ErrIdatTooLarge:     IdatTooLarge,
	png.ErrTypeNotSupported: TypeNotSupported,
	png.ErrInvalidFile:      InvalidFile,
}

// deflateErrorCodes maps the internal deflate package's sentinel
// errors onto the public Error enumeration.
var deflateErrorCodes = map[deflate.StructuralError]Error{
	deflate.ErrUnexpectedEOF:          UnexpectedEof,
	deflate.ErrCorruptedStream:        CorruptedStream,
	deflate.ErrInvalidSymbol:          InvalidSymbol,
	deflate.ErrBadCodeLengths:         BadCodeLengths,
	deflate.ErrZlibHeaderCorrupted:    ZlibHeaderCorrupted,
	deflate.ErrUnsupportedCompression: UnsupportedCompression,
	deflate.ErrPresetDictNotAllowed:   PresetDictNotAllowed,
}

// wrapError translates an error returned by the internal png or
// deflate packages into the public Error enumeration. Errors of any
// other type (there should be none on any code path) pass through
// unchanged so a bug surfaces rather than silently becoming
// InvalidFile.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(png.StructuralError); ok {
		if code, ok := pngErrorCodes[pe]; ok {
			return code
		}
	}
	if de, ok := err.(deflate.StructuralError); ok {
		if code, ok := deflateErrorCodes[de]; ok {
			return code
		}
	}
	return err
}
