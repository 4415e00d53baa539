// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package png

import "github.com/cosnicolaou/pngcore/internal/bitstream"

// maxIdatChunk caps a single IDAT chunk's payload.
const maxIdatChunk = 1 << 30

// maxCompressed caps the concatenated IDAT stream.
const maxCompressed = 1 << 30

// Result is everything the chunk parser hands off to the DEFLATE
// stage: the validated header, the concatenated compressed bytes, and
// any gAMA value seen.
type Result struct {
	Header     IHDR
	Compressed []byte
	Gamma      uint32
	HasGamma   bool
}

// Options controls the parser's CRC and dimension policy.
type Options struct {
	CheckCRC bool
	MaxDim   uint32
}

// Parse walks a PNG datastream's signature and chunk sequence,
// enforcing the ordering rules between IHDR, gAMA, PLTE, IDAT and
// IEND, and returns the validated IHDR together with the concatenated
// IDAT payload ready for zlib/DEFLATE decoding.
func Parse(input []byte, opts Options) (Result, error) {
	r := bitstream.New(input)

	sig, err := r.ReadBytes(8)
	if err != nil {
		return Result{}, ErrUnexpectedEOF
	}
	if [8]byte(sig) != Signature {
		return Result{}, ErrBadSignature
	}

	if r.Remaining() == 0 {
		// A bare signature carries no chunk at all, so no IHDR either.
		return Result{}, ErrIhdrNotFound
	}

	p := &parser{r: r, opts: opts, state: stateExpectIHDR}
	for {
		done, err := p.step()
		if err != nil {
			return Result{}, err
		}
		if done {
			break
		}
	}
	return p.result, nil
}

type parser struct {
	r      *bitstream.Reader
	opts   Options
	state  state
	result Result

	seenIHDR bool
	seenIDAT bool
	seenPLTE bool
	seenGAMA bool
}

// step reads and dispatches a single chunk, advancing the state
// machine. It reports done=true once IEND has been processed.
func (p *parser) step() (done bool, err error) {
	c, err := readChunk(p.r, p.opts.CheckCRC)
	if err != nil {
		return false, err
	}

	if p.state == stateExpectIHDR && c.typeString() != "IHDR" {
		return false, ErrIhdrNotFound
	}

	switch c.typeString() {
	case "IHDR":
		return false, p.handleIHDR(c)
	case "gAMA":
		return false, p.handleGAMA(c)
	case "PLTE":
		return false, p.handlePLTE(c)
	case "IDAT":
		return false, p.handleIDAT(c)
	case "IEND":
		return true, p.handleIEND(c)
	default:
		if c.isAncillary() {
			// Unknown ancillary chunks are skipped; only unknown
			// critical chunks are fatal.
			return false, nil
		}
		return false, ErrTypeNotSupported
	}
}

func (p *parser) handleIHDR(c chunk) error {
	if p.seenIHDR {
		return ErrMultipleIHDR
	}
	h, err := parseIHDR(c.payload, p.opts.MaxDim)
	if err != nil {
		return err
	}
	p.result.Header = h
	p.seenIHDR = true
	p.state = stateAfterIHDR
	return nil
}

func (p *parser) handleGAMA(c chunk) error {
	if p.state == stateAfterPLTE {
		return ErrGammaAfterPLTE
	}
	if p.seenGAMA {
		return ErrMultipleGAMA
	}
	if len(c.payload) != 4 {
		return ErrInvalidFile
	}
	p.result.Gamma = be32(c.payload)
	p.result.HasGamma = true
	p.seenGAMA = true
	return nil
}

func (p *parser) handlePLTE(c chunk) error {
	ct := p.result.Header.ColorType
	if ct == ColorGreyscale || ct == ColorGreyscaleAlpha {
		return ErrUnexpectedPLTE
	}
	p.seenPLTE = true
	p.state = stateAfterPLTE
	return nil
}

func (p *parser) handleIDAT(c chunk) error {
	if len(c.payload) > maxIdatChunk {
		return ErrIdatTooLarge
	}
	if len(p.result.Compressed)+len(c.payload) > maxCompressed {
		return ErrIdatTooLarge
	}
	p.result.Compressed = append(p.result.Compressed, c.payload...)
	p.seenIDAT = true
	return nil
}

func (p *parser) handleIEND(c chunk) error {
	if !p.seenIDAT {
		return ErrNoIdat
	}
	if p.result.Header.ColorType == ColorIndexed && !p.seenPLTE {
		return ErrNoPLTE
	}
	p.state = stateEnd
	return nil
}
