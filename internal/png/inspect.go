// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package png

import "github.com/cosnicolaou/pngcore/internal/bitstream"

// ChunkInfo summarizes one chunk for diagnostic dumps.
type ChunkInfo struct {
	Type     string
	Length   uint32
	CRCValid bool
	IHDR     *IHDR // set only when Type == "IHDR" and the payload parsed
}

// Walk iterates every chunk in input, in order, without enforcing the
// sequencing rules Parse does — it is a diagnostic tool, meant to show
// the shape of a file that Parse itself refuses to decode. It stops at
// the first framing error (bad length, truncated payload) since at
// that point there is no well-defined next chunk to resume from.
func Walk(input []byte, checkCRC bool) ([]ChunkInfo, error) {
	r := bitstream.New(input)
	sig, err := r.ReadBytes(8)
	if err != nil {
		return nil, ErrUnexpectedEOF
	}
	if [8]byte(sig) != Signature {
		return nil, ErrBadSignature
	}

	var infos []ChunkInfo
	for r.Remaining() > 0 {
		c, crcValid, err := readChunkInspect(r)
		if err != nil {
			return infos, err
		}
		info := ChunkInfo{
			Type:     c.typeString(),
			Length:   uint32(len(c.payload)),
			CRCValid: !checkCRC || crcValid,
		}
		if info.Type == "IHDR" {
			if h, err := parseIHDR(c.payload, 1<<31); err == nil {
				info.IHDR = &h
			}
		}
		infos = append(infos, info)
		if info.Type == "IEND" {
			break
		}
	}
	return infos, nil
}
