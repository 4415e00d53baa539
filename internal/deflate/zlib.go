// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package deflate

// Zlib parses the RFC 1950 zlib wrapper around a DEFLATE stream —
// CMF/FLG header validation, then the DEFLATE stream itself — and
// returns the decompressed bytes. The trailing Adler-32 is advisory
// only: a mismatch (or its absence, for a truncated stream) is not
// treated as fatal here.
func Zlib(compressed []byte, sizeHint int) ([]byte, error) {
	if len(compressed) < 2 {
		return nil, ErrUnexpectedEOF
	}
	cmf, flg := compressed[0], compressed[1]

	if (int(cmf)*256+int(flg))%31 != 0 {
		return nil, ErrZlibHeaderCorrupted
	}
	if cmf&0x0f != 8 {
		return nil, ErrUnsupportedCompression
	}
	if flg&0x20 != 0 {
		return nil, ErrPresetDictNotAllowed
	}

	return Inflate(compressed[2:], sizeHint)
}
