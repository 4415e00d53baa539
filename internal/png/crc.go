// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package png

import "hash/crc32"

// checkCRC verifies a chunk's trailing CRC-32 against type and
// payload. PNG uses the standard, reflected ISO-3309 polynomial
// (0xEDB88320), which is exactly the table hash/crc32 calls IEEE.
func checkCRC(typeAndPayload []byte, want uint32) bool {
	got := crc32.ChecksumIEEE(typeAndPayload)
	return got == want
}
