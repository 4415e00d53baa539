// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package png

import "testing"

func TestWalkReportsChunkSequence(t *testing.T) {
	png := buildPNG(
		buildChunk("IHDR", ihdrPayload(2, 3, 8, ColorGreyscale), false),
		buildChunk("IDAT", []byte{0x01}, false),
		buildChunk("IEND", nil, false),
	)
	infos, err := Walk(png, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("got %d chunks, want 3", len(infos))
	}
	if infos[0].Type != "IHDR" || infos[0].IHDR == nil {
		t.Fatalf("got %+v, want a decoded IHDR", infos[0])
	}
	if infos[0].IHDR.Width != 2 || infos[0].IHDR.Height != 3 {
		t.Errorf("got %dx%d, want 2x3", infos[0].IHDR.Width, infos[0].IHDR.Height)
	}
	if infos[1].Type != "IDAT" || infos[2].Type != "IEND" {
		t.Errorf("got sequence %+v", infos)
	}
}

func TestWalkReportsCRCMismatch(t *testing.T) {
	png := buildPNG(buildChunk("IHDR", ihdrPayload(1, 1, 8, ColorGreyscale), true))
	infos, err := Walk(png, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 || infos[0].CRCValid {
		t.Errorf("got %+v, want a single chunk with CRCValid=false", infos)
	}
}
