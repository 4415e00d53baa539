// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package png

// state is the position of the parser within a datastream's required
// chunk ordering. Keeping it as one explicit value rather than a set
// of booleans makes each transition testable on its own.
type state int

const (
	stateInit state = iota
	stateExpectIHDR
	stateAfterIHDR
	stateAfterPLTE
	stateEnd
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateExpectIHDR:
		return "expect-ihdr"
	case stateAfterIHDR:
		return "after-ihdr"
	case stateAfterPLTE:
		return "after-plte"
	case stateEnd:
		return "end"
	default:
		return "unknown"
	}
}
