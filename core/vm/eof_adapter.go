// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"github.com/erigontech/erigon-eof/execution/eof"
)

// Addressing of EOF contracts.
//
// All positions are container relative: the program counter of an EOF
// contract starts at the first byte of the code section and must stay within
// it, while code observation (CODESIZE, CODECOPY, EXTCODE*) sees the whole
// container. A nil layout denotes legacy code, which keeps legacy semantics.

// InitialPC returns the program counter execution starts at.
func InitialPC(layout *eof.Layout) uint64 {
	if layout == nil {
		return 0
	}
	return layout.Code().Offset
}

// IsLegalJumpTarget reports whether target lies inside the code section. It
// does not check instruction boundaries, see Contract.validJumpdest.
func IsLegalJumpTarget(layout *eof.Layout, target uint64) bool {
	if layout == nil {
		return true
	}
	return layout.Code().Contains(target)
}

// PCOutOfBounds reports whether pc left the code section. Execution must
// abort with ErrPCOutOfBounds rather than read framing or data bytes.
func PCOutOfBounds(layout *eof.Layout, pc uint64) bool {
	if layout == nil {
		return false
	}
	return !layout.Code().Contains(pc)
}

// WholeContainer returns the bytes observed by code introspection.
func WholeContainer(code []byte) []byte {
	return code
}
