// Copyright 2016 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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
	"github.com/holiman/uint256"

	"github.com/erigontech/erigon-eof/common"
	"github.com/erigontech/erigon-eof/execution/eof"
)

// Contract represents an ethereum contract in the state database. It contains
// the contract code and, for EOF contracts, the validated container layout.
type Contract struct {
	Code     []byte
	CodeHash common.Hash
	// Layout is nil for legacy code.
	Layout *eof.Layout

	analysis     bitvec // Locally cached result of JUMPDEST analysis
	skipAnalysis bool
	jumpdests    *JumpDestCache // Aggregated result of JUMPDEST analysis.
}

// NewContract returns a new contract environment for the execution of EVM.
func NewContract(skipAnalysis bool, jumpDest *JumpDestCache) *Contract {
	return &Contract{skipAnalysis: skipAnalysis, jumpdests: jumpDest}
}

// SetCallCode sets the code of the contract. layout must be the result of
// validating code, or nil for legacy code.
func (c *Contract) SetCallCode(hash common.Hash, code []byte, layout *eof.Layout) {
	c.Code = code
	c.CodeHash = hash
	c.Layout = layout
	c.analysis = nil
}

func (c *Contract) IsEOF() bool { return c.Layout != nil }

// InitialPC returns the program counter execution starts at.
func (c *Contract) InitialPC() uint64 { return InitialPC(c.Layout) }

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	// PC cannot go beyond len(code) and certainly can't be bigger than 63bits.
	// Don't bother checking for JUMPDEST in that case.
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if !IsLegalJumpTarget(c.Layout, udest) {
		return false
	}
	// Only JUMPDESTs allowed for destinations
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// JumpTarget returns the new program counter for a JUMP to dest.
func (c *Contract) JumpTarget(dest *uint256.Int) (uint64, error) {
	if !c.validJumpdest(dest) {
		return 0, ErrInvalidJump
	}
	return dest.Uint64(), nil
}

// isCode returns true if the provided PC location is an actual opcode, as
// opposed to a data-segment following a PUSHN operation.
func (c *Contract) isCode(udest uint64) bool {
	// Do we already have an analysis laying around?
	if c.analysis != nil {
		return c.analysis.codeSegment(udest - InitialPC(c.Layout))
	}
	if c.skipAnalysis {
		return true
	}
	start, section := InitialPC(c.Layout), c.codeSection()
	// Do we have a contract hash already?
	// If we do have a hash, that means it's a 'regular' contract. For regular
	// contracts ( not temporary initcode), we store the analysis in a map
	if c.CodeHash != (common.Hash{}) && c.jumpdests != nil {
		// Does parent context have the analysis?
		analysis, exist := c.jumpdests.Get(c.CodeHash, start)
		if !exist {
			// Do the analysis and save in parent context
			// We do not need to store it in c.analysis
			analysis = codeBitmap(section)
			c.jumpdests.Add(c.CodeHash, start, analysis)
		}
		// Also stash it in current contract for faster access
		c.analysis = analysis
		return c.analysis.codeSegment(udest - start)
	}
	// We don't have the code hash, most likely a piece of initcode not already
	// in state trie. In that case, we do an analysis, and save it locally, so
	// we don't have to recalculate it for every JUMP instruction in the execution
	// However, we don't save it within the parent context
	c.analysis = codeBitmap(section)
	return c.analysis.codeSegment(udest - start)
}

func (c *Contract) codeSection() []byte {
	if c.Layout == nil {
		return c.Code
	}
	return c.Layout.Code().Slice(c.Code)
}

// GetOp returns the n'th element in the contract's byte array
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// NextOp returns the opcode at pc, failing with ErrPCOutOfBounds when an EOF
// contract's pc is outside its code section.
func (c *Contract) NextOp(pc uint64) (OpCode, error) {
	if PCOutOfBounds(c.Layout, pc) {
		return STOP, ErrPCOutOfBounds
	}
	return c.GetOp(pc), nil
}

// CodeSize is the value CODESIZE pushes: the length of the whole container.
func (c *Contract) CodeSize() *uint256.Int {
	return uint256.NewInt(uint64(len(WholeContainer(c.Code))))
}

// CodeCopy returns size bytes of the container starting at offset, zero
// padded past its end, as CODECOPY does.
func (c *Contract) CodeCopy(offset *uint256.Int, size uint64) []byte {
	code := WholeContainer(c.Code)
	start, overflow := offset.Uint64WithOverflow()
	if overflow || start > uint64(len(code)) {
		start = uint64(len(code))
	}
	end := uint64(len(code))
	if size < end-start {
		end = start + size
	}
	out := make([]byte, size)
	copy(out, code[start:end])
	return out
}

// JumpDests lists the positions a JUMP may land on.
func (c *Contract) JumpDests() []uint64 {
	var dests []uint64
	start := InitialPC(c.Layout)
	end := uint64(len(c.Code))
	if c.Layout != nil {
		end = c.Layout.Code().End()
	}
	var dest uint256.Int
	for pc := start; pc < end; pc++ {
		if c.validJumpdest(dest.SetUint64(pc)) {
			dests = append(dests, pc)
		}
	}
	return dests
}
