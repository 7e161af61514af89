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
	"fmt"
)

// OpCode is an EVM opcode
type OpCode byte

// IsPush specifies if an opcode is a PUSH opcode.
func (op OpCode) IsPush() bool {
	return PUSH1 <= op && op <= PUSH32
}

// 0x0 range - arithmetic ops.
const (
	STOP OpCode = 0x0
	ADD  OpCode = 0x1
)

// 0x30 range - closure state.
const (
	CODESIZE OpCode = 0x38
	CODECOPY OpCode = 0x39

	EXTCODESIZE OpCode = 0x3b
	EXTCODECOPY OpCode = 0x3c
	EXTCODEHASH OpCode = 0x3f
)

// 0x50 range - 'storage' and execution.
const (
	POP      OpCode = 0x50
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	JUMPDEST OpCode = 0x5b
	PUSH0    OpCode = 0x5f
)

// 0x60 range - pushes.
const (
	PUSH1 OpCode = 0x60 + iota
	PUSH2
	PUSH3
	PUSH4
	PUSH5
	PUSH6
	PUSH7
	PUSH8
	PUSH9
	PUSH10
	PUSH11
	PUSH12
	PUSH13
	PUSH14
	PUSH15
	PUSH16
	PUSH17
	PUSH18
	PUSH19
	PUSH20
	PUSH21
	PUSH22
	PUSH23
	PUSH24
	PUSH25
	PUSH26
	PUSH27
	PUSH28
	PUSH29
	PUSH30
	PUSH31
	PUSH32
)

// 0xf0 range - closures.
const (
	CREATE  OpCode = 0xf0
	RETURN  OpCode = 0xf3
	CREATE2 OpCode = 0xf5
	REVERT  OpCode = 0xfd
	INVALID OpCode = 0xfe
)

// Since the opcodes aren't all in order we can't use a regular slice.
var opCodeToString = map[OpCode]string{
	STOP:        "STOP",
	ADD:         "ADD",
	CODESIZE:    "CODESIZE",
	CODECOPY:    "CODECOPY",
	EXTCODESIZE: "EXTCODESIZE",
	EXTCODECOPY: "EXTCODECOPY",
	EXTCODEHASH: "EXTCODEHASH",
	POP:         "POP",
	JUMP:        "JUMP",
	JUMPI:       "JUMPI",
	PC:          "PC",
	JUMPDEST:    "JUMPDEST",
	PUSH0:       "PUSH0",
	CREATE:      "CREATE",
	RETURN:      "RETURN",
	CREATE2:     "CREATE2",
	REVERT:      "REVERT",
	INVALID:     "INVALID",
}

func (op OpCode) String() string {
	if op.IsPush() {
		return fmt.Sprintf("PUSH%d", int(op-PUSH1)+1)
	}
	if s, ok := opCodeToString[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode %#x not defined", int(op))
}
