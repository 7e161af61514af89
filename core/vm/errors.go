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
	"errors"
)

// List evm execution errors
var (
	ErrMaxCodeSizeExceeded     = errors.New("max code size exceeded")
	ErrMaxInitCodeSizeExceeded = errors.New("max initcode size exceeded")
	ErrInvalidJump             = errors.New("invalid jump destination")
	ErrInvalidCode             = errors.New("invalid code")

	// ErrPCOutOfBounds is returned when the program counter of an EOF
	// contract leaves its code section.
	ErrPCOutOfBounds = errors.New("program counter out of code section")
)
