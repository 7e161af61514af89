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
	"fmt"

	"github.com/erigontech/erigon-eof/execution/chain"
	"github.com/erigontech/erigon-eof/execution/eof"
)

// CodeClass tells how code being created is treated.
type CodeClass uint8

const (
	ClassLegacy CodeClass = iota
	// ClassRejectedFormat is code that starts with the format marker but may
	// not be deployed under the active rules.
	ClassRejectedFormat
	ClassEOF
)

func (c CodeClass) String() string {
	switch c {
	case ClassLegacy:
		return "legacy"
	case ClassRejectedFormat:
		return "rejected"
	case ClassEOF:
		return "eof"
	default:
		return fmt.Sprintf("CodeClass(%d)", uint8(c))
	}
}

// Classification is the outcome of the dispatch rule. For ClassEOF exactly one
// of Layout and Err is set; ClassRejectedFormat always carries Err.
type Classification struct {
	Class  CodeClass
	Layout *eof.Layout
	Err    error
}

// Classify applies the dispatch rule of the active milestones to code.
func Classify(rules *chain.Rules, code []byte) Classification {
	return classify(rules, code, func(code []byte) (*eof.Layout, error) {
		return eof.Validate(code, rules.Magic)
	})
}

func classify(rules *chain.Rules, code []byte, validate func([]byte) (*eof.Layout, error)) Classification {
	if !rules.IsEOFPrepare || len(code) == 0 || code[0] != eof.FormatMarker {
		return Classification{Class: ClassLegacy}
	}
	if !rules.IsEOF {
		return Classification{Class: ClassRejectedFormat, Err: fmt.Errorf("%w: must not begin with 0xef", ErrInvalidCode)}
	}
	if !eof.HasPrefix(code, rules.Magic) {
		return Classification{Class: ClassRejectedFormat, Err: fmt.Errorf("%w: %w", ErrInvalidCode, eof.ErrBadMagic)}
	}
	layout, err := validate(code)
	if err != nil {
		return Classification{Class: ClassEOF, Err: fmt.Errorf("%w: %w", ErrInvalidCode, err)}
	}
	return Classification{Class: ClassEOF, Layout: layout}
}

// CheckCreation returns the layout to execute code with (nil for legacy), or
// the reason code must not be deployed.
func CheckCreation(rules *chain.Rules, code []byte) (*eof.Layout, error) {
	if err := checkCodeSize(rules, code); err != nil {
		return nil, err
	}
	c := Classify(rules, code)
	return c.Layout, c.Err
}

// CheckInitCode enforces EIP-3860 when a limit is configured.
func CheckInitCode(rules *chain.Rules, initCode []byte) error {
	if rules.MaxInitCodeSize != 0 && uint64(len(initCode)) > rules.MaxInitCodeSize {
		return fmt.Errorf("%w: code size %v limit %v", ErrMaxInitCodeSizeExceeded, len(initCode), rules.MaxInitCodeSize)
	}
	return nil
}

func checkCodeSize(rules *chain.Rules, code []byte) error {
	if rules.MaxCodeSize != 0 && uint64(len(code)) > rules.MaxCodeSize {
		return fmt.Errorf("%w: code size %v limit %v", ErrMaxCodeSizeExceeded, len(code), rules.MaxCodeSize)
	}
	return nil
}
