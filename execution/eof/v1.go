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

package eof

import (
	"encoding/binary"
	"fmt"
)

const (
	kindSize          = 1
	sizeFieldSize     = 2
	sectionHeaderSize = kindSize + sizeFieldSize
)

// V1 is the version 1 ruleset: exactly one code section, optionally followed
// by exactly one data section.
var V1 Ruleset = v1Rules{}

type v1Rules struct{}

func (v1Rules) Version() byte { return 1 }

func (v1Rules) ParseHeaders(code []byte, pos int) ([]SectionHeader, int, error) {
	var headers []SectionHeader
	for {
		if pos >= len(code) {
			return nil, 0, fmt.Errorf("%w: header list not terminated (%d headers read)", ErrTruncatedContainer, len(headers))
		}
		kind := SectionKind(code[pos])
		pos += kindSize
		if kind == KindTerminator {
			return headers, pos, nil
		}
		if pos+sizeFieldSize > len(code) {
			return nil, 0, fmt.Errorf("%w: size field of header %d cut short", ErrTruncatedContainer, len(headers))
		}
		size := binary.BigEndian.Uint16(code[pos:])
		if size == 0 {
			return nil, 0, fmt.Errorf("%w: header %d (%s) at offset %d", ErrZeroSizeSection, len(headers), kind, pos-kindSize)
		}
		pos += sizeFieldSize
		headers = append(headers, SectionHeader{Kind: kind, Size: size})
	}
}

// CheckStructure applies the placement rules in a fixed order and reports the
// first one violated. A list that starts with something other than code is
// CodeSectionNotFirst when code appears later, MissingCodeSection otherwise.
func (v1Rules) CheckStructure(headers []SectionHeader) error {
	if len(headers) == 0 {
		return ErrMissingCodeSection
	}
	codeCount, dataCount := 0, 0
	for _, h := range headers {
		switch h.Kind {
		case KindCode:
			codeCount++
		case KindData:
			dataCount++
		}
	}
	if headers[0].Kind != KindCode {
		if codeCount > 0 {
			return fmt.Errorf("%w: first section is %s", ErrCodeSectionNotFirst, headers[0].Kind)
		}
		return ErrMissingCodeSection
	}
	if codeCount > 1 {
		return fmt.Errorf("%w: %d", ErrMultipleCodeSections, codeCount)
	}
	if dataCount > 1 {
		return fmt.Errorf("%w: %d data sections", ErrDataSectionMisplaced, dataCount)
	}
	for i, h := range headers {
		if h.Kind == KindData && i != 1 {
			return fmt.Errorf("%w: data section at index %d", ErrDataSectionMisplaced, i)
		}
	}
	for i, h := range headers {
		if h.Kind != KindCode && h.Kind != KindData {
			return fmt.Errorf("%w: %s at index %d", ErrUnknownSectionKind, h.Kind, i)
		}
	}
	return nil
}

func (v1Rules) Layout(code []byte, headerSize int, headers []SectionHeader) (*Layout, error) {
	var contentSize uint64
	for _, h := range headers {
		contentSize += uint64(h.Size)
	}
	expected := uint64(headerSize) + contentSize
	actual := uint64(len(code))
	if actual < expected {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrTruncatedContainer, actual, expected)
	}
	if actual > expected {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrTrailingBytes, actual, expected)
	}

	l := &Layout{
		Version:    1,
		HeaderSize: uint64(headerSize),
		Sections:   make([]Section, len(headers)),
		Size:       expected,
	}
	offset := l.HeaderSize
	for i, h := range headers {
		l.Sections[i] = Section{Kind: h.Kind, Offset: offset, Size: uint64(h.Size)}
		offset += uint64(h.Size)
	}
	return l, nil
}

// HeaderSize is the number of framing bytes of a version 1 container with
// the given magic length and number of size-bearing headers.
func HeaderSize(magicLen, sections int) int {
	return 1 + magicLen + 1 + sectionHeaderSize*sections + kindSize
}
