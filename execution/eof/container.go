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

// Package eof parses and validates EOF containers.
//
// A container is laid out as
//
//	0xEF <magic> <version> (<kind:1> <size:2 BE>)* 0x00 <section contents...>
//
// where the magic is configuration and everything after the version byte is
// interpreted by the ruleset registered for that version.
package eof

import (
	"bytes"
	"fmt"
)

// FormatMarker is the first byte of every container. It has never been a legal
// first byte of deployed legacy code.
const FormatMarker byte = 0xEF

// DefaultMagic makes containers start with 0xEF00.
var DefaultMagic = []byte{0x00}

// SectionKind tags a section header. Only some values are meaningful for a
// given version; the rest are kept as-is and rejected by the ruleset.
type SectionKind byte

const (
	KindTerminator SectionKind = 0
	KindCode       SectionKind = 1
	KindData       SectionKind = 2
)

// Known reports whether the kind is recognised by version 1.
func (k SectionKind) Known() bool {
	return k == KindTerminator || k == KindCode || k == KindData
}

func (k SectionKind) String() string {
	switch k {
	case KindTerminator:
		return "terminator"
	case KindCode:
		return "code"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(k))
	}
}

// SectionHeader is one size-bearing entry of the header list.
type SectionHeader struct {
	Kind SectionKind
	Size uint16
}

// Section is a resolved byte range of the container.
type Section struct {
	Kind   SectionKind
	Offset uint64
	Size   uint64
}

// End is the first offset past the section.
func (s Section) End() uint64 { return s.Offset + s.Size }

// Contains reports whether pos lies in [Offset, End).
func (s Section) Contains(pos uint64) bool {
	return pos >= s.Offset && pos < s.End()
}

// Slice returns the section contents of the container it was resolved from.
func (s Section) Slice(code []byte) []byte {
	return code[s.Offset:s.End()]
}

func (s Section) String() string {
	return fmt.Sprintf("%s=[%d,%d)", s.Kind, s.Offset, s.End())
}

// Layout is the result of a successful validation. Sections are contiguous,
// in declaration order, start at HeaderSize and end at Size. A Layout is never
// modified after it is returned.
type Layout struct {
	Version    byte
	HeaderSize uint64
	Sections   []Section
	Size       uint64
}

// Section returns the first section of the given kind.
func (l *Layout) Section(kind SectionKind) (Section, bool) {
	for _, s := range l.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Code returns the code section. Every valid version 1 container has one.
func (l *Layout) Code() Section {
	s, _ := l.Section(KindCode)
	return s
}

// Data returns the data section, if present.
func (l *Layout) Data() (Section, bool) {
	return l.Section(KindData)
}

func (l *Layout) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "v%d header=%d", l.Version, l.HeaderSize)
	for _, s := range l.Sections {
		b.WriteByte(' ')
		b.WriteString(s.String())
	}
	return b.String()
}

// HasPrefix reports whether code starts with the format marker followed by
// magic. It does not look any further.
func HasPrefix(code, magic []byte) bool {
	if len(code) < 1+len(magic) || code[0] != FormatMarker {
		return false
	}
	return bytes.Equal(code[1:1+len(magic)], magic)
}
