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
	"fmt"
	"slices"
)

// Ruleset validates everything that follows the version byte.
type Ruleset interface {
	Version() byte
	// ParseHeaders scans the header list starting at pos and returns the
	// size-bearing headers together with the offset right after the list.
	ParseHeaders(code []byte, pos int) ([]SectionHeader, int, error)
	// CheckStructure validates the order and multiplicity of section kinds.
	CheckStructure(headers []SectionHeader) error
	// Layout checks the container length and resolves section ranges.
	// headerSize is the offset of the first section byte.
	Layout(code []byte, headerSize int, headers []SectionHeader) (*Layout, error)
}

// Registry maps version numbers to rulesets. It is immutable once built and
// safe for concurrent use.
type Registry struct {
	rulesets map[byte]Ruleset
}

// DefaultRegistry knows version 1 only.
var DefaultRegistry = NewRegistry(V1)

// NewRegistry builds a registry. Registering the same version twice is a
// programming error.
func NewRegistry(rulesets ...Ruleset) *Registry {
	r := &Registry{rulesets: make(map[byte]Ruleset, len(rulesets))}
	for _, rs := range rulesets {
		if _, ok := r.rulesets[rs.Version()]; ok {
			panic(fmt.Sprintf("eof: ruleset for version %d registered twice", rs.Version()))
		}
		r.rulesets[rs.Version()] = rs
	}
	return r
}

// Ruleset returns the ruleset of the given version.
func (r *Registry) Ruleset(version byte) (Ruleset, bool) {
	rs, ok := r.rulesets[version]
	return rs, ok
}

// Versions returns the supported versions in ascending order.
func (r *Registry) Versions() []byte {
	out := make([]byte, 0, len(r.rulesets))
	for v := range r.rulesets {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Validate checks code with the default registry.
func Validate(code, magic []byte) (*Layout, error) {
	return DefaultRegistry.Validate(code, magic)
}

// Validate decides whether code is a valid container under magic. It either
// returns a layout or an error wrapping one of the rejection reasons, never
// both. It does not retain code.
func (r *Registry) Validate(code, magic []byte) (*Layout, error) {
	if len(code) == 0 || code[0] != FormatMarker {
		return nil, ErrNotEOF
	}
	if !HasPrefix(code, magic) {
		return nil, fmt.Errorf("%w: want 0x%x", ErrBadMagic, magic)
	}
	pos := 1 + len(magic)
	if pos >= len(code) {
		return nil, fmt.Errorf("%w: missing version byte", ErrTruncatedContainer)
	}
	version := code[pos]
	rs, ok := r.rulesets[version]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	headers, headerSize, err := rs.ParseHeaders(code, pos+1)
	if err != nil {
		return nil, err
	}
	if err := rs.CheckStructure(headers); err != nil {
		return nil, err
	}
	return rs.Layout(code, headerSize, headers)
}
