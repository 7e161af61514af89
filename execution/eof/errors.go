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
	"errors"
)

// List of rejection reasons. Every validation failure wraps exactly one of them.
var (
	ErrNotEOF               = errors.New("not an EOF container")
	ErrBadMagic             = errors.New("bad magic")
	ErrUnsupportedVersion   = errors.New("unsupported EOF version")
	ErrZeroSizeSection      = errors.New("zero size section")
	ErrMissingCodeSection   = errors.New("missing code section")
	ErrCodeSectionNotFirst  = errors.New("code section not first")
	ErrMultipleCodeSections = errors.New("multiple code sections")
	ErrDataSectionMisplaced = errors.New("data section misplaced")
	ErrUnknownSectionKind   = errors.New("unknown section kind")
	ErrTruncatedContainer   = errors.New("truncated container")
	ErrTrailingBytes        = errors.New("trailing bytes")
)

// ErrSectionTooLarge is returned by Marshal for bodies that do not fit a
// 16-bit size field.
var ErrSectionTooLarge = errors.New("section too large")

var reasons = []struct {
	err  error
	name string
}{
	{ErrNotEOF, "not_eof"},
	{ErrBadMagic, "bad_magic"},
	{ErrUnsupportedVersion, "unsupported_version"},
	{ErrZeroSizeSection, "zero_size_section"},
	{ErrMissingCodeSection, "missing_code_section"},
	{ErrCodeSectionNotFirst, "code_section_not_first"},
	{ErrMultipleCodeSections, "multiple_code_sections"},
	{ErrDataSectionMisplaced, "data_section_misplaced"},
	{ErrUnknownSectionKind, "unknown_section_kind"},
	{ErrTruncatedContainer, "truncated_container"},
	{ErrTrailingBytes, "trailing_bytes"},
}

// Reason returns a stable name of the rejection err wraps, "valid" for nil
// and "unknown" for errors that are not rejections.
func Reason(err error) string {
	if err == nil {
		return "valid"
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "unknown"
}

// Rejections lists all rejection reasons in declaration order.
func Rejections() []error {
	out := make([]error, len(reasons))
	for i, r := range reasons {
		out[i] = r.err
	}
	return out
}
