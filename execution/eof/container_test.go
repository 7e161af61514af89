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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/erigon-eof/common/hex"
)

func TestValidateCodeAndData(t *testing.T) {
	code := hex.MustDecodeString("ef0001010003020002" + "00" + "aabbccddee")
	require.Len(t, code, 15)

	l, err := Validate(code, DefaultMagic)
	require.NoError(t, err)
	assert.Equal(t, byte(1), l.Version)
	assert.Equal(t, uint64(10), l.HeaderSize)
	assert.Equal(t, uint64(HeaderSize(1, 2)), l.HeaderSize)
	assert.Equal(t, uint64(15), l.Size)
	assert.Equal(t, []Section{
		{Kind: KindCode, Offset: 10, Size: 3},
		{Kind: KindData, Offset: 13, Size: 2},
	}, l.Sections)

	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, l.Code().Slice(code))
	data, ok := l.Data()
	require.True(t, ok)
	assert.Equal(t, []byte{0xdd, 0xee}, data.Slice(code))
	assert.Equal(t, "v1 header=10 code=[10,13) data=[13,15)", l.String())
}

func TestValidateCodeOnlyEmptyMagic(t *testing.T) {
	code := hex.MustDecodeString("ef01" + "010001" + "00" + "fe")
	l, err := Validate(code, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), l.HeaderSize)
	assert.Equal(t, Section{Kind: KindCode, Offset: 6, Size: 1}, l.Code())
	_, ok := l.Data()
	assert.False(t, ok)

	// the same bytes under the default magic read 0x01 as the magic byte
	_, err = Validate(code, DefaultMagic)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestValidateLongMagic(t *testing.T) {
	magic := []byte{0x45, 0x4f, 0x46}
	code, err := Marshal(magic, 1, Body{KindCode, []byte{0x00, 0x00}}, Body{KindData, []byte{0x01}})
	require.NoError(t, err)

	l, err := Validate(code, magic)
	require.NoError(t, err)
	assert.Equal(t, uint64(HeaderSize(3, 2)), l.HeaderSize)
	assert.Equal(t, uint64(12), l.Code().Offset)
	assert.Equal(t, uint64(len(code)), l.Size)
}

// Each input triggers exactly the listed rejection and no other.
func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"empty", "", ErrNotEOF},
		{"legacy", "6000", ErrNotEOF},
		{"magic mismatch", "ef01010100010000", ErrBadMagic},
		{"magic cut short", "ef", ErrBadMagic},
		{"version 2", "ef0002010001" + "00" + "fe", ErrUnsupportedVersion},
		{"version 0", "ef0000", ErrUnsupportedVersion},
		{"version missing", "ef00", ErrTruncatedContainer},
		{"zero code size", "ef0001010000" + "00", ErrZeroSizeSection},
		{"zero data size", "ef0001010001020000" + "00" + "fe", ErrZeroSizeSection},
		{"zero size before bad structure", "ef0001020001030000", ErrZeroSizeSection},
		{"no headers", "ef000100", ErrMissingCodeSection},
		{"data only", "ef0001020001" + "00" + "aa", ErrMissingCodeSection},
		{"unknown only", "ef0001030001" + "00" + "aa", ErrMissingCodeSection},
		{"data before code", "ef0001020003010002" + "00" + "aabbcc" + "ddee", ErrCodeSectionNotFirst},
		{"unknown before code", "ef0001030001010001" + "00" + "aafe", ErrCodeSectionNotFirst},
		{"two code sections", "ef0001010001010001" + "00" + "fefe", ErrMultipleCodeSections},
		{"two data sections", "ef0001010001020001020001" + "00" + "feaabb", ErrDataSectionMisplaced},
		{"data after unknown", "ef0001010001030001020001" + "00" + "feaabb", ErrDataSectionMisplaced},
		{"unknown after code", "ef0001010001030001" + "00" + "feaa", ErrUnknownSectionKind},
		{"unknown after data", "ef0001010001020001ff0001" + "00" + "feaabb", ErrUnknownSectionKind},
		{"size field cut", "ef00010100", ErrTruncatedContainer},
		{"kind missing", "ef0001010001", ErrTruncatedContainer},
		{"contents short", "ef0001010003" + "00" + "aabb", ErrTruncatedContainer},
		{"contents missing", "ef0001010001020002" + "00", ErrTruncatedContainer},
		{"trailing byte", "ef0001010001" + "00" + "fe" + "00", ErrTrailingBytes},
		{"trailing after data", "ef0001010001020001" + "00" + "feaa" + "bbcc", ErrTrailingBytes},
	}

	covered := map[error]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Validate(hex.MustDecodeString(tt.code), DefaultMagic)
			require.Nil(t, l)
			require.ErrorIs(t, err, tt.want)
			for _, other := range Rejections() {
				if other != tt.want {
					assert.False(t, errors.Is(err, other), "also matches %v", other)
				}
			}
		})
		covered[tt.want] = true
	}
	for _, r := range Rejections() {
		assert.True(t, covered[r], "no test for %v", r)
	}
}

func TestZeroSizeAtAnyPosition(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for zero := 0; zero < n; zero++ {
			code := []byte{FormatMarker, 0x00, 0x01}
			for i := 0; i < n; i++ {
				size := byte(1)
				if i == zero {
					size = 0
				}
				// kinds deliberately violate placement rules
				code = append(code, byte(KindCode), 0x00, size)
			}
			code = append(code, 0x00, 0xfe)
			_, err := Validate(code, DefaultMagic)
			require.ErrorIs(t, err, ErrZeroSizeSection, "n=%d zero=%d", n, zero)
		}
	}
}

func TestLengthExactness(t *testing.T) {
	valid := [][]byte{
		hex.MustDecodeString("ef0001010003020002" + "00" + "aabbccddee"),
		hex.MustDecodeString("ef0001010001" + "00" + "fe"),
	}
	for _, code := range valid {
		l, err := Validate(code, DefaultMagic)
		require.NoError(t, err)

		for extra := 1; extra <= 4; extra++ {
			padded := append(append([]byte{}, code...), make([]byte, extra)...)
			_, err := Validate(padded, DefaultMagic)
			require.ErrorIs(t, err, ErrTrailingBytes, "extra=%d", extra)
		}
		for cut := 1; cut <= len(code)-int(l.HeaderSize); cut++ {
			_, err := Validate(code[:len(code)-cut], DefaultMagic)
			require.ErrorIs(t, err, ErrTruncatedContainer, "cut=%d", cut)
		}
	}
}

func TestValidateDeterministic(t *testing.T) {
	inputs := []string{
		"ef0001010003020002" + "00" + "aabbccddee",
		"ef0001020003010002" + "00" + "aabbccddee",
		"ef0002",
		"",
	}
	for _, in := range inputs {
		code := hex.MustDecodeString(in)
		l1, err1 := Validate(code, DefaultMagic)
		l2, err2 := Validate(code, DefaultMagic)
		assert.Equal(t, l1, l2)
		if err1 == nil {
			assert.NoError(t, err2)
			continue
		}
		assert.Equal(t, err1.Error(), err2.Error())
	}
}

func TestValidateDoesNotRetainInput(t *testing.T) {
	code := hex.MustDecodeString("ef0001010001" + "00" + "fe")
	l, err := Validate(code, DefaultMagic)
	require.NoError(t, err)
	code[len(code)-1] = 0x00
	assert.Equal(t, Section{Kind: KindCode, Offset: 7, Size: 1}, l.Code())
}

func TestSectionKind(t *testing.T) {
	assert.True(t, KindCode.Known())
	assert.True(t, KindTerminator.Known())
	assert.False(t, SectionKind(3).Known())
	assert.Equal(t, "unknown(0x03)", SectionKind(3).String())
	assert.Equal(t, "data", KindData.String())
}

func TestSection(t *testing.T) {
	s := Section{Kind: KindCode, Offset: 10, Size: 3}
	assert.Equal(t, uint64(13), s.End())
	assert.False(t, s.Contains(9))
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(12))
	assert.False(t, s.Contains(13))
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix([]byte{0xef, 0x00}, DefaultMagic))
	assert.True(t, HasPrefix([]byte{0xef, 0x00, 0x07}, DefaultMagic))
	assert.True(t, HasPrefix([]byte{0xef}, nil))
	assert.False(t, HasPrefix([]byte{0xef}, DefaultMagic))
	assert.False(t, HasPrefix([]byte{0xef, 0x01}, DefaultMagic))
	assert.False(t, HasPrefix(nil, nil))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "valid", Reason(nil))
	assert.Equal(t, "unknown", Reason(errors.New("boom")))
	_, err := Validate(hex.MustDecodeString("ef0002"), DefaultMagic)
	assert.Equal(t, "unsupported_version", Reason(err))
	assert.Len(t, Rejections(), 11)
}
