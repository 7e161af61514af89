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
	"math"
)

// Body is the content of one section to be encoded.
type Body struct {
	Kind SectionKind
	Data []byte
}

// Marshal encodes a container. Section placement rules are not enforced, so
// the output is not necessarily valid; only each body must fit a size field.
func Marshal(magic []byte, version byte, bodies ...Body) ([]byte, error) {
	total := HeaderSize(len(magic), len(bodies))
	for i, b := range bodies {
		if b.Kind == KindTerminator {
			return nil, fmt.Errorf("eof: body %d: %s kind cannot carry a body", i, b.Kind)
		}
		if len(b.Data) == 0 {
			return nil, fmt.Errorf("eof: body %d: %w", i, ErrZeroSizeSection)
		}
		if len(b.Data) > math.MaxUint16 {
			return nil, fmt.Errorf("eof: body %d: %w: %d bytes", i, ErrSectionTooLarge, len(b.Data))
		}
		total += len(b.Data)
	}

	out := make([]byte, 0, total)
	out = append(out, FormatMarker)
	out = append(out, magic...)
	out = append(out, version)
	for _, b := range bodies {
		out = append(out, byte(b.Kind))
		out = binary.BigEndian.AppendUint16(out, uint16(len(b.Data)))
	}
	out = append(out, byte(KindTerminator))
	for _, b := range bodies {
		out = append(out, b.Data...)
	}
	return out, nil
}
