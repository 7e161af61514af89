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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/erigon-eof/common"
)

func TestLayoutCacheEviction(t *testing.T) {
	c := NewLayoutCache(2)
	var hashes []common.Hash
	for i := byte(1); i <= 3; i++ {
		h := common.Keccak256Hash([]byte{i})
		hashes = append(hashes, h)
		c.Add(h, &Layout{Version: 1, Size: uint64(i)})
	}
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get(hashes[0])
	assert.False(t, ok)
	l, ok := c.Get(hashes[2])
	require.True(t, ok)
	assert.Equal(t, uint64(3), l.Size)
}

func TestLayoutCacheInvalidSize(t *testing.T) {
	assert.Panics(t, func() { NewLayoutCache(0) })
}
