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

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erigontech/erigon-eof/common"
)

const LayoutCacheLimit = 10_000

// LayoutCache keeps layouts of already validated containers keyed by code
// hash. A cache must only be shared between validators using the same magic.
type LayoutCache struct {
	layouts *lru.Cache[common.Hash, *Layout]
}

func NewLayoutCache(size int) *LayoutCache {
	layouts, err := lru.New[common.Hash, *Layout](size)
	if err != nil {
		panic(fmt.Errorf("failed to create layouts LRU cache: %w", err))
	}
	return &LayoutCache{layouts: layouts}
}

func (c *LayoutCache) Get(codeHash common.Hash) (*Layout, bool) {
	return c.layouts.Get(codeHash)
}

func (c *LayoutCache) Add(codeHash common.Hash, layout *Layout) {
	c.layouts.Add(codeHash, layout)
}

func (c *LayoutCache) Len() int { return c.layouts.Len() }

func (c *LayoutCache) Purge() { c.layouts.Purge() }
