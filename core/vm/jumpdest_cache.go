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
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/erigon-eof/common"
)

const JumpDestCacheLimit = 128

// jumpDestKey includes the code section offset: the same bytes analysed as
// legacy code and as an EOF container produce different bitmaps.
type jumpDestKey struct {
	codeHash common.Hash
	offset   uint64
}

// JumpDestCache keeps code bitmaps of recently executed contracts. It is safe
// for concurrent use.
type JumpDestCache struct {
	bitmaps *lru.Cache[jumpDestKey, bitvec]
	hit     atomic.Uint64
	total   atomic.Uint64
	trace   bool
}

func NewJumpDestCache(limit int, trace bool) *JumpDestCache {
	bitmaps, err := lru.New[jumpDestKey, bitvec](limit)
	if err != nil {
		panic(fmt.Errorf("failed to create jumpdest LRU cache: %w", err))
	}
	return &JumpDestCache{bitmaps: bitmaps, trace: trace}
}

func (c *JumpDestCache) Get(codeHash common.Hash, offset uint64) (bitvec, bool) {
	v, ok := c.bitmaps.Get(jumpDestKey{codeHash, offset})
	if c.trace {
		c.total.Add(1)
		if ok {
			c.hit.Add(1)
		}
	}
	return v, ok
}

func (c *JumpDestCache) Add(codeHash common.Hash, offset uint64, bits bitvec) {
	c.bitmaps.Add(jumpDestKey{codeHash, offset}, bits)
}

func (c *JumpDestCache) Len() int { return c.bitmaps.Len() }

func (c *JumpDestCache) LogStats(logger log.Logger) {
	if c == nil || !c.trace {
		return
	}
	logger.Info("[vm] jumpdest cache", "hit", c.hit.Load(), "total", c.total.Load(), "len", c.Len())
}
