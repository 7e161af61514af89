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

package chain

import (
	"fmt"
	"slices"

	"github.com/c2h5oh/datasize"

	"github.com/erigontech/erigon-eof/common/hex"
	"github.com/erigontech/erigon-eof/execution/eof"
)

// EIP-170 and EIP-3860 limits.
const (
	DefaultMaxCodeSize     = 24 * datasize.KB
	DefaultMaxInitCodeSize = 2 * DefaultMaxCodeSize
)

// Config is the core config which determines the blockchain settings relevant
// to code creation.
//
// Config is stored in the chainspec JSON files and may also be read from TOML.
type Config struct {
	ChainName string `json:"chainName" toml:"chainName"`

	// Milestone 1: any code starting with 0xEF is rejected at creation.
	EOFPrepareBlock *uint64 `json:"eofPrepareBlock,omitempty" toml:"eofPrepareBlock,omitempty"`
	// Milestone 2: code starting with 0xEF followed by the magic is validated
	// as an EOF container.
	EOFBlock *uint64 `json:"eofBlock,omitempty" toml:"eofBlock,omitempty"`

	// EOFMagic follows the format marker. nil selects eof.DefaultMagic,
	// an explicit "0x" selects an empty magic.
	EOFMagic hex.Bytes `json:"eofMagic,omitempty" toml:"eofMagic,omitempty"`

	// Zero means unlimited.
	MaxCodeSize     datasize.ByteSize `json:"maxCodeSize,omitempty" toml:"maxCodeSize,omitempty"`
	MaxInitCodeSize datasize.ByteSize `json:"maxInitCodeSize,omitempty" toml:"maxInitCodeSize,omitempty"`
}

func (c *Config) String() string {
	return fmt.Sprintf("{ChainName: %v, EOFPrepare: %v, EOF: %v, Magic: %v, MaxCodeSize: %v, MaxInitCodeSize: %v}",
		c.ChainName,
		blockString(c.EOFPrepareBlock),
		blockString(c.EOFBlock),
		hex.Bytes(c.Magic()),
		c.MaxCodeSize,
		c.MaxInitCodeSize,
	)
}

func blockString(b *uint64) string {
	if b == nil {
		return "<nil>"
	}
	return fmt.Sprint(*b)
}

// IsEOFPrepare returns whether num is either equal to the EOF prepare block or greater.
func (c *Config) IsEOFPrepare(num uint64) bool {
	return isForked(c.EOFPrepareBlock, num)
}

// IsEOF returns whether num is either equal to the EOF block or greater.
func (c *Config) IsEOF(num uint64) bool {
	return isForked(c.EOFBlock, num)
}

// Magic returns the configured magic or eof.DefaultMagic.
func (c *Config) Magic() []byte {
	if c.EOFMagic == nil {
		return slices.Clone(eof.DefaultMagic)
	}
	return slices.Clone(c.EOFMagic)
}

// CheckConfigForkOrder checks that milestone 2 is never scheduled without
// milestone 1 at or before it.
func (c *Config) CheckConfigForkOrder() error {
	if c.EOFBlock == nil {
		return nil
	}
	if c.EOFPrepareBlock == nil {
		return fmt.Errorf("unsupported fork ordering: eofPrepareBlock not enabled, but eofBlock enabled at %d", *c.EOFBlock)
	}
	if *c.EOFPrepareBlock > *c.EOFBlock {
		return fmt.Errorf("unsupported fork ordering: eofPrepareBlock enabled at %d, but eofBlock enabled at %d",
			*c.EOFPrepareBlock, *c.EOFBlock)
	}
	return nil
}

// Rules is a one time interface meaning that it shouldn't be used in between
// transitions.
type Rules struct {
	ChainName           string
	IsEOFPrepare, IsEOF bool
	Magic               []byte
	MaxCodeSize         uint64
	MaxInitCodeSize     uint64
}

// Rules returns the set of rules active at block num.
func (c *Config) Rules(num uint64) *Rules {
	isEOF := c.IsEOF(num)
	return &Rules{
		ChainName: c.ChainName,
		// milestone 2 supersedes milestone 1 even if the config skipped it
		IsEOFPrepare:    isEOF || c.IsEOFPrepare(num),
		IsEOF:           isEOF,
		Magic:           c.Magic(),
		MaxCodeSize:     c.MaxCodeSize.Bytes(),
		MaxInitCodeSize: c.MaxInitCodeSize.Bytes(),
	}
}

// isForked returns whether a fork scheduled at block s is active at the given head block.
func isForked(s *uint64, head uint64) bool {
	if s == nil {
		return false
	}
	return *s <= head
}
