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
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/erigon-eof/common/hex"
	"github.com/erigontech/erigon-eof/execution/chain"
	"github.com/erigontech/erigon-eof/execution/eof"
	"github.com/erigontech/erigon-eof/metrics"
)

func testLogger() log.Logger {
	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	return logger
}

func TestEnableEIP(t *testing.T) {
	r := chain.PreEOFChainConfig.Rules(0)
	require.Error(t, EnableEIP(1, r))
	assert.False(t, ValidEip(1))
	assert.Equal(t, []string{"170", "3540", "3541", "3860"}, ActivateableEips())

	require.NoError(t, EnableEIP(3541, r))
	assert.True(t, r.IsEOFPrepare)
	assert.False(t, r.IsEOF)

	require.NoError(t, EnableEIP(3540, r))
	assert.True(t, r.IsEOF)

	require.NoError(t, EnableEIP(3860, r))
	assert.Equal(t, chain.DefaultMaxInitCodeSize.Bytes(), r.MaxInitCodeSize)

	// configured limits win
	r.MaxCodeSize = 1
	require.NoError(t, EnableEIP(170, r))
	assert.Equal(t, uint64(1), r.MaxCodeSize)
}

func TestEVMDeploy(t *testing.T) {
	set := metrics.NewSet()
	cache := eof.NewLayoutCache(8)
	evm := NewEVM(chain.EOFDevnetChainConfig, 200, Config{LayoutCache: cache, Metrics: set}, testLogger())
	require.True(t, evm.ChainRules().IsEOF)
	assert.Equal(t, eof.DefaultMagic, evm.Validator().Magic())

	c, err := evm.Deploy(sampleContainer)
	require.NoError(t, err)
	assert.True(t, c.IsEOF())
	assert.Equal(t, uint64(10), c.InitialPC())
	assert.Equal(t, 1, cache.Len())

	_, err = evm.Deploy(sampleContainer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), set.Counter("eof_layout_cache_hits_total").GetValueUint64())

	_, err = evm.Deploy(hex.MustDecodeString("ef0002"))
	require.ErrorIs(t, err, ErrInvalidCode)
	require.ErrorIs(t, err, eof.ErrUnsupportedVersion)
	assert.Equal(t, uint64(1), set.Counter(`eof_validation_total{result="unsupported_version"}`).GetValueUint64())

	_, err = evm.Deploy(make([]byte, chain.DefaultMaxCodeSize.Bytes()+1))
	require.ErrorIs(t, err, ErrMaxCodeSizeExceeded)
	require.ErrorIs(t, evm.CheckInitCode(make([]byte, chain.DefaultMaxInitCodeSize.Bytes()+1)), ErrMaxInitCodeSizeExceeded)
}

func TestEVMMilestones(t *testing.T) {
	cfg := Config{Metrics: metrics.NewSet()}
	evm := NewEVM(chain.EOFDevnetChainConfig, 99, cfg, testLogger())
	c, err := evm.Deploy(sampleContainer)
	require.NoError(t, err)
	assert.False(t, c.IsEOF())

	evm.ResetBetweenBlocks(100, cfg)
	_, err = evm.Deploy(sampleContainer)
	require.ErrorIs(t, err, ErrInvalidCode)
	require.NotErrorIs(t, err, eof.ErrBadMagic)

	evm.ResetBetweenBlocks(200, cfg)
	c, err = evm.Deploy(sampleContainer)
	require.NoError(t, err)
	assert.True(t, c.IsEOF())
	assert.Equal(t, []uint64(nil), c.JumpDests())
}

func TestEVMExtraEips(t *testing.T) {
	cfg := Config{ExtraEips: []int{3540, 1}, Metrics: metrics.NewSet()}
	evm := NewEVM(chain.PreEOFChainConfig, 0, cfg, testLogger())
	assert.True(t, evm.ChainRules().IsEOF)
	assert.Equal(t, []int{3540}, evm.Config().ExtraEips)
	assert.Equal(t, []int{3540, 1}, cfg.ExtraEips)
	assert.NotNil(t, evm.Config().JumpDestCache)

	c, err := evm.Deploy(sampleContainer)
	require.NoError(t, err)
	assert.True(t, c.IsEOF())
}
