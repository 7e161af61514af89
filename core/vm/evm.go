// Copyright 2014 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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
	"slices"

	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/erigon-eof/common"
	"github.com/erigontech/erigon-eof/execution/chain"
	"github.com/erigontech/erigon-eof/execution/eof"
	"github.com/erigontech/erigon-eof/metrics"
)

// Config are the configuration options for the code checks of the EVM.
type Config struct {
	JumpDestCache *JumpDestCache
	LayoutCache   *eof.LayoutCache
	Metrics       *metrics.Set // nil records into the process wide set
	SkipAnalysis  bool         // Whether we can skip jumpdest analysis
	TraceJumpDest bool         // Collect hit statistics of the jumpdest cache

	ExtraEips []int // Additional EIPS that are to be enabled
}

// EVM applies the creation time code rules of one block and prepares
// contracts for execution.
//
// Deploy, Classify and CheckInitCode may be called concurrently.
// ResetBetweenBlocks may not.
type EVM struct {
	// chainConfig contains information about the current chain
	chainConfig *chain.Config
	// chain rules contains the chain rules for the current block
	chainRules *chain.Rules
	// virtual machine configuration options used to initialise the
	// evm.
	config    Config
	validator *eof.Validator
	logger    log.Logger
}

// NewEVM returns a new EVM for block blockNum.
func NewEVM(chainConfig *chain.Config, blockNum uint64, vmConfig Config, logger log.Logger) *EVM {
	evm := &EVM{
		chainConfig: chainConfig,
		logger:      logger,
	}
	if vmConfig.JumpDestCache == nil {
		vmConfig.JumpDestCache = NewJumpDestCache(JumpDestCacheLimit, vmConfig.TraceJumpDest)
	}
	evm.ResetBetweenBlocks(blockNum, vmConfig)
	return evm
}

func (evm *EVM) ResetBetweenBlocks(blockNum uint64, vmConfig Config) {
	if vmConfig.JumpDestCache == nil && evm.config.JumpDestCache != nil {
		vmConfig.JumpDestCache = evm.config.JumpDestCache
	}
	rules := evm.chainConfig.Rules(blockNum)
	if len(vmConfig.ExtraEips) > 0 {
		eips := slices.Clone(vmConfig.ExtraEips)
		vmConfig.ExtraEips = vmConfig.ExtraEips[:0:0]
		for _, eip := range eips {
			if err := EnableEIP(eip, rules); err != nil {
				// Drop it, so caller can check if it's activated or not
				evm.logger.Error("EIP activation failed", "eip", eip, "err", err)
				continue
			}
			vmConfig.ExtraEips = append(vmConfig.ExtraEips, eip)
		}
	}
	evm.config = vmConfig
	evm.chainRules = rules

	opts := []eof.Option{eof.WithLogger(evm.logger)}
	if vmConfig.LayoutCache != nil {
		opts = append(opts, eof.WithCache(vmConfig.LayoutCache))
	}
	if vmConfig.Metrics != nil {
		opts = append(opts, eof.WithMetrics(vmConfig.Metrics))
	}
	evm.validator = eof.NewValidator(rules.Magic, opts...)
}

func (evm *EVM) Config() Config { return evm.config }

func (evm *EVM) ChainConfig() *chain.Config { return evm.chainConfig }

func (evm *EVM) ChainRules() *chain.Rules { return evm.chainRules }

func (evm *EVM) Validator() *eof.Validator { return evm.validator }

// Classify is the package level Classify using the EVM's validator.
func (evm *EVM) Classify(code []byte, codeHash common.Hash) Classification {
	return classify(evm.chainRules, code, func(code []byte) (*eof.Layout, error) {
		return evm.validator.ValidateWithHash(code, codeHash)
	})
}

// CheckInitCode is the package level CheckInitCode under the EVM's rules.
func (evm *EVM) CheckInitCode(initCode []byte) error {
	return CheckInitCode(evm.chainRules, initCode)
}

// Deploy runs the creation time checks on code returned by init code and
// returns the contract ready for execution.
func (evm *EVM) Deploy(code []byte) (*Contract, error) {
	if err := checkCodeSize(evm.chainRules, code); err != nil {
		return nil, err
	}
	codeHash := common.Keccak256Hash(code)
	c := evm.Classify(code, codeHash)
	if c.Err != nil {
		evm.logger.Debug("[vm] code rejected", "hash", codeHash, "class", c.Class, "err", c.Err)
		return nil, c.Err
	}
	contract := NewContract(evm.config.SkipAnalysis, evm.config.JumpDestCache)
	contract.SetCallCode(codeHash, code, c.Layout)
	return contract, nil
}
