// Copyright 2019 The go-ethereum Authors
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
	"fmt"
	"sort"

	"github.com/erigontech/erigon-eof/execution/chain"
)

var activators = map[int]func(*chain.Rules){
	170:  enable170,
	3540: enable3540,
	3541: enable3541,
	3860: enable3860,
}

// EnableEIP enables the given EIP on the rules.
// This operation writes in-place, and callers need to ensure that the rules
// are not shared with other EVMs.
func EnableEIP(eipNum int, rules *chain.Rules) error {
	enablerFn, ok := activators[eipNum]
	if !ok {
		return fmt.Errorf("undefined eip %d", eipNum)
	}
	enablerFn(rules)
	return nil
}

func ValidEip(eipNum int) bool {
	_, ok := activators[eipNum]
	return ok
}
func ActivateableEips() []string {
	var nums []string //nolint:prealloc
	for k := range activators {
		nums = append(nums, fmt.Sprintf("%d", k))
	}
	sort.Strings(nums)
	return nums
}

// enable170 applies EIP-170 (contract code size limit) unless the chain
// config already set one.
func enable170(rules *chain.Rules) {
	if rules.MaxCodeSize == 0 {
		rules.MaxCodeSize = chain.DefaultMaxCodeSize.Bytes()
	}
}

// enable3541 applies EIP-3541: new code starting with 0xEF is rejected.
func enable3541(rules *chain.Rules) {
	rules.IsEOFPrepare = true
}

// enable3540 applies EIP-3540: code starting with 0xEF and the magic is
// validated as an EOF container. It implies EIP-3541.
func enable3540(rules *chain.Rules) {
	enable3541(rules)
	rules.IsEOF = true
}

// enable3860 applies EIP-3860 (limit and meter initcode) unless the chain
// config already set a limit.
func enable3860(rules *chain.Rules) {
	if rules.MaxInitCodeSize == 0 {
		rules.MaxInitCodeSize = chain.DefaultMaxInitCodeSize.Bytes()
	}
}
