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
	"slices"

	"github.com/ledgerwatch/log/v3"

	"github.com/erigontech/erigon-eof/common"
	"github.com/erigontech/erigon-eof/metrics"
)

const (
	validationMetric = "eof_validation_total"
	cacheHitsMetric  = "eof_layout_cache_hits_total"
)

// Validator binds a magic and a registry together with optional caching,
// metrics and logging. The outcome is always that of Registry.Validate.
type Validator struct {
	magic    []byte
	registry *Registry
	cache    *LayoutCache
	metrics  *metrics.Set
	logger   log.Logger
}

type Option func(*Validator)

func WithRegistry(r *Registry) Option { return func(v *Validator) { v.registry = r } }

func WithCache(c *LayoutCache) Option { return func(v *Validator) { v.cache = c } }

// WithMetrics records counters in s instead of the process wide set.
func WithMetrics(s *metrics.Set) Option { return func(v *Validator) { v.metrics = s } }

func WithLogger(l log.Logger) Option { return func(v *Validator) { v.logger = l } }

func NewValidator(magic []byte, opts ...Option) *Validator {
	v := &Validator{
		magic:    slices.Clone(magic),
		registry: DefaultRegistry,
		logger:   log.Root(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Magic returns a copy of the configured magic.
func (v *Validator) Magic() []byte { return slices.Clone(v.magic) }

func (v *Validator) Registry() *Registry { return v.registry }

// Validate is Registry.Validate with the configured magic.
func (v *Validator) Validate(code []byte) (*Layout, error) {
	if v.cache == nil {
		return v.validate(code)
	}
	return v.ValidateWithHash(code, common.Keccak256Hash(code))
}

// ValidateWithHash lets callers that already know the code hash skip hashing.
// The hash is only used as a cache key.
func (v *Validator) ValidateWithHash(code []byte, codeHash common.Hash) (*Layout, error) {
	if v.cache != nil {
		if l, ok := v.cache.Get(codeHash); ok {
			v.counter(cacheHitsMetric).Inc()
			v.counter(fmt.Sprintf(`%s{result="valid"}`, validationMetric)).Inc()
			return l, nil
		}
	}
	l, err := v.validate(code)
	if err == nil && v.cache != nil {
		v.cache.Add(codeHash, l)
	}
	return l, err
}

func (v *Validator) validate(code []byte) (*Layout, error) {
	l, err := v.registry.Validate(code, v.magic)
	v.counter(fmt.Sprintf(`%s{result=%q}`, validationMetric, Reason(err))).Inc()
	if err != nil {
		v.logger.Debug("[eof] container rejected", "len", len(code), "reason", Reason(err), "err", err)
	}
	return l, err
}

func (v *Validator) counter(name string) metrics.Counter {
	if v.metrics != nil {
		return v.metrics.Counter(name)
	}
	return metrics.GetOrCreateCounter(name)
}
