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

package metrics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Set is a set of metrics backed by a prometheus registry. Metrics are
// addressed by their full name including labels, e.g. foo{bar="baz"}.
type Set struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
}

var defaultSet = NewSet()

// NewSet creates an empty Set with its own registry.
func NewSet() *Set {
	return &Set{
		registry: prometheus.NewRegistry(),
		counters: map[string]prometheus.Counter{},
	}
}

// Registry returns the registry the set registers its metrics with.
func (s *Set) Registry() *prometheus.Registry {
	return s.registry
}

// GetOrCreateCounter returns the registered counter with the given name or
// registers a new one.
func (s *Set) GetOrCreateCounter(name string) (prometheus.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.counters[name]; ok {
		return c, nil
	}
	return s.newCounterLocked(name)
}

func (s *Set) newCounterLocked(name string) (prometheus.Counter, error) {
	family, labels, err := parseMetric(name)
	if err != nil {
		return nil, err
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        family,
		Help:        family,
		ConstLabels: labels,
	})
	if err := s.registry.Register(c); err != nil {
		return nil, fmt.Errorf("register %q: %w", name, err)
	}
	s.counters[name] = c
	return c, nil
}

// parseMetric splits foo{bar="baz",aaa="b"} into the family name and its labels.
func parseMetric(name string) (string, prometheus.Labels, error) {
	family, rest := splitLabels(name)
	if family == "" {
		return "", nil, fmt.Errorf("metric %q has empty name", name)
	}
	if rest == "" {
		return family, nil, nil
	}
	if !strings.HasSuffix(rest, "}") {
		return "", nil, fmt.Errorf("metric %q: missing closing brace", name)
	}
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "{"), "}")

	labels := prometheus.Labels{}
	for _, pair := range strings.Split(rest, ",") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
			return "", nil, fmt.Errorf("metric %q: malformed label %q", name, pair)
		}
		labels[strings.TrimSpace(k)] = v[1 : len(v)-1]
	}
	return family, labels, nil
}

func splitLabels(name string) (string, string) {
	if labelsIndex := strings.IndexByte(name, '{'); labelsIndex >= 0 {
		return name[0:labelsIndex], name[labelsIndex:]
	}

	return name, ""
}
