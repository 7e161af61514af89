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
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/erigontech/erigon-eof/execution/chain/networkname"
)

//go:embed chainspecs
var chainspecs embed.FS

func readChainSpec(filename string) *Config {
	f, err := chainspecs.Open(filename)
	if err != nil {
		panic(fmt.Sprintf("Could not open chainspec for %s: %v", filename, err))
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	spec := &Config{}
	if err = decoder.Decode(&spec); err != nil {
		panic(fmt.Sprintf("Could not parse chainspec for %s: %v", filename, err))
	}
	if err = spec.CheckConfigForkOrder(); err != nil {
		panic(fmt.Sprintf("Invalid chainspec for %s: %v", filename, err))
	}
	return spec
}

var (
	// DevChainConfig activates both milestones at genesis.
	DevChainConfig = readChainSpec("chainspecs/dev.json")

	EOFDevnetChainConfig = readChainSpec("chainspecs/eof-devnet.json")

	// PreEOFChainConfig never activates a milestone: all code is legacy.
	PreEOFChainConfig = readChainSpec("chainspecs/pre-eof.json")
)

// ChainConfigByChainName returns nil for unknown chains.
func ChainConfigByChainName(chain string) *Config {
	switch chain {
	case networkname.DevChainName:
		return DevChainConfig
	case networkname.EOFDevnetChainName:
		return EOFDevnetChainConfig
	case networkname.PreEOFChainName:
		return PreEOFChainConfig
	default:
		return nil
	}
}

// LoadConfig reads a chain config from a .toml file, or from JSON for any
// other extension, and checks its fork order.
func LoadConfig(filename string) (*Config, error) {
	return LoadConfigFs(afero.NewOsFs(), filename)
}

func LoadConfigFs(fs afero.Fs, filename string) (*Config, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse chain config %s: %w", filepath.Base(filename), err)
	}
	if err = cfg.CheckConfigForkOrder(); err != nil {
		return nil, fmt.Errorf("invalid chain config %s: %w", filepath.Base(filename), err)
	}
	return cfg, nil
}
