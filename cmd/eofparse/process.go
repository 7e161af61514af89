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

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/erigontech/erigon-eof/common"
	"github.com/erigontech/erigon-eof/common/hex"
	"github.com/erigontech/erigon-eof/core/vm"
	"github.com/erigontech/erigon-eof/execution/chain"
	"github.com/erigontech/erigon-eof/execution/eof"
	"github.com/erigontech/erigon-eof/metrics"
)

// maxLineSize fits a hex encoded container of the largest init code size
// with room to spare.
const maxLineSize = 4 * datasize.MB

func parse(cliCtx *cli.Context) error {
	logger, err := setupLogger(cliCtx)
	if err != nil {
		return err
	}

	chainConfig, err := loadChainConfig(cliCtx)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if filename := cliCtx.String(FileFlag.Name); filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}
	lines, err := readLines(in)
	if err != nil {
		return err
	}

	set := metrics.NewSet()
	vmConfig := vm.Config{
		LayoutCache:   eof.NewLayoutCache(eof.LayoutCacheLimit),
		Metrics:       set,
		TraceJumpDest: cliCtx.Bool(JumpDestsFlag.Name),
		ExtraEips:     cliCtx.IntSlice(EipsFlag.Name),
	}
	evm := vm.NewEVM(chainConfig, cliCtx.Uint64(BlockFlag.Name), vmConfig, logger)
	logger.Info("[eofparse] starting", "chain", chainConfig, "block", cliCtx.Uint64(BlockFlag.Name),
		"eof", evm.ChainRules().IsEOF, "lines", len(lines))

	p := &processor{
		evm:       evm,
		metrics:   set,
		deploy:    cliCtx.Bool(DeployFlag.Name),
		jumpdests: cliCtx.Bool(JumpDestsFlag.Name),
	}
	start := time.Now()
	out, err := p.processLines(cliCtx.Context, lines, cliCtx.Int(WorkersFlag.Name))
	if err != nil {
		return err
	}
	for _, line := range out {
		if _, err := fmt.Fprintln(cliCtx.App.Writer, line); err != nil {
			return err
		}
	}

	logStats(logger, set, len(out), time.Since(start))
	evm.Config().JumpDestCache.LogStats(logger)
	return nil
}

func loadChainConfig(cliCtx *cli.Context) (*chain.Config, error) {
	var cfg chain.Config
	if filename := cliCtx.String(ConfigFlag.Name); filename != "" {
		loaded, err := chain.LoadConfig(filename)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	} else {
		builtin := chain.ChainConfigByChainName(cliCtx.String(ChainFlag.Name))
		if builtin == nil {
			return nil, fmt.Errorf("unknown chain %q", cliCtx.String(ChainFlag.Name))
		}
		cfg = *builtin
	}
	if cliCtx.IsSet(MagicFlag.Name) {
		magic, err := hex.DecodeString(cliCtx.String(MagicFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", MagicFlag.Name, err)
		}
		cfg.EOFMagic = magic
	}
	return &cfg, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*datasize.KB), int(maxLineSize))
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

const linesMetric = "eofparse_lines_total"

type processor struct {
	evm       *vm.EVM
	metrics   *metrics.Set
	deploy    bool
	jumpdests bool
}

// processLines validates lines in parallel and returns one output line per
// input line, in input order. Every line is counted in linesMetric under
// the reason it was accepted or rejected with.
func (p *processor) processLines(ctx context.Context, lines []string, workers int) ([]string, error) {
	out := make([]string, len(lines))
	reasons := make([]string, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i], reasons[i] = p.processLine(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, r := range reasons {
		counts[r]++
	}
	for r, n := range counts {
		p.metrics.Counter(fmt.Sprintf(`%s{result=%q}`, linesMetric, r)).AddInt(n)
	}
	return out, nil
}

func (p *processor) processLine(line string) (string, string) {
	code, err := hex.DecodeString(line)
	if err != nil {
		return fmt.Sprintf("err: invalid_hex: %v", err), "invalid_hex"
	}
	var contract *vm.Contract
	if p.deploy {
		contract, err = p.evm.Deploy(code)
	} else {
		var layout *eof.Layout
		if layout, err = p.evm.Validator().Validate(code); err == nil {
			contract = vm.NewContract(false, p.evm.Config().JumpDestCache)
			contract.SetCallCode(common.Keccak256Hash(code), code, layout)
		}
	}
	if err != nil {
		return fmt.Sprintf("err: %s: %v", reason(err), err), reason(err)
	}
	return p.format(contract), "valid"
}

func (p *processor) format(c *vm.Contract) string {
	var sb strings.Builder
	sb.WriteString("OK")
	if c.IsEOF() {
		for _, s := range c.Layout.Sections {
			sb.WriteString(" ")
			sb.WriteString(s.String())
		}
		fmt.Fprintf(&sb, " %x", c.Layout.Code().Slice(c.Code))
	} else {
		sb.WriteString(" legacy")
	}
	if p.jumpdests {
		fmt.Fprintf(&sb, " jumpdests=%v", c.JumpDests())
	}
	return sb.String()
}

func reason(err error) string {
	switch {
	case errors.Is(err, vm.ErrMaxCodeSizeExceeded):
		return "max_code_size_exceeded"
	case eof.Reason(err) != "unknown":
		return eof.Reason(err)
	case errors.Is(err, vm.ErrInvalidCode):
		return "invalid_code"
	default:
		return "unknown"
	}
}

func logStats(logger log.Logger, set *metrics.Set, lines int, elapsed time.Duration) {
	args := []interface{}{"lines", lines, "elapsed", elapsed}
	for _, name := range resultNames() {
		if n := set.Counter(fmt.Sprintf(`%s{result=%q}`, linesMetric, name)).GetValueUint64(); n > 0 {
			args = append(args, name, n)
		}
	}
	logger.Info("[eofparse] done", args...)
}

func resultNames() []string {
	names := []string{"valid", "invalid_hex", "max_code_size_exceeded", "invalid_code", "unknown"}
	for _, err := range eof.Rejections() {
		names = append(names, eof.Reason(err))
	}
	return names
}
