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
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/urfave/cli/v2"
)

const Version = "1.0.0"

var (
	FileFlag = cli.StringFlag{
		Name:  "file",
		Usage: "File with one hex encoded container per line (default: stdin)",
	}
	ChainFlag = cli.StringFlag{
		Name:  "chain",
		Usage: "Name of a built-in chain config",
		Value: "dev",
	}
	ConfigFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Chain config file (.toml or .json), overrides --chain",
	}
	MagicFlag = cli.StringFlag{
		Name:  "magic",
		Usage: `Magic following the 0xEF marker, e.g. "0x00", overrides the chain config`,
	}
	BlockFlag = cli.Uint64Flag{
		Name:  "block",
		Usage: "Block number selecting the active milestones",
	}
	EipsFlag = cli.IntSliceFlag{
		Name:  "eips",
		Usage: "Additional EIPs to enable, e.g. 3540",
	}
	DeployFlag = cli.BoolFlag{
		Name:  "deploy",
		Usage: "Apply contract creation rules instead of parsing every line as a container",
	}
	JumpDestsFlag = cli.BoolFlag{
		Name:  "jumpdests",
		Usage: "Print valid jump destinations of accepted code",
	}
	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Number of lines validated in parallel",
		Value: runtime.GOMAXPROCS(-1),
	}
	VerbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "Console log level: crit, error, warn, info, debug, trace (or 0-5)",
		Value: "info",
	}
	LogJSONFlag = cli.BoolFlag{
		Name:  "log.json",
		Usage: "Format console logs with JSON",
	}
	LogDirPathFlag = cli.StringFlag{
		Name:  "log.dir.path",
		Usage: "Path to store user and error logs to disk",
	}
	LogDirVerbosityFlag = cli.StringFlag{
		Name:  "log.dir.verbosity",
		Usage: "Set the log verbosity for logs stored to disk",
		Value: "info",
	}
	LogDirJSONFlag = cli.BoolFlag{
		Name:  "log.dir.json",
		Usage: "Format file logs with JSON",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "eofparse"
	app.Usage = "Validate EOF containers"
	app.Version = Version
	app.UsageText = app.Name + ` [flags] < containers.txt`
	app.Flags = []cli.Flag{
		&FileFlag,
		&ChainFlag,
		&ConfigFlag,
		&MagicFlag,
		&BlockFlag,
		&EipsFlag,
		&DeployFlag,
		&JumpDestsFlag,
		&WorkersFlag,
		&VerbosityFlag,
		&LogJSONFlag,
		&LogDirPathFlag,
		&LogDirVerbosityFlag,
		&LogDirJSONFlag,
	}
	app.Action = parse
	return app
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
