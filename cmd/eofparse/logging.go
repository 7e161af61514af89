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
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogger logs to the app's error writer and, when a log dir is given,
// additionally to a rotated file in that dir.
func setupLogger(cliCtx *cli.Context) (log.Logger, error) {
	consoleLevel, err := tryGetLogLevel(cliCtx.String(VerbosityFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", VerbosityFlag.Name, err)
	}
	consoleFormat := log.TerminalFormatNoColor()
	if cliCtx.Bool(LogJSONFlag.Name) {
		consoleFormat = log.JsonFormat()
	}
	logger := log.New()
	console := log.LvlFilterHandler(consoleLevel, log.StreamHandler(cliCtx.App.ErrWriter, consoleFormat))
	logger.SetHandler(console)

	dirPath := cliCtx.String(LogDirPathFlag.Name)
	if dirPath == "" {
		return logger, nil
	}
	dirLevel, err := tryGetLogLevel(cliCtx.String(LogDirVerbosityFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", LogDirVerbosityFlag.Name, err)
	}
	if err := os.MkdirAll(dirPath, 0764); err != nil {
		logger.Warn("failed to create log dir, console logging only", "err", err)
		return logger, nil
	}
	dirFormat := log.TerminalFormatNoColor()
	if cliCtx.Bool(LogDirJSONFlag.Name) {
		dirFormat = log.JsonFormat()
	}
	lumberjack := &lumberjack.Logger{
		Filename:   filepath.Join(dirPath, cliCtx.App.Name+".log"),
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, //days
	}
	userLog := log.StreamHandler(lumberjack, dirFormat)
	logger.SetHandler(log.MultiHandler(console, log.LvlFilterHandler(dirLevel, userLog)))
	logger.Debug("logging to file system", "log dir", dirPath, "log level", dirLevel, "json", cliCtx.Bool(LogDirJSONFlag.Name))
	return logger, nil
}

func tryGetLogLevel(s string) (log.Lvl, error) {
	lvl, err := log.LvlFromString(s)
	if err != nil {
		l, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return log.Lvl(l), nil
	}
	return lvl, nil
}
