// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/custodyvm/config"
)

const logPrefix = "custodyvm"

// newLogger writes colored text to stdout and, when a log file is
// configured, rotated JSON to disk.
func newLogger(cfg *config.Config) logging.Logger {
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.LogLevel, os.Stdout, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.LogFile) > 0 {
		file := cfg.LogFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(cfg.DataDir, file)
		}
		cores = append(cores, logging.NewWrappedCore(
			cfg.LogLevel,
			&lumberjack.Logger{
				Filename:   file,
				MaxSize:    cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxFiles,
				Compress:   true,
			},
			logging.JSON.FileEncoder(),
		))
	}
	return logging.NewLogger(logPrefix, cores...)
}
