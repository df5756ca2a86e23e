/*
NAME
  logger.go

DESCRIPTION
  logger.go wires the ambient logging stack: a rotating lumberjack file
  sink feeding ausocean/utils/logging's leveled Logger, the same
  construction cmd/rv/main.go uses for revid.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package stabilizer

import (
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging defaults, mirroring cmd/rv/main.go's.
const (
	defaultLogPath      = "/var/log/obs-stabilizer/stabilizer.log"
	defaultLogMaxSize   = 100 // MB
	defaultLogMaxBackup = 5
	defaultLogMaxAge    = 28 // days
)

// NewLogger returns a logging.Logger that writes at verbosity level to a
// lumberjack-rotated file at path. A blank path uses defaultLogPath.
func NewLogger(path string, verbosity int8) logging.Logger {
	if path == "" {
		path = defaultLogPath
	}
	fileLog := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    defaultLogMaxSize,
		MaxBackups: defaultLogMaxBackup,
		MaxAge:     defaultLogMaxAge,
	}
	return logging.New(verbosity, fileLog, false)
}
