// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fbcapture

import (
	"log/slog"

	"github.com/gogpu/fbcapture/capture"
	"github.com/gogpu/fbcapture/internal/logging"
)

var logger logging.Slot

// SetLogger configures the logger for fbcapture and the capture package.
// By default nothing is logged. Pass nil to restore the silent default.
// The wgpu backend has its own SetLogger.
//
// SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: per-capture details (paths, byte counts)
//   - [slog.LevelInfo]: lifecycle events (target initialized, closed)
//   - [slog.LevelWarn]: non-fatal issues (resource release errors)
//
// Example:
//
//	fbcapture.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	capture.SetLogger(l)
}

// Logger returns the current logger used by fbcapture.
func Logger() *slog.Logger {
	return logger.Load()
}
