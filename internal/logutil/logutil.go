// Package logutil configures the process-wide structured logger.
package logutil

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init routes the default slog logger to a size-rotated log file.
func Init(logFile string, debug bool) {
	w := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	slog.SetDefault(slog.New(h))
}
