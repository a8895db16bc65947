// Package slog provides logging decorators for html2md services.
//
// Each decorator emits one record per call carrying the call's key inputs,
// its outcome and its duration.
package slog

import "log/slog"

// outcome is the record level for a call that returned err.
func outcome(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
