// Package obslog builds the structured logger each worker process owns:
// same JSON-to-daily-file handler, the same best-effort retention sweep,
// the same discard-everything default as this module's other logging —
// but no package-level *slog.Logger global. Every other stateful package
// here has each worker process construct its own Registry, Visitor, and
// chunk store rather than share mutable package state; a shared global
// logger would be the one place that discipline quietly broke, so New
// returns a logger the caller owns and threads through explicitly
// instead.
package obslog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logPrefix     = "autarkie-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures a worker's logger.
type Options struct {
	// Enabled, if false, discards all output — New never touches disk.
	Enabled bool
	// LogDir is the directory log files are written under, normally
	// <out>/<worker-id>/logs per §6's directory layout.
	LogDir string
	// Level is the minimum level logged. Zero value is slog.LevelInfo.
	Level slog.Level
	// WorkerID, if non-empty, is attached to every record so a merged
	// multi-worker log stream can be split back apart per worker.
	WorkerID string
}

// New builds a logger per opts. When disabled it returns a logger whose
// handler discards everything, so logging stays off by default without
// a package-level var to hold that state.
func New(opts Options) (*slog.Logger, error) {
	if !opts.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return nil, err
	}

	cleanOldLogs(opts.LogDir)

	filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	if opts.WorkerID != "" {
		logger = logger.With("worker", opts.WorkerID)
	}
	return logger, nil
}

// cleanOldLogs removes log files older than retentionDays, best-effort —
// a failed sweep (unreadable directory, one unparsable filename) never
// blocks logger construction.
func cleanOldLogs(logDir string) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}
