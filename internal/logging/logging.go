// Package logging builds the session's slog logger on top of a size-rotated
// log file. The UI owns the terminal, so records never go to stdout/stderr.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/1broseidon/tilemux/internal/config"
)

// ParseLevel converts a config level name to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a text logger writing to the configured rotating file. When
// logging is disabled the logger discards everything. The closer must be
// closed on shutdown.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	if !cfg.Enabled {
		return Discard(), nopCloser{}, nil
	}

	f, err := OpenRotatingFile(cfg.File, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
	return logger, f, nil
}

// RotatingFile is an io.WriteCloser that rotates the underlying file once
// it grows past the size limit: file -> file.1 -> file.2 ... file.N.
type RotatingFile struct {
	mu          sync.Mutex
	file        *os.File
	path        string
	maxBytes    int64
	maxFiles    int
	currentSize int64
}

// OpenRotatingFile opens (or creates) path for appending.
func OpenRotatingFile(path string, maxSizeMB, maxFiles int) (*RotatingFile, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	// Open or create log file with secure permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &RotatingFile{
		file:        f,
		path:        path,
		maxBytes:    int64(maxSizeMB) * 1024 * 1024,
		maxFiles:    maxFiles,
		currentSize: stat.Size(),
	}, nil
}

// Write appends p, rotating first if the file is already at the limit.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}

	// A failed rotation keeps appending to the current file.
	if r.maxBytes > 0 && r.currentSize >= r.maxBytes {
		if err := r.rotate(); err != nil && r.file == nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

// Close closes the current file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *RotatingFile) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	// With maxFiles=3 we keep .1, .2, .3
	for i := r.maxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.path, i)
		if i == r.maxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", r.path, i+1))
	}

	if r.maxFiles > 0 {
		if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
			return errors.Join(fmt.Errorf("failed to rotate log file: %w", err), r.reopen())
		}
	} else if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Join(fmt.Errorf("failed to truncate log file: %w", err), r.reopen())
	}

	return r.reopen()
}

// reopen opens r.path for appending and picks up its current size.
func (r *RotatingFile) reopen() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	var size int64
	if stat, err := f.Stat(); err == nil {
		size = stat.Size()
	}
	r.file = f
	r.currentSize = size
	return nil
}
